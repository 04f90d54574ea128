package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrHabitsNotObject is returned when a habit payload is not a JSON object.
var ErrHabitsNotObject = errors.New("habits must be a JSON object")

// ApprovalStatus is the state of one validation track. NULL in storage maps to ApprovalUnset.
type ApprovalStatus string

const (
	ApprovalUnset    ApprovalStatus = "unset"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Value stores unset as NULL.
func (s ApprovalStatus) Value() (driver.Value, error) {
	if s == "" || s == ApprovalUnset {
		return nil, nil
	}
	return string(s), nil
}

// Scan reads NULL as unset.
func (s *ApprovalStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = ApprovalUnset
	case []byte:
		*s = ApprovalStatus(v)
	case string:
		*s = ApprovalStatus(v)
	default:
		return fmt.Errorf("unsupported type %T for ApprovalStatus", value)
	}
	return nil
}

// CanTransition reports whether a track may move from s to next. Tracks never return to unset
// and approval is never a terminal lock.
func (s ApprovalStatus) CanTransition(next ApprovalStatus) bool {
	switch next {
	case ApprovalApproved, ApprovalRejected:
	default:
		return false
	}
	switch s {
	case "", ApprovalUnset, ApprovalRejected, ApprovalApproved:
		return true
	default:
		return false
	}
}

// ActorRole identifies which validation track an actor owns.
type ActorRole string

const (
	ActorParent  ActorRole = "parent"
	ActorTeacher ActorRole = "teacher"
)

// Approval is one independent validation track of an entry.
type Approval struct {
	Status      ApprovalStatus `db:"status" json:"status"`
	Note        *string        `db:"note" json:"note,omitempty"`
	ValidatedAt *time.Time     `db:"validated_at" json:"validated_at,omitempty"`
}

// Habits is the daily habit payload persisted as JSONB.
type Habits struct {
	WakeTime        string   `json:"wake_time,omitempty" validate:"omitempty,datetime=15:04"`
	SleepTime       string   `json:"sleep_time,omitempty" validate:"omitempty,datetime=15:04"`
	WorshipList     []string `json:"worship_list,omitempty" validate:"omitempty,max=10,dive,required,max=64"`
	WorshipNote     string   `json:"worship_note,omitempty" validate:"max=500"`
	SportType       string   `json:"sport_type,omitempty" validate:"max=100"`
	SportDetail     string   `json:"sport_detail,omitempty" validate:"max=500"`
	HealthyMeal     string   `json:"healthy_meal,omitempty" validate:"max=500"`
	StudySubject    string   `json:"study_subject,omitempty" validate:"max=200"`
	Extracurricular string   `json:"extracurricular,omitempty" validate:"max=200"`
	SocialAction    string   `json:"social_action,omitempty" validate:"max=200"`
}

// ParseHabits decodes a raw habit payload, rejecting anything that is not a JSON object
// or carries values of the wrong type.
func ParseHabits(raw []byte) (Habits, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Habits{}, ErrHabitsNotObject
	}
	var h Habits
	if err := json.Unmarshal(trimmed, &h); err != nil {
		return Habits{}, fmt.Errorf("decode habits: %w", err)
	}
	return h, nil
}

// Value marshals habits to JSON for persistence.
func (h Habits) Value() (driver.Value, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("marshal habits: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSONB payloads into habits.
func (h *Habits) Scan(value interface{}) error {
	if value == nil {
		*h = Habits{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for Habits", value)
	}
	if len(data) == 0 {
		*h = Habits{}
		return nil
	}
	if err := json.Unmarshal(data, h); err != nil {
		return fmt.Errorf("unmarshal habits: %w", err)
	}
	return nil
}

// JournalEntry is one student's habit log for a calendar day.
type JournalEntry struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Date      time.Time `db:"date" json:"date"`
	Habits    Habits    `db:"habits" json:"habits"`
	PhotoRef  *string   `db:"photo_ref" json:"-"`
	PhotoURL  string    `db:"-" json:"photo_url,omitempty"`
	Parent    Approval  `db:"parent" json:"parent"`
	Teacher   Approval  `db:"teacher" json:"teacher"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayState is the derived, never stored, presentation state of a student's day.
type DisplayState string

const (
	DisplayTeacherApproved DisplayState = "teacher-approved"
	DisplayParentApproved  DisplayState = "parent-approved"
	DisplayFilledPending   DisplayState = "filled-pending"
	DisplayEmpty           DisplayState = "empty"
)

// DisplayStateOf derives the display state of an entry. A nil entry is an empty day.
func DisplayStateOf(entry *JournalEntry) DisplayState {
	if entry == nil {
		return DisplayEmpty
	}
	return DisplayStateFor(entry.Parent.Status, entry.Teacher.Status, true)
}

// DisplayStateFor derives the display state from raw track values, for projections that do not load a full entry.
func DisplayStateFor(parent, teacher ApprovalStatus, exists bool) DisplayState {
	switch {
	case !exists:
		return DisplayEmpty
	case teacher == ApprovalApproved:
		return DisplayTeacherApproved
	case parent == ApprovalApproved:
		return DisplayParentApproved
	default:
		return DisplayFilledPending
	}
}

// SubmitEntryParams carries a student's daily submission into the store.
type SubmitEntryParams struct {
	StudentID string
	Date      time.Time
	Habits    Habits
	PhotoRef  *string
}

// ValidateEntryParams carries one already-scoped validation decision.
type ValidateEntryParams struct {
	EntryID string
	Actor   ActorRole
	Status  ApprovalStatus
	Note    *string
	At      time.Time
}

// ClassDayRow is one roster row joined with the entry for a date, if any.
type ClassDayRow struct {
	Student      StudentSummary `json:"student"`
	Entry        *JournalEntry  `json:"entry"`
	DisplayState DisplayState   `json:"display_state"`
}
