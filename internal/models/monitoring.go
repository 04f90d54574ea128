package models

import "time"

// HeatLevel buckets a day's fill ratio.
type HeatLevel string

const (
	HeatHigh HeatLevel = "high"
	HeatMed  HeatLevel = "med"
	HeatLow  HeatLevel = "low"
)

// HeatLevelFor buckets filled/enrolled. Callers must not pass enrolled <= 0.
func HeatLevelFor(filled, enrolled int) HeatLevel {
	ratio := float64(filled) / float64(enrolled)
	switch {
	case ratio > 0.75:
		return HeatHigh
	case ratio > 0.40:
		return HeatMed
	default:
		return HeatLow
	}
}

// DailyFillCount is the number of distinct students with an entry on a date.
type DailyFillCount struct {
	Date   time.Time `db:"date"`
	Filled int       `db:"filled"`
}

// Heatmap maps ISO dates to levels for one class and month. Dates without entries are absent.
type Heatmap struct {
	ClassName     string               `json:"class_name"`
	Year          int                  `json:"year"`
	Month         int                  `json:"month"`
	TotalStudents int                  `json:"total_students"`
	DailyStats    map[string]HeatLevel `json:"daily_stats"`
}

// DailyStatusRow is a roster row with the raw track states for a date.
type DailyStatusRow struct {
	StudentID     string         `db:"student_id" json:"student_id"`
	FullName      string         `db:"full_name" json:"name"`
	EntryID       *string        `db:"entry_id" json:"entry_id,omitempty"`
	ParentStatus  ApprovalStatus `db:"parent_status" json:"parent_status"`
	TeacherStatus ApprovalStatus `db:"teacher_status" json:"teacher_status"`
	DisplayState  DisplayState   `db:"-" json:"display_state"`
}

// PreviewCell is one student's state on one date of a range.
type PreviewCell struct {
	Date         string       `json:"date"`
	EntryID      string       `json:"entry_id"`
	DisplayState DisplayState `json:"display_state"`
}

// PreviewRow is one student's line of the homeroom matrix.
type PreviewRow struct {
	Student     StudentSummary `json:"student"`
	Days        []PreviewCell  `json:"days"`
	TotalFilled int            `json:"total_filled"`
}

// EntryStatus is the minimal entry projection used by range aggregations.
type EntryStatus struct {
	ID            string         `db:"id"`
	StudentID     string         `db:"student_id"`
	Date          time.Time      `db:"date"`
	ParentStatus  ApprovalStatus `db:"parent_status"`
	TeacherStatus ApprovalStatus `db:"teacher_status"`
}
