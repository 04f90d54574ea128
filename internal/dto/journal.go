package dto

import (
	"encoding/json"
	"io"
)

// SubmitJournalRequest is a student's daily submission. Photo is optional.
type SubmitJournalRequest struct {
	Date   string          `validate:"required,datetime=2006-01-02"`
	Habits json.RawMessage `validate:"required"`
	Photo  io.Reader       `validate:"-"`
}

// SubmitJournalResult identifies the stored entry.
type SubmitJournalResult struct {
	EntryID string `json:"entry_id"`
	Created bool   `json:"created"`
}

// ValidateJournalRequest applies one validation track. ActorRole, when given, must match the caller.
type ValidateJournalRequest struct {
	EntryID   string  `json:"entry_id" validate:"required"`
	Status    string  `json:"status" validate:"required,oneof=approved rejected"`
	Note      *string `json:"note" validate:"omitempty,max=500"`
	ActorRole string  `json:"actor_role" validate:"omitempty,oneof=parent teacher"`
}

// ClassDayQuery selects a class roster for one date.
type ClassDayQuery struct {
	ClassName string `form:"kelas"`
	Date      string `form:"tanggal" validate:"required,datetime=2006-01-02"`
}
