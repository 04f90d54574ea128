package models

import "time"

// ParentChildLink scopes which students a parent may view and validate.
type ParentChildLink struct {
	ID        string    `db:"id" json:"id"`
	ParentID  string    `db:"parent_id" json:"parent_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Contact is a notification recipient.
type Contact struct {
	ID       string  `db:"id" json:"id"`
	FullName string  `db:"full_name" json:"full_name"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
}

// ChildOverview is a linked child with today's journal state.
type ChildOverview struct {
	Student      StudentSummary `json:"student"`
	Phone        *string        `json:"phone,omitempty"`
	Today        *JournalEntry  `json:"today"`
	DisplayState DisplayState   `json:"display_state"`
}

// ChildStats summarises a child's record for the parent view.
type ChildStats struct {
	TotalEntries   int    `json:"total_entries"`
	PositivePoints int    `json:"positive_points"`
	NegativePoints int    `json:"negative_points"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	Title          string `json:"title"`
}

// ChildProfile is the parent's detailed view of one linked child.
type ChildProfile struct {
	Student StudentSummary    `json:"student"`
	Entries []JournalEntry    `json:"entries"`
	Records []CharacterRecord `json:"records"`
	Stats   ChildStats        `json:"stats"`
}
