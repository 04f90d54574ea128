package models

import "time"

// RecordCategory classifies a contributor-issued point record.
type RecordCategory string

const (
	RecordAchievement     RecordCategory = "achievement"
	RecordViolation       RecordCategory = "violation"
	RecordExtracurricular RecordCategory = "extracurricular"
)

// Valid reports whether c is a known category.
func (c RecordCategory) Valid() bool {
	switch c {
	case RecordAchievement, RecordViolation, RecordExtracurricular:
		return true
	}
	return false
}

// NormalizePoints applies the sign convention: violations are always stored as the negative magnitude.
func NormalizePoints(category RecordCategory, points int) int {
	if category == RecordViolation && points > 0 {
		return -points
	}
	return points
}

// CharacterRecord is an immutable point entry issued by a contributor.
type CharacterRecord struct {
	ID          string         `db:"id" json:"id"`
	StudentID   string         `db:"student_id" json:"student_id"`
	AuthorID    string         `db:"author_id" json:"author_id"`
	Category    RecordCategory `db:"category" json:"category"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Points      int            `db:"points" json:"points"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`

	StudentName *string `db:"student_name" json:"student_name,omitempty"`
	ClassName   *string `db:"class_name" json:"class_name,omitempty"`
	AuthorName  *string `db:"author_name" json:"author_name,omitempty"`
	AuthorRole  *string `db:"author_role" json:"author_role,omitempty"`
}

// PointTotals aggregates a student's records.
type PointTotals struct {
	Positive int `json:"positive_points"`
	Negative int `json:"negative_points"`
}

// TotalPoints sums positive points and absolute negative points.
func TotalPoints(records []CharacterRecord) PointTotals {
	var totals PointTotals
	for _, r := range records {
		switch {
		case r.Points > 0:
			totals.Positive += r.Points
		case r.Points < 0:
			totals.Negative += -r.Points
		}
	}
	return totals
}
