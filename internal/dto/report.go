package dto

import "github.com/noah-isme/kokurikuler-api/internal/models"

// ReportRequest selects a student and date range for a character report.
type ReportRequest struct {
	StudentID string `json:"student_id" form:"student_id" validate:"required"`
	StartDate string `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" form:"end_date" validate:"required,datetime=2006-01-02"`
}

// StudentReport is the data behind a student's character report.
type StudentReport struct {
	Student   models.StudentSummary    `json:"student"`
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Entries   []models.JournalEntry    `json:"entries"`
	Records   []models.CharacterRecord `json:"records"`
	Profiles  models.ProfileScores     `json:"profiles"`
	Points    models.PointTotals       `json:"points"`
	Progress  models.Progress          `json:"progress"`
	Narrative string                   `json:"ai_narrative"`
}
