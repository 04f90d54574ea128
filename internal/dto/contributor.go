package dto

// CreateRecordRequest issues a point record for a student.
type CreateRecordRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=achievement violation extracurricular"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Points      int    `json:"points" validate:"min=-1000,max=1000"`
}

// StudentSearchQuery filters the student directory.
type StudentSearchQuery struct {
	Query     string `form:"query"`
	ClassName string `form:"kelas"`
}

// StrategyRequest asks for a coaching strategy for a student on a date.
type StrategyRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// StrategyResponse wraps generated guidance.
type StrategyResponse struct {
	Strategy string `json:"strategy"`
}
