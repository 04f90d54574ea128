package dto

// CreateMissionRequest distributes a character task.
type CreateMissionRequest struct {
	TargetType    string `json:"target_type" validate:"required,oneof=class individual"`
	TargetID      string `json:"target_id" validate:"required"`
	HabitCategory string `json:"habit_category" validate:"max=100"`
	Title         string `json:"title" validate:"required,max=200"`
	Body          string `json:"body" validate:"max=5000"`
	AssignedDate  string `json:"assigned_date" validate:"omitempty,datetime=2006-01-02"`
}

// CompleteMissionRequest is a student's completion with reflection.
type CompleteMissionRequest struct {
	MissionID  string `json:"mission_id" validate:"required"`
	Reflection string `json:"reflection" validate:"max=2000"`
}
