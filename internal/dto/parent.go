package dto

// LinkChildRequest connects the caller to a student by school number.
type LinkChildRequest struct {
	StudentNumber string `json:"student_number" validate:"required,max=50"`
}

// RemindChildRequest asks for a reminder to be sent to a linked child.
type RemindChildRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}
