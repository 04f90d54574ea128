package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin       UserRole = "ADMIN"
	RoleTeacher     UserRole = "TEACHER"
	RoleStudent     UserRole = "STUDENT"
	RoleParent      UserRole = "PARENT"
	RoleContributor UserRole = "CONTRIBUTOR"
)

// User represents an application user stored in the users table.
type User struct {
	ID            string    `db:"id" json:"id"`
	FullName      string    `db:"full_name" json:"full_name"`
	StudentNumber *string   `db:"student_number" json:"student_number,omitempty"`
	Role          UserRole  `db:"role" json:"role"`
	ClassName     *string   `db:"class_name" json:"class_name,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	XP            int       `db:"xp" json:"xp"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentSummary is the compact student projection used by rosters and search.
type StudentSummary struct {
	ID            string  `db:"id" json:"id"`
	FullName      string  `db:"full_name" json:"full_name"`
	StudentNumber *string `db:"student_number" json:"student_number,omitempty"`
	ClassName     *string `db:"class_name" json:"class_name,omitempty"`
}

// StudentFilter captures search criteria for students.
type StudentFilter struct {
	ClassName string
	Search    string
	Limit     int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
