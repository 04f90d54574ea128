package models

import "time"

// MissionTarget selects who a mission is addressed to.
type MissionTarget string

const (
	MissionTargetClass      MissionTarget = "class"
	MissionTargetIndividual MissionTarget = "individual"
)

// Mission is a character task assigned to a class or a single student.
type Mission struct {
	ID            string        `db:"id" json:"id"`
	AuthorID      string        `db:"author_id" json:"author_id"`
	AuthorName    *string       `db:"author_name" json:"author_name,omitempty"`
	TargetType    MissionTarget `db:"target_type" json:"target_type"`
	TargetID      string        `db:"target_id" json:"target_id"`
	HabitCategory string        `db:"habit_category" json:"habit_category"`
	Title         string        `db:"title" json:"title"`
	Body          string        `db:"body" json:"body"`
	AssignedDate  time.Time     `db:"assigned_date" json:"assigned_date"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// MissionCompletion records that a student finished a mission. At most one per (mission, student).
type MissionCompletion struct {
	ID             string    `db:"id" json:"id"`
	MissionID      string    `db:"mission_id" json:"mission_id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	ReflectionText string    `db:"reflection_text" json:"reflection_text"`
	CompletedAt    time.Time `db:"completed_at" json:"completed_at"`

	StudentName *string `db:"student_name" json:"student_name,omitempty"`
	ClassName   *string `db:"class_name" json:"class_name,omitempty"`
}

// CompleteMissionResult is returned to the student after a successful completion.
type CompleteMissionResult struct {
	MissionID string `json:"mission_id"`
	XPAwarded int    `json:"xp_awarded"`
	TotalXP   int    `json:"total_xp"`
	Level     int    `json:"level"`
	Title     string `json:"title"`
}

// XPPerLevel is the experience needed to advance one level.
const XPPerLevel = 500

// LevelForXP derives the level from cumulative experience.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// TitleForLevel maps a level to its rank name.
func TitleForLevel(level int) string {
	switch {
	case level >= 50:
		return "Legend"
	case level >= 20:
		return "Champion"
	case level >= 10:
		return "Warrior"
	case level >= 5:
		return "Apprentice"
	default:
		return "Novice"
	}
}

// Progress is the read-side gamification view of a student.
type Progress struct {
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
	Title       string `json:"title"`
	LevelXP     int    `json:"level_xp"`
	NextLevelXP int    `json:"next_level_xp"`
}

// ProgressForXP computes level, title and position within the current level.
func ProgressForXP(xp int) Progress {
	level := LevelForXP(xp)
	floor := (level - 1) * XPPerLevel
	return Progress{
		XP:          xp,
		Level:       level,
		Title:       TitleForLevel(level),
		LevelXP:     xp - floor,
		NextLevelXP: floor + XPPerLevel,
	}
}
