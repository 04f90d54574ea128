package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/kokurikuler-api/internal/models"
)

const missionColumns = `m.id, m.author_id, a.full_name AS author_name, m.target_type, m.target_id, m.habit_category,
	m.title, m.body, m.assigned_date, m.created_at`

// CompleteMissionParams holds the values recorded for one completion.
type CompleteMissionParams struct {
	MissionID  string
	StudentID  string
	ClassName  string
	Reflection string
	XPReward   int
}

// CompletionOutcome describes what a committed completion changed.
type CompletionOutcome struct {
	MissionTitle string
	TotalXP      int
}

// MissionRepository persists missions and their completions.
type MissionRepository struct {
	db *sqlx.DB
}

// NewMissionRepository constructs the repository.
func NewMissionRepository(db *sqlx.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// Create inserts a mission.
func (r *MissionRepository) Create(ctx context.Context, mission *models.Mission) error {
	if mission.ID == "" {
		mission.ID = uuid.NewString()
	}
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO character_missions (id, author_id, target_type, target_id, habit_category, title, body, assigned_date, created_at)
VALUES (:id, :author_id, :target_type, :target_id, :habit_category, :title, :body, :assigned_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mission); err != nil {
		return fmt.Errorf("insert mission: %w", err)
	}
	return nil
}

// FindByID loads a mission.
func (r *MissionRepository) FindByID(ctx context.Context, id string) (*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM character_missions m JOIN users a ON a.id = m.author_id WHERE m.id = $1`
	var mission models.Mission
	if err := r.db.GetContext(ctx, &mission, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get mission: %w", err)
	}
	return &mission, nil
}

// ListVisible returns missions addressed to the student's class or to the student, minus completed ones,
// most recently assigned first.
func (r *MissionRepository) ListVisible(ctx context.Context, studentID, className string) ([]models.Mission, error) {
	query := `SELECT ` + missionColumns + `
FROM character_missions m
JOIN users a ON a.id = m.author_id
WHERE ((m.target_type = 'class' AND m.target_id = $1) OR (m.target_type = 'individual' AND m.target_id = $2))
	AND NOT EXISTS (SELECT 1 FROM mission_completions c WHERE c.mission_id = m.id AND c.student_id = $2)
ORDER BY m.assigned_date DESC, m.created_at DESC`
	missions := make([]models.Mission, 0)
	if err := r.db.SelectContext(ctx, &missions, query, className, studentID); err != nil {
		return nil, fmt.Errorf("list visible missions: %w", err)
	}
	return missions, nil
}

// Complete records a completion and awards XP in one transaction. It returns sql.ErrNoRows when the
// mission is not addressed to the student, and the unique violation of
// mission_completions_mission_student_key when the pair was already recorded.
func (r *MissionRepository) Complete(ctx context.Context, params CompleteMissionParams) (outcome *CompletionOutcome, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin mission completion: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var title string
	const targetQuery = `SELECT title FROM character_missions
WHERE id = $1 AND ((target_type = 'class' AND target_id = $2) OR (target_type = 'individual' AND target_id = $3))`
	if err = tx.GetContext(ctx, &title, targetQuery, params.MissionID, params.ClassName, params.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("load mission for completion: %w", err)
	}

	const insertQuery = `INSERT INTO mission_completions (id, mission_id, student_id, reflection_text, completed_at)
VALUES ($1, $2, $3, $4, $5)`
	if _, err = tx.ExecContext(ctx, insertQuery, uuid.NewString(), params.MissionID, params.StudentID, params.Reflection, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("insert mission completion: %w", err)
	}

	var total int
	const xpQuery = `UPDATE users SET xp = xp + $1, updated_at = now() WHERE id = $2 RETURNING xp`
	if err = tx.GetContext(ctx, &total, xpQuery, params.XPReward, params.StudentID); err != nil {
		return nil, fmt.Errorf("award mission xp: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mission completion: %w", err)
	}
	return &CompletionOutcome{MissionTitle: title, TotalXP: total}, nil
}

// ListCompletions returns a mission's completions newest first with student details.
func (r *MissionRepository) ListCompletions(ctx context.Context, missionID string) ([]models.MissionCompletion, error) {
	const query = `
SELECT c.id, c.mission_id, c.student_id, c.reflection_text, c.completed_at, u.full_name AS student_name, u.class_name
FROM mission_completions c
JOIN users u ON u.id = c.student_id
WHERE c.mission_id = $1
ORDER BY c.completed_at DESC`
	completions := make([]models.MissionCompletion, 0)
	if err := r.db.SelectContext(ctx, &completions, query, missionID); err != nil {
		return nil, fmt.Errorf("list mission completions: %w", err)
	}
	return completions, nil
}
