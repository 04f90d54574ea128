package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/kokurikuler-api/internal/models"
)

// CharacterRecordRepository persists contributor point records.
type CharacterRecordRepository struct {
	db *sqlx.DB
}

// NewCharacterRecordRepository constructs the repository.
func NewCharacterRecordRepository(db *sqlx.DB) *CharacterRecordRepository {
	return &CharacterRecordRepository{db: db}
}

// Create inserts a record as given; sign normalisation belongs to the caller.
func (r *CharacterRecordRepository) Create(ctx context.Context, record *models.CharacterRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO character_records (id, student_id, author_id, category, title, description, points, created_at)
VALUES (:id, :student_id, :author_id, :category, :title, :description, :points, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert character record: %w", err)
	}
	return nil
}

// ListByStudent returns a student's records newest first with author details.
func (r *CharacterRecordRepository) ListByStudent(ctx context.Context, studentID string) ([]models.CharacterRecord, error) {
	const query = `
SELECT c.id, c.student_id, c.author_id, c.category, c.title, c.description, c.points, c.created_at,
	a.full_name AS author_name, a.role AS author_role
FROM character_records c
JOIN users a ON a.id = c.author_id
WHERE c.student_id = $1
ORDER BY c.created_at DESC`
	records := make([]models.CharacterRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list student records: %w", err)
	}
	return records, nil
}

// ListByAuthor returns the latest records written by a contributor.
func (r *CharacterRecordRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.CharacterRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
SELECT c.id, c.student_id, c.author_id, c.category, c.title, c.description, c.points, c.created_at,
	s.full_name AS student_name, s.class_name
FROM character_records c
JOIN users s ON s.id = c.student_id
WHERE c.author_id = $1
ORDER BY c.created_at DESC
LIMIT $2`
	records := make([]models.CharacterRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, authorID, limit); err != nil {
		return nil, fmt.Errorf("list author records: %w", err)
	}
	return records, nil
}
