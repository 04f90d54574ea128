package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/kokurikuler-api/internal/models"
)

// ParentLinkRepository persists parent to child links.
type ParentLinkRepository struct {
	db *sqlx.DB
}

// NewParentLinkRepository constructs the repository.
func NewParentLinkRepository(db *sqlx.DB) *ParentLinkRepository {
	return &ParentLinkRepository{db: db}
}

// Link connects a parent to a student. Linking an existing pair is a no-op.
func (r *ParentLinkRepository) Link(ctx context.Context, parentID, studentID string) error {
	const query = `INSERT INTO parent_child_links (id, parent_id, student_id)
VALUES ($1, $2, $3)
ON CONFLICT ON CONSTRAINT parent_child_links_pair_key DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), parentID, studentID); err != nil {
		return fmt.Errorf("link parent to student: %w", err)
	}
	return nil
}

// IsLinked reports whether the parent is linked to the student.
func (r *ParentLinkRepository) IsLinked(ctx context.Context, parentID, studentID string) (bool, error) {
	var linked bool
	const query = `SELECT EXISTS(SELECT 1 FROM parent_child_links WHERE parent_id = $1 AND student_id = $2)`
	if err := r.db.GetContext(ctx, &linked, query, parentID, studentID); err != nil {
		return false, fmt.Errorf("check parent link: %w", err)
	}
	return linked, nil
}

// ListChildren returns the students linked to a parent ordered by name.
func (r *ParentLinkRepository) ListChildren(ctx context.Context, parentID string) ([]models.User, error) {
	const query = `
SELECT u.id, u.full_name, u.student_number, u.role, u.class_name, u.phone, u.xp, u.created_at, u.updated_at
FROM parent_child_links l
JOIN users u ON u.id = l.student_id
WHERE l.parent_id = $1
ORDER BY u.full_name ASC`
	children := make([]models.User, 0)
	if err := r.db.SelectContext(ctx, &children, query, parentID); err != nil {
		return nil, fmt.Errorf("list linked children: %w", err)
	}
	return children, nil
}

// ParentsOf returns the contacts of every parent linked to a student.
func (r *ParentLinkRepository) ParentsOf(ctx context.Context, studentID string) ([]models.Contact, error) {
	const query = `
SELECT u.id, u.full_name, u.phone
FROM parent_child_links l
JOIN users u ON u.id = l.parent_id
WHERE l.student_id = $1`
	parents := make([]models.Contact, 0)
	if err := r.db.SelectContext(ctx, &parents, query, studentID); err != nil {
		return nil, fmt.Errorf("list student parents: %w", err)
	}
	return parents, nil
}
