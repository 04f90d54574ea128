package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/kokurikuler-api/internal/models"
)

const userColumns = `id, full_name, student_number, role, class_name, phone, xp, created_at, updated_at`

// UserRepository reads the user directory maintained by the identity provider.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindStudentByNumber retrieves a student by their school identifier.
func (r *UserRepository) FindStudentByNumber(ctx context.Context, number string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE student_number = $1 AND role = 'STUDENT'`
	if err := r.db.GetContext(ctx, &user, query, number); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by number: %w", err)
	}
	return &user, nil
}

// CountStudentsInClass returns the enrolment of a class.
func (r *UserRepository) CountStudentsInClass(ctx context.Context, className string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users WHERE class_name = $1 AND role = 'STUDENT'`, className); err != nil {
		return 0, fmt.Errorf("count class students: %w", err)
	}
	return total, nil
}

// ListStudentsInClass returns the class roster ordered by name.
func (r *UserRepository) ListStudentsInClass(ctx context.Context, className string) ([]models.StudentSummary, error) {
	const query = `SELECT id, full_name, student_number, class_name FROM users
WHERE class_name = $1 AND role = 'STUDENT'
ORDER BY full_name ASC`
	students := make([]models.StudentSummary, 0)
	if err := r.db.SelectContext(ctx, &students, query, className); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return students, nil
}

// SearchStudents matches students by name or number, optionally within a class.
func (r *UserRepository) SearchStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	var (
		conditions = []string{"role = 'STUDENT'"}
		args       []interface{}
	)
	if filter.ClassName != "" {
		args = append(args, filter.ClassName)
		conditions = append(conditions, fmt.Sprintf("class_name = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR student_number ILIKE $%d)", len(args), len(args)))
	}
	limit := filter.Limit
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT id, full_name, student_number, class_name FROM users WHERE %s ORDER BY full_name ASC LIMIT $%d`,
		strings.Join(conditions, " AND "), len(args))

	students := make([]models.StudentSummary, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}
