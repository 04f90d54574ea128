package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/kokurikuler-api/internal/models"
)

const journalColumns = `j.id, j.student_id, j.date, j.habits, j.photo_ref,
	j.parent_status AS "parent.status", j.parent_note AS "parent.note", j.parent_validated_at AS "parent.validated_at",
	j.teacher_status AS "teacher.status", j.teacher_note AS "teacher.note", j.teacher_validated_at AS "teacher.validated_at",
	j.created_at, j.updated_at`

// approvalColumns whitelists the columns owned by each validation track.
var approvalColumns = map[models.ActorRole][3]string{
	models.ActorParent:  {"parent_status", "parent_note", "parent_validated_at"},
	models.ActorTeacher: {"teacher_status", "teacher_note", "teacher_validated_at"},
}

// JournalRepository persists daily journal entries.
type JournalRepository struct {
	db *sqlx.DB
}

// NewJournalRepository constructs the repository.
func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Upsert inserts or updates the entry keyed by (student_id, date) in one statement.
// Approval tracks are never touched and an absent photo keeps the stored one.
func (r *JournalRepository) Upsert(ctx context.Context, params models.SubmitEntryParams) (id string, created bool, err error) {
	const query = `
INSERT INTO journal_entries (id, student_id, date, habits, photo_ref, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT ON CONSTRAINT journal_entries_student_date_key DO UPDATE SET
	habits = EXCLUDED.habits,
	photo_ref = COALESCE(EXCLUDED.photo_ref, journal_entries.photo_ref),
	updated_at = EXCLUDED.updated_at
RETURNING id, (xmax = 0) AS created`

	var row struct {
		ID      string `db:"id"`
		Created bool   `db:"created"`
	}
	now := time.Now().UTC()
	if err := r.db.GetContext(ctx, &row, query, uuid.NewString(), params.StudentID, params.Date, params.Habits, params.PhotoRef, now); err != nil {
		return "", false, fmt.Errorf("upsert journal entry: %w", err)
	}
	return row.ID, row.Created, nil
}

// UpdateByKey rewrites habits and photo of an existing entry. Returns sql.ErrNoRows when absent.
func (r *JournalRepository) UpdateByKey(ctx context.Context, params models.SubmitEntryParams) (string, error) {
	const query = `
UPDATE journal_entries SET habits = $3, photo_ref = COALESCE($4, photo_ref), updated_at = $5
WHERE student_id = $1 AND date = $2
RETURNING id`

	var id string
	if err := r.db.GetContext(ctx, &id, query, params.StudentID, params.Date, params.Habits, params.PhotoRef, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("update journal entry: %w", err)
	}
	return id, nil
}

// SetApproval writes exactly the status, note and timestamp columns owned by the actor.
func (r *JournalRepository) SetApproval(ctx context.Context, params models.ValidateEntryParams) error {
	cols, ok := approvalColumns[params.Actor]
	if !ok {
		return fmt.Errorf("unknown actor role %q", params.Actor)
	}
	query := fmt.Sprintf(`UPDATE journal_entries SET %s = $1, %s = $2, %s = $3 WHERE id = $4`, cols[0], cols[1], cols[2])

	res, err := r.db.ExecContext(ctx, query, params.Status, params.Note, params.At, params.EntryID)
	if err != nil {
		return fmt.Errorf("set %s approval: %w", params.Actor, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set %s approval rows: %w", params.Actor, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID loads one entry.
func (r *JournalRepository) FindByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries j WHERE j.id = $1`
	var entry models.JournalEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	return &entry, nil
}

// ListByStudent returns a student's entries newest first. limit <= 0 means no limit.
func (r *JournalRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries j WHERE j.student_id = $1 ORDER BY j.date DESC`
	args := []interface{}{studentID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	entries := make([]models.JournalEntry, 0)
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// ListByStudentRange returns a student's entries within [from, to] oldest first.
func (r *JournalRepository) ListByStudentRange(ctx context.Context, studentID string, from, to time.Time) ([]models.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries j
WHERE j.student_id = $1 AND j.date BETWEEN $2 AND $3
ORDER BY j.date ASC`
	entries := make([]models.JournalEntry, 0)
	if err := r.db.SelectContext(ctx, &entries, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("list journal entries in range: %w", err)
	}
	return entries, nil
}

// ListForStudentsOnDate returns the entries of the given students for one date.
func (r *JournalRepository) ListForStudentsOnDate(ctx context.Context, studentIDs []string, date time.Time) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0)
	if len(studentIDs) == 0 {
		return entries, nil
	}
	query := `SELECT ` + journalColumns + ` FROM journal_entries j WHERE j.student_id = ANY($1) AND j.date = $2`
	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(studentIDs), date); err != nil {
		return nil, fmt.Errorf("list journal entries for date: %w", err)
	}
	return entries, nil
}

// CountFilledByDay counts distinct students of a class with an entry, per date in [from, to].
func (r *JournalRepository) CountFilledByDay(ctx context.Context, className string, from, to time.Time) ([]models.DailyFillCount, error) {
	const query = `
SELECT j.date, COUNT(DISTINCT j.student_id) AS filled
FROM journal_entries j
JOIN users u ON u.id = j.student_id
WHERE u.class_name = $1 AND u.role = 'STUDENT' AND j.date BETWEEN $2 AND $3
GROUP BY j.date
ORDER BY j.date ASC`
	counts := make([]models.DailyFillCount, 0)
	if err := r.db.SelectContext(ctx, &counts, query, className, from, to); err != nil {
		return nil, fmt.Errorf("count filled journals: %w", err)
	}
	return counts, nil
}

// DailyStatuses returns one row per student of the class with their entry state on date, ordered by name.
func (r *JournalRepository) DailyStatuses(ctx context.Context, className string, date time.Time) ([]models.DailyStatusRow, error) {
	const query = `
SELECT u.id AS student_id, u.full_name, j.id AS entry_id, j.parent_status, j.teacher_status
FROM users u
LEFT JOIN journal_entries j ON j.student_id = u.id AND j.date = $1
WHERE u.class_name = $2 AND u.role = 'STUDENT'
ORDER BY u.full_name ASC`
	rows := make([]models.DailyStatusRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, date, className); err != nil {
		return nil, fmt.Errorf("list daily statuses: %w", err)
	}
	return rows, nil
}

// ListStatusesForClassRange returns the minimal entry projection for a class within [from, to].
func (r *JournalRepository) ListStatusesForClassRange(ctx context.Context, className string, from, to time.Time) ([]models.EntryStatus, error) {
	const query = `
SELECT j.id, j.student_id, j.date, j.parent_status, j.teacher_status
FROM journal_entries j
JOIN users u ON u.id = j.student_id
WHERE u.class_name = $1 AND u.role = 'STUDENT' AND j.date BETWEEN $2 AND $3
ORDER BY j.date ASC`
	items := make([]models.EntryStatus, 0)
	if err := r.db.SelectContext(ctx, &items, query, className, from, to); err != nil {
		return nil, fmt.Errorf("list class journal statuses: %w", err)
	}
	return items, nil
}
