package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kokurikuler-api/internal/models"
)

func TestUserRepositorySearchStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, full_name, student_number, class_name FROM users WHERE role = 'STUDENT' AND class_name = $1 AND (full_name ILIKE $2 OR student_number ILIKE $2) ORDER BY full_name ASC LIMIT $3`)).
		WithArgs("7A", "%ani%", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "student_number", "class_name"}).AddRow("stu-1", "Ani", "1001", "7A"))

	items, err := repo.SearchStudents(context.Background(), models.StudentFilter{ClassName: "7A", Search: " ani ", Limit: 100})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ani", items[0].FullName)
}

func TestUserRepositoryCountStudentsInClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE class_name = $1")).
		WithArgs("7A").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	total, err := repo.CountStudentsInClass(context.Background(), "7A")
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestParentLinkRepositoryLinkIsIdempotent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParentLinkRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT ON CONSTRAINT parent_child_links_pair_key DO NOTHING")).
		WithArgs(sqlmock.AnyArg(), "par-1", "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parent_child_links")).
		WithArgs("par-1", "stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, repo.Link(context.Background(), "par-1", "stu-1"))
	linked, err := repo.IsLinked(context.Background(), "par-1", "stu-1")
	require.NoError(t, err)
	assert.True(t, linked)
}

func TestCharacterRecordRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCharacterRecordRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO character_records")).
		WithArgs(sqlmock.AnyArg(), "stu-1", "con-1", "violation", "Terlambat", "", -5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.CharacterRecord{
		StudentID: "stu-1",
		AuthorID:  "con-1",
		Category:  models.RecordViolation,
		Title:     "Terlambat",
		Points:    -5,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
