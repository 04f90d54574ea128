package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kokurikuler-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

var journalRowColumns = []string{
	"id", "student_id", "date", "habits", "photo_ref",
	"parent.status", "parent.note", "parent.validated_at",
	"teacher.status", "teacher.note", "teacher.validated_at",
	"created_at", "updated_at",
}

func TestJournalRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	photo := "journals/stu-1/a.jpg"
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT ON CONSTRAINT journal_entries_student_date_key DO UPDATE SET")).
		WithArgs(sqlmock.AnyArg(), "stu-1", date, sqlmock.AnyArg(), photo, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow("entry-1", false))

	id, created, err := repo.Upsert(context.Background(), models.SubmitEntryParams{
		StudentID: "stu-1",
		Date:      date,
		Habits:    models.Habits{WakeTime: "06:00"},
		PhotoRef:  &photo,
	})
	require.NoError(t, err)
	assert.Equal(t, "entry-1", id)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepositorySetApprovalTouchesOnlyActorColumns(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	now := time.Now().UTC()
	note := "mantap"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE journal_entries SET teacher_status = $1, teacher_note = $2, teacher_validated_at = $3 WHERE id = $4`)).
		WithArgs("rejected", note, now, "entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE journal_entries SET parent_status = $1, parent_note = $2, parent_validated_at = $3 WHERE id = $4`)).
		WithArgs("approved", nil, now, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetApproval(context.Background(), models.ValidateEntryParams{
		EntryID: "entry-1", Actor: models.ActorTeacher, Status: models.ApprovalRejected, Note: &note, At: now,
	})
	require.NoError(t, err)

	err = repo.SetApproval(context.Background(), models.ValidateEntryParams{
		EntryID: "missing", Actor: models.ActorParent, Status: models.ApprovalApproved, At: now,
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	err = repo.SetApproval(context.Background(), models.ValidateEntryParams{EntryID: "x", Actor: "admin", Status: models.ApprovalApproved})
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepositoryFindByIDMapsTracks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	validated := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(journalRowColumns).AddRow(
		"entry-1", "stu-1", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), []byte(`{"wake_time":"06:00"}`), nil,
		"approved", "ok", validated,
		nil, nil, nil,
		validated, validated,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM journal_entries j WHERE j.id = $1")).
		WithArgs("entry-1").
		WillReturnRows(rows)

	entry, err := repo.FindByID(context.Background(), "entry-1")
	require.NoError(t, err)
	assert.Equal(t, "06:00", entry.Habits.WakeTime)
	assert.Equal(t, models.ApprovalApproved, entry.Parent.Status)
	require.NotNil(t, entry.Parent.Note)
	assert.Equal(t, "ok", *entry.Parent.Note)
	assert.Equal(t, models.ApprovalUnset, entry.Teacher.Status)
	assert.Nil(t, entry.Teacher.ValidatedAt)
	assert.Equal(t, models.DisplayParentApproved, models.DisplayStateOf(entry))
}

func TestJournalRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM journal_entries j WHERE j.id = $1")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestJournalRepositoryDailyStatuses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	date := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"student_id", "full_name", "entry_id", "parent_status", "teacher_status"}).
		AddRow("stu-1", "Ani", "entry-1", nil, "approved").
		AddRow("stu-2", "Budi", nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN journal_entries j ON j.student_id = u.id AND j.date = $1")).
		WithArgs(date, "7A").
		WillReturnRows(rows)

	items, err := repo.DailyStatuses(context.Background(), "7A", date)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.ApprovalApproved, items[0].TeacherStatus)
	assert.Nil(t, items[1].EntryID)
	assert.Equal(t, models.ApprovalUnset, items[1].ParentStatus)
}

func TestJournalRepositoryCountFilledByDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(DISTINCT j.student_id) AS filled")).
		WithArgs("7A", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"date", "filled"}).AddRow(from, 8))

	counts, err := repo.CountFilledByDay(context.Background(), "7A", from, to)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 8, counts[0].Filled)
}

func TestJournalRepositoryListForStudentsOnDateEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	entries, err := repo.ListForStudentsOnDate(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
