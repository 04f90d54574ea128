package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/storage"
)

type journalKey struct {
	student string
	date    string
}

// journalStoreStub keeps entries in memory and mimics the keyed upsert of the real store.
type journalStoreStub struct {
	mu        sync.Mutex
	seq       int
	entries   map[journalKey]*models.JournalEntry
	upsertErr error
	raceOnce  bool
	approvals []models.ValidateEntryParams
}

func newJournalStoreStub() *journalStoreStub {
	return &journalStoreStub{entries: map[journalKey]*models.JournalEntry{}}
}

func (s *journalStoreStub) Upsert(ctx context.Context, params models.SubmitEntryParams) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raceOnce {
		s.raceOnce = false
		s.put(params)
		return "", false, fmt.Errorf("upsert journal entry: %w", &pq.Error{Code: "23505", Constraint: "journal_entries_student_date_key"})
	}
	if s.upsertErr != nil {
		return "", false, s.upsertErr
	}
	key := journalKey{params.StudentID, params.Date.Format(dateLayout)}
	_, existed := s.entries[key]
	entry := s.put(params)
	return entry.ID, !existed, nil
}

func (s *journalStoreStub) put(params models.SubmitEntryParams) *models.JournalEntry {
	key := journalKey{params.StudentID, params.Date.Format(dateLayout)}
	entry, ok := s.entries[key]
	if !ok {
		s.seq++
		entry = &models.JournalEntry{
			ID:        fmt.Sprintf("entry-%d", s.seq),
			StudentID: params.StudentID,
			Date:      params.Date,
			Parent:    models.Approval{Status: models.ApprovalUnset},
			Teacher:   models.Approval{Status: models.ApprovalUnset},
		}
		s.entries[key] = entry
	}
	entry.Habits = params.Habits
	if params.PhotoRef != nil {
		entry.PhotoRef = params.PhotoRef
	}
	return entry
}

func (s *journalStoreStub) UpdateByKey(ctx context.Context, params models.SubmitEntryParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := journalKey{params.StudentID, params.Date.Format(dateLayout)}
	if _, ok := s.entries[key]; !ok {
		return "", sql.ErrNoRows
	}
	return s.put(params).ID, nil
}

func (s *journalStoreStub) SetApproval(ctx context.Context, params models.ValidateEntryParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.ID != params.EntryID {
			continue
		}
		at := params.At
		track := models.Approval{Status: params.Status, Note: params.Note, ValidatedAt: &at}
		if params.Actor == models.ActorParent {
			entry.Parent = track
		} else {
			entry.Teacher = track
		}
		s.approvals = append(s.approvals, params)
		return nil
	}
	return sql.ErrNoRows
}

func (s *journalStoreStub) FindByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.ID == id {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *journalStoreStub) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.JournalEntry
	for _, entry := range s.entries {
		if entry.StudentID == studentID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (s *journalStoreStub) ListForStudentsOnDate(ctx context.Context, ids []string, date time.Time) ([]models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.JournalEntry
	for _, id := range ids {
		if entry, ok := s.entries[journalKey{id, date.Format(dateLayout)}]; ok {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (s *journalStoreStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type directoryStub struct {
	users  map[string]*models.User
	roster []models.StudentSummary
	err    error
}

func (s directoryStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s directoryStub) ListStudentsInClass(ctx context.Context, className string) ([]models.StudentSummary, error) {
	return s.roster, s.err
}

type linkCheckerStub struct {
	linked map[string]bool
}

func (s linkCheckerStub) IsLinked(ctx context.Context, parentID, studentID string) (bool, error) {
	return s.linked[parentID+"|"+studentID], nil
}

type photoStoreStub struct {
	saveErr error
	saved   []string
	deleted []string
}

func (s *photoStoreStub) Save(studentID string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	ref := fmt.Sprintf("%s/photo-%d.jpg", studentID, len(s.saved)+1)
	s.saved = append(s.saved, ref)
	return ref, nil
}

func (s *photoStoreStub) Read(ref string) ([]byte, string, error) {
	return []byte("img"), "image/jpeg", nil
}

func (s *photoStoreStub) Delete(ref string) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

func strPtr(v string) *string { return &v }

func studentUser(id, className string) *models.User {
	return &models.User{ID: id, FullName: "Siswa " + id, Role: models.RoleStudent, ClassName: strPtr(className)}
}

func newJournalFixture() (*JournalService, *journalStoreStub, *photoStoreStub) {
	store := newJournalStoreStub()
	photos := &photoStoreStub{}
	users := directoryStub{
		users: map[string]*models.User{"stu-1": studentUser("stu-1", "7A")},
		roster: []models.StudentSummary{
			{ID: "stu-1", FullName: "Siswa stu-1"},
			{ID: "stu-2", FullName: "Siswa stu-2"},
		},
	}
	links := linkCheckerStub{linked: map[string]bool{"par-1|stu-1": true}}
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	svc := NewJournalService(store, users, links, photos, signer, nil, nil, nil, zap.NewNop(), JournalOptions{})
	return svc, store, photos
}

var (
	studentClaims = &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent, ClassName: "7A", FullName: "Siswa stu-1"}
	parentClaims  = &models.JWTClaims{UserID: "par-1", Role: models.RoleParent}
	teacherClaims = &models.JWTClaims{UserID: "tch-1", Role: models.RoleTeacher, ClassName: "7A"}
)

func TestJournalServiceSubmitUpsertsByStudentAndDate(t *testing.T) {
	svc, store, _ := newJournalFixture()
	ctx := context.Background()

	first, err := svc.Submit(ctx, dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{"wake_time":"06:00"}`)}, studentClaims)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.Submit(ctx, dto.SubmitJournalRequest{
		Date:   "2025-05-01",
		Habits: []byte(`{"wake_time":"05:30","sport_type":"Lari"}`),
		Photo:  strings.NewReader("jpeg-bytes"),
	}, studentClaims)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.EntryID, second.EntryID)

	_, err = svc.Submit(ctx, dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{"wake_time":"05:45"}`)}, studentClaims)
	require.NoError(t, err)

	assert.Equal(t, 1, store.count())
	entry, err := store.FindByID(ctx, first.EntryID)
	require.NoError(t, err)
	assert.Equal(t, "05:45", entry.Habits.WakeTime)
	require.NotNil(t, entry.PhotoRef)
	assert.Equal(t, "stu-1/photo-1.jpg", *entry.PhotoRef)
	assert.Equal(t, models.ApprovalUnset, entry.Parent.Status)
}

func TestJournalServiceSubmitConcurrentSameDay(t *testing.T) {
	svc, store, _ := newJournalFixture()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := fmt.Sprintf(`{"study_subject":"Mapel %d"}`, i)
			_, err := svc.Submit(context.Background(), dto.SubmitJournalRequest{Date: "2025-05-02", Habits: []byte(payload)}, studentClaims)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, store.count())
}

func TestJournalServiceSubmitRetriesUniqueViolationAsUpdate(t *testing.T) {
	svc, store, _ := newJournalFixture()
	store.raceOnce = true

	result, err := svc.Submit(context.Background(), dto.SubmitJournalRequest{Date: "2025-05-03", Habits: []byte(`{}`)}, studentClaims)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.NotEmpty(t, result.EntryID)
}

func TestJournalServiceSubmitRejectsInvalidPayloads(t *testing.T) {
	svc, _, photos := newJournalFixture()
	ctx := context.Background()

	cases := map[string]dto.SubmitJournalRequest{
		"array habits":  {Date: "2025-05-01", Habits: []byte(`["a"]`)},
		"wrong type":    {Date: "2025-05-01", Habits: []byte(`{"wake_time":6}`)},
		"bad time":      {Date: "2025-05-01", Habits: []byte(`{"wake_time":"25:99"}`)},
		"missing date":  {Habits: []byte(`{}`)},
		"bad date":      {Date: "01-05-2025", Habits: []byte(`{}`)},
		"missing habit": {Date: "2025-05-01"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(ctx, req, studentClaims)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "got %v", err)
		})
	}

	photos.saveErr = storage.ErrFileTooLarge
	_, err := svc.Submit(ctx, dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{}`), Photo: strings.NewReader("x")}, studentClaims)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestJournalServiceSubmitDiscardsPhotoOnFailure(t *testing.T) {
	svc, store, photos := newJournalFixture()
	store.upsertErr = errors.New("db down")

	_, err := svc.Submit(context.Background(), dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{}`), Photo: strings.NewReader("x")}, studentClaims)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
	assert.Equal(t, photos.saved, photos.deleted)
}

func TestJournalServiceSubmitRequiresStudent(t *testing.T) {
	svc, _, _ := newJournalFixture()
	_, err := svc.Submit(context.Background(), dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{}`)}, teacherClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Submit(context.Background(), dto.SubmitJournalRequest{}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestJournalServiceValidateTracksAreIndependent(t *testing.T) {
	svc, _, _ := newJournalFixture()
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{"wake_time":"06:00"}`)}, studentClaims)
	require.NoError(t, err)

	entry, err := svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: submitted.EntryID, Status: "approved", ActorRole: "parent"}, parentClaims)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, entry.Parent.Status)
	assert.Equal(t, models.ApprovalUnset, entry.Teacher.Status)
	assert.Nil(t, entry.Teacher.ValidatedAt)
	assert.Equal(t, models.DisplayParentApproved, models.DisplayStateOf(entry))

	note := "  kurang lengkap "
	entry, err = svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: submitted.EntryID, Status: "rejected", Note: &note}, teacherClaims)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, entry.Teacher.Status)
	require.NotNil(t, entry.Teacher.Note)
	assert.Equal(t, "kurang lengkap", *entry.Teacher.Note)
	assert.Equal(t, models.ApprovalApproved, entry.Parent.Status)
	assert.Equal(t, models.DisplayParentApproved, models.DisplayStateOf(entry))

	entry, err = svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: submitted.EntryID, Status: "approved"}, teacherClaims)
	require.NoError(t, err)
	assert.Equal(t, models.DisplayTeacherApproved, models.DisplayStateOf(entry))
}

func TestJournalServiceValidateScope(t *testing.T) {
	svc, _, _ := newJournalFixture()
	ctx := context.Background()
	submitted, err := svc.Submit(ctx, dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{}`)}, studentClaims)
	require.NoError(t, err)

	strangerParent := &models.JWTClaims{UserID: "par-9", Role: models.RoleParent}
	_, err = svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: submitted.EntryID, Status: "approved"}, strangerParent)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	otherTeacher := &models.JWTClaims{UserID: "tch-2", Role: models.RoleTeacher, ClassName: "8B"}
	_, err = svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: submitted.EntryID, Status: "approved"}, otherTeacher)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: submitted.EntryID, Status: "approved", ActorRole: "teacher"}, parentClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: submitted.EntryID, Status: "approved"}, studentClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: "missing", Status: "approved"}, parentClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Validate(ctx, dto.ValidateJournalRequest{EntryID: submitted.EntryID, Status: "unset"}, parentClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestJournalServiceListMineSignsPhotos(t *testing.T) {
	svc, _, _ := newJournalFixture()
	ctx := context.Background()
	_, err := svc.Submit(ctx, dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{}`), Photo: strings.NewReader("x")}, studentClaims)
	require.NoError(t, err)

	entries, err := svc.ListMine(ctx, studentClaims)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasPrefix(entries[0].PhotoURL, "/api/journals/photo/"))

	token := strings.TrimPrefix(entries[0].PhotoURL, "/api/journals/photo/")
	data, contentType, err := svc.Photo(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, []byte("img"), data)

	_, _, err = svc.Photo(ctx, token+"x")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestJournalServiceClassDay(t *testing.T) {
	svc, _, _ := newJournalFixture()
	ctx := context.Background()
	_, err := svc.Submit(ctx, dto.SubmitJournalRequest{Date: "2025-05-01", Habits: []byte(`{}`)}, studentClaims)
	require.NoError(t, err)

	rows, err := svc.ClassDay(ctx, dto.ClassDayQuery{Date: "2025-05-01"}, teacherClaims)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotNil(t, rows[0].Entry)
	assert.Equal(t, models.DisplayFilledPending, rows[0].DisplayState)
	assert.Nil(t, rows[1].Entry)
	assert.Equal(t, models.DisplayEmpty, rows[1].DisplayState)

	_, err = svc.ClassDay(ctx, dto.ClassDayQuery{ClassName: "9C", Date: "2025-05-01"}, teacherClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	contributor := &models.JWTClaims{UserID: "con-1", Role: models.RoleContributor}
	_, err = svc.ClassDay(ctx, dto.ClassDayQuery{Date: "2025-05-01"}, contributor)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
