package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	"github.com/noah-isme/kokurikuler-api/pkg/database"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/storage"
)

const (
	dateLayout          = "2006-01-02"
	journalHistoryLimit = 60
)

type journalStore interface {
	Upsert(ctx context.Context, params models.SubmitEntryParams) (string, bool, error)
	UpdateByKey(ctx context.Context, params models.SubmitEntryParams) (string, error)
	SetApproval(ctx context.Context, params models.ValidateEntryParams) error
	FindByID(ctx context.Context, id string) (*models.JournalEntry, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]models.JournalEntry, error)
	ListForStudentsOnDate(ctx context.Context, studentIDs []string, date time.Time) ([]models.JournalEntry, error)
}

type studentDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListStudentsInClass(ctx context.Context, className string) ([]models.StudentSummary, error)
}

type parentLinkChecker interface {
	IsLinked(ctx context.Context, parentID, studentID string) (bool, error)
}

type photoStore interface {
	Save(studentID string, r io.Reader) (string, error)
	Read(ref string) ([]byte, string, error)
	Delete(ref string) error
}

type photoSigner interface {
	Generate(entryID, ref string) (string, time.Time, error)
	Parse(token string) (string, string, error)
}

// JournalOptions configures how photo links are rendered.
type JournalOptions struct {
	PhotoURLPrefix string
}

// JournalService owns daily entry submission and the dual validation workflow.
type JournalService struct {
	entries   journalStore
	users     studentDirectory
	links     parentLinkChecker
	photos    photoStore
	signer    photoSigner
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	opts      JournalOptions
	now       func() time.Time
}

// NewJournalService wires the journal workflow.
func NewJournalService(
	entries journalStore,
	users studentDirectory,
	links parentLinkChecker,
	photos photoStore,
	signer photoSigner,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	opts JournalOptions,
) *JournalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PhotoURLPrefix == "" {
		opts.PhotoURLPrefix = "/api/journals/photo/"
	}
	return &JournalService{
		entries:   entries,
		users:     users,
		links:     links,
		photos:    photos,
		signer:    signer,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
}

// Submit stores the caller's entry for a date, replacing the habits of an existing one.
// Approval tracks of an existing entry are left as they were.
func (s *JournalService) Submit(ctx context.Context, req dto.SubmitJournalRequest, claims *models.JWTClaims) (*dto.SubmitJournalResult, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can submit journals")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid journal payload")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	habits, err := models.ParseHabits(req.Habits)
	if err != nil {
		return nil, appErrors.Validation(err, "habits must be a well-formed object")
	}
	if err := s.validator.Struct(habits); err != nil {
		return nil, appErrors.Validation(err, "invalid habit values")
	}

	params := models.SubmitEntryParams{StudentID: claims.UserID, Date: date, Habits: habits}
	if req.Photo != nil && s.photos != nil {
		ref, err := s.photos.Save(claims.UserID, req.Photo)
		if err != nil {
			if storage.IsTooLarge(err) || storage.IsUnsupported(err) {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
		}
		params.PhotoRef = &ref
	}

	id, created, err := s.entries.Upsert(ctx, params)
	if err != nil && database.IsUniqueViolation(err) {
		// a concurrent insert for the same day won the race; fold into it
		id, err = s.entries.UpdateByKey(ctx, params)
		created = false
		if errors.Is(err, sql.ErrNoRows) {
			err = appErrors.Clone(appErrors.ErrConflict, "journal entry changed concurrently")
		}
	}
	if err != nil {
		s.discardPhoto(params.PhotoRef)
		s.metrics.RecordSubmission("error")
		if appErrors.Is(err, appErrors.ErrConflict) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save journal")
	}

	if created {
		s.metrics.RecordSubmission("created")
	} else {
		s.metrics.RecordSubmission("updated")
	}
	if claims.ClassName != "" {
		s.cache.Invalidate(ctx, classCachePattern(claims.ClassName))
	}
	s.logger.Debug("journal submitted",
		zap.String("student_id", claims.UserID),
		zap.String("date", req.Date),
		zap.Bool("created", created))
	return &dto.SubmitJournalResult{EntryID: id, Created: created}, nil
}

// Validate records a parent or teacher decision on an entry. Each actor only ever writes
// their own track.
func (s *JournalService) Validate(ctx context.Context, req dto.ValidateJournalRequest, claims *models.JWTClaims) (*models.JournalEntry, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid validation payload")
	}

	var actor models.ActorRole
	switch claims.Role {
	case models.RoleParent:
		actor = models.ActorParent
	case models.RoleTeacher:
		actor = models.ActorTeacher
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only parents and teachers can validate journals")
	}
	if req.ActorRole != "" && models.ActorRole(req.ActorRole) != actor {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "actor role does not match caller")
	}

	entry, err := s.entries.FindByID(ctx, req.EntryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "journal entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load journal entry")
	}

	student, err := s.ensureScope(ctx, claims, actor, entry.StudentID)
	if err != nil {
		return nil, err
	}

	status := models.ApprovalStatus(req.Status)
	current := entry.Parent.Status
	if actor == models.ActorTeacher {
		current = entry.Teacher.Status
	}
	if !current.CanTransition(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid approval transition")
	}

	params := models.ValidateEntryParams{
		EntryID: entry.ID,
		Actor:   actor,
		Status:  status,
		Note:    normalizeNote(req.Note),
		At:      s.now().UTC(),
	}
	if err := s.entries.SetApproval(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "journal entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record validation")
	}
	s.metrics.RecordValidation(string(actor), string(status))
	if student.ClassName != nil {
		s.cache.Invalidate(ctx, classCachePattern(*student.ClassName))
	}

	updated, err := s.entries.FindByID(ctx, entry.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload journal entry")
	}
	s.attachPhotoURL(updated)
	return updated, nil
}

// ListMine returns the caller's recent entries, newest first.
func (s *JournalService) ListMine(ctx context.Context, claims *models.JWTClaims) ([]models.JournalEntry, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleStudent {
		return nil, appErrors.ErrForbidden
	}
	entries, err := s.entries.ListByStudent(ctx, claims.UserID, journalHistoryLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list journals")
	}
	for i := range entries {
		s.attachPhotoURL(&entries[i])
	}
	return entries, nil
}

// ClassDay joins a class roster with the entries of one date. Teachers only see their class.
func (s *JournalService) ClassDay(ctx context.Context, query dto.ClassDayQuery, claims *models.JWTClaims) ([]models.ClassDayRow, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Validation(err, "invalid query")
	}
	className := strings.TrimSpace(query.ClassName)
	if claims.Role == models.RoleTeacher {
		if claims.ClassName == "" {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher has no homeroom class")
		}
		if className != "" && className != claims.ClassName {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "class outside teacher scope")
		}
		className = claims.ClassName
	}
	if className == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kelas is required")
	}
	date, err := parseDate(query.Date)
	if err != nil {
		return nil, err
	}

	roster, err := s.users.ListStudentsInClass(ctx, className)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	rows := make([]models.ClassDayRow, 0, len(roster))
	if len(roster) == 0 {
		return rows, nil
	}
	ids := make([]string, len(roster))
	for i, student := range roster {
		ids[i] = student.ID
	}
	entries, err := s.entries.ListForStudentsOnDate(ctx, ids, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load journals")
	}
	byStudent := make(map[string]*models.JournalEntry, len(entries))
	for i := range entries {
		s.attachPhotoURL(&entries[i])
		byStudent[entries[i].StudentID] = &entries[i]
	}
	for _, student := range roster {
		entry := byStudent[student.ID]
		rows = append(rows, models.ClassDayRow{
			Student:      student,
			Entry:        entry,
			DisplayState: models.DisplayStateOf(entry),
		})
	}
	return rows, nil
}

// Photo resolves a signed photo token into the stored bytes.
func (s *JournalService) Photo(ctx context.Context, token string) ([]byte, string, error) {
	if s.signer == nil || s.photos == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "photo not found")
	}
	_, ref, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, http.StatusForbidden, "invalid or expired photo link")
	}
	data, contentType, err := s.photos.Read(ref)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "photo not found")
	}
	return data, contentType, nil
}

func (s *JournalService) ensureScope(ctx context.Context, claims *models.JWTClaims, actor models.ActorRole, studentID string) (*models.User, error) {
	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	switch actor {
	case models.ActorParent:
		linked, err := s.links.IsLinked(ctx, claims.UserID, studentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify parent link")
		}
		if !linked {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not linked to parent")
		}
	case models.ActorTeacher:
		if student.ClassName == nil || claims.ClassName == "" || *student.ClassName != claims.ClassName {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "student outside teacher class")
		}
	}
	return student, nil
}

func (s *JournalService) attachPhotoURL(entry *models.JournalEntry) {
	if entry == nil || entry.PhotoRef == nil || s.signer == nil {
		return
	}
	token, _, err := s.signer.Generate(entry.ID, *entry.PhotoRef)
	if err != nil {
		s.logger.Warn("failed to sign photo url", zap.String("entry_id", entry.ID), zap.Error(err))
		return
	}
	entry.PhotoURL = s.opts.PhotoURLPrefix + token
}

func (s *JournalService) discardPhoto(ref *string) {
	if ref == nil || s.photos == nil {
		return
	}
	if err := s.photos.Delete(*ref); err != nil {
		s.logger.Warn("failed to remove orphaned photo", zap.String("ref", *ref), zap.Error(err))
	}
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, appErrors.Validation(err, "date must use YYYY-MM-DD")
	}
	return date, nil
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
