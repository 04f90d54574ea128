package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
)

const childHistoryLimit = 31

type parentLinkStore interface {
	Link(ctx context.Context, parentID, studentID string) error
	IsLinked(ctx context.Context, parentID, studentID string) (bool, error)
	ListChildren(ctx context.Context, parentID string) ([]models.User, error)
}

type parentStudentFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindStudentByNumber(ctx context.Context, number string) (*models.User, error)
}

type childJournalReader interface {
	ListByStudent(ctx context.Context, studentID string, limit int) ([]models.JournalEntry, error)
	ListForStudentsOnDate(ctx context.Context, studentIDs []string, date time.Time) ([]models.JournalEntry, error)
}

type journalReminder interface {
	RemindJournal(ctx context.Context, studentName, phone string) error
}

// ParentService exposes the parent's view of linked children.
type ParentService struct {
	links     parentLinkStore
	students  parentStudentFinder
	entries   childJournalReader
	records   recordReader
	reminder  journalReminder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewParentService constructs the parent service.
func NewParentService(
	links parentLinkStore,
	students parentStudentFinder,
	entries childJournalReader,
	records recordReader,
	reminder journalReminder,
	validate *validator.Validate,
	logger *zap.Logger,
) *ParentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{
		links:     links,
		students:  students,
		entries:   entries,
		records:   records,
		reminder:  reminder,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Link connects the caller to a student by school number. Linking twice is a no-op.
func (s *ParentService) Link(ctx context.Context, req dto.LinkChildRequest, claims *models.JWTClaims) (*models.StudentSummary, error) {
	if err := s.ensureParent(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid link payload")
	}
	student, err := s.students.FindStudentByNumber(ctx, strings.TrimSpace(req.StudentNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find student")
	}
	if err := s.links.Link(ctx, claims.UserID, student.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link student")
	}
	summary := summaryOf(student)
	return &summary, nil
}

// Children lists linked children with today's journal state.
func (s *ParentService) Children(ctx context.Context, claims *models.JWTClaims) ([]models.ChildOverview, error) {
	if err := s.ensureParent(claims); err != nil {
		return nil, err
	}
	children, err := s.links.ListChildren(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list children")
	}
	result := make([]models.ChildOverview, 0, len(children))
	if len(children) == 0 {
		return result, nil
	}

	ids := make([]string, len(children))
	for i, child := range children {
		ids[i] = child.ID
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	entries, err := s.entries.ListForStudentsOnDate(ctx, ids, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load journals")
	}
	byStudent := make(map[string]*models.JournalEntry, len(entries))
	for i := range entries {
		byStudent[entries[i].StudentID] = &entries[i]
	}

	for i := range children {
		entry := byStudent[children[i].ID]
		result = append(result, models.ChildOverview{
			Student:      summaryOf(&children[i]),
			Phone:        children[i].Phone,
			Today:        entry,
			DisplayState: models.DisplayStateOf(entry),
		})
	}
	return result, nil
}

// Remind sends a journal reminder to a linked child's phone.
func (s *ParentService) Remind(ctx context.Context, req dto.RemindChildRequest, claims *models.JWTClaims) error {
	if err := s.ensureParent(claims); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid reminder payload")
	}
	child, err := s.linkedChild(ctx, claims, req.StudentID)
	if err != nil {
		return err
	}
	if child.Phone == nil || strings.TrimSpace(*child.Phone) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student has no phone number")
	}
	if s.reminder == nil {
		return appErrors.Clone(appErrors.ErrUnavailable, "notifications are not configured")
	}
	if err := s.reminder.RemindJournal(ctx, child.FullName, *child.Phone); err != nil {
		s.logger.Warn("journal reminder failed", zap.String("student_id", child.ID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to send reminder")
	}
	return nil
}

// ChildProfile returns a linked child's recent entries, records and summary stats.
func (s *ParentService) ChildProfile(ctx context.Context, studentID string, claims *models.JWTClaims) (*models.ChildProfile, error) {
	if err := s.ensureParent(claims); err != nil {
		return nil, err
	}
	child, err := s.linkedChild(ctx, claims, studentID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByStudent(ctx, child.ID, childHistoryLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load journals")
	}
	records, err := s.records.ListByStudent(ctx, child.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}

	totals := models.TotalPoints(records)
	level := models.LevelForXP(child.XP)
	return &models.ChildProfile{
		Student: summaryOf(child),
		Entries: entries,
		Records: records,
		Stats: models.ChildStats{
			TotalEntries:   len(entries),
			PositivePoints: totals.Positive,
			NegativePoints: totals.Negative,
			XP:             child.XP,
			Level:          level,
			Title:          models.TitleForLevel(level),
		},
	}, nil
}

func (s *ParentService) ensureParent(claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleParent {
		return appErrors.ErrForbidden
	}
	return nil
}

func (s *ParentService) linkedChild(ctx context.Context, claims *models.JWTClaims, studentID string) (*models.User, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	linked, err := s.links.IsLinked(ctx, claims.UserID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify link")
	}
	if !linked {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not linked to parent")
	}
	child, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return child, nil
}
