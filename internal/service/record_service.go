package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
)

const recordHistoryLimit = 20

type recordStore interface {
	Create(ctx context.Context, record *models.CharacterRecord) error
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.CharacterRecord, error)
}

type studentSearcher interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	SearchStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error)
}

// RecordService issues achievement, violation and extracurricular point records.
// It is the only write path for records, so the violation sign is applied here.
type RecordService struct {
	records   recordStore
	students  studentSearcher
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecordService constructs the record service.
func NewRecordService(records recordStore, students studentSearcher, validate *validator.Validate, logger *zap.Logger) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{records: records, students: students, validator: validate, logger: logger, now: time.Now}
}

// Create stores a record for a student. Violation points are always persisted as negative.
func (s *RecordService) Create(ctx context.Context, req dto.CreateRecordRequest, claims *models.JWTClaims) (*models.CharacterRecord, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid record payload")
	}
	category := models.RecordCategory(req.Category)
	if !category.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown record category")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	record := &models.CharacterRecord{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		AuthorID:    claims.UserID,
		Category:    category,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Points:      models.NormalizePoints(category, req.Points),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create record")
	}
	record.StudentName = &student.FullName
	record.ClassName = student.ClassName
	s.logger.Info("character record created",
		zap.String("record_id", record.ID),
		zap.String("student_id", record.StudentID),
		zap.String("category", string(record.Category)),
		zap.Int("points", record.Points))
	return record, nil
}

// History returns the caller's latest records.
func (s *RecordService) History(ctx context.Context, claims *models.JWTClaims) ([]models.CharacterRecord, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	records, err := s.records.ListByAuthor(ctx, claims.UserID, recordHistoryLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list records")
	}
	return records, nil
}

// SearchStudents looks students up by name or number.
func (s *RecordService) SearchStudents(ctx context.Context, query dto.StudentSearchQuery) ([]models.StudentSummary, error) {
	students, err := s.students.SearchStudents(ctx, models.StudentFilter{
		ClassName: strings.TrimSpace(query.ClassName),
		Search:    strings.TrimSpace(query.Query),
		Limit:     recordHistoryLimit,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search students")
	}
	return students, nil
}
