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
	"github.com/noah-isme/kokurikuler-api/internal/repository"
	"github.com/noah-isme/kokurikuler-api/pkg/database"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
)

// DefaultMissionXP is awarded per completed mission unless configured otherwise.
const DefaultMissionXP = 50

type missionStore interface {
	Create(ctx context.Context, mission *models.Mission) error
	FindByID(ctx context.Context, id string) (*models.Mission, error)
	ListVisible(ctx context.Context, studentID, className string) ([]models.Mission, error)
	Complete(ctx context.Context, params repository.CompleteMissionParams) (*repository.CompletionOutcome, error)
	ListCompletions(ctx context.Context, missionID string) ([]models.MissionCompletion, error)
}

type parentContacts interface {
	ParentsOf(ctx context.Context, studentID string) ([]models.Contact, error)
}

type missionNotifier interface {
	MissionCompleted(parents []models.Contact, studentName, missionTitle, reflection string)
}

// MissionService runs the character mission ledger.
type MissionService struct {
	missions  missionStore
	users     userFinder
	parents   parentContacts
	notifier  missionNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	xpReward  int
	now       func() time.Time
}

// NewMissionService constructs the mission ledger.
func NewMissionService(
	missions missionStore,
	users userFinder,
	parents parentContacts,
	notifier missionNotifier,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	xpReward int,
) *MissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if xpReward <= 0 {
		xpReward = DefaultMissionXP
	}
	return &MissionService{
		missions:  missions,
		users:     users,
		parents:   parents,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		xpReward:  xpReward,
		now:       time.Now,
	}
}

// Create distributes a mission to a class or a single student.
func (s *MissionService) Create(ctx context.Context, req dto.CreateMissionRequest, claims *models.JWTClaims) (*models.Mission, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid mission payload")
	}

	target := models.MissionTarget(req.TargetType)
	targetID := strings.TrimSpace(req.TargetID)
	if target == models.MissionTargetIndividual {
		student, err := s.users.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "target student not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target student")
		}
		if student.Role != models.RoleStudent {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target student not found")
		}
	}

	assigned := s.now().UTC().Truncate(24 * time.Hour)
	if req.AssignedDate != "" {
		date, err := parseDate(req.AssignedDate)
		if err != nil {
			return nil, err
		}
		assigned = date
	}

	mission := &models.Mission{
		ID:            uuid.NewString(),
		AuthorID:      claims.UserID,
		TargetType:    target,
		TargetID:      targetID,
		HabitCategory: strings.TrimSpace(req.HabitCategory),
		Title:         strings.TrimSpace(req.Title),
		Body:          req.Body,
		AssignedDate:  assigned,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.missions.Create(ctx, mission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mission")
	}
	s.logger.Info("mission created",
		zap.String("mission_id", mission.ID),
		zap.String("target_type", string(mission.TargetType)),
		zap.String("target_id", mission.TargetID))
	return mission, nil
}

// ListVisible returns the missions addressed to the calling student or their class that they have
// not completed yet.
func (s *MissionService) ListVisible(ctx context.Context, claims *models.JWTClaims) ([]models.Mission, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleStudent {
		return nil, appErrors.ErrForbidden
	}
	className, err := s.classOf(ctx, claims)
	if err != nil {
		return nil, err
	}
	missions, err := s.missions.ListVisible(ctx, claims.UserID, className)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list missions")
	}
	return missions, nil
}

// Complete records the caller's completion and awards XP exactly once per mission.
// Linked parents are notified in the background.
func (s *MissionService) Complete(ctx context.Context, req dto.CompleteMissionRequest, claims *models.JWTClaims) (*models.CompleteMissionResult, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can complete missions")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid completion payload")
	}
	className, err := s.classOf(ctx, claims)
	if err != nil {
		return nil, err
	}

	reflection := strings.TrimSpace(req.Reflection)
	outcome, err := s.missions.Complete(ctx, repository.CompleteMissionParams{
		MissionID:  req.MissionID,
		StudentID:  claims.UserID,
		ClassName:  className,
		Reflection: reflection,
		XPReward:   s.xpReward,
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			s.metrics.RecordCompletion("not_found")
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mission not found")
		case database.IsUniqueViolation(err):
			s.metrics.RecordCompletion("duplicate")
			return nil, appErrors.ErrAlreadyCompleted
		default:
			s.metrics.RecordCompletion("error")
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete mission")
		}
	}
	s.metrics.RecordCompletion("completed")

	s.notifyParents(ctx, claims, outcome.MissionTitle, reflection)

	level := models.LevelForXP(outcome.TotalXP)
	return &models.CompleteMissionResult{
		MissionID: req.MissionID,
		XPAwarded: s.xpReward,
		TotalXP:   outcome.TotalXP,
		Level:     level,
		Title:     models.TitleForLevel(level),
	}, nil
}

// TaskReport lists who completed a mission, newest first.
func (s *MissionService) TaskReport(ctx context.Context, missionID string, claims *models.JWTClaims) ([]models.MissionCompletion, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	missionID = strings.TrimSpace(missionID)
	if missionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "task_id is required")
	}
	if _, err := s.missions.FindByID(ctx, missionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mission")
	}
	completions, err := s.missions.ListCompletions(ctx, missionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list completions")
	}
	return completions, nil
}

// Progress returns the caller's XP, level and title.
func (s *MissionService) Progress(ctx context.Context, claims *models.JWTClaims) (*models.Progress, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	progress := models.ProgressForXP(user.XP)
	return &progress, nil
}

func (s *MissionService) classOf(ctx context.Context, claims *models.JWTClaims) (string, error) {
	if claims.ClassName != "" {
		return claims.ClassName, nil
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if user.ClassName == nil {
		return "", nil
	}
	return *user.ClassName, nil
}

func (s *MissionService) notifyParents(ctx context.Context, claims *models.JWTClaims, title, reflection string) {
	if s.notifier == nil || s.parents == nil {
		return
	}
	parents, err := s.parents.ParentsOf(ctx, claims.UserID)
	if err != nil {
		s.logger.Warn("failed to load parents for notification", zap.String("student_id", claims.UserID), zap.Error(err))
		return
	}
	if len(parents) == 0 {
		return
	}
	name := claims.FullName
	if name == "" {
		name = "Ananda"
	}
	s.notifier.MissionCompleted(parents, name, title, reflection)
}
