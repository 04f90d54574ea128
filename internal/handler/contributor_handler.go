package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/response"
)

type recordService interface {
	Create(ctx context.Context, req dto.CreateRecordRequest, claims *models.JWTClaims) (*models.CharacterRecord, error)
	History(ctx context.Context, claims *models.JWTClaims) ([]models.CharacterRecord, error)
	SearchStudents(ctx context.Context, query dto.StudentSearchQuery) ([]models.StudentSummary, error)
}

type taskService interface {
	Create(ctx context.Context, req dto.CreateMissionRequest, claims *models.JWTClaims) (*models.Mission, error)
	TaskReport(ctx context.Context, missionID string, claims *models.JWTClaims) ([]models.MissionCompletion, error)
}

type strategyService interface {
	AIStrategy(ctx context.Context, claims *models.JWTClaims, req dto.StrategyRequest) (*dto.StrategyResponse, error)
}

// ContributorHandler exposes the contributor workspace: point records, tasks and coaching strategy.
type ContributorHandler struct {
	records  recordService
	tasks    taskService
	strategy strategyService
}

// NewContributorHandler constructs the handler.
func NewContributorHandler(records recordService, tasks taskService, strategy strategyService) *ContributorHandler {
	return &ContributorHandler{records: records, tasks: tasks, strategy: strategy}
}

// Search godoc
// @Summary Search students by name or number
// @Tags Contributor
// @Produce json
// @Param query query string false "Name or student number fragment"
// @Param kelas query string false "Class filter"
// @Success 200 {object} response.Envelope
// @Router /contributor/search [get]
func (h *ContributorHandler) Search(c *gin.Context) {
	if h.records == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.StudentSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid query parameters"))
		return
	}
	students, err := h.records.SearchStudents(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// CreateRecord godoc
// @Summary Record an achievement, violation or extracurricular point
// @Description Violations are always stored as negative points.
// @Tags Contributor
// @Accept json
// @Produce json
// @Param payload body dto.CreateRecordRequest true "Record payload"
// @Success 201 {object} response.Envelope
// @Router /contributor/record [post]
func (h *ContributorHandler) CreateRecord(c *gin.Context) {
	if h.records == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid record payload"))
		return
	}
	record, err := h.records.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// History godoc
// @Summary Latest records written by the caller
// @Tags Contributor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /contributor/history [get]
func (h *ContributorHandler) History(c *gin.Context) {
	if h.records == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	records, err := h.records.History(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// CreateTask godoc
// @Summary Distribute a character mission to a class or student
// @Tags Contributor
// @Accept json
// @Produce json
// @Param payload body dto.CreateMissionRequest true "Mission payload"
// @Success 201 {object} response.Envelope
// @Router /contributor/task [post]
func (h *ContributorHandler) CreateTask(c *gin.Context) {
	if h.tasks == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid task payload"))
		return
	}
	mission, err := h.tasks.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mission)
}

// TaskReport godoc
// @Summary Completions submitted for a mission
// @Tags Contributor
// @Produce json
// @Param task_id query string true "Mission ID"
// @Success 200 {object} response.Envelope
// @Router /contributor/task/report [get]
func (h *ContributorHandler) TaskReport(c *gin.Context) {
	if h.tasks == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	completions, err := h.tasks.TaskReport(c.Request.Context(), c.Query("task_id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, completions)
}

// Strategy godoc
// @Summary Generate a coaching strategy from a student's journal
// @Tags Contributor
// @Accept json
// @Produce json
// @Param payload body dto.StrategyRequest true "Student and date"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /contributor/ai-strategy [post]
func (h *ContributorHandler) Strategy(c *gin.Context) {
	if h.strategy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid strategy payload"))
		return
	}
	resp, err := h.strategy.AIStrategy(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}
