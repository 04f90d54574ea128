package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/response"
)

type missionService interface {
	ListVisible(ctx context.Context, claims *models.JWTClaims) ([]models.Mission, error)
	Complete(ctx context.Context, req dto.CompleteMissionRequest, claims *models.JWTClaims) (*models.CompleteMissionResult, error)
	Progress(ctx context.Context, claims *models.JWTClaims) (*models.Progress, error)
}

// StudentHandler serves the student mission board and XP progress.
type StudentHandler struct {
	missions missionService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(missions missionService) *StudentHandler {
	return &StudentHandler{missions: missions}
}

// Missions godoc
// @Summary Missions still open for the caller
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/missions [get]
func (h *StudentHandler) Missions(c *gin.Context) {
	if h.missions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	missions, err := h.missions.ListVisible(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, missions)
}

// CompleteMission godoc
// @Summary Complete a mission with a reflection
// @Description Awards XP once per mission and notifies linked parents.
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CompleteMissionRequest true "Completion payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/missions/complete [post]
func (h *StudentHandler) CompleteMission(c *gin.Context) {
	if h.missions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.CompleteMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid completion payload"))
		return
	}
	result, err := h.missions.Complete(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Progress godoc
// @Summary XP, level and title of the caller
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/progress [get]
func (h *StudentHandler) Progress(c *gin.Context) {
	if h.missions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	progress, err := h.missions.Progress(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, progress)
}
