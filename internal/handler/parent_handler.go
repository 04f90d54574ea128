package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/response"
)

type parentService interface {
	Link(ctx context.Context, req dto.LinkChildRequest, claims *models.JWTClaims) (*models.StudentSummary, error)
	Children(ctx context.Context, claims *models.JWTClaims) ([]models.ChildOverview, error)
	Remind(ctx context.Context, req dto.RemindChildRequest, claims *models.JWTClaims) error
	ChildProfile(ctx context.Context, studentID string, claims *models.JWTClaims) (*models.ChildProfile, error)
}

// ParentHandler exposes the parent portal.
type ParentHandler struct {
	service parentService
}

// NewParentHandler constructs the handler.
func NewParentHandler(service parentService) *ParentHandler {
	return &ParentHandler{service: service}
}

// Link godoc
// @Summary Link the caller to a student by school number
// @Tags Parents
// @Accept json
// @Produce json
// @Param payload body dto.LinkChildRequest true "Student number"
// @Success 200 {object} response.Envelope
// @Router /parent/link [post]
func (h *ParentHandler) Link(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.LinkChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid link payload"))
		return
	}
	student, err := h.service.Link(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Children godoc
// @Summary Linked children with today's journal state
// @Tags Parents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /parent/children [get]
func (h *ParentHandler) Children(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	children, err := h.service.Children(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, children)
}

// Remind godoc
// @Summary Send a WhatsApp journal reminder to a linked child
// @Tags Parents
// @Accept json
// @Produce json
// @Param payload body dto.RemindChildRequest true "Child"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /parent/remind [post]
func (h *ParentHandler) Remind(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.RemindChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid reminder payload"))
		return
	}
	if err := h.service.Remind(c.Request.Context(), req, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"sent": true})
}

// ChildProfile godoc
// @Summary Journal history, records and stats of a linked child
// @Tags Parents
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /parent/child/{student_id} [get]
func (h *ParentHandler) ChildProfile(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	profile, err := h.service.ChildProfile(c.Request.Context(), c.Param("student_id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}
