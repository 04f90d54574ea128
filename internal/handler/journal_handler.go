package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/response"
)

type journalService interface {
	Submit(ctx context.Context, req dto.SubmitJournalRequest, claims *models.JWTClaims) (*dto.SubmitJournalResult, error)
	Validate(ctx context.Context, req dto.ValidateJournalRequest, claims *models.JWTClaims) (*models.JournalEntry, error)
	ListMine(ctx context.Context, claims *models.JWTClaims) ([]models.JournalEntry, error)
	ClassDay(ctx context.Context, query dto.ClassDayQuery, claims *models.JWTClaims) ([]models.ClassDayRow, error)
	Photo(ctx context.Context, token string) ([]byte, string, error)
}

// JournalHandler exposes daily journal endpoints.
type JournalHandler struct {
	service journalService
}

// NewJournalHandler builds a new handler.
func NewJournalHandler(service journalService) *JournalHandler {
	return &JournalHandler{service: service}
}

// Submit godoc
// @Summary Submit or update today's journal
// @Description Upserts the caller's entry for the given date. Approval tracks are left untouched.
// @Tags Journals
// @Accept multipart/form-data
// @Produce json
// @Param date formData string true "Entry date (YYYY-MM-DD)"
// @Param habits formData string true "Habit payload as JSON"
// @Param photo formData file false "Optional photo"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /journals [post]
func (h *JournalHandler) Submit(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	habits := c.PostForm("habits")
	if habits == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "habits is required"))
		return
	}
	req := dto.SubmitJournalRequest{
		Date:   c.PostForm("date"),
		Habits: json.RawMessage(habits),
	}

	file, err := c.FormFile("photo")
	switch {
	case err == nil:
		photo, openErr := file.Open()
		if openErr != nil {
			response.Error(c, appErrors.Validation(openErr, "unable to read photo"))
			return
		}
		defer photo.Close()
		req.Photo = photo
	case !errors.Is(err, http.ErrMissingFile):
		response.Error(c, appErrors.Validation(err, "invalid multipart payload"))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.JSON(c, status, result, nil)
}

// Mine godoc
// @Summary List the caller's journal entries
// @Tags Journals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /journals/my [get]
func (h *JournalHandler) Mine(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	entries, err := h.service.ListMine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// ClassDay godoc
// @Summary Class roster with each student's entry for a date
// @Tags Journals
// @Produce json
// @Param kelas query string false "Class name (teachers are bound to their homeroom)"
// @Param tanggal query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /journals/class [get]
func (h *JournalHandler) ClassDay(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.ClassDayQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid query parameters"))
		return
	}
	rows, err := h.service.ClassDay(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rows)
}

// Validate godoc
// @Summary Approve or reject a journal entry
// @Description Parents and homeroom teachers each write only their own approval track.
// @Tags Journals
// @Accept json
// @Produce json
// @Param payload body dto.ValidateJournalRequest true "Validation payload"
// @Success 200 {object} response.Envelope
// @Router /journals/validate [post]
func (h *JournalHandler) Validate(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.ValidateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid validation payload"))
		return
	}
	entry, err := h.service.Validate(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entry)
}

// Photo godoc
// @Summary Download a journal photo using a signed token
// @Tags Journals
// @Produce octet-stream
// @Param token path string true "Signed photo token"
// @Success 200 {file} binary
// @Router /journals/photo/{token} [get]
func (h *JournalHandler) Photo(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	payload, contentType, err := h.service.Photo(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, contentType, payload)
}
