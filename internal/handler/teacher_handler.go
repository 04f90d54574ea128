package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	"github.com/noah-isme/kokurikuler-api/internal/service"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/response"
)

type previewService interface {
	Preview(ctx context.Context, claims *models.JWTClaims, query dto.PreviewQuery) ([]models.PreviewRow, error)
	ExportPreview(ctx context.Context, claims *models.JWTClaims, query dto.PreviewQuery) (*service.PreviewExport, error)
}

type reportService interface {
	ReportData(ctx context.Context, claims *models.JWTClaims, req dto.ReportRequest) (*dto.StudentReport, error)
	ReportPDF(ctx context.Context, claims *models.JWTClaims, req dto.ReportRequest) (*service.PreviewExport, error)
}

// TeacherHandler serves homeroom recap and character report endpoints.
type TeacherHandler struct {
	preview previewService
	reports reportService
}

// NewTeacherHandler constructs the handler.
func NewTeacherHandler(preview previewService, reports reportService) *TeacherHandler {
	return &TeacherHandler{preview: preview, reports: reports}
}

// Preview godoc
// @Summary Homeroom journal matrix over a date range
// @Tags Teachers
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /teacher/preview [get]
func (h *TeacherHandler) Preview(c *gin.Context) {
	if h.preview == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.PreviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid query parameters"))
		return
	}
	rows, err := h.preview.Preview(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rows)
}

// ExportPreview godoc
// @Summary Download the homeroom journal matrix
// @Tags Teachers
// @Produce text/csv
// @Produce application/pdf
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Router /teacher/preview/export [get]
func (h *TeacherHandler) ExportPreview(c *gin.Context) {
	if h.preview == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.PreviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid query parameters"))
		return
	}
	file, err := h.preview.ExportPreview(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// ReportData godoc
// @Summary Character report data for a student
// @Description Narrative is empty when text generation is unavailable.
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Student and range"
// @Success 200 {object} response.Envelope
// @Router /teacher/report-data [post]
func (h *TeacherHandler) ReportData(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid report payload"))
		return
	}
	report, err := h.reports.ReportData(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// ReportPDF godoc
// @Summary Render a student's character report as PDF
// @Tags Teachers
// @Produce application/pdf
// @Param student_id query string true "Student ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /teacher/report-data/pdf [get]
func (h *TeacherHandler) ReportPDF(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid query parameters"))
		return
	}
	file, err := h.reports.ReportPDF(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
