package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/middleware"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/response"
)

type monitoringService interface {
	Heatmap(ctx context.Context, query dto.HeatmapQuery) (*models.Heatmap, bool, error)
	DailyDetail(ctx context.Context, query dto.DailyDetailQuery) ([]models.DailyStatusRow, bool, error)
}

// MonitoringHandler serves class fill-rate views.
type MonitoringHandler struct {
	service monitoringService
}

// NewMonitoringHandler constructs the handler.
func NewMonitoringHandler(service monitoringService) *MonitoringHandler {
	return &MonitoringHandler{service: service}
}

// Heatmap godoc
// @Summary Monthly fill-rate heat-map for a class
// @Description Dates without any entry are omitted from daily_stats.
// @Tags Monitoring
// @Produce json
// @Param kelas query string true "Class name"
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} response.Envelope
// @Router /contributor/monitoring [get]
func (h *MonitoringHandler) Heatmap(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.HeatmapQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid query parameters"))
		return
	}
	heatmap, hit, err := h.service.Heatmap(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, heatmap, nil, middleware.ResponseMeta(c))
}

// DailyDetail godoc
// @Summary Per-student journal state for a class on one date
// @Tags Monitoring
// @Produce json
// @Param kelas query string true "Class name"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /contributor/monitoring/detail [get]
func (h *MonitoringHandler) DailyDetail(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.DailyDetailQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid query parameters"))
		return
	}
	rows, hit, err := h.service.DailyDetail(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, rows, nil, middleware.ResponseMeta(c))
}
