package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/middleware"
	"github.com/noah-isme/kokurikuler-api/internal/models"
)

type monitoringServiceMock struct {
	heatmapQuery dto.HeatmapQuery
	detailQuery  dto.DailyDetailQuery
	hit          bool
}

func (m *monitoringServiceMock) Heatmap(ctx context.Context, query dto.HeatmapQuery) (*models.Heatmap, bool, error) {
	m.heatmapQuery = query
	return &models.Heatmap{
		ClassName:     query.ClassName,
		TotalStudents: 10,
		DailyStats:    map[string]models.HeatLevel{"2025-05-02": models.HeatHigh},
	}, m.hit, nil
}

func (m *monitoringServiceMock) DailyDetail(ctx context.Context, query dto.DailyDetailQuery) ([]models.DailyStatusRow, bool, error) {
	m.detailQuery = query
	return []models.DailyStatusRow{{StudentID: "stu-1", DisplayState: models.DisplayEmpty}}, m.hit, nil
}

func TestMonitoringHandlerHeatmap(t *testing.T) {
	svc := &monitoringServiceMock{hit: true}
	handler := NewMonitoringHandler(svc)

	c, w := newGinContext(http.MethodGet, "/contributor/monitoring?kelas=7A&month=5&year=2025", nil)
	middleware.WithResponseMeta()(c)
	handler.Heatmap(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.HeatmapQuery{ClassName: "7A", Month: 5, Year: 2025}, svc.heatmapQuery)

	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	var heatmap models.Heatmap
	require.NoError(t, json.Unmarshal(env.Data, &heatmap))
	assert.Equal(t, models.HeatHigh, heatmap.DailyStats["2025-05-02"])
	assert.NotContains(t, heatmap.DailyStats, "2025-05-01")
}

func TestMonitoringHandlerRejectsMalformedQuery(t *testing.T) {
	handler := NewMonitoringHandler(&monitoringServiceMock{})

	c, w := newGinContext(http.MethodGet, "/contributor/monitoring?kelas=7A&month=mei&year=2025", nil)
	handler.Heatmap(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonitoringHandlerDailyDetail(t *testing.T) {
	svc := &monitoringServiceMock{}
	handler := NewMonitoringHandler(svc)

	c, w := newGinContext(http.MethodGet, "/contributor/monitoring/detail?kelas=7A&date=2025-05-02", nil)
	handler.DailyDetail(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-05-02", svc.detailQuery.Date)
	assert.Equal(t, false, decodeEnvelope(t, w).Meta["cache_hit"])
}
