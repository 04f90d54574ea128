package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	"github.com/noah-isme/kokurikuler-api/internal/service"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
)

type previewServiceMock struct {
	query dto.PreviewQuery
}

func (m *previewServiceMock) Preview(ctx context.Context, claims *models.JWTClaims, query dto.PreviewQuery) ([]models.PreviewRow, error) {
	m.query = query
	return []models.PreviewRow{{TotalFilled: 1}}, nil
}

func (m *previewServiceMock) ExportPreview(ctx context.Context, claims *models.JWTClaims, query dto.PreviewQuery) (*service.PreviewExport, error) {
	m.query = query
	return &service.PreviewExport{Filename: "rekap-jurnal-7a-2025-05-01-2025-05-07.csv", ContentType: "text/csv", Payload: []byte("No,Nama\n")}, nil
}

type reportServiceMock struct {
	req dto.ReportRequest
	err error
}

func (m *reportServiceMock) ReportData(ctx context.Context, claims *models.JWTClaims, req dto.ReportRequest) (*dto.StudentReport, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.StudentReport{StartDate: req.StartDate, EndDate: req.EndDate}, nil
}

func (m *reportServiceMock) ReportPDF(ctx context.Context, claims *models.JWTClaims, req dto.ReportRequest) (*service.PreviewExport, error) {
	m.req = req
	return &service.PreviewExport{Filename: "rapor.pdf", ContentType: "application/pdf", Payload: []byte("%PDF-1.3")}, nil
}

func TestTeacherHandlerPreviewAndExport(t *testing.T) {
	preview := &previewServiceMock{}
	handler := NewTeacherHandler(preview, &reportServiceMock{})

	c, w := newGinContext(http.MethodGet, "/teacher/preview?start_date=2025-05-01&end_date=2025-05-07", nil)
	handler.Preview(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-05-07", preview.query.EndDate)

	c, w = newGinContext(http.MethodGet, "/teacher/preview/export?start_date=2025-05-01&end_date=2025-05-07&format=csv", nil)
	handler.ExportPreview(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", preview.query.Format)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "rekap-jurnal-7a-2025-05-01-2025-05-07.csv")
	assert.Equal(t, "No,Nama\n", w.Body.String())
}

func TestTeacherHandlerReportData(t *testing.T) {
	reports := &reportServiceMock{}
	handler := NewTeacherHandler(&previewServiceMock{}, reports)

	c, w := newGinContext(http.MethodPost, "/teacher/report-data", []byte(`{"student_id":"stu-1","start_date":"2025-05-01","end_date":"2025-05-31"}`))
	handler.ReportData(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", reports.req.StudentID)

	reports.err = appErrors.Clone(appErrors.ErrForbidden, "student is outside your class")
	c, w = newGinContext(http.MethodPost, "/teacher/report-data", []byte(`{"student_id":"stu-9","start_date":"2025-05-01","end_date":"2025-05-31"}`))
	handler.ReportData(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTeacherHandlerReportPDF(t *testing.T) {
	reports := &reportServiceMock{}
	handler := NewTeacherHandler(nil, reports)

	c, w := newGinContext(http.MethodGet, "/teacher/report-data/pdf?student_id=stu-1&start_date=2025-05-01&end_date=2025-05-31", nil)
	handler.ReportPDF(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, dto.ReportRequest{StudentID: "stu-1", StartDate: "2025-05-01", EndDate: "2025-05-31"}, reports.req)

	c, w = newGinContext(http.MethodGet, "/teacher/preview", nil)
	handler.Preview(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
