package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
	"github.com/noah-isme/kokurikuler-api/pkg/export"
)

const maxPreviewDays = 62

type monitoringStore interface {
	CountFilledByDay(ctx context.Context, className string, from, to time.Time) ([]models.DailyFillCount, error)
	DailyStatuses(ctx context.Context, className string, date time.Time) ([]models.DailyStatusRow, error)
	ListStatusesForClassRange(ctx context.Context, className string, from, to time.Time) ([]models.EntryStatus, error)
}

type classRoster interface {
	CountStudentsInClass(ctx context.Context, className string) (int, error)
	ListStudentsInClass(ctx context.Context, className string) ([]models.StudentSummary, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// PreviewExport is a rendered class recap ready for download.
type PreviewExport struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// MonitoringService derives class-level views from committed journal entries.
type MonitoringService struct {
	entries   monitoringStore
	roster    classRoster
	cache     *CacheService
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMonitoringService constructs the aggregator.
func NewMonitoringService(entries monitoringStore, roster classRoster, cache *CacheService, csv csvRenderer, pdf pdfRenderer, validate *validator.Validate, logger *zap.Logger) *MonitoringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &MonitoringService{
		entries:   entries,
		roster:    roster,
		cache:     cache,
		csv:       csv,
		pdf:       pdf,
		validator: validate,
		logger:    logger,
	}
}

// Heatmap buckets each day of the month by the share of enrolled students who filled a journal.
// Days without any entry are absent from the map. The bool result reports a cache hit.
func (s *MonitoringService) Heatmap(ctx context.Context, query dto.HeatmapQuery) (*models.Heatmap, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Validation(err, "invalid monitoring query")
	}
	className := strings.TrimSpace(query.ClassName)
	return cachedLoad(ctx, s.cache, heatmapCacheKey(className, query.Year, query.Month), func(ctx context.Context) (*models.Heatmap, error) {
		return s.buildHeatmap(ctx, className, query.Year, query.Month)
	})
}

func (s *MonitoringService) buildHeatmap(ctx context.Context, className string, year, month int) (*models.Heatmap, error) {
	enrolled, err := s.roster.CountStudentsInClass(ctx, className)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	result := &models.Heatmap{
		ClassName:     className,
		Year:          year,
		Month:         month,
		TotalStudents: enrolled,
		DailyStats:    map[string]models.HeatLevel{},
	}
	if enrolled == 0 {
		return result, nil
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	counts, err := s.entries.CountFilledByDay(ctx, className, from, from.AddDate(0, 1, -1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate journals")
	}
	for _, count := range counts {
		if count.Filled <= 0 {
			continue
		}
		result.DailyStats[count.Date.Format(dateLayout)] = models.HeatLevelFor(count.Filled, enrolled)
	}
	return result, nil
}

// DailyDetail lists every student of a class with their entry state on one date.
func (s *MonitoringService) DailyDetail(ctx context.Context, query dto.DailyDetailQuery) ([]models.DailyStatusRow, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Validation(err, "invalid monitoring query")
	}
	date, err := parseDate(query.Date)
	if err != nil {
		return nil, false, err
	}
	className := strings.TrimSpace(query.ClassName)
	return cachedLoad(ctx, s.cache, dailyCacheKey(className, date), func(ctx context.Context) ([]models.DailyStatusRow, error) {
		rows, err := s.entries.DailyStatuses(ctx, className, date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily detail")
		}
		for i := range rows {
			rows[i].DisplayState = models.DisplayStateFor(rows[i].ParentStatus, rows[i].TeacherStatus, rows[i].EntryID != nil)
		}
		return rows, nil
	})
}

// Preview builds the homeroom matrix of the calling teacher for a date range.
func (s *MonitoringService) Preview(ctx context.Context, claims *models.JWTClaims, query dto.PreviewQuery) ([]models.PreviewRow, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleTeacher || claims.ClassName == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "homeroom class required")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Validation(err, "invalid preview query")
	}
	from, to, err := parseRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}

	roster, err := s.roster.ListStudentsInClass(ctx, claims.ClassName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	statuses, err := s.entries.ListStatusesForClassRange(ctx, claims.ClassName, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load journals")
	}

	byStudent := make(map[string][]models.PreviewCell, len(roster))
	for _, status := range statuses {
		byStudent[status.StudentID] = append(byStudent[status.StudentID], models.PreviewCell{
			Date:         status.Date.Format(dateLayout),
			EntryID:      status.ID,
			DisplayState: models.DisplayStateFor(status.ParentStatus, status.TeacherStatus, true),
		})
	}

	rows := make([]models.PreviewRow, 0, len(roster))
	for _, student := range roster {
		days := byStudent[student.ID]
		if days == nil {
			days = []models.PreviewCell{}
		}
		rows = append(rows, models.PreviewRow{Student: student, Days: days, TotalFilled: len(days)})
	}
	return rows, nil
}

// ExportPreview renders the homeroom matrix as CSV (default) or PDF.
func (s *MonitoringService) ExportPreview(ctx context.Context, claims *models.JWTClaims, query dto.PreviewQuery) (*PreviewExport, error) {
	rows, err := s.Preview(ctx, claims, query)
	if err != nil {
		return nil, err
	}
	from, to, _ := parseRange(query.StartDate, query.EndDate)
	dataset := previewDataset(rows, from, to)
	base := fmt.Sprintf("rekap-jurnal-%s-%s-%s", sanitizeFilename(claims.ClassName), query.StartDate, query.EndDate)

	switch strings.ToLower(query.Format) {
	case "pdf":
		title := fmt.Sprintf("Rekap Jurnal Kelas %s (%s s/d %s)", claims.ClassName, query.StartDate, query.EndDate)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &PreviewExport{Filename: base + ".pdf", ContentType: "application/pdf", Payload: payload}, nil
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &PreviewExport{Filename: base + ".csv", ContentType: "text/csv", Payload: payload}, nil
	}
}

func previewDataset(rows []models.PreviewRow, from, to time.Time) export.Dataset {
	headers := []string{"No", "Nama", "NIS"}
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	headers = append(headers, dates...)
	headers = append(headers, "Total")

	data := export.Dataset{Headers: headers, Rows: make([]map[string]string, 0, len(rows))}
	for i, row := range rows {
		record := map[string]string{
			"No":    strconv.Itoa(i + 1),
			"Nama":  row.Student.FullName,
			"Total": strconv.Itoa(row.TotalFilled),
		}
		if row.Student.StudentNumber != nil {
			record["NIS"] = *row.Student.StudentNumber
		}
		for _, date := range dates {
			record[date] = "-"
		}
		for _, cell := range row.Days {
			record[cell.Date] = displayMark(cell.DisplayState)
		}
		data.Rows = append(data.Rows, record)
	}
	return data
}

func displayMark(state models.DisplayState) string {
	switch state {
	case models.DisplayTeacherApproved:
		return "G"
	case models.DisplayParentApproved:
		return "O"
	case models.DisplayFilledPending:
		return "v"
	default:
		return "-"
	}
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	if to.Sub(from) > maxPreviewDays*24*time.Hour {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("range must not exceed %d days", maxPreviewDays))
	}
	return from, to, nil
}

func sanitizeFilename(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "kelas"
	}
	return b.String()
}
