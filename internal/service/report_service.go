package service

import (
	"context"
	"database/sql"
	"errors"
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

type reportJournalReader interface {
	ListByStudentRange(ctx context.Context, studentID string, from, to time.Time) ([]models.JournalEntry, error)
}

type recordReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.CharacterRecord, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type textGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type documentRenderer interface {
	RenderDocument(doc export.Document) ([]byte, error)
}

// ReportService assembles character reports and generated coaching text.
type ReportService struct {
	users      userFinder
	entries    reportJournalReader
	records    recordReader
	generator  textGenerator
	renderer   documentRenderer
	validator  *validator.Validate
	logger     *zap.Logger
	schoolName string
}

// NewReportService constructs the report service.
func NewReportService(
	users userFinder,
	entries reportJournalReader,
	records recordReader,
	generator textGenerator,
	renderer documentRenderer,
	validate *validator.Validate,
	logger *zap.Logger,
	schoolName string,
) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewPDFExporter()
	}
	return &ReportService{
		users:      users,
		entries:    entries,
		records:    records,
		generator:  generator,
		renderer:   renderer,
		validator:  validate,
		logger:     logger,
		schoolName: schoolName,
	}
}

// ReportData collects a student's entries, records and profile scores for a date range.
// The narrative is best effort and left empty when the generator is unavailable.
func (s *ReportService) ReportData(ctx context.Context, claims *models.JWTClaims, req dto.ReportRequest) (*dto.StudentReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid report request")
	}
	from, to, err := parseReportRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	student, err := s.loadScopedStudent(ctx, claims, req.StudentID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByStudentRange(ctx, student.ID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load journals")
	}
	allRecords, err := s.records.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load character records")
	}
	records := make([]models.CharacterRecord, 0, len(allRecords))
	for _, record := range allRecords {
		day := record.CreatedAt.UTC().Truncate(24 * time.Hour)
		if day.Before(from) || day.After(to) {
			continue
		}
		records = append(records, record)
	}

	report := &dto.StudentReport{
		Student:   summaryOf(student),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Entries:   entries,
		Records:   records,
		Profiles:  models.ScoreProfiles(models.HabitsOf(entries)),
		Points:    models.TotalPoints(records),
		Progress:  models.ProgressForXP(student.XP),
	}
	report.Narrative = s.narrative(ctx, report)
	return report, nil
}

// ReportPDF renders ReportData as a printable document.
func (s *ReportService) ReportPDF(ctx context.Context, claims *models.JWTClaims, req dto.ReportRequest) (*PreviewExport, error) {
	report, err := s.ReportData(ctx, claims, req)
	if err != nil {
		return nil, err
	}
	doc := s.reportDocument(report)
	payload, err := s.renderer.RenderDocument(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	filename := fmt.Sprintf("rapor-karakter-%s-%s.pdf", sanitizeFilename(report.Student.FullName), req.EndDate)
	return &PreviewExport{Filename: filename, ContentType: "application/pdf", Payload: payload}, nil
}

// AIStrategy asks the generator for coaching guidance based on the student's entry of a date.
func (s *ReportService) AIStrategy(ctx context.Context, claims *models.JWTClaims, req dto.StrategyRequest) (*dto.StrategyResponse, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid strategy request")
	}
	if s.generator == nil || !s.generator.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "text generator is not configured")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	student, err := s.users.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	entries, err := s.entries.ListByStudentRange(ctx, student.ID, date, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load journal")
	}
	var habits *models.Habits
	if len(entries) > 0 {
		habits = &entries[0].Habits
	}

	text, err := s.generator.Generate(ctx, strategyPrompt(student.FullName, req.Date, habits))
	if err != nil {
		s.logger.Warn("strategy generation failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to generate strategy")
	}
	return &dto.StrategyResponse{Strategy: text}, nil
}

func (s *ReportService) loadScopedStudent(ctx context.Context, claims *models.JWTClaims, studentID string) (*models.User, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	switch claims.Role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		if student.ClassName == nil || claims.ClassName == "" || *student.ClassName != claims.ClassName {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "student outside teacher class")
		}
	default:
		return nil, appErrors.ErrForbidden
	}
	return student, nil
}

func (s *ReportService) narrative(ctx context.Context, report *dto.StudentReport) string {
	if s.generator == nil || !s.generator.Enabled() {
		return ""
	}
	text, err := s.generator.Generate(ctx, narrativePrompt(report))
	if err != nil {
		s.logger.Warn("report narrative generation failed", zap.String("student_id", report.Student.ID), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}

func (s *ReportService) reportDocument(report *dto.StudentReport) export.Document {
	subtitle := []string{
		fmt.Sprintf("Nama: %s", report.Student.FullName),
		fmt.Sprintf("Periode: %s s/d %s", report.StartDate, report.EndDate),
	}
	if report.Student.ClassName != nil {
		subtitle = append(subtitle, fmt.Sprintf("Kelas: %s", *report.Student.ClassName))
	}

	profiles := export.Dataset{Headers: []string{"Dimensi", "Skor"}}
	for _, dim := range report.Profiles.Dimensions() {
		profiles.Rows = append(profiles.Rows, map[string]string{"Dimensi": dim.Label, "Skor": strconv.Itoa(dim.Score)})
	}

	records := export.Dataset{Headers: []string{"Tanggal", "Kategori", "Judul", "Poin"}}
	for _, record := range report.Records {
		records.Rows = append(records.Rows, map[string]string{
			"Tanggal":  record.CreatedAt.Format(dateLayout),
			"Kategori": string(record.Category),
			"Judul":    record.Title,
			"Poin":     strconv.Itoa(record.Points),
		})
	}

	sections := []export.Section{
		{
			Heading: "Ringkasan",
			Paragraphs: []string{
				fmt.Sprintf("Jurnal terisi: %d hari.", len(report.Entries)),
				fmt.Sprintf("Poin positif: %d, poin pelanggaran: %d.", report.Points.Positive, report.Points.Negative),
				fmt.Sprintf("Level %d (%s), %d XP.", report.Progress.Level, report.Progress.Title, report.Progress.XP),
			},
		},
		{Heading: "Profil Lulusan", Table: &profiles},
	}
	if len(records.Rows) > 0 {
		sections = append(sections, export.Section{Heading: "Catatan Karakter", Table: &records})
	}
	if report.Narrative != "" {
		sections = append(sections, export.Section{Heading: "Catatan Wali Kelas", Paragraphs: strings.Split(report.Narrative, "\n\n")})
	}

	return export.Document{
		Title:    "Rapor Karakter Kokurikuler",
		Subtitle: subtitle,
		Sections: sections,
		Footer:   s.schoolName,
	}
}

func narrativePrompt(report *dto.StudentReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tuliskan narasi rapor karakter singkat (2 paragraf, bahasa Indonesia, nada positif dan membangun) untuk siswa bernama %s ", report.Student.FullName)
	fmt.Fprintf(&b, "periode %s sampai %s.\n", report.StartDate, report.EndDate)
	fmt.Fprintf(&b, "Jumlah jurnal terisi: %d.\n", len(report.Entries))
	b.WriteString("Skor profil lulusan (0-100):\n")
	for _, dim := range report.Profiles.Dimensions() {
		fmt.Fprintf(&b, "- %s: %d\n", dim.Label, dim.Score)
	}
	fmt.Fprintf(&b, "Poin prestasi: %d, poin pelanggaran: %d.\n", report.Points.Positive, report.Points.Negative)
	return b.String()
}

func strategyPrompt(name, date string, habits *models.Habits) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Anda adalah guru BK. Berikan strategi pembinaan karakter yang konkret (maksimal 5 poin, bahasa Indonesia) untuk siswa %s ", name)
	fmt.Fprintf(&b, "berdasarkan jurnal kebiasaan tanggal %s.\n", date)
	if habits == nil {
		b.WriteString("Siswa tidak mengisi jurnal pada tanggal tersebut.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Bangun: %s, tidur: %s.\n", orDash(habits.WakeTime), orDash(habits.SleepTime))
	fmt.Fprintf(&b, "Ibadah: %s.\n", orDash(strings.Join(habits.WorshipList, ", ")))
	fmt.Fprintf(&b, "Olahraga: %s.\n", orDash(habits.SportType))
	fmt.Fprintf(&b, "Makan sehat: %s.\n", orDash(habits.HealthyMeal))
	fmt.Fprintf(&b, "Belajar: %s.\n", orDash(habits.StudySubject))
	fmt.Fprintf(&b, "Kegiatan sosial: %s.\n", orDash(habits.SocialAction))
	return b.String()
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func parseReportRange(start, end string) (time.Time, time.Time, error) {
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
	return from, to, nil
}

func summaryOf(user *models.User) models.StudentSummary {
	return models.StudentSummary{
		ID:            user.ID,
		FullName:      user.FullName,
		StudentNumber: user.StudentNumber,
		ClassName:     user.ClassName,
	}
}
