package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
)

type rangeJournalStub struct {
	entries []models.JournalEntry
	from    time.Time
	to      time.Time
}

func (s *rangeJournalStub) ListByStudentRange(ctx context.Context, studentID string, from, to time.Time) ([]models.JournalEntry, error) {
	s.from, s.to = from, to
	return s.entries, nil
}

type generatorStub struct {
	enabled bool
	text    string
	err     error
	prompts []string
}

func (s *generatorStub) Enabled() bool { return s.enabled }

func (s *generatorStub) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

func newReportFixture(gen *generatorStub) (*ReportService, *rangeJournalStub) {
	andi := studentUser("stu-1", "7A")
	andi.XP = 2600
	users := directoryStub{users: map[string]*models.User{"stu-1": andi}}
	entries := &rangeJournalStub{entries: []models.JournalEntry{
		{ID: "e1", Habits: models.Habits{WorshipList: []string{"Subuh", "Dzuhur"}, SocialAction: "Diskusi kelompok"}},
		{ID: "e2", Habits: models.Habits{SportType: "Lari", StudySubject: "IPA"}},
	}}
	records := &recordStoreStub{byStudent: []models.CharacterRecord{
		{Title: "Juara", Points: 20, Category: models.RecordAchievement, CreatedAt: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)},
		{Title: "Terlambat", Points: -5, Category: models.RecordViolation, CreatedAt: time.Date(2025, 5, 3, 7, 0, 0, 0, time.UTC)},
		{Title: "Lama", Points: 50, Category: models.RecordAchievement, CreatedAt: time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)},
	}}
	var generator textGenerator
	if gen != nil {
		generator = gen
	}
	return NewReportService(users, entries, records, generator, nil, nil, zap.NewNop(), "SMP Harapan"), entries
}

func TestReportServiceReportData(t *testing.T) {
	gen := &generatorStub{enabled: true, text: "  Ananda berkembang baik.  "}
	svc, entries := newReportFixture(gen)

	report, err := svc.ReportData(context.Background(), teacherClaims, dto.ReportRequest{StudentID: "stu-1", StartDate: "2025-05-01", EndDate: "2025-05-31"})
	require.NoError(t, err)
	assert.Len(t, report.Entries, 2)
	assert.Len(t, report.Records, 2)
	assert.Equal(t, models.PointTotals{Positive: 20, Negative: 5}, report.Points)
	assert.Equal(t, 6, report.Progress.Level)
	assert.Equal(t, "Apprentice", report.Progress.Title)
	assert.Equal(t, "Ananda berkembang baik.", report.Narrative)
	assert.Equal(t, "2025-05-31", entries.to.Format(dateLayout))

	assert.Equal(t, 50, report.Profiles.Faith)
	assert.Equal(t, 60, report.Profiles.Communication)
	for _, dim := range report.Profiles.Dimensions() {
		assert.GreaterOrEqual(t, dim.Score, 0)
		assert.LessOrEqual(t, dim.Score, 100)
	}
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Siswa stu-1")
}

func TestReportServiceNarrativeIsBestEffort(t *testing.T) {
	svc, _ := newReportFixture(&generatorStub{enabled: true, err: errors.New("quota exceeded")})
	report, err := svc.ReportData(context.Background(), teacherClaims, dto.ReportRequest{StudentID: "stu-1", StartDate: "2025-05-01", EndDate: "2025-05-31"})
	require.NoError(t, err)
	assert.Empty(t, report.Narrative)

	svc, _ = newReportFixture(nil)
	report, err = svc.ReportData(context.Background(), teacherClaims, dto.ReportRequest{StudentID: "stu-1", StartDate: "2025-05-01", EndDate: "2025-05-31"})
	require.NoError(t, err)
	assert.Empty(t, report.Narrative)
}

func TestReportServiceScope(t *testing.T) {
	svc, _ := newReportFixture(nil)
	req := dto.ReportRequest{StudentID: "stu-1", StartDate: "2025-05-01", EndDate: "2025-05-31"}

	otherTeacher := &models.JWTClaims{UserID: "tch-2", Role: models.RoleTeacher, ClassName: "9C"}
	_, err := svc.ReportData(context.Background(), otherTeacher, req)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.ReportData(context.Background(), parentClaims, req)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	req.StudentID = "ghost"
	_, err = svc.ReportData(context.Background(), teacherClaims, req)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.ReportData(context.Background(), teacherClaims, dto.ReportRequest{StudentID: "stu-1", StartDate: "2025-06-01", EndDate: "2025-05-01"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestReportServiceReportPDF(t *testing.T) {
	svc, _ := newReportFixture(&generatorStub{enabled: true, text: "Paragraf satu.\n\nParagraf dua."})
	out, err := svc.ReportPDF(context.Background(), teacherClaims, dto.ReportRequest{StudentID: "stu-1", StartDate: "2025-05-01", EndDate: "2025-05-31"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "rapor-karakter-siswa-stu-1-2025-05-31.pdf", out.Filename)
	assert.True(t, strings.HasPrefix(string(out.Payload), "%PDF"))
}

func TestReportServiceAIStrategy(t *testing.T) {
	gen := &generatorStub{enabled: true, text: "1. Ajak diskusi"}
	svc, entries := newReportFixture(gen)

	resp, err := svc.AIStrategy(context.Background(), contributorClaims, dto.StrategyRequest{StudentID: "stu-1", Date: "2025-05-02"})
	require.NoError(t, err)
	assert.Equal(t, "1. Ajak diskusi", resp.Strategy)
	assert.Equal(t, entries.from, entries.to)
	assert.Contains(t, gen.prompts[0], "Subuh, Dzuhur")

	disabled, _ := newReportFixture(&generatorStub{})
	_, err = disabled.AIStrategy(context.Background(), contributorClaims, dto.StrategyRequest{StudentID: "stu-1", Date: "2025-05-02"})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnavailable))

	_, err = svc.AIStrategy(context.Background(), contributorClaims, dto.StrategyRequest{StudentID: "ghost", Date: "2025-05-02"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
