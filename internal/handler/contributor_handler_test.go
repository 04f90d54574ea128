package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
)

type recordServiceMock struct {
	created dto.CreateRecordRequest
	query   dto.StudentSearchQuery
}

func (m *recordServiceMock) Create(ctx context.Context, req dto.CreateRecordRequest, claims *models.JWTClaims) (*models.CharacterRecord, error) {
	m.created = req
	return &models.CharacterRecord{ID: "rec-1", StudentID: req.StudentID, Points: -req.Points}, nil
}

func (m *recordServiceMock) History(ctx context.Context, claims *models.JWTClaims) ([]models.CharacterRecord, error) {
	return []models.CharacterRecord{{ID: "rec-1"}}, nil
}

func (m *recordServiceMock) SearchStudents(ctx context.Context, query dto.StudentSearchQuery) ([]models.StudentSummary, error) {
	m.query = query
	return []models.StudentSummary{{ID: "stu-1"}}, nil
}

type taskServiceMock struct {
	created  dto.CreateMissionRequest
	reportID string
}

func (m *taskServiceMock) Create(ctx context.Context, req dto.CreateMissionRequest, claims *models.JWTClaims) (*models.Mission, error) {
	m.created = req
	return &models.Mission{ID: "m-1", Title: req.Title}, nil
}

func (m *taskServiceMock) TaskReport(ctx context.Context, missionID string, claims *models.JWTClaims) ([]models.MissionCompletion, error) {
	m.reportID = missionID
	if missionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "task_id is required")
	}
	return []models.MissionCompletion{{MissionID: missionID}}, nil
}

type strategyServiceMock struct {
	err error
}

func (m *strategyServiceMock) AIStrategy(ctx context.Context, claims *models.JWTClaims, req dto.StrategyRequest) (*dto.StrategyResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.StrategyResponse{Strategy: "Ajak diskusi"}, nil
}

func TestContributorHandlerRecordsAndSearch(t *testing.T) {
	records := &recordServiceMock{}
	handler := NewContributorHandler(records, &taskServiceMock{}, &strategyServiceMock{})

	c, w := newGinContext(http.MethodPost, "/contributor/record", []byte(`{"student_id":"stu-1","category":"violation","title":"Terlambat","points":5}`))
	withClaims(c, &models.JWTClaims{UserID: "con-1", Role: models.RoleContributor})
	handler.CreateRecord(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "violation", records.created.Category)

	c, w = newGinContext(http.MethodPost, "/contributor/record", []byte(`{"points":"many"}`))
	handler.CreateRecord(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/contributor/search?query=andi&kelas=7A", nil)
	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.StudentSearchQuery{Query: "andi", ClassName: "7A"}, records.query)

	c, w = newGinContext(http.MethodGet, "/contributor/history", nil)
	handler.History(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContributorHandlerTasks(t *testing.T) {
	tasks := &taskServiceMock{}
	handler := NewContributorHandler(&recordServiceMock{}, tasks, &strategyServiceMock{})

	c, w := newGinContext(http.MethodPost, "/contributor/task", []byte(`{"target_type":"class","target_id":"7A","title":"Senyum"}`))
	handler.CreateTask(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "7A", tasks.created.TargetID)

	c, w = newGinContext(http.MethodGet, "/contributor/task/report?task_id=m-1", nil)
	handler.TaskReport(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "m-1", tasks.reportID)

	c, w = newGinContext(http.MethodGet, "/contributor/task/report", nil)
	handler.TaskReport(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContributorHandlerStrategyUnavailable(t *testing.T) {
	strategy := &strategyServiceMock{err: appErrors.Clone(appErrors.ErrUnavailable, "text generation is not configured")}
	handler := NewContributorHandler(nil, nil, strategy)

	c, w := newGinContext(http.MethodPost, "/contributor/ai-strategy", []byte(`{"student_id":"stu-1","date":"2025-05-02"}`))
	handler.Strategy(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	strategy.err = nil
	c, w = newGinContext(http.MethodPost, "/contributor/ai-strategy", []byte(`{"student_id":"stu-1","date":"2025-05-02"}`))
	handler.Strategy(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/contributor/history", nil)
	handler.History(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
