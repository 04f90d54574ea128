package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kokurikuler-api/internal/dto"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	appErrors "github.com/noah-isme/kokurikuler-api/pkg/errors"
)

type parentServiceMock struct {
	linked    dto.LinkChildRequest
	reminded  dto.RemindChildRequest
	remindErr error
	profileID string
}

func (m *parentServiceMock) Link(ctx context.Context, req dto.LinkChildRequest, claims *models.JWTClaims) (*models.StudentSummary, error) {
	m.linked = req
	if req.StudentNumber == "9999" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &models.StudentSummary{ID: "stu-1"}, nil
}

func (m *parentServiceMock) Children(ctx context.Context, claims *models.JWTClaims) ([]models.ChildOverview, error) {
	return []models.ChildOverview{{DisplayState: models.DisplayFilledPending}}, nil
}

func (m *parentServiceMock) Remind(ctx context.Context, req dto.RemindChildRequest, claims *models.JWTClaims) error {
	m.reminded = req
	return m.remindErr
}

func (m *parentServiceMock) ChildProfile(ctx context.Context, studentID string, claims *models.JWTClaims) (*models.ChildProfile, error) {
	m.profileID = studentID
	return &models.ChildProfile{}, nil
}

func TestParentHandlerLink(t *testing.T) {
	svc := &parentServiceMock{}
	handler := NewParentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/parent/link", []byte(`{"student_number":"1001"}`))
	handler.Link(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1001", svc.linked.StudentNumber)

	c, w = newGinContext(http.MethodPost, "/parent/link", []byte(`{"student_number":"9999"}`))
	handler.Link(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParentHandlerRemind(t *testing.T) {
	svc := &parentServiceMock{}
	handler := NewParentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/parent/remind", []byte(`{"student_id":"stu-1"}`))
	handler.Remind(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", svc.reminded.StudentID)

	svc.remindErr = appErrors.Clone(appErrors.ErrValidation, "student has no phone number")
	c, w = newGinContext(http.MethodPost, "/parent/remind", []byte(`{"student_id":"stu-2"}`))
	handler.Remind(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParentHandlerChildrenAndProfile(t *testing.T) {
	svc := &parentServiceMock{}
	handler := NewParentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/parent/children", nil)
	handler.Children(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/parent/child/stu-1", nil)
	c.Params = gin.Params{{Key: "student_id", Value: "stu-1"}}
	handler.ChildProfile(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", svc.profileID)
}
