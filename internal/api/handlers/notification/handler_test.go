package notification

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/retry"

	"github.com/stagewave/notifier/internal/api/dto"
	"github.com/stagewave/notifier/internal/config"
	mocks "github.com/stagewave/notifier/internal/mocks/api/handlers/notification"
	"github.com/stagewave/notifier/internal/model"
	notifrepo "github.com/stagewave/notifier/internal/repository/notification"
	"github.com/stagewave/notifier/internal/service/schedule"
)

func setupHandler(t *testing.T) (*Handler, *mocks.MockscheduleService, *config.Config) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := mocks.NewMockscheduleService(ctrl)
	cfg := &config.Config{Retry: retry.Strategy{}}
	validate := validator.New()
	handler := NewHandler(mockService, validate, cfg)
	return handler, mockService, cfg
}

func TestHandler_Schedule_Success(t *testing.T) {
	handler, mockService, cfg := setupHandler(t)

	reqBody := dto.ScheduleRequest{
		UserID:      uuid.New().String(),
		Type:        "event_reminder",
		Title:       "Doors open soon",
		Message:     "The show starts in one hour.",
		ScheduledAt: time.Now().Add(time.Hour).Format(time.RFC3339),
	}

	bodyBytes, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/api/notifications", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	mockService.EXPECT().
		Schedule(
			gomock.Any(),
			cfg.Retry,
			gomock.AssignableToTypeOf(model.ScheduledNotification{}),
		).Return(uuid.New(), nil)

	handler.Schedule(c)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
}

func TestHandler_Schedule_InvalidScheduledAt(t *testing.T) {
	handler, _, _ := setupHandler(t)

	reqBody := dto.ScheduleRequest{
		UserID:      uuid.New().String(),
		Type:        "event_reminder",
		Title:       "Doors open soon",
		Message:     "The show starts in one hour.",
		ScheduledAt: "2026-09-15 10:00:00",
	}

	bodyBytes, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/api/notifications", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Schedule(c)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestHandler_GetStatus_Success(t *testing.T) {
	handler, mockService, cfg := setupHandler(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/"+id.String(), nil)
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	mockService.EXPECT().
		GetStatus(gomock.Any(), cfg.Retry, id).
		Return(model.StatusPending, nil)

	handler.GetStatus(c)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestHandler_GetStatus_NotFound(t *testing.T) {
	handler, mockService, cfg := setupHandler(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/"+id.String(), nil)
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	mockService.EXPECT().
		GetStatus(gomock.Any(), cfg.Retry, id).
		Return("", notifrepo.ErrNotificationNotFound)

	handler.GetStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestHandler_Cancel_Success(t *testing.T) {
	handler, mockService, cfg := setupHandler(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/notifications/"+id.String(), nil)
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	mockService.EXPECT().
		Cancel(gomock.Any(), cfg.Retry, id).
		Return(nil)

	handler.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestHandler_Cancel_AlreadySettled(t *testing.T) {
	handler, mockService, cfg := setupHandler(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/notifications/"+id.String(), nil)
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	mockService.EXPECT().
		Cancel(gomock.Any(), cfg.Retry, id).
		Return(schedule.ErrAlreadySettled)

	handler.Cancel(c)

	assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestHandler_Cancel_InternalError(t *testing.T) {
	handler, mockService, cfg := setupHandler(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/notifications/"+id.String(), nil)
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	mockService.EXPECT().
		Cancel(gomock.Any(), cfg.Retry, id).
		Return(errors.New("connection refused"))

	handler.Cancel(c)

	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}
