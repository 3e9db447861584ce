package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/stagewave/notifier/internal/api/dto"
	"github.com/stagewave/notifier/internal/api/respond"
	"github.com/stagewave/notifier/internal/config"
	"github.com/stagewave/notifier/internal/model"
	notifrepo "github.com/stagewave/notifier/internal/repository/notification"
	"github.com/stagewave/notifier/internal/service/schedule"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/notification/mock.go -package=mocks

type scheduleService interface {
	Schedule(ctx context.Context, strategy retry.Strategy, n model.ScheduledNotification) (uuid.UUID, error)
	GetStatus(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error)
	Cancel(ctx context.Context, strategy retry.Strategy, id uuid.UUID) error
}

type Handler struct {
	service   scheduleService
	validator *validator.Validate
	cfg       *config.Config
}

func NewHandler(
	s scheduleService,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{service: s, validator: v, cfg: cfg}
}

func (h *Handler) Schedule(c *ginext.Context) {
	var req dto.ScheduleRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid user id"))
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid scheduled_at, expected RFC 3339"))
		return
	}

	n := model.ScheduledNotification{
		UserID:      userID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Payload:     req.Payload,
		ScheduledAt: scheduledAt,
		Status:      model.StatusPending,
	}

	id, err := h.service.Schedule(c.Request.Context(), h.cfg.Retry, n)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("title", n.Title).Msg("failed to schedule notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Created(c.Writer, id)
}

func (h *Handler) GetStatus(c *ginext.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		if errors.Is(err, notifrepo.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, status)
}

func (h *Handler) Cancel(c *ginext.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.service.Cancel(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		if errors.Is(err, schedule.ErrAlreadySettled) {
			respond.Fail(c.Writer, http.StatusConflict, fmt.Errorf("notification already settled"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cancel notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, "notification cancelled")
}

func parseID(c *ginext.Context, param string) (uuid.UUID, bool) {
	idStr := c.Param(param)
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("idStr", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return uuid.Nil, false
	}

	return id, true
}
