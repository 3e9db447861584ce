package history

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/stagewave/notifier/internal/api/respond"
	"github.com/stagewave/notifier/internal/model"
	historyrepo "github.com/stagewave/notifier/internal/repository/history"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/history/mock.go -package=mocks

type historyService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]model.HistoryEntry, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

type Handler struct {
	service historyService
}

func NewHandler(s historyService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) List(c *ginext.Context) {
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.service.List(c.Request.Context(), userID, limit)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list history")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, entries)
}

func (h *Handler) UnreadCount(c *ginext.Context) {
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to count unread history")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, count)
}

func (h *Handler) MarkRead(c *ginext.Context) {
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, historyrepo.ErrEntryNotFound) {
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("history entry not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to mark history entry read")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, "entry marked read")
}

func parseID(c *ginext.Context, param string) (uuid.UUID, bool) {
	idStr := c.Param(param)
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("idStr", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return uuid.Nil, false
	}

	return id, true
}
