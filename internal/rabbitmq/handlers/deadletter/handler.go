// Package deadletter settles jobs that exhausted their retry budget:
// the notification is marked failed and operators are alerted.
package deadletter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/stagewave/notifier/internal/rabbitmq/queue"
)

const reasonRetryBudgetExhausted = "retry budget exhausted"

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/deadletter/mock.go -package=mocks

type stateStore interface {
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
}

type alerter interface {
	Alert(msg string)
}

type Handler struct {
	store   stateStore
	alerter alerter
}

func NewHandler(store stateStore, alerter alerter) *Handler {
	return &Handler{
		store:   store,
		alerter: alerter,
	}
}

// HandleDead settles one dead-lettered job.
func (h *Handler) HandleDead(ctx context.Context, job queue.DeliveryJob) {
	applied, err := h.store.MarkFailed(ctx, job.NotificationID, reasonRetryBudgetExhausted)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", job.NotificationID.String()).Msg("failed to settle dead-lettered notification")
	} else if !applied {
		// A concurrent attempt settled the notification between the last
		// retry and the DLQ hop; nothing left to record.
		zlog.Logger.Info().Str("id", job.NotificationID.String()).Msg("dead-lettered notification already settled")
		return
	}

	h.alerter.Alert(fmt.Sprintf(
		"notification %s exhausted its delivery retry budget after %d attempts",
		job.NotificationID, job.Attempt,
	))
}
