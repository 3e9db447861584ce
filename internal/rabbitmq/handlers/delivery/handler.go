// Package delivery consumes jobs from the main queue and drives the
// delivery core, translating its typed outcome into queue signalling:
// settled outcomes acknowledge the job, transient failures go back
// through the TTL retry queue until the attempt budget runs out, after
// which the job is parked on the DLQ.
package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/stagewave/notifier/internal/model"
	"github.com/stagewave/notifier/internal/rabbitmq/queue"
	notifrepo "github.com/stagewave/notifier/internal/repository/notification"
	deliverysvc "github.com/stagewave/notifier/internal/service/delivery"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/delivery/mock.go -package=mocks

type deliveryService interface {
	Get(ctx context.Context, id uuid.UUID) (model.ScheduledNotification, error)
	Deliver(ctx context.Context, id uuid.UUID) error
}

type retryQueue interface {
	PublishRetry(job queue.DeliveryJob, strategy retry.Strategy) error
	PublishDead(job queue.DeliveryJob, strategy retry.Strategy) error
}

type Handler struct {
	service deliveryService
	queue   retryQueue
}

func NewHandler(svc deliveryService, q retryQueue) *Handler {
	return &Handler{
		service: svc,
		queue:   q,
	}
}

// HandleJob processes a single dequeued delivery job.
func (h *Handler) HandleJob(ctx context.Context, job queue.DeliveryJob, strategy retry.Strategy) {
	n, err := h.service.Get(ctx, job.NotificationID)
	if err != nil {
		if errors.Is(err, notifrepo.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", job.NotificationID.String()).Msg("job references unknown notification, dropping")
			return
		}

		h.retryOrPark(job, strategy, err)
		return
	}

	// Jobs may arrive before their due time; hold the slot until then.
	if wait := time.Until(n.ScheduledAt); wait > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}

	err = h.service.Deliver(ctx, job.NotificationID)
	if err == nil {
		return
	}

	var transient *deliverysvc.TransientError
	if errors.As(err, &transient) {
		h.retryOrPark(job, strategy, err)
		return
	}

	zlog.Logger.Error().Err(err).Str("id", job.NotificationID.String()).Msg("unexpected delivery error, dropping job")
}

func (h *Handler) retryOrPark(job queue.DeliveryJob, strategy retry.Strategy, cause error) {
	job.Attempt++

	if job.Attempt >= strategy.Attempts {
		zlog.Logger.Error().Err(cause).
			Str("id", job.NotificationID.String()).
			Int("attempt", job.Attempt).
			Msg("retry budget exhausted, moving job to DLQ")

		if err := h.queue.PublishDead(job, strategy); err != nil {
			zlog.Logger.Error().Err(err).Str("id", job.NotificationID.String()).Msg("failed to publish job to DLQ")
		}
		return
	}

	zlog.Logger.Warn().Err(cause).
		Str("id", job.NotificationID.String()).
		Int("attempt", job.Attempt).
		Int("budget", strategy.Attempts).
		Msg("transient delivery failure, scheduling retry")

	if err := h.queue.PublishRetry(job, strategy); err != nil {
		zlog.Logger.Error().Err(err).Str("id", job.NotificationID.String()).Msg("failed to publish job to retry queue")
	}
}
