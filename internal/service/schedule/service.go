// Package schedule is the producer side of the pipeline: it persists a
// pending notification row and only then enqueues the job referencing it,
// so a consumed job always finds its row.
package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/stagewave/notifier/internal/model"
	"github.com/stagewave/notifier/internal/rabbitmq/queue"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/schedule/mock.go -package=mocks

type jobPublisher interface {
	PublishJob(job queue.DeliveryJob, strategy retry.Strategy) error
}

type notificationRepository interface {
	CreateNotification(ctx context.Context, n model.ScheduledNotification) (uuid.UUID, error)
	GetStatusByID(ctx context.Context, id uuid.UUID) (string, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

var ErrAlreadySettled = errors.New("notification already settled")

type Service struct {
	repo  notificationRepository
	queue jobPublisher
	cache cache
}

func NewService(repo notificationRepository, queue jobPublisher, cache cache) *Service {
	return &Service{repo: repo, queue: queue, cache: cache}
}

// Schedule persists a pending notification and enqueues its delivery job.
func (s *Service) Schedule(ctx context.Context, strategy retry.Strategy, n model.ScheduledNotification) (uuid.UUID, error) {
	id, err := s.repo.CreateNotification(ctx, n)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create notification: %w", err)
	}

	if err := s.cache.SetWithRetry(ctx, strategy, id.String(), model.StatusPending); err != nil {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache notification status")
	}

	job := queue.DeliveryJob{NotificationID: id}
	if err := s.queue.PublishJob(job, strategy); err != nil {
		// The pending row exists but no job references it; surfacing the
		// error lets the caller re-submit rather than silently dropping
		// the delivery.
		return uuid.Nil, fmt.Errorf("publish delivery job: %w", err)
	}

	return id, nil
}

// GetStatus returns a notification's lifecycle status, consulting the
// cache before the state store.
func (s *Service) GetStatus(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error) {
	status, err := s.cache.GetWithRetry(ctx, strategy, id.String())
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification status from cache")
	}

	if err != nil {
		status, err = s.repo.GetStatusByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("get notification status: %w", err)
		}

		if err := s.cache.SetWithRetry(ctx, strategy, id.String(), status); err != nil {
			zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache notification status")
		}
	}

	return status, nil
}

// Cancel moves a still-pending notification to cancelled. Cancelling a
// notification that already reached a terminal state is reported as
// ErrAlreadySettled; the delivery attempt in flight, if any, is not
// interrupted.
func (s *Service) Cancel(ctx context.Context, strategy retry.Strategy, id uuid.UUID) error {
	applied, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel notification: %w", err)
	}

	if !applied {
		return ErrAlreadySettled
	}

	if err := s.cache.SetWithRetry(ctx, strategy, id.String(), model.StatusCancelled); err != nil {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache notification status")
	}

	return nil
}
