// Package delivery implements the scheduled notification delivery core:
// one call to Deliver processes exactly one queued job to completion.
//
// Permanent failures (missing user, missing or rejected token) settle the
// notification as failed and return nil so the job queue does not burn
// retry budget on an outcome that cannot change. Transient failures are
// returned as *TransientError and leave the notification pending, so a
// later retry still passes the idempotency guard.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/stagewave/notifier/internal/model"
	notifrepo "github.com/stagewave/notifier/internal/repository/notification"
	userrepo "github.com/stagewave/notifier/internal/repository/user"
	"github.com/stagewave/notifier/pkg/push"
)

// Failure reasons recorded on permanently failed notifications.
const (
	ReasonUserNotFound = "user not found"
	ReasonNoToken      = "user has no device token"
	ReasonInvalidToken = "invalid or expired device token"
)

// Keys of the fields the worker adds to the push data map.
const (
	DataKeyNotificationID = "notification_id"
	DataKeyHistoryID      = "history_id"
	DataKeyScheduledAt    = "scheduled_at"
)

// TransientError marks a delivery failure the job queue should retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

func transientf(format string, args ...interface{}) error {
	return &TransientError{Err: fmt.Errorf(format, args...)}
}

//go:generate mockgen -source=service.go -destination=../../mocks/service/delivery/mock.go -package=mocks

type notificationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.ScheduledNotification, error)
	MarkSent(ctx context.Context, id uuid.UUID) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
}

type historyRepository interface {
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	InsertMany(ctx context.Context, entries []model.HistoryEntry) error
}

type userRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	ClearDeviceToken(ctx context.Context, id uuid.UUID) error
}

type pushGateway interface {
	Send(ctx context.Context, token string, p push.Payload) (bool, error)
}

type Service struct {
	notifications notificationRepository
	history       historyRepository
	users         userRepository
	gateway       pushGateway
	retention     time.Duration // how long history rows stay readable
}

func NewService(
	notifications notificationRepository,
	history historyRepository,
	users userRepository,
	gateway pushGateway,
	retention time.Duration,
) *Service {
	return &Service{
		notifications: notifications,
		history:       history,
		users:         users,
		gateway:       gateway,
		retention:     retention,
	}
}

// Get re-reads a notification from the state store. The queue envelope
// carries only the id, so consumers use this to learn the schedule.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.ScheduledNotification, error) {
	return s.notifications.GetByID(ctx, id)
}

// Deliver processes one delivery job to completion.
//
// The returned error is nil for every settled outcome, including
// permanent failures; it is a *TransientError exactly when the job
// should be retried. Duplicate deliveries of the same job are absorbed
// by the initial status check plus the conditional sent transition: at
// most one attempt externally observes a send.
func (s *Service) Deliver(ctx context.Context, id uuid.UUID) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, notifrepo.ErrNotificationNotFound) {
			// Job references a row that never existed or was removed
			// out of band. Retrying cannot conjure it up.
			zlog.Logger.Warn().Str("id", id.String()).Msg("delivery job references unknown notification")
			return nil
		}

		return transientf("load notification %s: %w", id, err)
	}

	if n.Status != model.StatusPending {
		zlog.Logger.Info().
			Str("id", id.String()).
			Str("status", n.Status).
			Msg("notification already settled, skipping")
		return nil
	}

	u, err := s.users.GetByID(ctx, n.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return s.fail(ctx, n, ReasonUserNotFound)
		}

		return transientf("load user %s: %w", n.UserID, err)
	}

	if u.DeviceToken == "" {
		return s.fail(ctx, n, ReasonNoToken)
	}

	unread, err := s.history.CountUnread(ctx, n.UserID)
	if err != nil {
		return transientf("count unread for %s: %w", n.UserID, err)
	}

	// The history id is generated before the gateway call and embedded
	// into the payload. Whatever happens after the send, the id the
	// device received is the id the history row will carry.
	historyID := uuid.New()
	payload := buildPayload(n, historyID, unread+1)

	accepted, err := s.gateway.Send(ctx, u.DeviceToken, payload)
	if err != nil {
		// Status stays pending so the retry's guard check still passes.
		return &TransientError{Err: fmt.Errorf("gateway send for %s: %w", n.ID, err)}
	}

	if !accepted {
		if err := s.fail(ctx, n, ReasonInvalidToken); err != nil {
			return err
		}

		// Dead token: clear it so future batches skip this user without
		// another gateway round trip.
		if err := s.users.ClearDeviceToken(ctx, n.UserID); err != nil {
			zlog.Logger.Error().Err(err).Str("user_id", n.UserID.String()).Msg("failed to clear device token")
		}

		return nil
	}

	applied, err := s.notifications.MarkSent(ctx, n.ID)
	if err != nil {
		return transientf("mark sent %s: %w", n.ID, err)
	}

	if !applied {
		// Lost the conditional update to a concurrent worker or cancel.
		// That attempt owns the history row; this one writes nothing.
		zlog.Logger.Warn().Str("id", n.ID.String()).Msg("sent transition lost a race, skipping history insert")
		return nil
	}

	now := time.Now()
	entry := model.HistoryEntry{
		ID:        historyID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Payload:   payload.Data,
		Read:      false,
		SentAt:    now,
		ExpiresAt: now.Add(s.retention),
	}

	if err := s.history.InsertMany(ctx, []model.HistoryEntry{entry}); err != nil {
		// The notification is already sent; retrying the job would be a
		// no-op behind the guard. Log loudly and leave reconciliation to
		// an offline sweep keyed on the pre-generated id.
		zlog.Logger.Error().Err(err).
			Str("id", n.ID.String()).
			Str("history_id", historyID.String()).
			Msg("notification sent but history insert failed")
		return nil
	}

	zlog.Logger.Info().
		Str("id", n.ID.String()).
		Str("user_id", n.UserID.String()).
		Str("history_id", historyID.String()).
		Msg("notification delivered")

	return nil
}

// fail settles a notification as permanently failed. A failed mark that
// cannot be written is returned as transient so the retry re-runs the
// whole sequence against the still-pending row.
func (s *Service) fail(ctx context.Context, n model.ScheduledNotification, reason string) error {
	applied, err := s.notifications.MarkFailed(ctx, n.ID, reason)
	if err != nil {
		return transientf("mark failed %s: %w", n.ID, err)
	}

	if !applied {
		zlog.Logger.Warn().Str("id", n.ID.String()).Msg("failed transition lost a race")
		return nil
	}

	zlog.Logger.Info().
		Str("id", n.ID.String()).
		Str("user_id", n.UserID.String()).
		Str("reason", reason).
		Msg("notification permanently failed")

	return nil
}

func buildPayload(n model.ScheduledNotification, historyID uuid.UUID, badge int) push.Payload {
	data := make(map[string]string, len(n.Payload)+3)
	for k, v := range n.Payload {
		data[k] = v
	}

	data[DataKeyNotificationID] = n.ID.String()
	data[DataKeyHistoryID] = historyID.String()
	data[DataKeyScheduledAt] = n.ScheduledAt.UTC().Format(time.RFC3339)

	return push.Payload{
		Title: n.Title,
		Body:  n.Message,
		Badge: badge,
		Data:  data,
	}
}
