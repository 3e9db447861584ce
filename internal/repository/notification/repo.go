package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/stagewave/notifier/internal/model"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Repository provides methods to interact with the scheduled_notifications table.
//
// Status transitions are implemented as single conditional updates guarded on
// the current status being "pending". No in-process locking is used; two
// workers racing on the same notification resolve the race at the database,
// and the loser observes zero affected rows.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new scheduled notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// CreateNotification inserts a new pending notification and returns its ID.
func (r *Repository) CreateNotification(ctx context.Context, n model.ScheduledNotification) (uuid.UUID, error) {
	query := `
		INSERT INTO scheduled_notifications (
		    user_id, type, title, message, payload, scheduled_at, status
		) VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id;
    `

	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = r.db.Master.QueryRowContext(
		ctx, query, n.UserID, n.Type, n.Title, n.Message, payload, n.ScheduledAt,
	).Scan(&n.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n.ID, nil
}

// GetByID retrieves a notification by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (model.ScheduledNotification, error) {
	query := `
		SELECT id, user_id, type, title, message, payload, scheduled_at, status,
		       COALESCE(failure_reason, ''), created_at, updated_at
		FROM scheduled_notifications
		WHERE id = $1;
    `

	var (
		n       model.ScheduledNotification
		payload []byte
	)

	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &payload,
		&n.ScheduledAt, &n.Status, &n.FailureReason, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScheduledNotification{}, ErrNotificationNotFound
		}

		return model.ScheduledNotification{}, fmt.Errorf("failed to get notification: %w", err)
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &n.Payload); err != nil {
			return model.ScheduledNotification{}, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	return n, nil
}

// GetStatusByID retrieves only the status of a notification by its ID.
func (r *Repository) GetStatusByID(ctx context.Context, id uuid.UUID) (string, error) {
	query := `
		SELECT status
		FROM scheduled_notifications
		WHERE id = $1;
    `

	var status string
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotificationNotFound
		}

		return "", fmt.Errorf("failed to get notification status: %w", err)
	}

	return status, nil
}

// MarkSent transitions a notification from pending to sent. It reports
// whether the transition applied; false means another worker or an
// external cancel already moved the notification out of pending.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE scheduled_notifications
		SET status = 'sent', updated_at = now()
		WHERE id = $1 AND status = 'pending';
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification sent: %w", err)
	}

	rows, _ := res.RowsAffected()

	return rows > 0, nil
}

// MarkFailed transitions a notification from pending to failed with the
// given reason. Reports whether the transition applied.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE scheduled_notifications
		SET status = 'failed', failure_reason = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending';
    `

	res, err := r.db.ExecContext(ctx, query, id, reason)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification failed: %w", err)
	}

	rows, _ := res.RowsAffected()

	return rows > 0, nil
}

// Cancel transitions a notification from pending to cancelled. A cancel
// that races with an in-flight delivery is only honored if it lands
// before the worker's status check.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE scheduled_notifications
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'pending';
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel notification: %w", err)
	}

	rows, _ := res.RowsAffected()

	return rows > 0, nil
}
