package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/stagewave/notifier/internal/model"
)

var ErrEntryNotFound = errors.New("history entry not found")

// Repository provides methods to interact with the notification_history
// table. Rows are append-only: nothing here updates an entry after
// insertion except MarkRead, which flips the read flag.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification history repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// InsertMany appends history entries. Each entry carries a
// caller-supplied ID; the delivery worker generates it before the
// gateway call so the id the device received always matches the row.
func (r *Repository) InsertMany(ctx context.Context, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var (
		sb   strings.Builder
		args []interface{}
	)

	sb.WriteString(`
		INSERT INTO notification_history (
		    id, user_id, type, title, message, payload, read, sent_at, expires_at
		) VALUES `)

	for i, e := range entries {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}

		if i > 0 {
			sb.WriteString(", ")
		}

		base := i * 9
		sb.WriteString(fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))

		args = append(args, e.ID, e.UserID, e.Type, e.Title, e.Message, payload, e.Read, e.SentAt, e.ExpiresAt)
	}

	sb.WriteString(";")

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert history entries: %w", err)
	}

	return nil
}

// CountUnread returns the number of unread history entries for a user.
func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notification_history
		WHERE user_id = $1 AND read = false;
    `

	var count int
	if err := r.db.Master.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread entries: %w", err)
	}

	return count, nil
}

// ListByUser retrieves a user's history entries, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.HistoryEntry, error) {
	query := `
		SELECT id, user_id, type, title, message, payload, read, sent_at, created_at, expires_at
		FROM notification_history
		WHERE user_id = $1
		ORDER BY sent_at DESC
		LIMIT $2;
    `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var (
			e       model.HistoryEntry
			payload []byte
		)

		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Type, &e.Title, &e.Message, &payload,
			&e.Read, &e.SentAt, &e.CreatedAt, &e.ExpiresAt,
		); err != nil {
			return nil, err
		}

		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// MarkRead flips the read flag of one of the user's history entries.
func (r *Repository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		UPDATE notification_history
		SET read = true
		WHERE id = $1 AND user_id = $2;
    `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark entry read: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrEntryNotFound
	}

	return nil
}
