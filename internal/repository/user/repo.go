package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/stagewave/notifier/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

// Repository is the delivery pipeline's view of the users table. It only
// reads users and clears dead device tokens; everything else about the
// user document belongs to other flows.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new user directory repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `
		SELECT id, name, email, COALESCE(device_token, ''), created_at, updated_at
		FROM users
		WHERE id = $1;
    `

	var u model.User
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.DeviceToken, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}

		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// ClearDeviceToken removes a user's stored device token after the push
// gateway rejected it. The update touches only the token column and its
// timestamp; concurrent writes to unrelated user fields are not lost.
func (r *Repository) ClearDeviceToken(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET device_token = NULL, updated_at = now()
		WHERE id = $1;
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear device token: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
