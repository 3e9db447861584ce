package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the slice of the platform's user document the delivery
// pipeline cares about. DeviceToken is empty when the user has no
// registered device.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DeviceToken string    `json:"-"` // push token, never exposed over the API
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
