package model

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle states of a scheduled notification. A notification starts
// pending and moves to exactly one terminal state; terminal states never
// transition again.
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// ScheduledNotification represents one planned push to a single user.
type ScheduledNotification struct {
	ID            uuid.UUID         `json:"id"`             // unique identifier for the notification
	UserID        uuid.UUID         `json:"user_id"`        // recipient user
	Type          string            `json:"type"`           // kind of notification, e.g. "concert_reminder"
	Title         string            `json:"title"`          // push title shown on the device
	Message       string            `json:"message"`        // push body
	Payload       map[string]string `json:"payload"`        // extra data, may carry a related entity id such as "concert_id"
	ScheduledAt   time.Time         `json:"scheduled_at"`   // time when the notification should be delivered
	Status        string            `json:"status"`         // current state, e.g. "pending", "sent", "failed", "cancelled"
	FailureReason string            `json:"failure_reason"` // why delivery failed, empty unless status is "failed"
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// HistoryEntry is the immutable record of a successfully delivered
// notification. Its ID is generated by the delivery worker before the
// gateway call and embedded into the push payload, so the id the device
// received always matches the row that lands here. Only the Read flag
// may change after insertion.
type HistoryEntry struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Payload   map[string]string `json:"payload"`
	Read      bool              `json:"read"`
	SentAt    time.Time         `json:"sent_at"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"` // end of the retention window, row may be reaped after this
}
