package dto

// ScheduleRequest is the producer-facing request to schedule a push
// notification. ScheduledAt uses RFC 3339.
type ScheduleRequest struct {
	UserID      string            `json:"user_id" validate:"required,uuid4"`
	Type        string            `json:"type" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Message     string            `json:"message" validate:"required"`
	Payload     map[string]string `json:"payload"`
	ScheduledAt string            `json:"scheduled_at" validate:"required"`
}
