package domain

import "time"

// Notification is the in-app surface of a reminder. At most one unread
// notification exists per reminder at any time.
type Notification struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	IsRead          bool       `json:"is_read"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	ShouldPlaySound bool       `json:"should_play_sound"`
	ReminderID      *string    `json:"reminder_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
