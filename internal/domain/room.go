package domain

import "time"

// Room is a scheduled meeting backed by a provider-side video room.
// RoomID is the provider's identifier, distinct from the row id.
type Room struct {
	ID                  string         `db:"id"`
	RoomID              string         `db:"room_id"`
	UserID              string         `db:"user_id"`
	StartTime           *time.Time     `db:"start_time"`
	EndTime             *time.Time     `db:"end_time"`
	Permissions         map[string]any `db:"permissions"`
	MaximumParticipants int            `db:"maximum_participants"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}
