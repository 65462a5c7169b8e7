package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Data      json.RawMessage  `json:"data,omitempty" db:"data"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	MatchID   *uuid.UUID       `json:"match_id,omitempty" db:"match_id"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifMatchRequest     NotificationType = "match_request"
	NotifMatchAccepted    NotificationType = "match_accepted"
	NotifMatchRejected    NotificationType = "match_rejected"
	NotifReminder         NotificationType = "reminder"
	NotifRequestCancelled NotificationType = "request_cancelled"
	NotifRequestFulfilled NotificationType = "request_fulfilled"
	NotifMatchExpired     NotificationType = "match_expired"
)
