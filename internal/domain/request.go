package domain

import (
	"time"

	"github.com/google/uuid"
)

type Request struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	RequesterID   uuid.UUID     `json:"requester_id" db:"requester_id"`
	RequesterName string        `json:"requester_name" db:"requester_name"`
	BloodType     BloodType     `json:"blood_type" db:"blood_type"`
	Urgency       Urgency       `json:"urgency" db:"urgency"`
	Description   string        `json:"description" db:"description"`
	Status        RequestStatus `json:"status" db:"status"`
	MatchedWith   *uuid.UUID    `json:"matched_with,omitempty" db:"matched_with"`
	MatchedAt     *time.Time    `json:"matched_at,omitempty" db:"matched_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

// RequestStatus moves Pending→Matched or Pending→Cancelled; Matched and
// Cancelled are terminal. Requests are never deleted.
type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestMatched   RequestStatus = "Matched"
	RequestCompleted RequestStatus = "Completed"
	RequestCancelled RequestStatus = "Cancelled"
)

type CreateRequestInput struct {
	BloodType   BloodType `json:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Urgency     Urgency   `json:"urgency" validate:"required,oneof=low medium high critical"`
	Description string    `json:"description" validate:"max=2000"`
}
