package domain

import (
	"time"

	"github.com/google/uuid"
)

// History is the permanent record of a confirmed match, written once at
// confirmation and never mutated. Names and blood type are snapshots so the
// record survives independently of the live user rows.
type History struct {
	ID            uuid.UUID `json:"id" db:"id"`
	DonorID       uuid.UUID `json:"donor_id" db:"donor_id"`
	RequesterID   uuid.UUID `json:"requester_id" db:"requester_id"`
	DonorName     string    `json:"donor_name" db:"donor_name"`
	RequesterName string    `json:"requester_name" db:"requester_name"`
	BloodType     BloodType `json:"blood_type" db:"blood_type"`
	Status        string    `json:"status" db:"status"`
	Date          time.Time `json:"date" db:"date"`
}
