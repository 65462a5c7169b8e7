package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the overall lifecycle state of a proposal. It is derived
// from the two per-party responses (see DeriveMatchStatus); expiry is the
// only transition imposed from outside the derivation.
type MatchStatus string

const (
	MatchPending           MatchStatus = "pending"
	MatchDonorAccepted     MatchStatus = "donor_accepted"
	MatchRequesterAccepted MatchStatus = "requester_accepted"
	MatchBothAccepted      MatchStatus = "both_accepted"
	MatchDonorRejected     MatchStatus = "donor_rejected"
	MatchRequesterRejected MatchStatus = "requester_rejected"
	MatchExpired           MatchStatus = "expired"
)

// ActiveMatchStatuses are the states in which a proposal still occupies its
// (donor, request) slot. At most one active match may exist per pair.
var ActiveMatchStatuses = []MatchStatus{
	MatchPending, MatchDonorAccepted, MatchRequesterAccepted, MatchBothAccepted,
}

// OpenMatchStatuses are the states the reaper and cancellation act on:
// active but not yet fully confirmed.
var OpenMatchStatuses = []MatchStatus{
	MatchPending, MatchDonorAccepted, MatchRequesterAccepted,
}

func (s MatchStatus) IsTerminal() bool {
	switch s {
	case MatchBothAccepted, MatchDonorRejected, MatchRequesterRejected, MatchExpired:
		return true
	default:
		return false
	}
}

type MatchResponse string

const (
	ResponsePending  MatchResponse = "pending"
	ResponseAccepted MatchResponse = "accepted"
	ResponseRejected MatchResponse = "rejected"
)

func (r MatchResponse) IsDecision() bool {
	return r == ResponseAccepted || r == ResponseRejected
}

type MatchParty string

const (
	PartyDonor     MatchParty = "donor"
	PartyRequester MatchParty = "requester"
)

// DeriveMatchStatus computes the overall status after one party decides,
// given the other party's previously stored response. It is a pure function
// so the state machine can be exercised without a store.
func DeriveMatchStatus(donorResponse, requesterResponse MatchResponse, actor MatchParty, decision MatchResponse) MatchStatus {
	if decision == ResponseRejected {
		if actor == PartyDonor {
			return MatchDonorRejected
		}
		return MatchRequesterRejected
	}

	other := requesterResponse
	if actor == PartyRequester {
		other = donorResponse
	}
	if other == ResponseAccepted {
		return MatchBothAccepted
	}
	if actor == PartyDonor {
		return MatchDonorAccepted
	}
	return MatchRequesterAccepted
}

// ContactSnapshot is the contact bundle exchanged when both parties accept.
// It is an immutable historical copy, not a view onto the live user record.
// Stored as JSONB.
type ContactSnapshot struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Urgency     string `json:"urgency,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c ContactSnapshot) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ContactSnapshot) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("contact snapshot: unsupported scan type %T", src)
	}
	return json.Unmarshal(b, c)
}

type Match struct {
	ID                    uuid.UUID        `json:"id" db:"id"`
	DonorID               uuid.UUID        `json:"donor_id" db:"donor_id"`
	RequesterID           uuid.UUID        `json:"requester_id" db:"requester_id"`
	RequestID             uuid.UUID        `json:"request_id" db:"request_id"`
	DonorName             string           `json:"donor_name" db:"donor_name"`
	RequesterName         string           `json:"requester_name" db:"requester_name"`
	BloodType             BloodType        `json:"blood_type" db:"blood_type"`
	Status                MatchStatus      `json:"status" db:"status"`
	DonorResponse         MatchResponse    `json:"donor_response" db:"donor_response"`
	RequesterResponse     MatchResponse    `json:"requester_response" db:"requester_response"`
	ExpiresAt             time.Time        `json:"expires_at" db:"expires_at"`
	DonorRespondedAt      *time.Time       `json:"donor_responded_at,omitempty" db:"donor_responded_at"`
	RequesterRespondedAt  *time.Time       `json:"requester_responded_at,omitempty" db:"requester_responded_at"`
	DonorInfo             *ContactSnapshot `json:"donor_info,omitempty" db:"donor_info"`
	RequesterInfo         *ContactSnapshot `json:"requester_info,omitempty" db:"requester_info"`
	CreatedAt             time.Time        `json:"created_at" db:"created_at"`
}

// PartyOf returns the caller's side in this match, or an error when the
// caller is neither party.
func (m *Match) PartyOf(userID uuid.UUID) (MatchParty, error) {
	switch userID {
	case m.DonorID:
		return PartyDonor, nil
	case m.RequesterID:
		return PartyRequester, nil
	default:
		return "", ErrNotMatchParty
	}
}

type RespondInput struct {
	Decision MatchResponse `json:"decision" validate:"required,oneof=accepted rejected"`
}
