package unit_test

import (
	"testing"

	"bloodlink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDeriveMatchStatus(t *testing.T) {
	tests := []struct {
		name      string
		donor     domain.MatchResponse
		requester domain.MatchResponse
		actor     domain.MatchParty
		decision  domain.MatchResponse
		want      domain.MatchStatus
	}{
		{
			name:  "Donor accepts first",
			donor: domain.ResponsePending, requester: domain.ResponsePending,
			actor: domain.PartyDonor, decision: domain.ResponseAccepted,
			want: domain.MatchDonorAccepted,
		},
		{
			name:  "Requester accepts first",
			donor: domain.ResponsePending, requester: domain.ResponsePending,
			actor: domain.PartyRequester, decision: domain.ResponseAccepted,
			want: domain.MatchRequesterAccepted,
		},
		{
			name:  "Donor accepts after requester",
			donor: domain.ResponsePending, requester: domain.ResponseAccepted,
			actor: domain.PartyDonor, decision: domain.ResponseAccepted,
			want: domain.MatchBothAccepted,
		},
		{
			name:  "Requester accepts after donor",
			donor: domain.ResponseAccepted, requester: domain.ResponsePending,
			actor: domain.PartyRequester, decision: domain.ResponseAccepted,
			want: domain.MatchBothAccepted,
		},
		{
			name:  "Donor rejects fresh proposal",
			donor: domain.ResponsePending, requester: domain.ResponsePending,
			actor: domain.PartyDonor, decision: domain.ResponseRejected,
			want: domain.MatchDonorRejected,
		},
		{
			name:  "Requester rejects fresh proposal",
			donor: domain.ResponsePending, requester: domain.ResponsePending,
			actor: domain.PartyRequester, decision: domain.ResponseRejected,
			want: domain.MatchRequesterRejected,
		},
		{
			name:  "Rejection wins over the other party's acceptance",
			donor: domain.ResponsePending, requester: domain.ResponseAccepted,
			actor: domain.PartyDonor, decision: domain.ResponseRejected,
			want: domain.MatchDonorRejected,
		},
		{
			name:  "Requester rejects after donor accepted",
			donor: domain.ResponseAccepted, requester: domain.ResponsePending,
			actor: domain.PartyRequester, decision: domain.ResponseRejected,
			want: domain.MatchRequesterRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DeriveMatchStatus(tt.donor, tt.requester, tt.actor, tt.decision)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchStatusIsTerminal(t *testing.T) {
	terminal := []domain.MatchStatus{
		domain.MatchBothAccepted, domain.MatchDonorRejected,
		domain.MatchRequesterRejected, domain.MatchExpired,
	}
	open := []domain.MatchStatus{
		domain.MatchPending, domain.MatchDonorAccepted, domain.MatchRequesterAccepted,
	}

	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
	}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}

func TestMatchPartyOf(t *testing.T) {
	match := &domain.Match{
		DonorID:     uuid.New(),
		RequesterID: uuid.New(),
	}

	party, err := match.PartyOf(match.DonorID)
	assert.NoError(t, err)
	assert.Equal(t, domain.PartyDonor, party)

	party, err = match.PartyOf(match.RequesterID)
	assert.NoError(t, err)
	assert.Equal(t, domain.PartyRequester, party)

	_, err = match.PartyOf(uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotMatchParty)
}
