package unit_test

import (
	"context"
	"testing"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/service/matching"
	"bloodlink/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type matchingFixture struct {
	matchRepo   *mocks.MatchRepository
	userRepo    *mocks.UserRepository
	requestRepo *mocks.RequestRepository
	historyRepo *mocks.HistoryRepository
	notifSvc    *mocks.NotificationService
	emailSvc    *mocks.EmailService
	statsInv    *mocks.StatsInvalidator
	svc         matching.Service
	now         time.Time
}

func newMatchingFixture() *matchingFixture {
	f := &matchingFixture{
		matchRepo:   new(mocks.MatchRepository),
		userRepo:    new(mocks.UserRepository),
		requestRepo: new(mocks.RequestRepository),
		historyRepo: new(mocks.HistoryRepository),
		notifSvc:    new(mocks.NotificationService),
		emailSvc:    new(mocks.EmailService),
		statsInv:    new(mocks.StatsInvalidator),
		now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = matching.NewService(f.matchRepo, f.userRepo, f.requestRepo, f.historyRepo, f.notifSvc, f.emailSvc, 12*time.Hour)
	f.svc.SetClock(func() time.Time { return f.now })
	f.svc.SetStatsInvalidator(f.statsInv)
	return f
}

func pendingMatch(now time.Time) *domain.Match {
	return &domain.Match{
		ID:                uuid.New(),
		DonorID:           uuid.New(),
		RequesterID:       uuid.New(),
		RequestID:         uuid.New(),
		DonorName:         "dana",
		RequesterName:     "rex",
		BloodType:         domain.BloodAPos,
		Status:            domain.MatchPending,
		DonorResponse:     domain.ResponsePending,
		RequesterResponse: domain.ResponsePending,
		ExpiresAt:         now.Add(6 * time.Hour),
	}
}

func TestMatchingService_Respond(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid decision", func(t *testing.T) {
		f := newMatchingFixture()

		_, err := f.svc.Respond(ctx, uuid.New(), uuid.New(), domain.ResponsePending)

		assert.ErrorIs(t, err, domain.ErrInvalidDecision)
		f.matchRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Match not found", func(t *testing.T) {
		f := newMatchingFixture()
		matchID := uuid.New()
		f.matchRepo.On("GetByID", ctx, matchID).Return(nil, nil).Once()

		_, err := f.svc.Respond(ctx, matchID, uuid.New(), domain.ResponseAccepted)

		assert.ErrorIs(t, err, domain.ErrMatchNotFound)
	})

	t.Run("Caller is not a party", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)
		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()

		_, err := f.svc.Respond(ctx, match.ID, uuid.New(), domain.ResponseAccepted)

		assert.ErrorIs(t, err, domain.ErrNotMatchParty)
	})

	t.Run("Already resolved", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)
		match.Status = domain.MatchDonorRejected
		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()

		_, err := f.svc.Respond(ctx, match.ID, match.DonorID, domain.ResponseAccepted)

		assert.ErrorIs(t, err, domain.ErrMatchResolved)
	})

	t.Run("Already expired status", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)
		match.Status = domain.MatchExpired
		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()

		_, err := f.svc.Respond(ctx, match.ID, match.DonorID, domain.ResponseAccepted)

		assert.ErrorIs(t, err, domain.ErrMatchExpired)
	})

	t.Run("Lazy expiry retires an overdue match", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)
		match.ExpiresAt = f.now.Add(-1 * time.Minute)

		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()
		f.matchRepo.On("CloseOpen", ctx, match.ID, domain.MatchExpired).Return(true, nil).Once()
		f.notifSvc.On("NotifyMatchExpired", ctx, match).Return(nil).Once()

		_, err := f.svc.Respond(ctx, match.ID, match.DonorID, domain.ResponseAccepted)

		assert.ErrorIs(t, err, domain.ErrMatchExpired)
		f.matchRepo.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Donor accepts first", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)

		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()
		f.matchRepo.On("ApplyResponse", ctx, match.ID, domain.PartyDonor, domain.ResponseAccepted,
			f.now, domain.MatchDonorAccepted, domain.MatchPending).Return(true, nil).Once()

		updated, err := f.svc.Respond(ctx, match.ID, match.DonorID, domain.ResponseAccepted)

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchDonorAccepted, updated.Status)
		assert.Equal(t, domain.ResponseAccepted, updated.DonorResponse)
		assert.NotNil(t, updated.DonorRespondedAt)
		f.matchRepo.AssertExpectations(t)
	})

	t.Run("Donor rejects and requester is told", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)

		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()
		f.matchRepo.On("ApplyResponse", ctx, match.ID, domain.PartyDonor, domain.ResponseRejected,
			f.now, domain.MatchDonorRejected, domain.MatchPending).Return(true, nil).Once()
		f.notifSvc.On("NotifyMatchDeclined", ctx, match, domain.PartyDonor).Return(nil).Once()

		updated, err := f.svc.Respond(ctx, match.ID, match.DonorID, domain.ResponseRejected)

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchDonorRejected, updated.Status)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Concurrent writer wins the compare-and-set", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)

		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()
		f.matchRepo.On("ApplyResponse", ctx, match.ID, domain.PartyDonor, domain.ResponseAccepted,
			f.now, domain.MatchDonorAccepted, domain.MatchPending).Return(false, nil).Once()

		_, err := f.svc.Respond(ctx, match.ID, match.DonorID, domain.ResponseAccepted)

		assert.ErrorIs(t, err, domain.ErrMatchConflict)
	})
}

func TestMatchingService_Confirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("Second acceptance runs the full bundle", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)
		match.Status = domain.MatchDonorAccepted
		match.DonorResponse = domain.ResponseAccepted

		phone := "+6281234"
		donor := &domain.User{
			ID: match.DonorID, Username: "dana", Email: "dana@example.com",
			Role: domain.RoleDonor, BloodType: domain.BloodONeg, Phone: &phone,
		}
		requester := &domain.User{
			ID: match.RequesterID, Username: "rex", Email: "rex@example.com",
			Role: domain.RoleRequester, BloodType: domain.BloodAPos,
		}
		request := &domain.Request{
			ID: match.RequestID, RequesterID: match.RequesterID, RequesterName: "rex",
			BloodType: domain.BloodAPos, Urgency: domain.UrgencyHigh,
			Status: domain.RequestPending,
		}
		competing := domain.Match{
			ID:      uuid.New(),
			DonorID: uuid.New(), RequesterID: match.RequesterID, RequestID: match.RequestID,
			Status: domain.MatchPending,
		}

		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()
		f.matchRepo.On("ApplyResponse", ctx, match.ID, domain.PartyRequester, domain.ResponseAccepted,
			f.now, domain.MatchBothAccepted, domain.MatchDonorAccepted).Return(true, nil).Once()

		f.userRepo.On("GetByID", ctx, match.DonorID).Return(donor, nil).Once()
		f.userRepo.On("GetByID", ctx, match.RequesterID).Return(requester, nil).Once()
		f.requestRepo.On("GetByID", ctx, match.RequestID).Return(request, nil).Once()

		f.matchRepo.On("SetContactInfo", ctx, match.ID,
			mock.MatchedBy(func(info domain.ContactSnapshot) bool {
				return info.Email == "dana@example.com" && info.Phone == phone && info.Location == "Not provided"
			}),
			mock.MatchedBy(func(info domain.ContactSnapshot) bool {
				return info.Email == "rex@example.com" && info.Urgency == "high" && info.Description == "No additional details"
			}),
		).Return(nil).Once()

		f.userRepo.On("SetAvailability", ctx, donor.ID, false, domain.MatchStatusMatched).Return(nil).Once()
		f.userRepo.On("SetMatchStatus", ctx, requester.ID, domain.MatchStatusMatched).Return(nil).Once()
		f.requestRepo.On("MarkMatched", ctx, request.ID, donor.ID, f.now).Return(true, nil).Once()

		f.matchRepo.On("ListOpenByRequest", ctx, match.RequestID, match.ID).Return([]domain.Match{competing}, nil).Once()
		f.matchRepo.On("CloseOpen", ctx, competing.ID, domain.MatchExpired).Return(true, nil).Once()
		f.notifSvc.On("NotifyRequestFulfilled", ctx, mock.MatchedBy(func(m *domain.Match) bool {
			return m.ID == competing.ID
		})).Return(nil).Once()

		f.notifSvc.On("NotifyMatchConfirmed", ctx, match).Return(nil).Once()
		f.emailSvc.On("SendMatchConfirmedEmail", ctx, donor.Email, donor.Username, requester.Username,
			mock.AnythingOfType("domain.ContactSnapshot"), match.BloodType).Return(nil).Once()
		f.emailSvc.On("SendMatchConfirmedEmail", ctx, requester.Email, requester.Username, donor.Username,
			mock.AnythingOfType("domain.ContactSnapshot"), match.BloodType).Return(nil).Once()

		f.historyRepo.On("ExistsForPair", ctx, match.DonorID, match.RequesterID).Return(false, nil).Once()
		f.historyRepo.On("Create", ctx, mock.MatchedBy(func(h *domain.History) bool {
			return h.DonorID == match.DonorID && h.RequesterID == match.RequesterID && h.BloodType == match.BloodType
		})).Return(nil).Once()
		f.statsInv.On("InvalidateCache", ctx).Return().Once()

		updated, err := f.svc.Respond(ctx, match.ID, match.RequesterID, domain.ResponseAccepted)

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchBothAccepted, updated.Status)
		assert.NotNil(t, updated.DonorInfo)
		assert.NotNil(t, updated.RequesterInfo)
		f.matchRepo.AssertExpectations(t)
		f.userRepo.AssertExpectations(t)
		f.requestRepo.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
		f.emailSvc.AssertExpectations(t)
		f.historyRepo.AssertExpectations(t)
		f.statsInv.AssertExpectations(t)
	})

	t.Run("Re-accepting resumes an interrupted bundle without duplicate history", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)
		match.Status = domain.MatchBothAccepted
		match.DonorResponse = domain.ResponseAccepted
		match.RequesterResponse = domain.ResponseAccepted

		donor := &domain.User{
			ID: match.DonorID, Username: "dana", Email: "dana@example.com",
			Role: domain.RoleDonor, BloodType: domain.BloodAPos,
		}
		requester := &domain.User{
			ID: match.RequesterID, Username: "rex", Email: "rex@example.com",
			Role: domain.RoleRequester, BloodType: domain.BloodAPos,
		}
		request := &domain.Request{
			ID: match.RequestID, RequesterID: match.RequesterID, RequesterName: "rex",
			BloodType: domain.BloodAPos, Urgency: domain.UrgencyMedium,
			Status: domain.RequestMatched,
		}

		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()
		f.userRepo.On("GetByID", ctx, match.DonorID).Return(donor, nil).Once()
		f.userRepo.On("GetByID", ctx, match.RequesterID).Return(requester, nil).Once()
		f.requestRepo.On("GetByID", ctx, match.RequestID).Return(request, nil).Once()
		f.matchRepo.On("SetContactInfo", ctx, match.ID, mock.Anything, mock.Anything).Return(nil).Once()
		f.userRepo.On("SetAvailability", ctx, donor.ID, false, domain.MatchStatusMatched).Return(nil).Once()
		f.userRepo.On("SetMatchStatus", ctx, requester.ID, domain.MatchStatusMatched).Return(nil).Once()
		// The request was already marked matched before the interruption.
		f.requestRepo.On("MarkMatched", ctx, request.ID, donor.ID, f.now).Return(false, nil).Once()
		f.matchRepo.On("ListOpenByRequest", ctx, match.RequestID, match.ID).Return([]domain.Match{}, nil).Once()
		f.notifSvc.On("NotifyMatchConfirmed", ctx, match).Return(nil).Once()
		f.emailSvc.On("SendMatchConfirmedEmail", ctx, mock.Anything, mock.Anything, mock.Anything,
			mock.AnythingOfType("domain.ContactSnapshot"), match.BloodType).Return(nil).Twice()
		f.historyRepo.On("ExistsForPair", ctx, match.DonorID, match.RequesterID).Return(true, nil).Once()
		f.statsInv.On("InvalidateCache", ctx).Return().Once()

		updated, err := f.svc.Respond(ctx, match.ID, match.DonorID, domain.ResponseAccepted)

		assert.NoError(t, err)
		assert.NotNil(t, updated.DonorInfo)
		f.historyRepo.AssertNotCalled(t, "Create")
		f.matchRepo.AssertNotCalled(t, "ApplyResponse")
		f.matchRepo.AssertExpectations(t)
	})

	t.Run("Completed confirmation cannot be replayed", func(t *testing.T) {
		f := newMatchingFixture()
		match := pendingMatch(f.now)
		match.Status = domain.MatchBothAccepted
		match.DonorResponse = domain.ResponseAccepted
		match.RequesterResponse = domain.ResponseAccepted
		match.DonorInfo = &domain.ContactSnapshot{Email: "dana@example.com"}
		match.RequesterInfo = &domain.ContactSnapshot{Email: "rex@example.com"}

		f.matchRepo.On("GetByID", ctx, match.ID).Return(match, nil).Once()

		_, err := f.svc.Respond(ctx, match.ID, match.DonorID, domain.ResponseAccepted)

		assert.ErrorIs(t, err, domain.ErrMatchResolved)
		f.userRepo.AssertNotCalled(t, "GetByID")
	})
}

func TestMatchingService_CancelOpenMatchesForRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects every open proposal and notifies donors", func(t *testing.T) {
		f := newMatchingFixture()
		requestID := uuid.New()
		first := *pendingMatch(f.now)
		second := *pendingMatch(f.now)

		f.matchRepo.On("ListOpenByRequest", ctx, requestID, uuid.Nil).Return([]domain.Match{first, second}, nil).Once()
		f.matchRepo.On("CloseOpen", ctx, first.ID, domain.MatchRequesterRejected).Return(true, nil).Once()
		f.matchRepo.On("CloseOpen", ctx, second.ID, domain.MatchRequesterRejected).Return(false, nil).Once()
		f.notifSvc.On("NotifyRequestCancelled", ctx, mock.MatchedBy(func(m *domain.Match) bool {
			return m.ID == first.ID
		})).Return(nil).Once()

		err := f.svc.CancelOpenMatchesForRequest(ctx, requestID)

		assert.NoError(t, err)
		f.matchRepo.AssertExpectations(t)
		// The already-closed match gets no cancellation notice.
		f.notifSvc.AssertNumberOfCalls(t, "NotifyRequestCancelled", 1)
	})
}

func TestMatchingService_PendingForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Donor sees matches awaiting the donor's answer", func(t *testing.T) {
		f := newMatchingFixture()
		donor := &domain.User{ID: uuid.New(), Role: domain.RoleDonor}

		f.matchRepo.On("ListForUser", ctx, donor.ID, domain.PartyDonor,
			[]domain.MatchStatus{domain.MatchPending, domain.MatchRequesterAccepted},
			mock.AnythingOfType("*time.Time")).Return([]domain.Match{}, nil).Once()

		_, err := f.svc.PendingForUser(ctx, donor)

		assert.NoError(t, err)
		f.matchRepo.AssertExpectations(t)
	})

	t.Run("Requester sees matches awaiting the requester's answer", func(t *testing.T) {
		f := newMatchingFixture()
		requester := &domain.User{ID: uuid.New(), Role: domain.RoleRequester}

		f.matchRepo.On("ListForUser", ctx, requester.ID, domain.PartyRequester,
			[]domain.MatchStatus{domain.MatchPending, domain.MatchDonorAccepted},
			mock.AnythingOfType("*time.Time")).Return([]domain.Match{}, nil).Once()

		_, err := f.svc.PendingForUser(ctx, requester)

		assert.NoError(t, err)
		f.matchRepo.AssertExpectations(t)
	})

	t.Run("Unset role sees nothing", func(t *testing.T) {
		f := newMatchingFixture()

		matches, err := f.svc.PendingForUser(ctx, &domain.User{ID: uuid.New()})

		assert.NoError(t, err)
		assert.Empty(t, matches)
		f.matchRepo.AssertNotCalled(t, "ListForUser")
	})
}
