package unit_test

import (
	"context"
	"testing"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/service/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMatchingService_Detect(t *testing.T) {
	ctx := context.Background()

	t.Run("New request pairs with a compatible donor", func(t *testing.T) {
		f := newMatchingFixture()
		request := &domain.Request{
			ID: uuid.New(), RequesterID: uuid.New(), RequesterName: "rex",
			BloodType: domain.BloodAPos, Urgency: domain.UrgencyCritical,
			Status: domain.RequestPending,
		}
		donor := domain.User{
			ID: uuid.New(), Username: "dana", Email: "dana@example.com",
			Role: domain.RoleDonor, BloodType: domain.BloodONeg,
			IsAvailable: true, MatchStatus: domain.MatchStatusAvailable,
		}

		f.requestRepo.On("GetByID", ctx, request.ID).Return(request, nil).Once()
		f.userRepo.On("ListMatchableDonors", ctx, domain.CompatibleDonorTypes(request.BloodType)).
			Return([]domain.User{donor}, nil).Once()
		f.matchRepo.On("CreateIfAbsent", ctx, mock.MatchedBy(func(m *domain.Match) bool {
			return m.DonorID == donor.ID &&
				m.RequestID == request.ID &&
				m.Status == domain.MatchPending &&
				m.DonorResponse == domain.ResponsePending &&
				m.RequesterResponse == domain.ResponsePending &&
				m.ExpiresAt.Equal(f.now.Add(12*time.Hour))
		})).Return(true, nil).Once()
		f.notifSvc.On("NotifyMatchProposal", ctx, mock.AnythingOfType("*domain.Match"),
			request.Urgency, request.Description).Return(nil).Once()
		f.emailSvc.On("SendMatchProposalEmail", ctx, donor.Email, donor.Username,
			request.RequesterName, request.BloodType, request.Urgency,
			mock.AnythingOfType("time.Time")).Return(nil).Once()

		created := f.svc.Detect(ctx, matching.DetectOptions{RequestID: &request.ID})

		assert.Equal(t, 1, created)
		f.matchRepo.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("Occupied slot is skipped silently", func(t *testing.T) {
		f := newMatchingFixture()
		request := &domain.Request{
			ID: uuid.New(), RequesterID: uuid.New(), RequesterName: "rex",
			BloodType: domain.BloodONeg, Status: domain.RequestPending,
		}
		donor := domain.User{
			ID: uuid.New(), Username: "dana", Role: domain.RoleDonor,
			BloodType: domain.BloodONeg, IsAvailable: true, MatchStatus: domain.MatchStatusAvailable,
		}

		f.requestRepo.On("GetByID", ctx, request.ID).Return(request, nil).Once()
		f.userRepo.On("ListMatchableDonors", ctx, mock.Anything).Return([]domain.User{donor}, nil).Once()
		f.matchRepo.On("CreateIfAbsent", ctx, mock.Anything).Return(false, nil).Once()

		created := f.svc.Detect(ctx, matching.DetectOptions{RequestID: &request.ID})

		assert.Equal(t, 0, created)
		f.notifSvc.AssertNotCalled(t, "NotifyMatchProposal")
	})

	t.Run("Request already matched aborts the pass", func(t *testing.T) {
		f := newMatchingFixture()
		request := &domain.Request{
			ID: uuid.New(), BloodType: domain.BloodAPos, Status: domain.RequestMatched,
		}

		f.requestRepo.On("GetByID", ctx, request.ID).Return(request, nil).Once()

		created := f.svc.Detect(ctx, matching.DetectOptions{RequestID: &request.ID})

		assert.Equal(t, 0, created)
		f.userRepo.AssertNotCalled(t, "ListMatchableDonors")
	})

	t.Run("Newly available donor pairs with waiting requests", func(t *testing.T) {
		f := newMatchingFixture()
		donor := &domain.User{
			ID: uuid.New(), Username: "dana", Email: "dana@example.com",
			Role: domain.RoleDonor, BloodType: domain.BloodONeg,
			IsAvailable: true, MatchStatus: domain.MatchStatusAvailable,
		}
		request := domain.Request{
			ID: uuid.New(), RequesterID: uuid.New(), RequesterName: "rex",
			BloodType: domain.BloodABPos, Urgency: domain.UrgencyLow,
			Status: domain.RequestPending,
		}

		f.userRepo.On("GetByID", ctx, donor.ID).Return(donor, nil).Once()
		f.requestRepo.On("ListPendingByBloodTypes", ctx, domain.RecipientTypesFor(donor.BloodType)).
			Return([]domain.Request{request}, nil).Once()
		f.matchRepo.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil).Once()
		f.notifSvc.On("NotifyMatchProposal", ctx, mock.Anything, request.Urgency, request.Description).Return(nil).Once()
		f.emailSvc.On("SendMatchProposalEmail", ctx, donor.Email, donor.Username,
			request.RequesterName, request.BloodType, request.Urgency,
			mock.AnythingOfType("time.Time")).Return(nil).Once()

		created := f.svc.Detect(ctx, matching.DetectOptions{DonorID: &donor.ID})

		assert.Equal(t, 1, created)
		f.matchRepo.AssertExpectations(t)
	})

	t.Run("Unavailable donor triggers nothing", func(t *testing.T) {
		f := newMatchingFixture()
		donor := &domain.User{
			ID: uuid.New(), Role: domain.RoleDonor, BloodType: domain.BloodONeg,
			IsAvailable: false, MatchStatus: domain.MatchStatusUnavailable,
		}

		f.userRepo.On("GetByID", ctx, donor.ID).Return(donor, nil).Once()

		created := f.svc.Detect(ctx, matching.DetectOptions{DonorID: &donor.ID})

		assert.Equal(t, 0, created)
		f.requestRepo.AssertNotCalled(t, "ListPendingByBloodTypes")
	})

	t.Run("Full scan skips incompatible pairs", func(t *testing.T) {
		f := newMatchingFixture()
		request := domain.Request{
			ID: uuid.New(), RequesterID: uuid.New(), RequesterName: "rex",
			BloodType: domain.BloodONeg, Status: domain.RequestPending,
		}
		donor := domain.User{
			ID: uuid.New(), Username: "dana", Role: domain.RoleDonor,
			BloodType: domain.BloodAPos, IsAvailable: true, MatchStatus: domain.MatchStatusAvailable,
		}

		f.requestRepo.On("ListPending", ctx).Return([]domain.Request{request}, nil).Once()
		f.userRepo.On("ListMatchableDonors", ctx, domain.AllBloodTypes).Return([]domain.User{donor}, nil).Once()

		created := f.svc.Detect(ctx, matching.DetectOptions{})

		assert.Equal(t, 0, created)
		f.matchRepo.AssertNotCalled(t, "CreateIfAbsent")
	})
}
