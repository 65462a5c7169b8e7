package matching

import (
	"context"
	"log"

	"github.com/google/uuid"

	"bloodlink/internal/domain"
)

// DetectOptions selects the detection trigger. RequestID for a newly created
// request, DonorID for a donor who just became available, neither for a full
// scan of all pending requests against all available donors.
type DetectOptions struct {
	RequestID *uuid.UUID
	DonorID   *uuid.UUID
}

func (s *service) Detect(ctx context.Context, opts DetectOptions) int {
	requests, donors, err := s.candidates(ctx, opts)
	if err != nil {
		log.Printf("matching: detection pass aborted: %v", err)
		return 0
	}

	created := 0
	for i := range requests {
		request := &requests[i]
		for j := range donors {
			donor := &donors[j]
			if !domain.CanDonateTo(donor.BloodType, request.BloodType) {
				continue
			}
			if s.propose(ctx, request, donor) {
				created++
			}
		}
	}

	if created > 0 {
		log.Printf("matching: created %d new matches", created)
	}
	return created
}

func (s *service) candidates(ctx context.Context, opts DetectOptions) ([]domain.Request, []domain.User, error) {
	switch {
	case opts.RequestID != nil:
		request, err := s.requestRepo.GetByID(ctx, *opts.RequestID)
		if err != nil {
			return nil, nil, err
		}
		// Re-check: the request may have been matched or cancelled since the
		// trigger fired.
		if request == nil || request.Status != domain.RequestPending {
			return nil, nil, nil
		}
		donors, err := s.userRepo.ListMatchableDonors(ctx, domain.CompatibleDonorTypes(request.BloodType))
		if err != nil {
			return nil, nil, err
		}
		return []domain.Request{*request}, donors, nil

	case opts.DonorID != nil:
		donor, err := s.userRepo.GetByID(ctx, *opts.DonorID)
		if err != nil {
			return nil, nil, err
		}
		if donor == nil || !donor.IsMatchableDonor() {
			return nil, nil, nil
		}
		requests, err := s.requestRepo.ListPendingByBloodTypes(ctx, domain.RecipientTypesFor(donor.BloodType))
		if err != nil {
			return nil, nil, err
		}
		return requests, []domain.User{*donor}, nil

	default:
		requests, err := s.requestRepo.ListPending(ctx)
		if err != nil {
			return nil, nil, err
		}
		donors, err := s.userRepo.ListMatchableDonors(ctx, domain.AllBloodTypes)
		if err != nil {
			return nil, nil, err
		}
		return requests, donors, nil
	}
}

// propose creates one proposal for a compatible pair. The conditional insert
// re-checks the one-active-match-per-pair invariant at write time, so a
// detection pass racing another pass (or a manual trigger) cannot duplicate
// a proposal.
func (s *service) propose(ctx context.Context, request *domain.Request, donor *domain.User) bool {
	match := &domain.Match{
		ID:                uuid.New(),
		DonorID:           donor.ID,
		RequesterID:       request.RequesterID,
		RequestID:         request.ID,
		DonorName:         donor.Username,
		RequesterName:     request.RequesterName,
		BloodType:         request.BloodType,
		Status:            domain.MatchPending,
		DonorResponse:     domain.ResponsePending,
		RequesterResponse: domain.ResponsePending,
		ExpiresAt:         s.now().Add(s.matchExpiry),
	}

	created, err := s.matchRepo.CreateIfAbsent(ctx, match)
	if err != nil {
		log.Printf("matching: failed to create match for donor %s and request %s: %v", donor.ID, request.ID, err)
		return false
	}
	if !created {
		return false
	}

	if err := s.notifSvc.NotifyMatchProposal(ctx, match, request.Urgency, request.Description); err != nil {
		log.Printf("matching: failed to send proposal notifications for match %s: %v", match.ID, err)
	}
	if err := s.emailSvc.SendMatchProposalEmail(ctx, donor.Email, donor.Username, request.RequesterName, request.BloodType, request.Urgency, match.ExpiresAt); err != nil {
		log.Printf("matching: failed to email donor %s for match %s: %v", donor.ID, match.ID, err)
	}

	return true
}
