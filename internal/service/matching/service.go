package matching

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/repository"
	"bloodlink/internal/service/email"
	"bloodlink/internal/service/notification"
)

const (
	fallbackContact     = "Not provided"
	fallbackDescription = "No additional details"
)

// Service is the match lifecycle engine: it detects compatible pairs,
// applies accept/reject responses, and performs the confirmation bundle.
type Service interface {
	// Detect finds compatible (request, donor) pairs and creates proposals.
	// Best-effort: internal failures are logged and skipped, never returned;
	// re-running is always safe.
	Detect(ctx context.Context, opts DetectOptions) int

	// Respond applies one party's decision to a proposal and resolves the
	// resulting state.
	Respond(ctx context.Context, matchID, callerID uuid.UUID, decision domain.MatchResponse) (*domain.Match, error)

	PendingForUser(ctx context.Context, user *domain.User) ([]domain.Match, error)
	ActiveForUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error)
	ListAll(ctx context.Context) ([]domain.Match, error)

	// CancelOpenMatchesForRequest force-rejects every open proposal for a
	// cancelled request on the requester's behalf and notifies the donors.
	CancelOpenMatchesForRequest(ctx context.Context, requestID uuid.UUID) error

	// SetClock overrides the engine's time source; tests use it to drive
	// expiry deterministically.
	SetClock(now func() time.Time)

	// SetStatsInvalidator injects the dashboard cache hook after construction;
	// injecting here instead of in NewService avoids a package cycle.
	SetStatsInvalidator(inv StatsInvalidator)
}

// StatsInvalidator drops cached aggregate counters after a confirmation
// changes most of them at once.
type StatsInvalidator interface {
	InvalidateCache(ctx context.Context)
}

type service struct {
	matchRepo   repository.MatchRepository
	userRepo    repository.UserRepository
	requestRepo repository.RequestRepository
	historyRepo repository.HistoryRepository
	notifSvc    notification.Service
	emailSvc    email.Service
	statsInv    StatsInvalidator

	matchExpiry time.Duration
	now         func() time.Time
}

func NewService(
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	historyRepo repository.HistoryRepository,
	notifSvc notification.Service,
	emailSvc email.Service,
	matchExpiry time.Duration,
) Service {
	return &service{
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		requestRepo: requestRepo,
		historyRepo: historyRepo,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
		matchExpiry: matchExpiry,
		now:         time.Now,
	}
}

func (s *service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *service) SetStatsInvalidator(inv StatsInvalidator) {
	s.statsInv = inv
}

func (s *service) Respond(ctx context.Context, matchID, callerID uuid.UUID, decision domain.MatchResponse) (*domain.Match, error) {
	if !decision.IsDecision() {
		return nil, domain.ErrInvalidDecision
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if match == nil {
		return nil, domain.ErrMatchNotFound
	}
	if match.Status == domain.MatchExpired {
		return nil, domain.ErrMatchExpired
	}

	// A both_accepted match with no contact snapshot means a previous
	// confirmation was interrupted mid-bundle. Re-accepting resumes it:
	// every step of the bundle is guarded or idempotent, so only the
	// missing effects are applied.
	if match.Status == domain.MatchBothAccepted && match.DonorInfo == nil && decision == domain.ResponseAccepted {
		if _, err := match.PartyOf(callerID); err != nil {
			return nil, err
		}
		if err := s.confirm(ctx, match, s.now()); err != nil {
			return nil, err
		}
		return match, nil
	}

	if match.Status.IsTerminal() {
		return nil, domain.ErrMatchResolved
	}

	now := s.now()

	// Lazy expiry: a response arriving past the deadline retires the match
	// instead of being recorded. The periodic sweep handles the same
	// transition for untouched matches.
	if now.After(match.ExpiresAt) {
		closed, err := s.matchRepo.CloseOpen(ctx, match.ID, domain.MatchExpired)
		if err != nil {
			return nil, fmt.Errorf("failed to expire match: %w", err)
		}
		if closed {
			if err := s.notifSvc.NotifyMatchExpired(ctx, match); err != nil {
				log.Printf("matching: failed to send expiry notifications for match %s: %v", match.ID, err)
			}
		}
		return nil, domain.ErrMatchExpired
	}

	party, err := match.PartyOf(callerID)
	if err != nil {
		return nil, err
	}

	newStatus := domain.DeriveMatchStatus(match.DonorResponse, match.RequesterResponse, party, decision)

	applied, err := s.matchRepo.ApplyResponse(ctx, match.ID, party, decision, now, newStatus, match.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}
	if !applied {
		return nil, domain.ErrMatchConflict
	}

	match.Status = newStatus
	if party == domain.PartyDonor {
		match.DonorResponse = decision
		match.DonorRespondedAt = &now
	} else {
		match.RequesterResponse = decision
		match.RequesterRespondedAt = &now
	}

	if decision == domain.ResponseRejected {
		if err := s.notifSvc.NotifyMatchDeclined(ctx, match, party); err != nil {
			log.Printf("matching: failed to send decline notification for match %s: %v", match.ID, err)
		}
		return match, nil
	}

	if newStatus == domain.MatchBothAccepted {
		if err := s.confirm(ctx, match, now); err != nil {
			return nil, err
		}
	}

	return match, nil
}

// confirm performs the full side-effect bundle of a both_accepted match:
// contact exchange, status transitions, competing-proposal expiry,
// notifications, and the permanent history record. Steps are at-least-once;
// a retry after partial failure re-applies only what is still missing
// because every write is guarded or idempotent.
func (s *service) confirm(ctx context.Context, match *domain.Match, now time.Time) error {
	donor, err := s.userRepo.GetByID(ctx, match.DonorID)
	if err != nil {
		return fmt.Errorf("failed to load donor: %w", err)
	}
	requester, err := s.userRepo.GetByID(ctx, match.RequesterID)
	if err != nil {
		return fmt.Errorf("failed to load requester: %w", err)
	}
	request, err := s.requestRepo.GetByID(ctx, match.RequestID)
	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}
	if donor == nil || requester == nil || request == nil {
		return domain.ErrMatchNotFound
	}

	donorInfo := domain.ContactSnapshot{
		Email:    donor.Email,
		Phone:    orFallback(donor.Phone, fallbackContact),
		Location: orFallback(donor.Location, fallbackContact),
	}
	requesterInfo := domain.ContactSnapshot{
		Email:       requester.Email,
		Phone:       orFallback(requester.Phone, fallbackContact),
		Location:    orFallback(requester.Location, fallbackContact),
		Urgency:     string(request.Urgency),
		Description: stringOrFallback(request.Description, fallbackDescription),
	}

	if err := s.matchRepo.SetContactInfo(ctx, match.ID, donorInfo, requesterInfo); err != nil {
		return fmt.Errorf("failed to store contact snapshots: %w", err)
	}
	match.DonorInfo = &donorInfo
	match.RequesterInfo = &requesterInfo

	if err := s.userRepo.SetAvailability(ctx, donor.ID, false, domain.MatchStatusMatched); err != nil {
		return fmt.Errorf("failed to update donor status: %w", err)
	}
	if err := s.userRepo.SetMatchStatus(ctx, requester.ID, domain.MatchStatusMatched); err != nil {
		return fmt.Errorf("failed to update requester status: %w", err)
	}

	matched, err := s.requestRepo.MarkMatched(ctx, request.ID, donor.ID, now)
	if err != nil {
		return fmt.Errorf("failed to mark request matched: %w", err)
	}
	if !matched {
		// Already matched or cancelled by a concurrent writer; the contact
		// exchange for this confirmed pair still stands.
		log.Printf("matching: request %s was not pending at confirmation of match %s", request.ID, match.ID)
	}

	// First confirmed match wins: competing open proposals for the same
	// request are retired and their donors told the request is fulfilled.
	others, err := s.matchRepo.ListOpenByRequest(ctx, match.RequestID, match.ID)
	if err != nil {
		return fmt.Errorf("failed to list competing matches: %w", err)
	}
	for i := range others {
		other := &others[i]
		closed, err := s.matchRepo.CloseOpen(ctx, other.ID, domain.MatchExpired)
		if err != nil {
			log.Printf("matching: failed to expire competing match %s: %v", other.ID, err)
			continue
		}
		if !closed {
			continue
		}
		if err := s.notifSvc.NotifyRequestFulfilled(ctx, other); err != nil {
			log.Printf("matching: failed to notify donor of fulfilled request, match %s: %v", other.ID, err)
		}
	}

	if err := s.notifSvc.NotifyMatchConfirmed(ctx, match); err != nil {
		return fmt.Errorf("failed to send confirmation notifications: %w", err)
	}

	if err := s.emailSvc.SendMatchConfirmedEmail(ctx, donor.Email, donor.Username, requester.Username, requesterInfo, match.BloodType); err != nil {
		log.Printf("matching: failed to email donor %s: %v", donor.ID, err)
	}
	if err := s.emailSvc.SendMatchConfirmedEmail(ctx, requester.Email, requester.Username, donor.Username, donorInfo, match.BloodType); err != nil {
		log.Printf("matching: failed to email requester %s: %v", requester.ID, err)
	}

	recorded, err := s.historyRepo.ExistsForPair(ctx, match.DonorID, match.RequesterID)
	if err != nil {
		return fmt.Errorf("failed to check history: %w", err)
	}
	if !recorded {
		record := &domain.History{
			ID:            uuid.New(),
			DonorID:       match.DonorID,
			RequesterID:   match.RequesterID,
			DonorName:     match.DonorName,
			RequesterName: match.RequesterName,
			BloodType:     match.BloodType,
			Status:        string(domain.RequestMatched),
		}
		if err := s.historyRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create history record: %w", err)
		}
	}

	if s.statsInv != nil {
		s.statsInv.InvalidateCache(ctx)
	}

	return nil
}

func (s *service) PendingForUser(ctx context.Context, user *domain.User) ([]domain.Match, error) {
	now := s.now()

	switch user.Role {
	case domain.RoleDonor:
		return s.matchRepo.ListForUser(ctx, user.ID, domain.PartyDonor,
			[]domain.MatchStatus{domain.MatchPending, domain.MatchRequesterAccepted}, &now)
	case domain.RoleRequester:
		return s.matchRepo.ListForUser(ctx, user.ID, domain.PartyRequester,
			[]domain.MatchStatus{domain.MatchPending, domain.MatchDonorAccepted}, &now)
	default:
		return []domain.Match{}, nil
	}
}

func (s *service) ActiveForUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	return s.matchRepo.ListActiveForUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]domain.Match, error) {
	return s.matchRepo.ListAll(ctx)
}

func (s *service) CancelOpenMatchesForRequest(ctx context.Context, requestID uuid.UUID) error {
	open, err := s.matchRepo.ListOpenByRequest(ctx, requestID, uuid.Nil)
	if err != nil {
		return fmt.Errorf("failed to list open matches: %w", err)
	}

	for i := range open {
		match := &open[i]
		closed, err := s.matchRepo.CloseOpen(ctx, match.ID, domain.MatchRequesterRejected)
		if err != nil {
			log.Printf("matching: failed to cancel match %s: %v", match.ID, err)
			continue
		}
		if !closed {
			continue
		}
		if err := s.notifSvc.NotifyRequestCancelled(ctx, match); err != nil {
			log.Printf("matching: failed to notify donor of cancelled request, match %s: %v", match.ID, err)
		}
	}

	return nil
}

func orFallback(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func stringOrFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
