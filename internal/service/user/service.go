package user

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/repository"
	"bloodlink/internal/service/matching"
)

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// ChooseRole assigns donor or requester after signup. The system does
	// not prevent a later change, matching the original behaviour.
	ChooseRole(ctx context.Context, userID uuid.UUID, input domain.ChooseRoleInput) (*domain.User, error)
	// SetAvailability toggles the donor's availability flag. Turning it on
	// triggers match detection for that donor.
	SetAvailability(ctx context.Context, userID uuid.UUID, isAvailable bool) error
	DonationHistory(ctx context.Context, donorID uuid.UUID) ([]domain.History, error)
	RequestHistory(ctx context.Context, requesterID uuid.UUID) ([]domain.History, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type service struct {
	userRepo    repository.UserRepository
	historyRepo repository.HistoryRepository
	matchingSvc matching.Service
}

func NewService(userRepo repository.UserRepository, historyRepo repository.HistoryRepository, matchingSvc matching.Service) Service {
	return &service{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		matchingSvc: matchingSvc,
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *service) ChooseRole(ctx context.Context, userID uuid.UUID, input domain.ChooseRoleInput) (*domain.User, error) {
	if input.Role != domain.RoleDonor && input.Role != domain.RoleRequester {
		return nil, domain.ErrInvalidRole
	}
	if input.BloodType != nil && !input.BloodType.IsValid() {
		return nil, domain.ErrInvalidBloodType
	}

	if err := s.userRepo.AssignRole(ctx, userID, input.Role, input.BloodType); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}

func (s *service) SetAvailability(ctx context.Context, userID uuid.UUID, isAvailable bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Role != domain.RoleDonor {
		return domain.ErrNotDonor
	}

	matchStatus := domain.MatchStatusUnavailable
	if isAvailable {
		matchStatus = domain.MatchStatusAvailable
	}

	if err := s.userRepo.SetAvailability(ctx, userID, isAvailable, matchStatus); err != nil {
		return err
	}

	// A donor turning unavailable does NOT cancel their open proposals;
	// those still resolve by response or expiry. Unavailability only keeps
	// the donor out of future detection passes.
	if isAvailable {
		created := s.matchingSvc.Detect(ctx, matching.DetectOptions{DonorID: &userID})
		if created > 0 {
			log.Printf("user: %d requests proposed for newly available donor %s", created, userID)
		}
	}

	return nil
}

func (s *service) DonationHistory(ctx context.Context, donorID uuid.UUID) ([]domain.History, error) {
	return s.historyRepo.ListByDonor(ctx, donorID)
}

func (s *service) RequestHistory(ctx context.Context, requesterID uuid.UUID) ([]domain.History, error) {
	return s.historyRepo.ListByRequester(ctx, requesterID)
}

func (s *service) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	return s.userRepo.ListByRole(ctx, role)
}
