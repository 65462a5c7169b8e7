package request

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
	Create(ctx context.Context, requesterID uuid.UUID, input domain.CreateRequestInput) (*domain.Request, error)
	// Cancel rejects every open proposal for the request and notifies the
	// affected donors. Only Pending requests can be cancelled.
	Cancel(ctx context.Context, requestID, callerID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	ListOpen(ctx context.Context, requesterID uuid.UUID) ([]domain.Request, error)
	ListMatched(ctx context.Context, requesterID uuid.UUID) ([]domain.Request, error)
	ListAll(ctx context.Context) ([]domain.Request, error)
}

type service struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	matchingSvc matching.Service
}

func NewService(requestRepo repository.RequestRepository, userRepo repository.UserRepository, matchingSvc matching.Service) Service {
	return &service{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		matchingSvc: matchingSvc,
	}
}

func (s *service) Create(ctx context.Context, requesterID uuid.UUID, input domain.CreateRequestInput) (*domain.Request, error) {
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}
	if requester == nil {
		return nil, domain.ErrUserNotFound
	}

	req := &domain.Request{
		ID:            uuid.New(),
		RequesterID:   requester.ID,
		RequesterName: requester.Username,
		BloodType:     input.BloodType,
		Urgency:       input.Urgency,
		Description:   input.Description,
		Status:        domain.RequestPending,
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Detection is best-effort; a failed pass never fails the creation and
	// the periodic scan will pick the request up later.
	created := s.matchingSvc.Detect(ctx, matching.DetectOptions{RequestID: &req.ID})
	if created > 0 {
		log.Printf("request: %d donors proposed for new request %s", created, req.ID)
	}

	return req, nil
}

func (s *service) Cancel(ctx context.Context, requestID, callerID uuid.UUID) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}
	if req == nil || req.RequesterID != callerID {
		return domain.ErrRequestNotFound
	}

	switch req.Status {
	case domain.RequestCancelled:
		return domain.ErrRequestAlreadyCancelled
	case domain.RequestMatched, domain.RequestCompleted:
		return domain.ErrRequestAlreadyMatched
	}

	cancelled, err := s.requestRepo.MarkCancelled(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to cancel request: %w", err)
	}
	if !cancelled {
		// Lost a race against a confirmation; report the fresher state.
		current, err := s.requestRepo.GetByID(ctx, requestID)
		if err == nil && current != nil && current.Status == domain.RequestMatched {
			return domain.ErrRequestAlreadyMatched
		}
		return domain.ErrRequestAlreadyCancelled
	}

	return s.matchingSvc.CancelOpenMatchesForRequest(ctx, requestID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	return s.requestRepo.GetByID(ctx, id)
}

func (s *service) ListOpen(ctx context.Context, requesterID uuid.UUID) ([]domain.Request, error) {
	return s.requestRepo.ListByRequester(ctx, requesterID,
		[]domain.RequestStatus{domain.RequestPending, domain.RequestCancelled})
}

func (s *service) ListMatched(ctx context.Context, requesterID uuid.UUID) ([]domain.Request, error) {
	return s.requestRepo.ListByRequester(ctx, requesterID,
		[]domain.RequestStatus{domain.RequestMatched})
}

func (s *service) ListAll(ctx context.Context) ([]domain.Request, error) {
	return s.requestRepo.ListAll(ctx)
}
