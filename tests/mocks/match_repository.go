package mocks

import (
	"context"
	"time"

	"bloodlink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MatchRepository struct {
	mock.Mock
}

func (m *MatchRepository) CreateIfAbsent(ctx context.Context, match *domain.Match) (bool, error) {
	args := m.Called(ctx, match)
	return args.Bool(0), args.Error(1)
}

func (m *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}

func (m *MatchRepository) ApplyResponse(ctx context.Context, id uuid.UUID, party domain.MatchParty, response domain.MatchResponse, respondedAt time.Time, newStatus, priorStatus domain.MatchStatus) (bool, error) {
	args := m.Called(ctx, id, party, response, respondedAt, newStatus, priorStatus)
	return args.Bool(0), args.Error(1)
}

func (m *MatchRepository) SetContactInfo(ctx context.Context, id uuid.UUID, donorInfo, requesterInfo domain.ContactSnapshot) error {
	args := m.Called(ctx, id, donorInfo, requesterInfo)
	return args.Error(0)
}

func (m *MatchRepository) CloseOpen(ctx context.Context, id uuid.UUID, to domain.MatchStatus) (bool, error) {
	args := m.Called(ctx, id, to)
	return args.Bool(0), args.Error(1)
}

func (m *MatchRepository) ListOpenByRequest(ctx context.Context, requestID uuid.UUID, exclude uuid.UUID) ([]domain.Match, error) {
	args := m.Called(ctx, requestID, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchRepository) ListExpiredOpen(ctx context.Context, now time.Time) ([]domain.Match, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchRepository) ListOpenCreatedBefore(ctx context.Context, now, createdBefore time.Time) ([]domain.Match, error) {
	args := m.Called(ctx, now, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchRepository) ListForUser(ctx context.Context, userID uuid.UUID, party domain.MatchParty, statuses []domain.MatchStatus, unexpiredAt *time.Time) ([]domain.Match, error) {
	args := m.Called(ctx, userID, party, statuses, unexpiredAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchRepository) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchRepository) ListAll(ctx context.Context) ([]domain.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MatchRepository) CountByStatuses(ctx context.Context, statuses []domain.MatchStatus) (int64, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(int64), args.Error(1)
}
