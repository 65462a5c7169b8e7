package mocks

import (
	"context"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/service/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MatchingService struct {
	mock.Mock
}

func (m *MatchingService) Detect(ctx context.Context, opts matching.DetectOptions) int {
	args := m.Called(ctx, opts)
	return args.Int(0)
}

func (m *MatchingService) Respond(ctx context.Context, matchID, callerID uuid.UUID, decision domain.MatchResponse) (*domain.Match, error) {
	args := m.Called(ctx, matchID, callerID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}

func (m *MatchingService) PendingForUser(ctx context.Context, user *domain.User) ([]domain.Match, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchingService) ActiveForUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchingService) ListAll(ctx context.Context) ([]domain.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchingService) CancelOpenMatchesForRequest(ctx context.Context, requestID uuid.UUID) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *MatchingService) SetClock(now func() time.Time) {
	m.Called(now)
}

func (m *MatchingService) SetStatsInvalidator(inv matching.StatsInvalidator) {
	m.Called(inv)
}
