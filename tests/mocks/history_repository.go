package mocks

import (
	"context"

	"bloodlink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Create(ctx context.Context, record *domain.History) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *HistoryRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]domain.History, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.History), args.Error(1)
}

func (m *HistoryRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.History, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.History), args.Error(1)
}

func (m *HistoryRepository) ExistsForPair(ctx context.Context, donorID, requesterID uuid.UUID) (bool, error) {
	args := m.Called(ctx, donorID, requesterID)
	return args.Bool(0), args.Error(1)
}

func (m *HistoryRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
