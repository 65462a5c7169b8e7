package mocks

import (
	"context"

	"bloodlink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) NotifyMatchProposal(ctx context.Context, match *domain.Match, urgency domain.Urgency, description string) error {
	args := m.Called(ctx, match, urgency, description)
	return args.Error(0)
}

func (m *NotificationService) NotifyMatchDeclined(ctx context.Context, match *domain.Match, decliner domain.MatchParty) error {
	args := m.Called(ctx, match, decliner)
	return args.Error(0)
}

func (m *NotificationService) NotifyMatchConfirmed(ctx context.Context, match *domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *NotificationService) NotifyRequestFulfilled(ctx context.Context, match *domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *NotificationService) NotifyRequestCancelled(ctx context.Context, match *domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *NotificationService) NotifyMatchExpired(ctx context.Context, match *domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *NotificationService) NotifyReminder(ctx context.Context, match *domain.Match, party domain.MatchParty, hoursRemaining int, urgency domain.Urgency) error {
	args := m.Called(ctx, match, party, hoursRemaining, urgency)
	return args.Error(0)
}
