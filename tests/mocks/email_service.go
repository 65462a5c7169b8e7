package mocks

import (
	"context"
	"time"

	"bloodlink/internal/domain"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendMatchProposalEmail(ctx context.Context, toEmail, donorName, requesterName string, bloodType domain.BloodType, urgency domain.Urgency, expiresAt time.Time) error {
	args := m.Called(ctx, toEmail, donorName, requesterName, bloodType, urgency, expiresAt)
	return args.Error(0)
}

func (m *EmailService) SendMatchConfirmedEmail(ctx context.Context, toEmail, recipientName, otherPartyName string, contact domain.ContactSnapshot, bloodType domain.BloodType) error {
	args := m.Called(ctx, toEmail, recipientName, otherPartyName, contact, bloodType)
	return args.Error(0)
}
