package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/repository"
)

// Service writes the one-way notification log consumed by both parties at
// every lifecycle transition. Notifications are created only by the engine
// and never mutated by it afterwards.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error

	NotifyMatchProposal(ctx context.Context, match *domain.Match, urgency domain.Urgency, description string) error
	NotifyMatchDeclined(ctx context.Context, match *domain.Match, decliner domain.MatchParty) error
	NotifyMatchConfirmed(ctx context.Context, match *domain.Match) error
	NotifyRequestFulfilled(ctx context.Context, match *domain.Match) error
	NotifyRequestCancelled(ctx context.Context, match *domain.Match) error
	NotifyMatchExpired(ctx context.Context, match *domain.Match) error
	NotifyReminder(ctx context.Context, match *domain.Match, party domain.MatchParty, hoursRemaining int, urgency domain.Urgency) error
}

type service struct {
	notifRepo repository.NotificationRepository
}

func NewService(notifRepo repository.NotificationRepository) Service {
	return &service{notifRepo: notifRepo}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) create(ctx context.Context, userID uuid.UUID, typ domain.NotificationType, title, message string, data map[string]interface{}, matchID uuid.UUID) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	id := matchID
	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    payload,
		MatchID: &id,
	}
	return s.notifRepo.Create(ctx, notif)
}

func (s *service) NotifyMatchProposal(ctx context.Context, match *domain.Match, urgency domain.Urgency, description string) error {
	err := s.create(ctx, match.DonorID, domain.NotifMatchRequest,
		"New Blood Donation Request",
		fmt.Sprintf("%s needs %s blood (%s urgency). Would you like to help?", match.RequesterName, match.BloodType, urgency),
		map[string]interface{}{
			"match_id":       match.ID.String(),
			"requester_name": match.RequesterName,
			"blood_type":     match.BloodType,
			"urgency":        urgency,
			"description":    description,
			"expires_at":     match.ExpiresAt,
		}, match.ID)
	if err != nil {
		return err
	}

	return s.create(ctx, match.RequesterID, domain.NotifMatchRequest,
		"Potential Donor Found",
		fmt.Sprintf("%s (%s) might be able to help with your blood request. Waiting for their response.", match.DonorName, match.BloodType),
		map[string]interface{}{
			"match_id":   match.ID.String(),
			"donor_name": match.DonorName,
			"blood_type": match.BloodType,
			"expires_at": match.ExpiresAt,
		}, match.ID)
}

func (s *service) NotifyMatchDeclined(ctx context.Context, match *domain.Match, decliner domain.MatchParty) error {
	recipient := match.RequesterID
	declinerName := match.DonorName
	if decliner == domain.PartyRequester {
		recipient = match.DonorID
		declinerName = match.RequesterName
	}

	return s.create(ctx, recipient, domain.NotifMatchRejected,
		"Match Request Declined",
		fmt.Sprintf("%s has declined the blood donation match.", declinerName),
		map[string]interface{}{"match_id": match.ID.String()}, match.ID)
}

func (s *service) NotifyMatchConfirmed(ctx context.Context, match *domain.Match) error {
	err := s.create(ctx, match.DonorID, domain.NotifMatchAccepted,
		"Blood Match Confirmed",
		fmt.Sprintf("Both you and %s have accepted the match. Contact details have been shared.", match.RequesterName),
		map[string]interface{}{
			"match_id":       match.ID.String(),
			"requester_info": match.RequesterInfo,
			"blood_type":     match.BloodType,
		}, match.ID)
	if err != nil {
		return err
	}

	return s.create(ctx, match.RequesterID, domain.NotifMatchAccepted,
		"Donor Found",
		fmt.Sprintf("Both you and %s have accepted the match. Contact details have been shared. Your request has been fulfilled!", match.DonorName),
		map[string]interface{}{
			"match_id":   match.ID.String(),
			"donor_info": match.DonorInfo,
			"blood_type": match.BloodType,
		}, match.ID)
}

func (s *service) NotifyRequestFulfilled(ctx context.Context, match *domain.Match) error {
	return s.create(ctx, match.DonorID, domain.NotifRequestFulfilled,
		"Blood Request Fulfilled",
		fmt.Sprintf("The blood request from %s has been fulfilled by another donor.", match.RequesterName),
		map[string]interface{}{"match_id": match.ID.String()}, match.ID)
}

func (s *service) NotifyRequestCancelled(ctx context.Context, match *domain.Match) error {
	return s.create(ctx, match.DonorID, domain.NotifRequestCancelled,
		"Blood Request Cancelled",
		fmt.Sprintf("%s has cancelled their %s blood request.", match.RequesterName, match.BloodType),
		map[string]interface{}{
			"match_id":       match.ID.String(),
			"requester_name": match.RequesterName,
		}, match.ID)
}

func (s *service) NotifyMatchExpired(ctx context.Context, match *domain.Match) error {
	err := s.create(ctx, match.DonorID, domain.NotifMatchExpired,
		"Match Request Expired",
		fmt.Sprintf("The match request with %s has expired.", match.RequesterName),
		map[string]interface{}{"match_id": match.ID.String()}, match.ID)
	if err != nil {
		return err
	}

	return s.create(ctx, match.RequesterID, domain.NotifMatchExpired,
		"Match Request Expired",
		fmt.Sprintf("The match request with %s has expired.", match.DonorName),
		map[string]interface{}{"match_id": match.ID.String()}, match.ID)
}

func (s *service) NotifyReminder(ctx context.Context, match *domain.Match, party domain.MatchParty, hoursRemaining int, urgency domain.Urgency) error {
	if party == domain.PartyDonor {
		return s.create(ctx, match.DonorID, domain.NotifReminder,
			"Reminder: Blood Donation Request",
			fmt.Sprintf("%s is still waiting for your response. %d hours remaining.", match.RequesterName, hoursRemaining),
			map[string]interface{}{
				"match_id":       match.ID.String(),
				"time_remaining": hoursRemaining,
				"requester_name": match.RequesterName,
				"blood_type":     match.BloodType,
				"urgency":        urgency,
			}, match.ID)
	}

	return s.create(ctx, match.RequesterID, domain.NotifReminder,
		"Reminder: Donor Response Pending",
		fmt.Sprintf("%s is considering your blood request. %d hours remaining.", match.DonorName, hoursRemaining),
		map[string]interface{}{
			"match_id":       match.ID.String(),
			"time_remaining": hoursRemaining,
			"donor_name":     match.DonorName,
		}, match.ID)
}
