package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/resend/resend-go/v3"

	"bloodlink/internal/config"
	"bloodlink/internal/domain"
)

// Service is the email side channel. Every send is best-effort: the match
// engine logs failures and moves on, the in-app notification log stays the
// source of truth.
type Service interface {
	SendMatchProposalEmail(ctx context.Context, toEmail, donorName, requesterName string, bloodType domain.BloodType, urgency domain.Urgency, expiresAt time.Time) error
	SendMatchConfirmedEmail(ctx context.Context, toEmail, recipientName, otherPartyName string, contact domain.ContactSnapshot, bloodType domain.BloodType) error
}

type service struct {
	client       *resend.Client
	config       *config.Config
	templatePath string
}

func NewService(cfg *config.Config) Service {
	return &service{
		client:       resend.NewClient(cfg.ResendAPIKey),
		config:       cfg,
		templatePath: "internal/service/templates/email",
	}
}

func (s *service) sendEmail(toEmail, subject, templateName string, data interface{}) error {
	tmpl, err := template.ParseFiles(
		filepath.Join(s.templatePath, "layout.html"),
		filepath.Join(s.templatePath, templateName),
	)
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("BloodLink <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err = s.client.Emails.Send(params)
	return err
}

func (s *service) SendMatchProposalEmail(ctx context.Context, toEmail, donorName, requesterName string, bloodType domain.BloodType, urgency domain.Urgency, expiresAt time.Time) error {
	data := struct {
		Title         string
		DonorName     string
		RequesterName string
		BloodType     string
		Urgency       string
		ExpiresAt     string
	}{
		Title:         "New Blood Donation Request",
		DonorName:     donorName,
		RequesterName: requesterName,
		BloodType:     string(bloodType),
		Urgency:       string(urgency),
		ExpiresAt:     expiresAt.Format(time.RFC1123),
	}

	return s.sendEmail(toEmail, "New Blood Donation Request", "match_proposal.html", data)
}

func (s *service) SendMatchConfirmedEmail(ctx context.Context, toEmail, recipientName, otherPartyName string, contact domain.ContactSnapshot, bloodType domain.BloodType) error {
	data := struct {
		Title          string
		RecipientName  string
		OtherPartyName string
		BloodType      string
		Email          string
		Phone          string
		Location       string
	}{
		Title:          "Blood Match Confirmed",
		RecipientName:  recipientName,
		OtherPartyName: otherPartyName,
		BloodType:      string(bloodType),
		Email:          contact.Email,
		Phone:          contact.Phone,
		Location:       contact.Location,
	}

	return s.sendEmail(toEmail, "Blood Match Confirmed", "match_confirmed.html", data)
}
