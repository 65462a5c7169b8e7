package matching

import (
	"context"
	"log"
	"math"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/repository"
	"bloodlink/internal/service/notification"
)

// Reaper is the periodic lifecycle sweep: it reminds parties who have not
// responded yet and retires proposals past their deadline. Sweeps are
// idempotent and safe to run concurrently with responses; the compare-and-set
// close resolves any race to exactly one terminal state.
type Reaper struct {
	matchRepo   repository.MatchRepository
	requestRepo repository.RequestRepository
	notifSvc    notification.Service

	interval      time.Duration
	reminderAfter time.Duration
	now           func() time.Time
}

func NewReaper(matchRepo repository.MatchRepository, requestRepo repository.RequestRepository, notifSvc notification.Service, interval, reminderAfter time.Duration) *Reaper {
	return &Reaper{
		matchRepo:     matchRepo,
		requestRepo:   requestRepo,
		notifSvc:      notifSvc,
		interval:      interval,
		reminderAfter: reminderAfter,
		now:           time.Now,
	}
}

func (r *Reaper) SetClock(now func() time.Time) {
	r.now = now
}

// Start runs the sweep on the configured interval until the context is
// cancelled. Intended to be launched as a goroutine from main.
func (r *Reaper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one reminder pass and one expiry pass. Failures on individual
// matches are logged and skipped; one bad record never blocks the rest.
func (r *Reaper) Sweep(ctx context.Context) {
	r.sendReminders(ctx)
	r.expireOverdue(ctx)
}

func (r *Reaper) sendReminders(ctx context.Context) {
	now := r.now()
	cutoff := now.Add(-r.reminderAfter)

	matches, err := r.matchRepo.ListOpenCreatedBefore(ctx, now, cutoff)
	if err != nil {
		log.Printf("reaper: failed to list matches for reminders: %v", err)
		return
	}

	reminded := 0
	for i := range matches {
		match := &matches[i]
		hoursRemaining := int(math.Ceil(match.ExpiresAt.Sub(now).Hours()))

		var urgency domain.Urgency
		if req, err := r.requestRepo.GetByID(ctx, match.RequestID); err != nil {
			log.Printf("reaper: failed to load request %s for reminder: %v", match.RequestID, err)
		} else if req != nil {
			urgency = req.Urgency
		}

		if match.DonorResponse == domain.ResponsePending {
			if err := r.notifSvc.NotifyReminder(ctx, match, domain.PartyDonor, hoursRemaining, urgency); err != nil {
				log.Printf("reaper: failed to remind donor for match %s: %v", match.ID, err)
			} else {
				reminded++
			}
		}
		if match.RequesterResponse == domain.ResponsePending {
			if err := r.notifSvc.NotifyReminder(ctx, match, domain.PartyRequester, hoursRemaining, urgency); err != nil {
				log.Printf("reaper: failed to remind requester for match %s: %v", match.ID, err)
			} else {
				reminded++
			}
		}
	}

	if reminded > 0 {
		log.Printf("reaper: sent %d reminder notifications", reminded)
	}
}

func (r *Reaper) expireOverdue(ctx context.Context) {
	now := r.now()

	matches, err := r.matchRepo.ListExpiredOpen(ctx, now)
	if err != nil {
		log.Printf("reaper: failed to list overdue matches: %v", err)
		return
	}

	expired := 0
	for i := range matches {
		match := &matches[i]

		closed, err := r.matchRepo.CloseOpen(ctx, match.ID, domain.MatchExpired)
		if err != nil {
			log.Printf("reaper: failed to expire match %s: %v", match.ID, err)
			continue
		}
		if !closed {
			// A response or a concurrent sweep already finalized it.
			continue
		}
		expired++

		if err := r.notifSvc.NotifyMatchExpired(ctx, match); err != nil {
			log.Printf("reaper: failed to send expiry notifications for match %s: %v", match.ID, err)
		}
	}

	if expired > 0 {
		log.Printf("reaper: expired %d overdue matches", expired)
	}
}
