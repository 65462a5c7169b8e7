package service

import (
	"github.com/redis/go-redis/v9"

	"bloodlink/internal/config"
	"bloodlink/internal/repository"
	"bloodlink/internal/service/auth"
	"bloodlink/internal/service/dashboard"
	"bloodlink/internal/service/email"
	"bloodlink/internal/service/matching"
	"bloodlink/internal/service/notification"
	"bloodlink/internal/service/request"
	"bloodlink/internal/service/user"
)

// Services holds all service layer instances.
type Services struct {
	Auth         auth.Service
	User         user.Service
	Request      request.Service
	Matching     matching.Service
	Notification notification.Service
	Email        email.Service
	Dashboard    dashboard.Service
	Reaper       *matching.Reaper
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, cfg *config.Config) *Services {
	emailSvc := email.NewService(cfg)
	notifSvc := notification.NewService(repos.Notification)

	matchingSvc := matching.NewService(
		repos.Match,
		repos.User,
		repos.Request,
		repos.History,
		notifSvc,
		emailSvc,
		cfg.MatchExpiry,
	)

	dashboardSvc := dashboard.NewService(repos.User, repos.Request, repos.Match, repos.History, redisClient)
	matchingSvc.SetStatsInvalidator(dashboardSvc)

	return &Services{
		Auth:         auth.NewService(repos.User, repos.Session, cfg),
		User:         user.NewService(repos.User, repos.History, matchingSvc),
		Request:      request.NewService(repos.Request, repos.User, matchingSvc),
		Matching:     matchingSvc,
		Notification: notifSvc,
		Email:        emailSvc,
		Dashboard:    dashboardSvc,
		Reaper:       matching.NewReaper(repos.Match, repos.Request, notifSvc, cfg.ReaperInterval, cfg.ReminderAfter),
	}
}
