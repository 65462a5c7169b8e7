package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Request      RequestRepository
	Match        MatchRepository
	Notification NotificationRepository
	History      HistoryRepository
	Session      SessionRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Request:      NewRequestRepository(db),
		Match:        NewMatchRepository(db),
		Notification: NewNotificationRepository(db),
		History:      NewHistoryRepository(db),
		Session:      NewSessionRepository(db),
	}
}
