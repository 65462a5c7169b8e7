package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"bloodlink/internal/domain"
	"bloodlink/internal/repository"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 5 * time.Minute
)

// Stats is the admin overview counter set.
type Stats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalDonors       int64 `json:"total_donors"`
	TotalRequesters   int64 `json:"total_requesters"`
	AvailableDonors   int64 `json:"available_donors"`
	TotalRequests     int64 `json:"total_requests"`
	PendingRequests   int64 `json:"pending_requests"`
	MatchedRequests   int64 `json:"matched_requests"`
	TotalMatches      int64 `json:"total_matches"`
	PendingMatches    int64 `json:"pending_matches"`
	SuccessfulMatches int64 `json:"successful_matches"`
	ExpiredMatches    int64 `json:"expired_matches"`
	RejectedMatches   int64 `json:"rejected_matches"`
	CompletedHistory  int64 `json:"completed_history"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
	InvalidateCache(ctx context.Context)
}

type service struct {
	userRepo    repository.UserRepository
	requestRepo repository.RequestRepository
	matchRepo   repository.MatchRepository
	historyRepo repository.HistoryRepository
	redis       *redis.Client
}

func NewService(
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	matchRepo repository.MatchRepository,
	historyRepo repository.HistoryRepository,
	redisClient *redis.Client,
) Service {
	return &service{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		matchRepo:   matchRepo,
		historyRepo: historyRepo,
		redis:       redisClient,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats := &Stats{}
	var err error

	if stats.TotalUsers, err = s.userRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDonors, err = s.userRepo.CountByRole(ctx, domain.RoleDonor); err != nil {
		return nil, err
	}
	if stats.TotalRequesters, err = s.userRepo.CountByRole(ctx, domain.RoleRequester); err != nil {
		return nil, err
	}
	if stats.AvailableDonors, err = s.userRepo.CountMatchableDonors(ctx); err != nil {
		return nil, err
	}

	if stats.TotalRequests, err = s.requestRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = s.requestRepo.CountByStatus(ctx, domain.RequestPending); err != nil {
		return nil, err
	}
	if stats.MatchedRequests, err = s.requestRepo.CountByStatus(ctx, domain.RequestMatched); err != nil {
		return nil, err
	}

	if stats.TotalMatches, err = s.matchRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.PendingMatches, err = s.matchRepo.CountByStatuses(ctx, domain.OpenMatchStatuses); err != nil {
		return nil, err
	}
	if stats.SuccessfulMatches, err = s.matchRepo.CountByStatuses(ctx, []domain.MatchStatus{domain.MatchBothAccepted}); err != nil {
		return nil, err
	}
	if stats.ExpiredMatches, err = s.matchRepo.CountByStatuses(ctx, []domain.MatchStatus{domain.MatchExpired}); err != nil {
		return nil, err
	}
	if stats.RejectedMatches, err = s.matchRepo.CountByStatuses(ctx, []domain.MatchStatus{domain.MatchDonorRejected, domain.MatchRequesterRejected}); err != nil {
		return nil, err
	}

	if stats.CompletedHistory, err = s.historyRepo.CountAll(ctx); err != nil {
		return nil, err
	}

	s.toCache(ctx, stats)
	return stats, nil
}

func (s *service) InvalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, statsCacheKey).Err(); err != nil {
		log.Printf("dashboard: failed to invalidate stats cache: %v", err)
	}
}

// Cache misses and redis outages both fall through to the database.
func (s *service) fromCache(ctx context.Context) *Stats {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *service) toCache(ctx context.Context, stats *Stats) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, statsCacheKey, data, statsCacheTTL).Err(); err != nil {
		log.Printf("dashboard: failed to cache stats: %v", err)
	}
}
