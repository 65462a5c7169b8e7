package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bloodlink/internal/domain"
)

type MatchRepository interface {
	// CreateIfAbsent inserts the proposal unless an active match already
	// occupies the (donor, request) slot. Returns false without error when
	// the slot was taken.
	CreateIfAbsent(ctx context.Context, match *domain.Match) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	// ApplyResponse records one party's decision and the derived status,
	// guarded on the status observed at read time. Returns false when a
	// concurrent writer moved the match first.
	ApplyResponse(ctx context.Context, id uuid.UUID, party domain.MatchParty, response domain.MatchResponse, respondedAt time.Time, newStatus, priorStatus domain.MatchStatus) (bool, error)
	SetContactInfo(ctx context.Context, id uuid.UUID, donorInfo, requesterInfo domain.ContactSnapshot) error
	// CloseOpen force-transitions a still-open match to the given terminal
	// status. Returns false when the match already reached a terminal state,
	// so racing closers resolve to exactly one winner.
	CloseOpen(ctx context.Context, id uuid.UUID, to domain.MatchStatus) (bool, error)
	ListOpenByRequest(ctx context.Context, requestID uuid.UUID, exclude uuid.UUID) ([]domain.Match, error)
	ListExpiredOpen(ctx context.Context, now time.Time) ([]domain.Match, error)
	ListOpenCreatedBefore(ctx context.Context, now, createdBefore time.Time) ([]domain.Match, error)
	ListForUser(ctx context.Context, userID uuid.UUID, party domain.MatchParty, statuses []domain.MatchStatus, unexpiredAt *time.Time) ([]domain.Match, error)
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error)
	ListAll(ctx context.Context) ([]domain.Match, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatuses(ctx context.Context, statuses []domain.MatchStatus) (int64, error)
}

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) MatchRepository {
	return &matchRepository{db: db}
}

func statusStrings(statuses []domain.MatchStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *matchRepository) CreateIfAbsent(ctx context.Context, match *domain.Match) (bool, error) {
	query := `
		INSERT INTO matches (id, donor_id, requester_id, request_id, donor_name, requester_name,
			blood_type, status, donor_response, requester_response, expires_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		WHERE NOT EXISTS (
			SELECT 1 FROM matches
			WHERE donor_id = $2 AND request_id = $4 AND status = ANY($12)
		)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		match.ID, match.DonorID, match.RequesterID, match.RequestID,
		match.DonorName, match.RequesterName, match.BloodType,
		match.Status, match.DonorResponse, match.RequesterResponse, match.ExpiresAt,
		pq.Array(statusStrings(domain.ActiveMatchStatuses)),
	).Scan(&match.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT * FROM matches WHERE id = $1`

	err := r.db.GetContext(ctx, &match, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) ApplyResponse(ctx context.Context, id uuid.UUID, party domain.MatchParty, response domain.MatchResponse, respondedAt time.Time, newStatus, priorStatus domain.MatchStatus) (bool, error) {
	var query string
	if party == domain.PartyDonor {
		query = `
			UPDATE matches
			SET donor_response = $2, donor_responded_at = $3, status = $4
			WHERE id = $1 AND status = $5`
	} else {
		query = `
			UPDATE matches
			SET requester_response = $2, requester_responded_at = $3, status = $4
			WHERE id = $1 AND status = $5`
	}

	res, err := r.db.ExecContext(ctx, query, id, response, respondedAt, newStatus, priorStatus)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *matchRepository) SetContactInfo(ctx context.Context, id uuid.UUID, donorInfo, requesterInfo domain.ContactSnapshot) error {
	query := `UPDATE matches SET donor_info = $2, requester_info = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, donorInfo, requesterInfo)
	return err
}

func (r *matchRepository) CloseOpen(ctx context.Context, id uuid.UUID, to domain.MatchStatus) (bool, error) {
	query := `UPDATE matches SET status = $2 WHERE id = $1 AND status = ANY($3)`

	res, err := r.db.ExecContext(ctx, query, id, to, pq.Array(statusStrings(domain.OpenMatchStatuses)))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *matchRepository) ListOpenByRequest(ctx context.Context, requestID uuid.UUID, exclude uuid.UUID) ([]domain.Match, error) {
	var matches []domain.Match
	query := `
		SELECT * FROM matches
		WHERE request_id = $1 AND id <> $2 AND status = ANY($3)
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &matches, query, requestID, exclude, pq.Array(statusStrings(domain.OpenMatchStatuses)))
	return matches, err
}

func (r *matchRepository) ListExpiredOpen(ctx context.Context, now time.Time) ([]domain.Match, error) {
	var matches []domain.Match
	query := `
		SELECT * FROM matches
		WHERE status = ANY($1) AND expires_at <= $2
		ORDER BY expires_at ASC`

	err := r.db.SelectContext(ctx, &matches, query, pq.Array(statusStrings(domain.OpenMatchStatuses)), now)
	return matches, err
}

func (r *matchRepository) ListOpenCreatedBefore(ctx context.Context, now, createdBefore time.Time) ([]domain.Match, error) {
	var matches []domain.Match
	query := `
		SELECT * FROM matches
		WHERE status = ANY($1) AND expires_at > $2 AND created_at <= $3
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &matches, query, pq.Array(statusStrings(domain.OpenMatchStatuses)), now, createdBefore)
	return matches, err
}

func (r *matchRepository) ListForUser(ctx context.Context, userID uuid.UUID, party domain.MatchParty, statuses []domain.MatchStatus, unexpiredAt *time.Time) ([]domain.Match, error) {
	column := "donor_id"
	if party == domain.PartyRequester {
		column = "requester_id"
	}

	query := `SELECT * FROM matches WHERE ` + column + ` = $1 AND status = ANY($2)`
	args := []interface{}{userID, pq.Array(statusStrings(statuses))}
	if unexpiredAt != nil {
		query += ` AND expires_at > $3`
		args = append(args, *unexpiredAt)
	}
	query += ` ORDER BY created_at DESC`

	var matches []domain.Match
	err := r.db.SelectContext(ctx, &matches, query, args...)
	return matches, err
}

func (r *matchRepository) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	var matches []domain.Match
	query := `
		SELECT * FROM matches
		WHERE (donor_id = $1 OR requester_id = $1) AND status = $2
		ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &matches, query, userID, domain.MatchBothAccepted)
	return matches, err
}

func (r *matchRepository) ListAll(ctx context.Context) ([]domain.Match, error) {
	var matches []domain.Match
	query := `SELECT * FROM matches ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &matches, query)
	return matches, err
}

func (r *matchRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM matches`)
	return count, err
}

func (r *matchRepository) CountByStatuses(ctx context.Context, statuses []domain.MatchStatus) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM matches WHERE status = ANY($1)`
	err := r.db.GetContext(ctx, &count, query, pq.Array(statusStrings(statuses)))
	return count, err
}
