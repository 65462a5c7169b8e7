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

type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID, statuses []domain.RequestStatus) ([]domain.Request, error)
	ListPending(ctx context.Context) ([]domain.Request, error)
	ListPendingByBloodTypes(ctx context.Context, bloodTypes []domain.BloodType) ([]domain.Request, error)
	ListAll(ctx context.Context) ([]domain.Request, error)
	MarkMatched(ctx context.Context, id uuid.UUID, donorID uuid.UUID, matchedAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error)
}

type requestRepository struct {
	db *sqlx.DB
}

func NewRequestRepository(db *sqlx.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	query := `
		INSERT INTO requests (id, requester_id, requester_name, blood_type, urgency, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		req.ID, req.RequesterID, req.RequesterName, req.BloodType, req.Urgency, req.Description, req.Status,
	).Scan(&req.CreatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	var req domain.Request
	query := `SELECT * FROM requests WHERE id = $1`

	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID, statuses []domain.RequestStatus) ([]domain.Request, error) {
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	var requests []domain.Request
	query := `
		SELECT * FROM requests
		WHERE requester_id = $1 AND status = ANY($2)
		ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &requests, query, requesterID, pq.Array(statusStrings))
	return requests, err
}

func (r *requestRepository) ListPending(ctx context.Context) ([]domain.Request, error) {
	var requests []domain.Request
	query := `SELECT * FROM requests WHERE status = $1 ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &requests, query, domain.RequestPending)
	return requests, err
}

func (r *requestRepository) ListPendingByBloodTypes(ctx context.Context, bloodTypes []domain.BloodType) ([]domain.Request, error) {
	if len(bloodTypes) == 0 {
		return []domain.Request{}, nil
	}

	typeStrings := make([]string, len(bloodTypes))
	for i, t := range bloodTypes {
		typeStrings[i] = string(t)
	}

	var requests []domain.Request
	query := `
		SELECT * FROM requests
		WHERE status = $1 AND blood_type = ANY($2)
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &requests, query, domain.RequestPending, pq.Array(typeStrings))
	return requests, err
}

func (r *requestRepository) ListAll(ctx context.Context) ([]domain.Request, error) {
	var requests []domain.Request
	query := `SELECT * FROM requests ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &requests, query)
	return requests, err
}

// MarkMatched transitions Pending→Matched. The status guard in the WHERE
// clause makes the transition a compare-and-set; false means another writer
// got there first or the request was cancelled.
func (r *requestRepository) MarkMatched(ctx context.Context, id uuid.UUID, donorID uuid.UUID, matchedAt time.Time) (bool, error) {
	query := `
		UPDATE requests
		SET status = $2, matched_with = $3, matched_at = $4
		WHERE id = $1 AND status = $5`

	res, err := r.db.ExecContext(ctx, query, id, domain.RequestMatched, donorID, matchedAt, domain.RequestPending)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *requestRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE requests SET status = $2 WHERE id = $1 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, id, domain.RequestCancelled, domain.RequestPending)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *requestRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM requests`)
	return count, err
}

func (r *requestRepository) CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM requests WHERE status = $1`, status)
	return count, err
}
