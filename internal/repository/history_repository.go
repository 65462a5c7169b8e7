package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bloodlink/internal/domain"
)

type HistoryRepository interface {
	Create(ctx context.Context, record *domain.History) error
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]domain.History, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.History, error)
	ExistsForPair(ctx context.Context, donorID, requesterID uuid.UUID) (bool, error)
	CountAll(ctx context.Context) (int64, error)
}

type historyRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, record *domain.History) error {
	query := `
		INSERT INTO history (id, donor_id, requester_id, donor_name, requester_name, blood_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING date`

	return r.db.QueryRowxContext(ctx, query,
		record.ID, record.DonorID, record.RequesterID,
		record.DonorName, record.RequesterName, record.BloodType, record.Status,
	).Scan(&record.Date)
}

func (r *historyRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]domain.History, error) {
	var records []domain.History
	query := `SELECT * FROM history WHERE donor_id = $1 ORDER BY date DESC`

	err := r.db.SelectContext(ctx, &records, query, donorID)
	return records, err
}

func (r *historyRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.History, error) {
	var records []domain.History
	query := `SELECT * FROM history WHERE requester_id = $1 ORDER BY date DESC`

	err := r.db.SelectContext(ctx, &records, query, requesterID)
	return records, err
}

func (r *historyRepository) ExistsForPair(ctx context.Context, donorID, requesterID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM history WHERE donor_id = $1 AND requester_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, donorID, requesterID)
	return exists, err
}

func (r *historyRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM history`)
	return count, err
}
