package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bloodlink/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role domain.UserRole, bloodType *domain.BloodType) error
	SetAvailability(ctx context.Context, userID uuid.UUID, isAvailable bool, matchStatus string) error
	SetMatchStatus(ctx context.Context, userID uuid.UUID, matchStatus string) error
	ListMatchableDonors(ctx context.Context, bloodTypes []domain.BloodType) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	CountAll(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role domain.UserRole) (int64, error)
	CountMatchableDonors(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, blood_type, is_available, match_status, phone, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.BloodType, user.IsAvailable, user.MatchStatus, user.Phone, user.Location,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE username = $1`

	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	err := r.db.GetContext(ctx, &exists, query, username)
	return exists, err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, err
}

func (r *userRepository) AssignRole(ctx context.Context, userID uuid.UUID, role domain.UserRole, bloodType *domain.BloodType) error {
	query := `
		UPDATE users
		SET role = $2,
			blood_type = COALESCE($3, blood_type),
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	var updatedAt sql.NullTime
	err := r.db.QueryRowxContext(ctx, query, userID, role, bloodType).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *userRepository) SetAvailability(ctx context.Context, userID uuid.UUID, isAvailable bool, matchStatus string) error {
	query := `
		UPDATE users
		SET is_available = $2, match_status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	var updatedAt sql.NullTime
	err := r.db.QueryRowxContext(ctx, query, userID, isAvailable, matchStatus).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *userRepository) SetMatchStatus(ctx context.Context, userID uuid.UUID, matchStatus string) error {
	query := `UPDATE users SET match_status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, matchStatus)
	return err
}

func (r *userRepository) ListMatchableDonors(ctx context.Context, bloodTypes []domain.BloodType) ([]domain.User, error) {
	if len(bloodTypes) == 0 {
		return []domain.User{}, nil
	}

	typeStrings := make([]string, len(bloodTypes))
	for i, t := range bloodTypes {
		typeStrings[i] = string(t)
	}

	var users []domain.User
	query := `
		SELECT * FROM users
		WHERE role = 'donor' AND is_available = true AND match_status = $1 AND blood_type = ANY($2)
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &users, query, domain.MatchStatusAvailable, pq.Array(typeStrings))
	return users, err
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT * FROM users WHERE role = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &users, query, role)
	return users, err
}

func (r *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

func (r *userRepository) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role = $1`, role)
	return count, err
}

func (r *userRepository) CountMatchableDonors(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM users WHERE role = 'donor' AND is_available = true AND match_status = $1`
	err := r.db.GetContext(ctx, &count, query, domain.MatchStatusAvailable)
	return count, err
}
