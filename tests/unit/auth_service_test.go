package unit_test

import (
	"context"
	"testing"
	"time"

	"bloodlink/internal/config"
	"bloodlink/internal/domain"
	"bloodlink/internal/repository"
	"bloodlink/internal/service/auth"
	"bloodlink/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	input := domain.CreateUserInput{
		Username:  "dana",
		Email:     "dana@example.com",
		Password:  "secret123",
		BloodType: domain.BloodONeg,
	}

	t.Run("Success leaves the role unset", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, authTestConfig())

		userRepo.On("ExistsByUsername", ctx, input.Username).Return(false, nil).Once()
		userRepo.On("ExistsByEmail", ctx, input.Email).Return(false, nil).Once()
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == input.Username &&
				u.Role == domain.RoleUnset &&
				u.IsAvailable &&
				u.MatchStatus == domain.MatchStatusAvailable &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)) == nil
		})).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

		user, tokens, err := svc.Register(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleUnset, user.Role)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		userRepo.AssertExpectations(t)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Username taken", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, authTestConfig())

		userRepo.On("ExistsByUsername", ctx, input.Username).Return(true, nil).Once()

		_, _, err := svc.Register(ctx, input)

		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
		userRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Invalid blood type", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, authTestConfig())

		bad := input
		bad.BloodType = "Z+"

		_, _, err := svc.Register(ctx, bad)

		assert.ErrorIs(t, err, domain.ErrInvalidBloodType)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user := &domain.User{
		ID:           uuid.New(),
		Username:     "dana",
		PasswordHash: string(hash),
		Role:         domain.RoleDonor,
	}

	t.Run("Success issues a token pair", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, authTestConfig())

		userRepo.On("GetByUsername", ctx, "dana").Return(user, nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

		got, tokens, err := svc.Login(ctx, domain.LoginInput{Username: "dana", Password: "secret123"})

		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, domain.RoleDonor, claims.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, authTestConfig())

		userRepo.On("GetByUsername", ctx, "dana").Return(user, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Username: "dana", Password: "wrong"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("Unknown username", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, authTestConfig())

		userRepo.On("GetByUsername", ctx, "ghost").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Username: "ghost", Password: "secret123"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Rotates the session", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, authTestConfig())

		user := &domain.User{ID: uuid.New(), Username: "dana", Role: domain.RoleDonor}

		userRepo.On("GetByUsername", ctx, "dana").Return(&domain.User{
			ID: user.ID, Username: "dana", Role: domain.RoleDonor,
			PasswordHash: mustHash(t, "secret123"),
		}, nil).Once()

		var storedHash string
		sessionRepo.On("Create", ctx, mock.MatchedBy(func(s *repository.Session) bool {
			storedHash = s.TokenHash
			return s.UserID == user.ID
		})).Return(nil).Twice()

		_, tokens, err := svc.Login(ctx, domain.LoginInput{Username: "dana", Password: "secret123"})
		assert.NoError(t, err)

		session := &repository.Session{
			ID:        uuid.New(),
			UserID:    user.ID,
			TokenHash: storedHash,
			ExpiresAt: time.Now().Add(time.Hour),
		}
		sessionRepo.On("GetByTokenHash", ctx, storedHash).Return(session, nil).Once()
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		sessionRepo.On("Revoke", ctx, session.ID).Return(nil).Once()

		rotated, err := svc.RefreshToken(ctx, tokens.RefreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, rotated.AccessToken)
		assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Unknown token", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, authTestConfig())

		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		_, err := svc.RefreshToken(ctx, "deadbeef")

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	t.Run("Garbage token", func(t *testing.T) {
		svc := auth.NewService(new(mocks.UserRepository), new(mocks.SessionRepository), authTestConfig())

		_, err := svc.ValidateAccessToken("not-a-jwt")

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}
