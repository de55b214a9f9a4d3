package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookshelf/internal/api/models"
	"bookshelf/internal/config"
	"bookshelf/internal/middleware/auth"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig(expiry time.Duration) *config.Config {
	return &config.Config{
		JWTSecret: "test-secret-that-is-at-least-32-chars!!",
		JWTExpiry: expiry,
	}
}

func TestRegister_EmailInUse(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testConfig(time.Hour))

	repo.On("FindByEmail", "taken@example.com").Return(&models.User{ID: "u1", Email: "taken@example.com"}, nil)

	_, _, err := svc.Register("taken@example.com", "secret123")

	assert.ErrorIs(t, err, ErrEmailInUse)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testConfig(time.Hour))

	repo.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		// the DB layer assigns the uuid in production
		args.Get(0).(*models.User).ID = "user-1"
	}).Return(nil)

	user, token, err := svc.Register("new@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// stored credential is a bcrypt hash of the plaintext
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, auth.VerifyPassword(user.Password, "secret123"))

	// the issued token resolves back to the same user
	repo.On("FindByID", "user-1").Return(user, nil)
	resolved, err := svc.ResolveSession(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", resolved.ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testConfig(time.Hour))

	hashed, err := auth.HashPassword("right-password")
	require.NoError(t, err)

	repo.On("FindByEmail", "user@example.com").Return(&models.User{ID: "u1", Password: hashed}, nil)
	repo.On("FindByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	t.Run("WrongPassword", func(t *testing.T) {
		_, _, err := svc.Login("user@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, _, err := svc.Login("ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testConfig(time.Hour))

	hashed, err := auth.HashPassword("right-password")
	require.NoError(t, err)

	user := &models.User{ID: "u1", Email: "user@example.com", Password: hashed}
	repo.On("FindByEmail", "user@example.com").Return(user, nil)
	repo.On("FindByID", "u1").Return(user, nil)

	loggedIn, token, err := svc.Login("user@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, "u1", loggedIn.ID)

	resolved, err := svc.ResolveSession(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", resolved.ID)
}

func TestResolveSession_Rejections(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testConfig(time.Hour))

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ResolveSession("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expiredSvc := NewAuthService(repo, testConfig(-time.Hour))

		hashed, err := auth.HashPassword("pw-123456")
		require.NoError(t, err)
		repo.On("FindByEmail", "old@example.com").Return(&models.User{ID: "u2", Password: hashed}, nil)

		_, token, err := expiredSvc.Login("old@example.com", "pw-123456")
		require.NoError(t, err)

		_, err = expiredSvc.ResolveSession(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("UserGone", func(t *testing.T) {
		hashed, err := auth.HashPassword("pw-123456")
		require.NoError(t, err)
		repo.On("FindByEmail", "gone@example.com").Return(&models.User{ID: "u3", Password: hashed}, nil)
		repo.On("FindByID", "u3").Return(nil, gorm.ErrRecordNotFound)

		_, token, err := svc.Login("gone@example.com", "pw-123456")
		require.NoError(t, err)

		// token is valid but the user behind it no longer exists
		_, err = svc.ResolveSession(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenTTL(t *testing.T) {
	svc := NewAuthService(new(mockUserRepo), testConfig(42*time.Minute))
	assert.Equal(t, 42*time.Minute, svc.TokenTTL())
}
