package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookshelf/internal/api/models"
	"bookshelf/internal/api/repository"
	"bookshelf/internal/config"
	"bookshelf/internal/middleware/auth"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)

// SessionClaims is the payload carried by the session cookie.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(email, password string) (*models.User, string, error)
	Login(email, password string) (*models.User, string, error)
	ResolveSession(tokenString string) (*models.User, error)
	TokenTTL() time.Duration
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: cfg.JWTExpiry,
	}
}

// Register creates a user with a hashed credential and issues a session token.
// Email format and password length are already enforced at the binding layer.
func (s *authService) Register(email, password string) (*models.User, string, error) {
	// Check if email exists
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, "", ErrEmailInUse
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		// the unique index on email is the real guard, the lookup above
		// only races it
		if isUniqueViolation(err) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user and issues a session token.
func (s *authService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		// User not found, dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return nil, "", ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ResolveSession verifies the token and resolves it to a stored user.
// Anything short of a fully valid token plus an existing user is rejected.
func (s *authService) ResolveSession(tokenString string) (*models.User, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}

func (s *authService) TokenTTL() time.Duration {
	return s.jwtExpiry
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
