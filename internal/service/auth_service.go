package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"steeltrade/internal/domain"
	"steeltrade/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService issues bearer tokens for back-office accounts
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
}

type authService struct {
	users        repository.UserRepository
	jwtSecret    string
	accessExpiry time.Duration
}

// NewAuthService creates a new instance of AuthService. accessExpiryMinutes
// controls how long issued tokens stay valid.
func NewAuthService(users repository.UserRepository, jwtSecret string, accessExpiryMinutes int) AuthService {
	return &authService{
		users:        users,
		jwtSecret:    jwtSecret,
		accessExpiry: time.Duration(accessExpiryMinutes) * time.Minute,
	}
}

// Login verifies the credentials and returns a signed JWT carrying the
// account's role set
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

func (s *authService) generateToken(user *domain.User) (string, error) {
	roles := make([]string, len(user.Roles))
	for i, role := range user.Roles {
		roles[i] = string(role)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"roles":   roles,
		"iat":     jwt.NewNumericDate(now),
		"exp":     jwt.NewNumericDate(now.Add(s.accessExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
