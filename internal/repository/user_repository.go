package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"steeltrade/internal/domain"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for account data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type userRepository struct {
	q Querier
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{q: db}
}

// Role sets are stored as a comma-joined list
func joinRoles(roles []domain.Role) string {
	parts := make([]string, len(roles))
	for i, role := range roles {
		parts[i] = string(role)
	}
	return strings.Join(parts, ",")
}

func splitRoles(s string) []domain.Role {
	if s == "" {
		return []domain.Role{}
	}
	parts := strings.Split(s, ",")
	roles := make([]domain.Role, len(parts))
	for i, part := range parts {
		roles[i] = domain.Role(part)
	}
	return roles
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, roles, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.PasswordHash,
		joinRoles(user.Roles),
		user.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, roles, created_at FROM users WHERE username = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, username))
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, username, password_hash, roles, created_at FROM users WHERE id = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, id))
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var roles string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&roles,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Roles = splitRoles(roles)
	return user, nil
}
