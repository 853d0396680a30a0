package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"steeltrade/internal/domain"

	"github.com/google/uuid"
)

var ErrClientNotFound = errors.New("client not found")

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)

	// WithQuerier returns a copy of the repository bound to q
	WithQuerier(q Querier) ClientRepository
}

type clientRepository struct {
	q Querier
}

// NewClientRepository creates a new instance of ClientRepository
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{q: db}
}

func (r *clientRepository) WithQuerier(q Querier) ClientRepository {
	return &clientRepository{q: q}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, contact_info, country, business_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		client.ID,
		client.Name,
		client.ContactInfo,
		client.Country,
		client.BusinessType,
		client.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, contact_info = $3, country = $4, business_type = $5
		WHERE id = $1
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		client.ID,
		client.Name,
		client.ContactInfo,
		client.Country,
		client.BusinessType,
	)

	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `SELECT id, name, contact_info, country, business_type, created_at FROM clients WHERE id = $1`

	client := &domain.Client{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.ContactInfo,
		&client.Country,
		&client.BusinessType,
		&client.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client by ID: %w", err)
	}

	return client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT id, name, contact_info, country, business_type, created_at FROM clients ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		client := &domain.Client{}
		err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.ContactInfo,
			&client.Country,
			&client.BusinessType,
			&client.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}
