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

var ErrSupplierNotFound = errors.New("supplier not found")

// SupplierRepository defines the interface for supplier data access
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
}

type supplierRepository struct {
	q Querier
}

// NewSupplierRepository creates a new instance of SupplierRepository
func NewSupplierRepository(db *sql.DB) SupplierRepository {
	return &supplierRepository{q: db}
}

// Supplied product names are stored as a comma-joined list
func joinProducts(products []string) string {
	return strings.Join(products, ",")
}

func splitProducts(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, contact_info, supplied_products, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		supplier.ID,
		supplier.Name,
		supplier.ContactInfo,
		joinProducts(supplier.SuppliedProducts),
		supplier.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, contact_info = $3, supplied_products = $4
		WHERE id = $1
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		supplier.ID,
		supplier.Name,
		supplier.ContactInfo,
		joinProducts(supplier.SuppliedProducts),
	)

	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

func (r *supplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	query := `SELECT id, name, contact_info, supplied_products, created_at FROM suppliers WHERE id = $1`

	supplier := &domain.Supplier{}
	var products string

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.ContactInfo,
		&products,
		&supplier.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by ID: %w", err)
	}

	supplier.SuppliedProducts = splitProducts(products)
	return supplier, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `SELECT id, name, contact_info, supplied_products, created_at FROM suppliers ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []*domain.Supplier{}
	for rows.Next() {
		supplier := &domain.Supplier{}
		var products string

		err := rows.Scan(
			&supplier.ID,
			&supplier.Name,
			&supplier.ContactInfo,
			&products,
			&supplier.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}

		supplier.SuppliedProducts = splitProducts(products)
		suppliers = append(suppliers, supplier)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}
