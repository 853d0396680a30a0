package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"steeltrade/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	SetStock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Product, error)

	// FindByIDForUpdate locks the product row for the remainder of the
	// surrounding transaction. Callers must be bound to one via WithQuerier.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// DecrementStock subtracts quantity from the product's stock. The update
	// is guarded so stock can never go below zero: when the remaining stock
	// is too small the call fails with ErrInsufficientStock and changes nothing.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// WithQuerier returns a copy of the repository bound to q, typically a
	// transaction started by TxManager.
	WithQuerier(q Querier) ProductRepository
}

type productRepository struct {
	q Querier
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{q: db}
}

func (r *productRepository) WithQuerier(q Querier) ProductRepository {
	return &productRepository{q: q}
}

const productColumns = `id, name, category, description, price, quantity_in_stock, supplier_id, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var supplierID uuid.NullUUID

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Description,
		&product.Price,
		&product.QuantityInStock,
		&supplierID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if supplierID.Valid {
		product.SupplierID = &supplierID.UUID
	}

	return product, nil
}

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, description, price, quantity_in_stock, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Description,
		product.Price,
		product.QuantityInStock,
		uuidPtr(product.SupplierID),
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, description = $4, price = $5,
		    quantity_in_stock = $6, supplier_id = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Description,
		product.Price,
		product.QuantityInStock,
		uuidPtr(product.SupplierID),
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the catalog
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByIDForUpdate retrieves a product by ID, locking its row
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 FOR UPDATE`, productColumns)

	product, err := scanProduct(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product row: %w", err)
	}

	return product, nil
}

// List retrieves all products ordered by creation time
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)
	return r.queryProducts(ctx, query)
}

// ListLowStock retrieves products whose stock is at or below the threshold
func (r *productRepository) ListLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE quantity_in_stock <= $1
		ORDER BY quantity_in_stock ASC
	`, productColumns)
	return r.queryProducts(ctx, query, threshold)
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// SetStock overwrites the product's stock level and returns the updated row
func (r *productRepository) SetStock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET quantity_in_stock = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, productColumns)

	product, err := scanProduct(r.q.QueryRowContext(ctx, query, id, quantity))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to set product stock: %w", err)
	}

	return product, nil
}

// DecrementStock subtracts quantity from stock, refusing to go below zero
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET quantity_in_stock = quantity_in_stock - $2, updated_at = NOW()
		WHERE id = $1 AND quantity_in_stock >= $2
	`

	result, err := r.q.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

func uuidPtr(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
