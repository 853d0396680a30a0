package service

import (
	"context"
	"errors"
	"time"

	"steeltrade/internal/domain"
	"steeltrade/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNegativePrice = errors.New("product price must not be negative")

// CatalogService covers CRUD on products, suppliers, and clients. It only
// enforces referential existence; order placement owns the stock rules.
type CatalogService interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	SetProductStock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Product, error)

	CreateSupplier(ctx context.Context, supplier *domain.Supplier) error
	UpdateSupplier(ctx context.Context, supplier *domain.Supplier) error
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	GetSupplier(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]*domain.Supplier, error)

	CreateClient(ctx context.Context, client *domain.Client) error
	UpdateClient(ctx context.Context, client *domain.Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error
	GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
}

type catalogService struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	clients   repository.ClientRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	clients repository.ClientRepository,
) CatalogService {
	return &catalogService{
		products:  products,
		suppliers: suppliers,
		clients:   clients,
	}
}

func (s *catalogService) validateProduct(ctx context.Context, product *domain.Product) error {
	if product.Price.LessThan(decimal.Zero) {
		return ErrNegativePrice
	}
	if product.SupplierID != nil {
		if _, err := s.suppliers.FindByID(ctx, *product.SupplierID); err != nil {
			return err
		}
	}
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.validateProduct(ctx, product); err != nil {
		return err
	}

	now := time.Now()
	product.ID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now

	return s.products.Create(ctx, product)
}

func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.validateProduct(ctx, product); err != nil {
		return err
	}

	product.UpdatedAt = time.Now()
	return s.products.Update(ctx, product)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *catalogService) SetProductStock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	return s.products.SetStock(ctx, id, quantity)
}

func (s *catalogService) CreateSupplier(ctx context.Context, supplier *domain.Supplier) error {
	supplier.ID = uuid.New()
	supplier.CreatedAt = time.Now()
	return s.suppliers.Create(ctx, supplier)
}

func (s *catalogService) UpdateSupplier(ctx context.Context, supplier *domain.Supplier) error {
	return s.suppliers.Update(ctx, supplier)
}

func (s *catalogService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return s.suppliers.Delete(ctx, id)
}

func (s *catalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	return s.suppliers.FindByID(ctx, id)
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *catalogService) CreateClient(ctx context.Context, client *domain.Client) error {
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	return s.clients.Create(ctx, client)
}

func (s *catalogService) UpdateClient(ctx context.Context, client *domain.Client) error {
	return s.clients.Update(ctx, client)
}

func (s *catalogService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return s.clients.Delete(ctx, id)
}

func (s *catalogService) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.clients.FindByID(ctx, id)
}

func (s *catalogService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.List(ctx)
}
