package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"steeltrade/internal/domain"
	"steeltrade/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type mockSupplierRepository struct {
	suppliers map[uuid.UUID]*domain.Supplier
}

func newMockSupplierRepository() *mockSupplierRepository {
	return &mockSupplierRepository{suppliers: make(map[uuid.UUID]*domain.Supplier)}
}

func (m *mockSupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *mockSupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	if _, ok := m.suppliers[supplier.ID]; !ok {
		return repository.ErrSupplierNotFound
	}
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *mockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.suppliers[id]; !ok {
		return repository.ErrSupplierNotFound
	}
	delete(m.suppliers, id)
	return nil
}

func (m *mockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	supplier, ok := m.suppliers[id]
	if !ok {
		return nil, repository.ErrSupplierNotFound
	}
	return supplier, nil
}

func (m *mockSupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers := []*domain.Supplier{}
	for _, s := range m.suppliers {
		suppliers = append(suppliers, s)
	}
	return suppliers, nil
}

func newCatalogFixture() (CatalogService, *mockProductRepository, *mockSupplierRepository) {
	products := newMockProductRepository()
	suppliers := newMockSupplierRepository()
	clients := newMockClientRepository()
	return NewCatalogService(products, suppliers, clients), products, suppliers
}

func TestCreateProductAssignsIdentity(t *testing.T) {
	svc, products, _ := newCatalogFixture()

	product := &domain.Product{
		Name:            "Stainless Steel Plate",
		Category:        "Plates",
		Price:           decimal.RequireFromString("2.50"),
		QuantityInStock: 500,
	}

	if err := svc.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if product.ID == uuid.Nil {
		t.Error("expected product to get an ID")
	}
	if product.CreatedAt.IsZero() || product.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if _, ok := products.products[product.ID]; !ok {
		t.Error("expected product to be persisted")
	}
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc, products, _ := newCatalogFixture()

	product := &domain.Product{
		Name:  "Cutlery Set",
		Price: decimal.RequireFromString("-5.00"),
	}

	if err := svc.CreateProduct(context.Background(), product); !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
	if len(products.products) != 0 {
		t.Error("expected nothing to be persisted")
	}
}

func TestCreateProductRejectsUnknownSupplier(t *testing.T) {
	svc, _, suppliers := newCatalogFixture()

	missing := uuid.New()
	product := &domain.Product{
		Name:       "Cutlery Set",
		Price:      decimal.RequireFromString("5.00"),
		SupplierID: &missing,
	}

	if err := svc.CreateProduct(context.Background(), product); !errors.Is(err, repository.ErrSupplierNotFound) {
		t.Fatalf("expected ErrSupplierNotFound, got %v", err)
	}

	supplier := &domain.Supplier{Name: "Global Steel Supplies"}
	if err := svc.CreateSupplier(context.Background(), supplier); err != nil {
		t.Fatalf("CreateSupplier failed: %v", err)
	}
	if _, ok := suppliers.suppliers[supplier.ID]; !ok {
		t.Fatal("expected supplier to be persisted")
	}

	product.SupplierID = &supplier.ID
	if err := svc.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("expected creation with a known supplier to succeed: %v", err)
	}
}

func TestSetProductStock(t *testing.T) {
	svc, products, _ := newCatalogFixture()

	id := uuid.New()
	products.products[id] = &domain.Product{
		ID:              id,
		Name:            "Stainless Steel Plate",
		Price:           decimal.RequireFromString("2.50"),
		QuantityInStock: 500,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	updated, err := svc.SetProductStock(context.Background(), id, 42)
	if err != nil {
		t.Fatalf("SetProductStock failed: %v", err)
	}
	if updated.QuantityInStock != 42 {
		t.Errorf("expected stock 42, got %d", updated.QuantityInStock)
	}

	if _, err := svc.SetProductStock(context.Background(), id, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity for negative stock, got %v", err)
	}

	if _, err := svc.SetProductStock(context.Background(), uuid.New(), 5); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
