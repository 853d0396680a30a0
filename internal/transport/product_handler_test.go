package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"steeltrade/internal/domain"
	"steeltrade/internal/repository"
	"steeltrade/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type mockSupplierRepository struct {
	suppliers map[uuid.UUID]*domain.Supplier
}

func (m *mockSupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *mockSupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *mockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

type productHandlerFixture struct {
	router   chi.Router
	products *mockProductRepository
}

func newProductHandlerFixture(roles ...domain.Role) *productHandlerFixture {
	products := &mockProductRepository{products: map[uuid.UUID]*domain.Product{}}
	clients := &mockClientRepository{clients: map[uuid.UUID]*domain.Client{}}
	orders := &mockOrderRepository{orders: map[uuid.UUID]*domain.Order{}}
	suppliers := &mockSupplierRepository{suppliers: map[uuid.UUID]*domain.Supplier{}}

	catalogService := service.NewCatalogService(products, suppliers, clients)
	orderService := service.NewOrderService(passthroughTxManager{}, orders, products, clients)
	handler := NewProductHandler(catalogService, orderService, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router, staffContext(roles...))

	return &productHandlerFixture{router: router, products: products}
}

func productPayload(t *testing.T, req ProductRequest) *bytes.Reader {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal product request: %v", err)
	}
	return bytes.NewReader(body)
}

func TestCreateProductEndpoint(t *testing.T) {
	f := newProductHandlerFixture(domain.RoleManager)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/products", productPayload(t, ProductRequest{
		Name:     "Stainless Steel Plate",
		Category: "Plates",
		Price:    "2.50",
		Quantity: 500,
	})))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var product domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Error("expected product to get an ID")
	}
	if !product.Price.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("expected price 2.50, got %s", product.Price)
	}
}

func TestCreateProductEndpointRejectsBadPayloads(t *testing.T) {
	f := newProductHandlerFixture(domain.RoleManager)

	tests := []struct {
		name string
		req  ProductRequest
	}{
		{name: "missing name", req: ProductRequest{Price: "2.50"}},
		{name: "missing price", req: ProductRequest{Name: "Cutlery Set"}},
		{name: "unparseable price", req: ProductRequest{Name: "Cutlery Set", Price: "abc"}},
		{name: "negative price", req: ProductRequest{Name: "Cutlery Set", Price: "-1.00"}},
		{name: "unknown supplier", req: ProductRequest{
			Name: "Cutlery Set", Price: "5.00",
			SupplierID: func() *string { s := uuid.New().String(); return &s }(),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/products", productPayload(t, tt.req)))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSetStockEndpoint(t *testing.T) {
	f := newProductHandlerFixture(domain.RoleManager)

	id := uuid.New()
	f.products.products[id] = &domain.Product{
		ID:              id,
		Name:            "Stainless Steel Plate",
		Price:           decimal.RequireFromString("2.50"),
		QuantityInStock: 500,
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("PUT", "/api/products/"+id.String()+"/stock?quantity=42", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var product domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}
	if product.QuantityInStock != 42 {
		t.Errorf("expected stock 42, got %d", product.QuantityInStock)
	}

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("PUT", "/api/products/"+id.String()+"/stock?quantity=-1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative quantity, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("PUT", "/api/products/"+uuid.New().String()+"/stock?quantity=5", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing product, got %d", rec.Code)
	}
}

func TestLowStockEndpoint(t *testing.T) {
	f := newProductHandlerFixture(domain.RoleStaff)

	stocks := []int{3, 10, 11, 25}
	for _, stock := range stocks {
		id := uuid.New()
		f.products.products[id] = &domain.Product{
			ID:              id,
			Name:            "Product " + strconv.Itoa(stock),
			Price:           decimal.RequireFromString("1.00"),
			QuantityInStock: stock,
		}
	}

	// Default threshold includes stocks 3 and 10
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/products/low-stock", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var products []domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode products: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 products at the default threshold, got %d", len(products))
	}

	// Explicit threshold
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/products/low-stock?threshold=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	products = nil
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode products: %v", err)
	}
	if len(products) != 1 || products[0].QuantityInStock != 3 {
		t.Errorf("expected only the stock-3 product, got %+v", products)
	}

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/products/low-stock?threshold=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unparseable threshold, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/products/low-stock?threshold=-1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative threshold, got %d", rec.Code)
	}
}

func TestProductEndpointsEnforceRoleGates(t *testing.T) {
	f := newProductHandlerFixture(domain.RoleStaff)

	// STAFF cannot create products
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/products", productPayload(t, ProductRequest{
		Name:  "Cutlery Set",
		Price: "5.00",
	})))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for create as staff, got %d", rec.Code)
	}

	// STAFF cannot delete products
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/products/"+uuid.New().String(), nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for delete as staff, got %d", rec.Code)
	}

	// MANAGER cannot delete either, deletion is admin-only
	manager := newProductHandlerFixture(domain.RoleManager)
	rec = httptest.NewRecorder()
	manager.router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/products/"+uuid.New().String(), nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for delete as manager, got %d", rec.Code)
	}
}
