package transport

import (
	"errors"
	"net/http"
	"strconv"

	"steeltrade/internal/domain"
	"steeltrade/internal/middleware"
	"steeltrade/internal/repository"
	"steeltrade/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the product create/update payload
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category"`
	Description string  `json:"description" validate:"max=1000"`
	Price       string  `json:"price" validate:"required"`
	Quantity    int     `json:"quantity_in_stock" validate:"gte=0"`
	SupplierID  *string `json:"supplier_id"`
}

func (req *ProductRequest) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		Price:           price,
		QuantityInStock: req.Quantity,
	}

	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, err
		}
		product.SupplierID = &supplierID
	}

	return product, nil
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	catalogService service.CatalogService
	orderService   service.OrderService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, orderService service.OrderService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		orderService:   orderService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	manageGate := middleware.RequireAnyRole(h.logger, domain.RoleAdmin, domain.RoleManager)
	stockGate := middleware.RequireAnyRole(h.logger, domain.RoleAdmin, domain.RoleManager, domain.RoleStaff)
	adminGate := middleware.RequireAdmin(h.logger)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.With(stockGate).Get("/low-stock", h.LowStock)
		r.Get("/{id}", h.Get)
		r.With(manageGate).Post("/", h.Create)
		r.With(manageGate).Put("/{id}", h.Update)
		r.With(manageGate).Put("/{id}/stock", h.SetStock)
		r.With(adminGate).Delete("/{id}", h.Delete)
	})
}

// List handles listing all products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// LowStock handles listing products at or below a stock threshold
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := service.DefaultLowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "threshold must be a non-negative integer")
			return
		}
		threshold = parsed
	}

	products, err := h.orderService.LowStock(r.Context(), threshold)
	if err != nil {
		h.logger.Error("Failed to list low-stock products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list low-stock products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get handles fetching a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.CreateProduct(r.Context(), product); err != nil {
		h.respondCatalogError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	product.ID = id

	if err := h.catalogService.UpdateProduct(r.Context(), product); err != nil {
		h.respondCatalogError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// SetStock handles overwriting a product's stock level
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	product, err := h.catalogService.SetProductStock(r.Context(), id, quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must not be negative")
		default:
			h.logger.Error("Failed to set product stock", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to set product stock")
		}
		return
	}

	h.logger.Info("Product stock set",
		zap.String("product_id", id.String()),
		zap.Int("quantity", quantity),
	)
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return nil, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	product, err := req.toDomain()
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price or supplier ID")
		return nil, false
	}

	return product, true
}

func (h *ProductHandler) respondCatalogError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrSupplierNotFound):
		middleware.RespondWithError(w, http.StatusBadRequest, "referenced supplier does not exist")
	case errors.Is(err, service.ErrNegativePrice):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
