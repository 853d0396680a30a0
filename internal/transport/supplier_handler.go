package transport

import (
	"errors"
	"net/http"

	"steeltrade/internal/domain"
	"steeltrade/internal/middleware"
	"steeltrade/internal/repository"
	"steeltrade/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierRequest represents the supplier create/update payload
type SupplierRequest struct {
	Name             string   `json:"name" validate:"required"`
	ContactInfo      string   `json:"contact_info"`
	SuppliedProducts []string `json:"supplied_products"`
}

// SupplierHandler handles HTTP requests for supplier operations
type SupplierHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(catalogService service.CatalogService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all supplier routes
func (h *SupplierHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	manageGate := middleware.RequireAnyRole(h.logger, domain.RoleAdmin, domain.RoleManager)
	adminGate := middleware.RequireAdmin(h.logger)

	r.Route("/api/suppliers", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.With(manageGate).Post("/", h.Create)
		r.With(manageGate).Put("/{id}", h.Update)
		r.With(adminGate).Delete("/{id}", h.Delete)
	})
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.catalogService.ListSuppliers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list suppliers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list suppliers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	supplier, err := h.catalogService.GetSupplier(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		h.logger.Error("Failed to get supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get supplier")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, supplier)
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSupplier(w, r)
	if !ok {
		return
	}

	supplier := &domain.Supplier{
		Name:             req.Name,
		ContactInfo:      req.ContactInfo,
		SuppliedProducts: req.SuppliedProducts,
	}

	if err := h.catalogService.CreateSupplier(r.Context(), supplier); err != nil {
		h.logger.Error("Failed to create supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create supplier")
		return
	}

	h.logger.Info("Supplier created", zap.String("supplier_id", supplier.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, supplier)
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	req, ok := h.decodeSupplier(w, r)
	if !ok {
		return
	}

	supplier := &domain.Supplier{
		ID:               id,
		Name:             req.Name,
		ContactInfo:      req.ContactInfo,
		SuppliedProducts: req.SuppliedProducts,
	}

	if err := h.catalogService.UpdateSupplier(r.Context(), supplier); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		h.logger.Error("Failed to update supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update supplier")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, supplier)
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	if err := h.catalogService.DeleteSupplier(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		h.logger.Error("Failed to delete supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete supplier")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SupplierHandler) decodeSupplier(w http.ResponseWriter, r *http.Request) (*SupplierRequest, bool) {
	var req SupplierRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return nil, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return &req, true
}
