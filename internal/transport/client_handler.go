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

// ClientRequest represents the client create/update payload
type ClientRequest struct {
	Name         string `json:"name" validate:"required"`
	ContactInfo  string `json:"contact_info"`
	Country      string `json:"country"`
	BusinessType string `json:"business_type"`
}

// ClientHandler handles HTTP requests for client operations
type ClientHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(catalogService service.CatalogService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all client routes
func (h *ClientHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	manageGate := middleware.RequireAnyRole(h.logger, domain.RoleAdmin, domain.RoleManager)
	adminGate := middleware.RequireAdmin(h.logger)

	r.Route("/api/clients", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.With(manageGate).Post("/", h.Create)
		r.With(manageGate).Put("/{id}", h.Update)
		r.With(adminGate).Delete("/{id}", h.Delete)
	})
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.catalogService.ListClients(r.Context())
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	client, err := h.catalogService.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeClient(w, r)
	if !ok {
		return
	}

	client := &domain.Client{
		Name:         req.Name,
		ContactInfo:  req.ContactInfo,
		Country:      req.Country,
		BusinessType: req.BusinessType,
	}

	if err := h.catalogService.CreateClient(r.Context(), client); err != nil {
		h.logger.Error("Failed to create client", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	h.logger.Info("Client created", zap.String("client_id", client.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	req, ok := h.decodeClient(w, r)
	if !ok {
		return
	}

	client := &domain.Client{
		ID:           id,
		Name:         req.Name,
		ContactInfo:  req.ContactInfo,
		Country:      req.Country,
		BusinessType: req.BusinessType,
	}

	if err := h.catalogService.UpdateClient(r.Context(), client); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Error("Failed to update client", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	if err := h.catalogService.DeleteClient(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Error("Failed to delete client", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) decodeClient(w http.ResponseWriter, r *http.Request) (*ClientRequest, bool) {
	var req ClientRequest
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
