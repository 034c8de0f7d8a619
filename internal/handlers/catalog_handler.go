package handlers

import (
	"context"
	"net/http"

	"github.com/ecolehub/sel/internal/models"
	"github.com/ecolehub/sel/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Catalog is the service registry the handler exposes.
type Catalog interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateService(ctx context.Context, ownerID uuid.UUID, req services.CreateServiceRequest) (*models.Service, error)
	ListAvailable(ctx context.Context, excludingMemberID uuid.UUID, category string, limit int) ([]*models.Service, error)
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*models.Service, error)
	Deactivate(ctx context.Context, serviceID, ownerID uuid.UUID) (*models.Service, error)
}

type CatalogHandler struct {
	catalog   Catalog
	validator *ValidationHelper
	log       *zap.Logger
}

func NewCatalogHandler(catalog Catalog, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		validator: NewValidationHelper(),
		log:       log,
	}
}

// ListCategories returns every service category
// @Summary List categories
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category
// @Router /sel/categories [get]
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireMember(w, r); !ok {
		return
	}

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// CreateService offers a new service
// @Summary Create service
// @Description Unknown categories are registered; category "proposition" with new_category_name records a suggestion
// @Tags sel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateServiceRequest true "Service"
// @Success 201 {object} models.Service
// @Failure 400 {object} ErrorResponse
// @Router /sel/services [post]
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}

	var req services.CreateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	svc, err := h.catalog.CreateService(r.Context(), memberID, req)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// ListServices lists services offered by other members
// @Summary List available services
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter"
// @Param limit query int false "Maximum results (default 50, max 100)"
// @Success 200 {array} models.Service
// @Router /sel/services [get]
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	list, err := h.catalog.ListAvailable(r.Context(), memberID, r.URL.Query().Get("category"), limit)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListMyServices lists the caller's own services
// @Summary List own services
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Service
// @Router /sel/services/mine [get]
func (h *CatalogHandler) ListMyServices(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}

	list, err := h.catalog.ListOwned(r.Context(), memberID)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// DeactivateService withdraws one of the caller's services
// @Summary Deactivate service
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Param serviceId path string true "Service ID"
// @Success 200 {object} models.Service
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sel/services/{serviceId}/deactivate [put]
func (h *CatalogHandler) DeactivateService(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}
	serviceID, ok := pathUUID(w, r, "serviceId")
	if !ok {
		return
	}

	svc, err := h.catalog.Deactivate(r.Context(), serviceID, memberID)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}
