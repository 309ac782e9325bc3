package handler

import (
	"log/slog"
	"net/http"

	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/services"
	"claimdocs/internal/httputil"
)

// CatalogHandler handles required-document-type catalog requests
type CatalogHandler struct {
	catalogService services.CatalogService
	logger         *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService services.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListRequiredTypes lists the catalog for a claim object type
// GET /api/required-document-types/{objectType}?eventId=
func (h *CatalogHandler) ListRequiredTypes(w http.ResponseWriter, r *http.Request) {
	objectType := r.PathValue("objectType")
	if objectType == "" {
		httputil.RespondError(w, http.StatusBadRequest, "objectType is required")
		return
	}

	eventID := r.URL.Query().Get("eventId")

	catalog, err := h.catalogService.ListForEvent(r.Context(), objectType, eventID)
	if err != nil {
		handleError(w, err)
		return
	}

	if catalog == nil {
		catalog = models.Catalog{}
	}
	httputil.RespondJSON(w, http.StatusOK, catalog)
}
