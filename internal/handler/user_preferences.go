package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/services"
	"claimdocs/internal/httputil"
)

// UserPreferencesHandler handles user preference requests
type UserPreferencesHandler struct {
	prefsService services.UserPreferencesService
	logger       *slog.Logger
}

// NewUserPreferencesHandler creates a new user preferences handler
func NewUserPreferencesHandler(prefsService services.UserPreferencesService, logger *slog.Logger) *UserPreferencesHandler {
	return &UserPreferencesHandler{
		prefsService: prefsService,
		logger:       logger,
	}
}

// GetPreferences returns the calling user's preferences
// GET /api/users/me/preferences
func (h *UserPreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	prefs, err := h.prefsService.GetPreferences(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences merge-patches the calling user's preferences
// PATCH /api/users/me/preferences
func (h *UserPreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var patch models.JSONMap
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs, err := h.prefsService.UpdatePreferences(r.Context(), userID, patch)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}

// SetViewMode persists the list/grid view mode for one document section
// PUT /api/users/me/preferences/view-mode
func (h *UserPreferencesHandler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		SectionKey string          `json:"sectionKey"`
		Mode       models.ViewMode `json:"mode"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs, err := h.prefsService.SetViewMode(r.Context(), userID, req.SectionKey, req.Mode)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}

func (h *UserPreferencesHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := httputil.GetUserID(r)
	userID, err := uuid.Parse(raw)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "invalid user identity")
		return uuid.Nil, false
	}
	return userID, true
}
