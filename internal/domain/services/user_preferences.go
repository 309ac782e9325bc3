package services

import (
	"context"

	"github.com/google/uuid"

	"claimdocs/internal/domain/models"
)

// UserPreferencesService handles user preference business logic
type UserPreferencesService interface {
	// GetPreferences retrieves preferences for a user, creating defaults
	// when none exist yet.
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)

	// UpdatePreferences merge-patches the preference namespaces.
	UpdatePreferences(ctx context.Context, userID uuid.UUID, patch models.JSONMap) (*models.UserPreferences, error)

	// SetViewMode persists the list/grid view mode for one document
	// section key.
	SetViewMode(ctx context.Context, userID uuid.UUID, sectionKey string, mode models.ViewMode) (*models.UserPreferences, error)
}
