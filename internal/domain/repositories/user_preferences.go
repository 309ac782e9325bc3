package repositories

import (
	"context"

	"github.com/google/uuid"

	"claimdocs/internal/domain/models"
)

// UserPreferencesRepository defines data access for user preferences.
type UserPreferencesRepository interface {
	// GetByUserID retrieves preferences for a user, or nil when none exist.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)

	// Upsert creates or replaces preferences for a user.
	Upsert(ctx context.Context, prefs *models.UserPreferences) error
}
