package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"claimdocs/internal/domain"
	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/repositories"
	"claimdocs/internal/domain/services"
)

// UserPreferencesService implements the UserPreferencesService interface
type UserPreferencesService struct {
	prefsRepo repositories.UserPreferencesRepository
	logger    *slog.Logger
}

// NewUserPreferencesService creates a new user preferences service
func NewUserPreferencesService(
	prefsRepo repositories.UserPreferencesRepository,
	logger *slog.Logger,
) services.UserPreferencesService {
	return &UserPreferencesService{
		prefsRepo: prefsRepo,
		logger:    logger,
	}
}

// getDefaultPreferences returns default preferences with namespaced structure
func (s *UserPreferencesService) getDefaultPreferences(userID uuid.UUID) *models.UserPreferences {
	now := time.Now()
	return &models.UserPreferences{
		UserID: userID,
		Preferences: models.JSONMap{
			"documents": map[string]interface{}{
				"view_modes": map[string]interface{}{},
			},
			"ui": map[string]interface{}{
				"theme": "light",
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetPreferences retrieves preferences for a user, creating defaults when
// none exist yet.
func (s *UserPreferencesService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	prefs, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if prefs == nil {
		return s.getDefaultPreferences(userID), nil
	}
	return prefs, nil
}

// UpdatePreferences merge-patches the preference namespaces. Top-level keys
// in the patch replace the stored namespace; a null value clears it.
func (s *UserPreferencesService) UpdatePreferences(ctx context.Context, userID uuid.UUID, patch models.JSONMap) (*models.UserPreferences, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if prefs.Preferences == nil {
		prefs.Preferences = models.JSONMap{}
	}
	for key, value := range patch {
		if value == nil {
			delete(prefs.Preferences, key)
			continue
		}
		prefs.Preferences[key] = value
	}

	if err := s.prefsRepo.Upsert(ctx, prefs); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}

	s.logger.Info("preferences updated", "user_id", userID)
	return prefs, nil
}

// SetViewMode persists the list/grid view mode for one document section key.
func (s *UserPreferencesService) SetViewMode(ctx context.Context, userID uuid.UUID, sectionKey string, mode models.ViewMode) (*models.UserPreferences, error) {
	if sectionKey == "" {
		return nil, fmt.Errorf("%w: sectionKey is required", domain.ErrValidation)
	}
	if mode != models.ViewModeList && mode != models.ViewModeGrid {
		return nil, fmt.Errorf("%w: view mode must be %q or %q", domain.ErrValidation, models.ViewModeList, models.ViewModeGrid)
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	docs, err := prefs.GetDocuments()
	if err != nil {
		return nil, fmt.Errorf("read documents preferences: %w", err)
	}
	docs.ViewModes[sectionKey] = mode
	if err := prefs.SetDocuments(docs); err != nil {
		return nil, fmt.Errorf("write documents preferences: %w", err)
	}

	if err := s.prefsRepo.Upsert(ctx, prefs); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}

	s.logger.Info("view mode saved", "user_id", userID, "section", sectionKey, "mode", mode)
	return prefs, nil
}
