package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSONMap is a type alias for JSONB columns
type JSONMap map[string]interface{}

// UserPreferences represents user-specific settings. All preferences live in
// a single JSONB column with namespaced structure; the documents namespace
// stores the list/grid view mode per logical section key.
type UserPreferences struct {
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	Preferences JSONMap   `json:"preferences" db:"preferences"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ViewMode is how a document section renders.
type ViewMode string

const (
	ViewModeList ViewMode = "list"
	ViewModeGrid ViewMode = "grid"
)

// DocumentsPreferences is the documents namespace in preferences.
type DocumentsPreferences struct {
	// ViewModes maps a section key (e.g. "event-documents", "damage-photos")
	// to its persisted view mode.
	ViewModes map[string]ViewMode `json:"view_modes"`
}

// GetDocuments extracts the documents namespace with type safety.
func (up *UserPreferences) GetDocuments() (*DocumentsPreferences, error) {
	prefs := &DocumentsPreferences{ViewModes: map[string]ViewMode{}}
	if up.Preferences == nil {
		return prefs, nil
	}

	raw, ok := up.Preferences["documents"]
	if !ok {
		return prefs, nil
	}

	// Re-marshal to ensure type safety
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, prefs); err != nil {
		return nil, err
	}
	if prefs.ViewModes == nil {
		prefs.ViewModes = map[string]ViewMode{}
	}
	return prefs, nil
}

// SetDocuments stores the documents namespace back into preferences.
func (up *UserPreferences) SetDocuments(docs *DocumentsPreferences) error {
	if up.Preferences == nil {
		up.Preferences = JSONMap{}
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	up.Preferences["documents"] = m
	return nil
}
