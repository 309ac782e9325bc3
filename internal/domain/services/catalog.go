package services

import (
	"context"

	"claimdocs/internal/domain/models"
)

// CatalogService resolves the required-document-type catalog for a claim.
type CatalogService interface {
	// ListForEvent returns the catalog for a claim object type with the
	// Uploaded flag derived from the claim's current documents.
	ListForEvent(ctx context.Context, objectType, eventID string) (models.Catalog, error)

	// ResolveName returns the display name for a category code, falling
	// back to the code itself when the catalog does not know it.
	ResolveName(ctx context.Context, code string) string
}
