package repositories

import (
	"context"

	"claimdocs/internal/domain/models"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create inserts a new document row, filling ID and timestamps.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// ListByEvent lists documents for a claim, optionally scoped to one
	// damage. Ordered by creation time.
	ListByEvent(ctx context.Context, eventID string, damageID *string) ([]models.Document, error)

	// Update persists mutable fields (file name, description, category,
	// status) of an existing document.
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a document row.
	Delete(ctx context.Context, id string) error

	// DistinctCategories lists the category codes present on a claim's
	// documents.
	DistinctCategories(ctx context.Context, eventID string) ([]string, error)
}

// CatalogRepository defines data access for the required-document-type
// catalog.
type CatalogRepository interface {
	// ListByObjectType lists catalog entries for a claim object type,
	// ordered by sort order.
	ListByObjectType(ctx context.Context, objectType string) (models.Catalog, error)

	// GetByCode retrieves a catalog entry by category code regardless of
	// object type (first match by sort order).
	GetByCode(ctx context.Context, code string) (*models.RequiredDocumentType, error)

	// Upsert inserts or updates a catalog entry (used by seeding).
	Upsert(ctx context.Context, t *models.RequiredDocumentType) error
}
