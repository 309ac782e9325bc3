package services

import (
	"context"
	"io"

	"claimdocs/internal/domain/models"
)

// DocumentService handles document business logic
type DocumentService interface {
	// ListDocuments lists a claim's documents, optionally scoped to one
	// damage.
	ListDocuments(ctx context.Context, eventID string, damageID *string) ([]models.Document, error)

	// UploadDocument validates and persists one uploaded file: blob first,
	// then the metadata row.
	UploadDocument(ctx context.Context, req *UploadDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// UpdateDocument applies a partial update (rename, describe,
	// recategorize).
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*models.Document, error)

	// DeleteDocument removes the row and, best-effort, the blob.
	DeleteDocument(ctx context.Context, id string) error

	// OpenContent opens the document's bytes for preview or download.
	// Caller closes the reader.
	OpenContent(ctx context.Context, id string) (*models.Document, io.ReadCloser, error)

	// GenerateDescription populates the document's description via the
	// configured describer and persists it.
	GenerateDescription(ctx context.Context, id string) (*models.Document, error)
}

// UploadDocumentRequest represents one multipart file upload
type UploadDocumentRequest struct {
	EventID    string
	DamageID   *string
	Category   string // category code (client resolves display name to code)
	UploadedBy string
	FileName   string
	ContentType string
	Size       int64
	Content    io.Reader
}

// UpdateDocumentRequest represents a partial document update. Nil fields are
// left unchanged.
type UpdateDocumentRequest struct {
	FileName     *string `json:"fileName,omitempty"`
	Description  *string `json:"description,omitempty"`
	DocumentType *string `json:"documentType,omitempty"` // category code
}

// Describer produces a short description for a document from its metadata.
type Describer interface {
	Describe(ctx context.Context, doc *models.Document) (string, error)
}
