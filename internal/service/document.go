package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"claimdocs/internal/config"
	"claimdocs/internal/domain"
	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/repositories"
	"claimdocs/internal/domain/services"
	"claimdocs/internal/storage"
)

// APIBasePath is the path the document endpoints are mounted under; derived
// preview/download URLs are built against it.
const APIBasePath = "/api"

// documentService implements the DocumentService interface
type documentService struct {
	docRepo     repositories.DocumentRepository
	catalogRepo repositories.CatalogRepository
	blobs       storage.BlobStore
	describer   services.Describer
	logger      *slog.Logger
}

// NewDocumentService creates a new document service. describer may be nil
// when description generation is not configured.
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	catalogRepo repositories.CatalogRepository,
	blobs storage.BlobStore,
	describer services.Describer,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:     docRepo,
		catalogRepo: catalogRepo,
		blobs:       blobs,
		describer:   describer,
		logger:      logger,
	}
}

// ListDocuments lists a claim's documents with derived view fields
func (s *documentService) ListDocuments(ctx context.Context, eventID string, damageID *string) ([]models.Document, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: eventId is required", domain.ErrValidation)
	}

	docs, err := s.docRepo.ListByEvent(ctx, eventID, damageID)
	if err != nil {
		return nil, err
	}

	for i := range docs {
		s.deriveView(ctx, &docs[i])
	}
	return docs, nil
}

// UploadDocument validates and persists one uploaded file
func (s *documentService) UploadDocument(ctx context.Context, req *services.UploadDocumentRequest) (*models.Document, error) {
	if err := s.validateUploadRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc := &models.Document{
		EventID:          req.EventID,
		DamageID:         req.DamageID,
		FileName:         req.FileName,
		OriginalFileName: req.FileName,
		ContentType:      req.ContentType,
		Size:             req.Size,
		Status:           models.StatusUploaded,
		UploadedBy:       req.UploadedBy,
		CategoryCode:     req.Category,
	}
	if doc.ContentType == "" {
		doc.ContentType = "application/octet-stream"
	}

	// Blob goes first; a row without bytes is worse than bytes without a row.
	// The blob path embeds a provisional id so retried uploads never collide.
	blobID := provisionalBlobID()
	path, written, err := s.blobs.Save(req.EventID, blobID, req.FileName, io.LimitReader(req.Content, config.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if written == 0 {
		s.blobs.Delete(path)
		return nil, fmt.Errorf("%w: file is empty", domain.ErrValidation)
	}
	if written > config.MaxUploadBytes {
		s.blobs.Delete(path)
		return nil, fmt.Errorf("%w: file exceeds the %d MB limit", domain.ErrValidation, config.MaxUploadBytes>>20)
	}
	doc.StoragePath = path
	doc.Size = written

	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.blobs.Delete(path)
		return nil, err
	}

	s.deriveView(ctx, doc)

	s.logger.Info("document uploaded",
		"id", doc.ID,
		"event_id", doc.EventID,
		"file_name", doc.FileName,
		"category_code", doc.CategoryCode,
		"size", doc.Size,
	)

	return doc, nil
}

// GetDocument retrieves a document by ID
func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deriveView(ctx, doc)
	return doc, nil
}

// UpdateDocument applies a partial update
func (s *documentService) UpdateDocument(ctx context.Context, id string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FileName != nil {
		doc.FileName = *req.FileName
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.DocumentType != nil {
		doc.CategoryCode = *req.DocumentType
		doc.Category = "" // re-resolved against the catalog below
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.deriveView(ctx, doc)

	s.logger.Info("document updated",
		"id", doc.ID,
		"file_name", doc.FileName,
		"category_code", doc.CategoryCode,
	)

	return doc, nil
}

// DeleteDocument removes the row and, best-effort, the blob
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	if doc.StoragePath != "" {
		if err := s.blobs.Delete(doc.StoragePath); err != nil {
			// Orphaned blob, not a failed delete
			s.logger.Warn("failed to delete blob", "id", id, "path", doc.StoragePath, "error", err)
		}
	}

	s.logger.Info("document deleted", "id", id, "event_id", doc.EventID)
	return nil
}

// OpenContent opens the document's bytes for preview or download
func (s *documentService) OpenContent(ctx context.Context, id string) (*models.Document, io.ReadCloser, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("document %s content: %w", id, domain.ErrNotFound)
	}

	s.deriveView(ctx, doc)
	return doc, rc, nil
}

// GenerateDescription populates and persists an AI-generated description
func (s *documentService) GenerateDescription(ctx context.Context, id string) (*models.Document, error) {
	if s.describer == nil {
		return nil, &domain.ValidationError{Message: "description generation is not configured"}
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deriveView(ctx, doc)

	desc, err := s.describer.Describe(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("generate description: %w", err)
	}

	doc.Description = desc
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("description generated", "id", doc.ID)
	return doc, nil
}

// deriveView fills derived fields and resolves the category display name
// from the catalog, falling back to the raw code.
func (s *documentService) deriveView(ctx context.Context, doc *models.Document) {
	doc.DeriveView(APIBasePath)

	if doc.Category != "" {
		return
	}
	if doc.CategoryCode == "" {
		doc.Category = models.OtherCategoryName
		return
	}

	t, err := s.catalogRepo.GetByCode(ctx, doc.CategoryCode)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to resolve category", "code", doc.CategoryCode, "error", err)
		}
		doc.Category = doc.CategoryCode
		return
	}
	doc.Category = t.Name
}

// provisionalBlobID names the blob before the database row (and its real id)
// exists.
func provisionalBlobID() string {
	return uuid.NewString()
}

// validateUploadRequest validates one multipart upload
func (s *documentService) validateUploadRequest(req *services.UploadDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Category, validation.Required, validation.Length(1, config.MaxCategoryLength)),
		validation.Field(&req.FileName,
			validation.Required,
			validation.Length(1, config.MaxDocumentNameLength),
		),
		validation.Field(&req.Size,
			validation.Min(int64(1)).Error("file is empty"),
			validation.Max(int64(config.MaxUploadBytes)).Error("file exceeds the upload size limit"),
		),
	)
}

// validateUpdateRequest validates a partial update
func (s *documentService) validateUpdateRequest(req *services.UpdateDocumentRequest) error {
	if req.FileName == nil && req.Description == nil && req.DocumentType == nil {
		return fmt.Errorf("no fields to update")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.FileName, validation.NilOrNotEmpty, validation.Length(1, config.MaxDocumentNameLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.DocumentType, validation.NilOrNotEmpty, validation.Length(1, config.MaxCategoryLength)),
	)
}
