package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"claimdocs/internal/domain"
	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/repositories"
	"claimdocs/internal/domain/services"
)

// catalogService implements the CatalogService interface
type catalogService struct {
	catalogRepo repositories.CatalogRepository
	docRepo     repositories.DocumentRepository
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	catalogRepo repositories.CatalogRepository,
	docRepo repositories.DocumentRepository,
	logger *slog.Logger,
) services.CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		docRepo:     docRepo,
		logger:      logger,
	}
}

// ListForEvent returns the catalog for a claim object type with Uploaded
// flags derived from the claim's current documents.
func (s *catalogService) ListForEvent(ctx context.Context, objectType, eventID string) (models.Catalog, error) {
	if objectType == "" {
		return nil, fmt.Errorf("%w: objectType is required", domain.ErrValidation)
	}

	catalog, err := s.catalogRepo.ListByObjectType(ctx, objectType)
	if err != nil {
		return nil, err
	}

	if eventID == "" {
		return catalog, nil
	}

	codes, err := s.docRepo.DistinctCategories(ctx, eventID)
	if err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		present[c] = struct{}{}
	}

	for i := range catalog {
		_, catalog[i].Uploaded = present[catalog[i].Code]
	}

	return catalog, nil
}

// ResolveName returns the display name for a category code, falling back to
// the code itself.
func (s *catalogService) ResolveName(ctx context.Context, code string) string {
	if code == "" {
		return models.OtherCategoryName
	}
	t, err := s.catalogRepo.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to resolve category name", "code", code, "error", err)
		}
		return code
	}
	return t.Name
}
