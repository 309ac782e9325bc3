package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"claimdocs/internal/domain"
	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/repositories"
)

// PostgresCatalogRepository implements the CatalogRepository interface
type PostgresCatalogRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCatalogRepository creates a new required-document-type catalog repository
func NewCatalogRepository(config *RepositoryConfig) repositories.CatalogRepository {
	return &PostgresCatalogRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ListByObjectType lists catalog entries for a claim object type
func (r *PostgresCatalogRepository) ListByObjectType(ctx context.Context, objectType string) (models.Catalog, error) {
	query := fmt.Sprintf(`
		SELECT code, object_type, name, required, sort_order
		FROM %s
		WHERE object_type = $1
		ORDER BY sort_order, name
	`, r.tables.RequiredTypes)

	rows, err := r.pool.Query(ctx, query, objectType)
	if err != nil {
		return nil, fmt.Errorf("list required document types: %w", err)
	}
	defer rows.Close()

	var catalog models.Catalog
	for rows.Next() {
		var t models.RequiredDocumentType
		if err := rows.Scan(&t.Code, &t.ObjectType, &t.Name, &t.Required, &t.SortOrder); err != nil {
			return nil, fmt.Errorf("scan required document type: %w", err)
		}
		catalog = append(catalog, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list required document types: %w", err)
	}

	return catalog, nil
}

// GetByCode retrieves a catalog entry by category code regardless of object
// type
func (r *PostgresCatalogRepository) GetByCode(ctx context.Context, code string) (*models.RequiredDocumentType, error) {
	query := fmt.Sprintf(`
		SELECT code, object_type, name, required, sort_order
		FROM %s
		WHERE code = $1
		ORDER BY sort_order, object_type
		LIMIT 1
	`, r.tables.RequiredTypes)

	var t models.RequiredDocumentType
	err := r.pool.QueryRow(ctx, query, code).
		Scan(&t.Code, &t.ObjectType, &t.Name, &t.Required, &t.SortOrder)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("required document type %s: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get required document type: %w", err)
	}

	return &t, nil
}

// Upsert inserts or updates a catalog entry
func (r *PostgresCatalogRepository) Upsert(ctx context.Context, t *models.RequiredDocumentType) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (code, object_type, name, required, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code, object_type)
		DO UPDATE SET name = EXCLUDED.name, required = EXCLUDED.required,
			sort_order = EXCLUDED.sort_order
	`, r.tables.RequiredTypes)

	if _, err := r.pool.Exec(ctx, query, t.Code, t.ObjectType, t.Name, t.Required, t.SortOrder); err != nil {
		return fmt.Errorf("upsert required document type: %w", err)
	}

	return nil
}
