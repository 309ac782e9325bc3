package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"claimdocs/internal/domain"
	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, event_id, damage_id, file_name, original_file_name,
	content_type, size, storage_path, cloud_url, description, status,
	uploaded_by, category, category_code, created_at, updated_at`

// Create inserts a new document row
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, damage_id, file_name, original_file_name,
			content_type, size, storage_path, cloud_url, description, status,
			uploaded_by, category, category_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	err := r.pool.QueryRow(ctx, query,
		doc.EventID,
		doc.DamageID,
		doc.FileName,
		doc.OriginalFileName,
		doc.ContentType,
		doc.Size,
		doc.StoragePath,
		doc.CloudURL,
		doc.Description,
		doc.Status,
		doc.UploadedBy,
		doc.Category,
		doc.CategoryCode,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document blob %s already recorded", doc.StoragePath),
				ResourceType: "document",
				ResourceID:   doc.StoragePath,
			}
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, documentColumns, r.tables.Documents)

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// ListByEvent lists documents for a claim, optionally scoped to one damage
func (r *PostgresDocumentRepository) ListByEvent(ctx context.Context, eventID string, damageID *string) ([]models.Document, error) {
	var rows pgx.Rows
	var err error

	if damageID != nil {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE event_id = $1 AND damage_id = $2 ORDER BY created_at`,
			documentColumns, r.tables.Documents)
		rows, err = r.pool.Query(ctx, query, eventID, *damageID)
	} else {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE event_id = $1 ORDER BY created_at`,
			documentColumns, r.tables.Documents)
		rows, err = r.pool.Query(ctx, query, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return docs, nil
}

// Update persists the mutable fields of an existing document
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET file_name = $2, description = $3, category = $4, category_code = $5,
			status = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Documents)

	err := r.pool.QueryRow(ctx, query,
		doc.ID,
		doc.FileName,
		doc.Description,
		doc.Category,
		doc.CategoryCode,
		doc.Status,
	).Scan(&doc.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update document: %w", err)
	}

	return nil
}

// Delete removes a document row
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DistinctCategories lists the category codes present on a claim's documents
func (r *PostgresDocumentRepository) DistinctCategories(ctx context.Context, eventID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT category_code FROM %s WHERE event_id = $1`,
		r.tables.Documents)

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return codes, nil
}

// scanDocument scans one document row
func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.EventID,
		&doc.DamageID,
		&doc.FileName,
		&doc.OriginalFileName,
		&doc.ContentType,
		&doc.Size,
		&doc.StoragePath,
		&doc.CloudURL,
		&doc.Description,
		&doc.Status,
		&doc.UploadedBy,
		&doc.Category,
		&doc.CategoryCode,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
