package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"claimdocs/internal/domain"
	"claimdocs/internal/domain/models"
)

// fakeDocRepo is an in-memory DocumentRepository.
type fakeDocRepo struct {
	docs      map[string]*models.Document
	createErr error
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: map[string]*models.Document{}}
}

func (r *fakeDocRepo) Create(_ context.Context, doc *models.Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, id string) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocRepo) ListByEvent(_ context.Context, eventID string, damageID *string) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range r.docs {
		if doc.EventID != eventID {
			continue
		}
		if damageID != nil && (doc.DamageID == nil || *doc.DamageID != *damageID) {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (r *fakeDocRepo) Update(_ context.Context, doc *models.Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	doc.UpdatedAt = time.Now()
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocRepo) DistinctCategories(_ context.Context, eventID string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, doc := range r.docs {
		if doc.EventID != eventID || doc.CategoryCode == "" {
			continue
		}
		if _, ok := seen[doc.CategoryCode]; ok {
			continue
		}
		seen[doc.CategoryCode] = struct{}{}
		out = append(out, doc.CategoryCode)
	}
	return out, nil
}

// fakeCatalogRepo is an in-memory CatalogRepository.
type fakeCatalogRepo struct {
	entries models.Catalog
}

func (r *fakeCatalogRepo) ListByObjectType(_ context.Context, objectType string) (models.Catalog, error) {
	var out models.Catalog
	for _, e := range r.entries {
		if e.ObjectType == objectType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) GetByCode(_ context.Context, code string) (*models.RequiredDocumentType, error) {
	for _, e := range r.entries {
		if e.Code == code {
			cp := e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("required type %s: %w", code, domain.ErrNotFound)
}

func (r *fakeCatalogRepo) Upsert(_ context.Context, t *models.RequiredDocumentType) error {
	for i, e := range r.entries {
		if e.Code == t.Code && e.ObjectType == t.ObjectType {
			r.entries[i] = *t
			return nil
		}
	}
	r.entries = append(r.entries, *t)
	return nil
}

// memBlobStore is an in-memory BlobStore recording deletes.
type memBlobStore struct {
	blobs   map[string][]byte
	deletes []string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (s *memBlobStore) Save(eventID, documentID, fileName string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	path := fmt.Sprintf("%s/%s_%s", eventID, documentID, fileName)
	s.blobs[path] = data
	return path, int64(len(data)), nil
}

func (s *memBlobStore) Open(storagePath string) (io.ReadCloser, error) {
	data, ok := s.blobs[storagePath]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", storagePath)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memBlobStore) Delete(storagePath string) error {
	delete(s.blobs, storagePath)
	s.deletes = append(s.deletes, storagePath)
	return nil
}

// fakeDescriber returns a canned description.
type fakeDescriber struct {
	desc string
	err  error
}

func (d *fakeDescriber) Describe(_ context.Context, _ *models.Document) (string, error) {
	return d.desc, d.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func vehicleCatalog() models.Catalog {
	return models.Catalog{
		{Code: "EST", Name: "Estimate", ObjectType: "vehicle", Required: true, SortOrder: 1},
		{Code: "PHO", Name: "Photos", ObjectType: "vehicle", Required: true, SortOrder: 2},
		{Code: "POL", Name: "Police Report", ObjectType: "vehicle", SortOrder: 3},
	}
}
