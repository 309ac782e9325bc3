package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"claimdocs/internal/domain"
	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/services"
	"claimdocs/internal/httputil"
)

// fakeDocService is a canned DocumentService for handler tests.
type fakeDocService struct {
	docs      []models.Document
	uploaded  *services.UploadDocumentRequest
	listErr   error
	deleteErr error
}

func (s *fakeDocService) ListDocuments(_ context.Context, eventID string, _ *string) ([]models.Document, error) {
	return s.docs, s.listErr
}

func (s *fakeDocService) UploadDocument(_ context.Context, req *services.UploadDocumentRequest) (*models.Document, error) {
	s.uploaded = req
	return &models.Document{
		ID:           "4f9c2b17-8d30-4e6a-9f51-b2c8e0d7a614",
		EventID:      req.EventID,
		FileName:     req.FileName,
		CategoryCode: req.Category,
	}, nil
}

func (s *fakeDocService) GetDocument(_ context.Context, id string) (*models.Document, error) {
	return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

func (s *fakeDocService) UpdateDocument(_ context.Context, id string, _ *services.UpdateDocumentRequest) (*models.Document, error) {
	return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

func (s *fakeDocService) DeleteDocument(_ context.Context, _ string) error {
	return s.deleteErr
}

func (s *fakeDocService) OpenContent(_ context.Context, id string) (*models.Document, io.ReadCloser, error) {
	return nil, nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

func (s *fakeDocService) GenerateDescription(_ context.Context, id string) (*models.Document, error) {
	return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListDocumentsEmptyIsBareArray(t *testing.T) {
	h := NewDocumentHandler(&fakeDocService{}, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/documents?eventId=abc", nil)
	rec := httptest.NewRecorder()

	h.ListDocuments(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want a bare empty array", body)
	}
}

func TestListDocumentsRequiresEventID(t *testing.T) {
	h := NewDocumentHandler(&fakeDocService{}, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()

	h.ListDocuments(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var problem httputil.ProblemDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("body is not a problem detail: %v", err)
	}
	if !strings.Contains(problem.Detail, "eventId") {
		t.Errorf("detail = %q", problem.Detail)
	}
}

func TestListDocumentsNotFoundMapsTo404(t *testing.T) {
	svc := &fakeDocService{listErr: fmt.Errorf("event gone: %w", domain.ErrNotFound)}
	h := NewDocumentHandler(svc, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/documents?eventId=abc", nil)
	rec := httptest.NewRecorder()

	h.ListDocuments(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUploadDocumentParsesMultipart(t *testing.T) {
	svc := &fakeDocService{}
	h := NewDocumentHandler(svc, testLogger())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	ph := make(textproto.MIMEHeader)
	ph.Set("Content-Disposition", `form-data; name="file"; filename="estimate.pdf"`)
	ph.Set("Content-Type", "application/pdf")
	fw, _ := mw.CreatePart(ph)
	fw.Write([]byte("pdf bytes"))
	mw.WriteField("eventId", "event-1")
	mw.WriteField("category", "EST")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = httputil.WithUserID(req, "adjuster-7")
	rec := httptest.NewRecorder()

	h.UploadDocument(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.uploaded == nil {
		t.Fatalf("service never called")
	}
	if svc.uploaded.EventID != "event-1" || svc.uploaded.Category != "EST" {
		t.Errorf("request = %+v", svc.uploaded)
	}
	if svc.uploaded.FileName != "estimate.pdf" {
		t.Errorf("file name = %q", svc.uploaded.FileName)
	}
	if svc.uploaded.UploadedBy != "adjuster-7" {
		t.Errorf("uploadedBy = %q, want the authenticated user as fallback", svc.uploaded.UploadedBy)
	}
	if svc.uploaded.ContentType != "application/pdf" {
		t.Errorf("contentType = %q", svc.uploaded.ContentType)
	}
}

func TestUploadDocumentRequiresFile(t *testing.T) {
	h := NewDocumentHandler(&fakeDocService{}, testLogger())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("eventId", "event-1")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.UploadDocument(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
