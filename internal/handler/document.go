package handler

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"claimdocs/internal/config"
	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/services"
	"claimdocs/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// ListDocuments lists a claim's documents
// GET /api/documents?eventId=&damageId=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "eventId is required")
		return
	}

	var damageID *string
	if d := r.URL.Query().Get("damageId"); d != "" {
		damageID = &d
	}

	docs, err := h.docService.ListDocuments(r.Context(), eventID, damageID)
	if err != nil {
		handleError(w, err)
		return
	}

	if docs == nil {
		docs = []models.Document{}
	}
	httputil.RespondJSON(w, http.StatusOK, docs)
}

// UploadDocument accepts one multipart file upload
// POST /api/documents/upload (file, eventId, damageId?, category, uploadedBy)
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	// Oversized bodies fail the multipart parse instead of filling the disk
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	var damageID *string
	if d := r.FormValue("damageId"); d != "" {
		damageID = &d
	}

	uploadedBy := r.FormValue("uploadedBy")
	if uploadedBy == "" {
		uploadedBy = httputil.GetUserID(r)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	req := &services.UploadDocumentRequest{
		EventID:     r.FormValue("eventId"),
		DamageID:    damageID,
		Category:    r.FormValue("category"),
		UploadedBy:  uploadedBy,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Content:     file,
	}

	doc, err := h.docService.UploadDocument(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// UpdateDocument applies a partial update
// PUT /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req services.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.docService.UpdateDocument(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateDescription populates an AI-generated description
// POST /api/documents/{id}/generate-description
func (h *DocumentHandler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.docService.GenerateDescription(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// PreviewDocument streams the document bytes inline
// GET /api/documents/{id}/preview
func (h *DocumentHandler) PreviewDocument(w http.ResponseWriter, r *http.Request) {
	h.streamContent(w, r, false)
}

// DownloadDocument streams the document bytes as an attachment
// GET /api/documents/{id}/download
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	h.streamContent(w, r, true)
}

func (h *DocumentHandler) streamContent(w http.ResponseWriter, r *http.Request, attachment bool) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, rc, err := h.docService.OpenContent(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	if attachment {
		w.Header().Set("Content-Disposition",
			mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalFileName}))
	}

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all we can do is log
		h.logger.Warn("failed to stream document", "id", id, "error", err)
	}
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
