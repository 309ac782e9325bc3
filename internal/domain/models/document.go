package models

import (
	"fmt"
	"strings"
	"time"
)

// DocumentStatus is the lifecycle tag stored on a document row.
type DocumentStatus string

const (
	StatusUploaded DocumentStatus = "uploaded"
	StatusArchived DocumentStatus = "archived"
)

// Document is a persisted claim document. Category/CategoryCode carry the
// display name and the machine code from the required-document-type catalog;
// the two may differ (code "EST", name "Estimate") and the name falls back to
// the raw code for categories the catalog does not know.
type Document struct {
	ID               string         `json:"id" db:"id"`
	EventID          string         `json:"eventId" db:"event_id"`
	DamageID         *string        `json:"damageId,omitempty" db:"damage_id"`
	FileName         string         `json:"fileName" db:"file_name"`
	OriginalFileName string         `json:"originalFileName" db:"original_file_name"`
	ContentType      string         `json:"contentType" db:"content_type"`
	Size             int64          `json:"size" db:"size"`
	StoragePath      string         `json:"-" db:"storage_path"`
	CloudURL         string         `json:"cloudUrl,omitempty" db:"cloud_url"`
	Description      string         `json:"description" db:"description"`
	Status           DocumentStatus `json:"status" db:"status"`
	UploadedBy       string         `json:"uploadedBy" db:"uploaded_by"`
	Category         string         `json:"category" db:"category"`
	CategoryCode     string         `json:"categoryCode" db:"category_code"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" db:"updated_at"`

	// Derived, not stored
	CanPreview  bool   `json:"canPreview"`
	PreviewURL  string `json:"previewUrl,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// DeriveView fills the derived fields from the stored ones. basePath is the
// API base path the document endpoints are mounted under (e.g. "/api").
func (d *Document) DeriveView(basePath string) {
	d.CanPreview = CanPreviewContentType(d.ContentType)
	d.PreviewURL = fmt.Sprintf("%s/documents/%s/preview", basePath, d.ID)
	d.DownloadURL = fmt.Sprintf("%s/documents/%s/download", basePath, d.ID)
}

// CanPreviewContentType reports whether a MIME type has an in-app preview
// strategy (image, PDF, video, office formats). Everything else falls back to
// a download-only placeholder.
func CanPreviewContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/"),
		strings.HasPrefix(ct, "video/"),
		ct == "application/pdf",
		ct == "text/plain":
		return true
	}
	return IsWordContentType(ct) || IsSpreadsheetContentType(ct)
}

// IsWordContentType reports whether the MIME type is a word-processor format.
func IsWordContentType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword":
		return true
	}
	return false
}

// IsSpreadsheetContentType reports whether the MIME type is a spreadsheet
// format.
func IsSpreadsheetContentType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel",
		"text/csv":
		return true
	}
	return false
}
