package workspace

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"claimdocs/internal/domain/models"
)

// FileKind is the coarse type tag used to pick list icons and preview
// strategies.
type FileKind string

const (
	KindImage FileKind = "image"
	KindPDF   FileKind = "pdf"
	KindDoc   FileKind = "doc"
	KindSheet FileKind = "sheet"
	KindVideo FileKind = "video"
	KindOther FileKind = "other"
)

// KindForContentType sniffs the coarse kind from a MIME type.
func KindForContentType(contentType string) FileKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/"):
		return KindImage
	case strings.HasPrefix(ct, "video/"):
		return KindVideo
	case ct == "application/pdf":
		return KindPDF
	case models.IsWordContentType(ct):
		return KindDoc
	case models.IsSpreadsheetContentType(ct):
		return KindSheet
	}
	return KindOther
}

// PendingFile is a file staged in memory before a parent claim exists to
// attach it to. Its ID is a client token, deliberately not UUID-shaped, so
// id shape alone distinguishes pending from persisted entries.
type PendingFile struct {
	ID           string
	Name         string
	Size         int64
	Kind         FileKind
	ContentType  string
	ObjectURL    string // blob handle standing in for a download/preview URL
	Category     string
	CategoryCode string
	Description  string
	Content      []byte // raw bytes for the eventual upload
	AddedAt      time.Time
}

const pendingIDPrefix = "local-"

// newPendingID generates a client token for a staged file.
func newPendingID() string {
	var b [8]byte
	rand.Read(b[:])
	return pendingIDPrefix + hex.EncodeToString(b[:])
}

// UploadedFile is the flattened projection the enclosing claim form consumes
// and submits. Every store entry projects into exactly one UploadedFile.
type UploadedFile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	Kind         FileKind  `json:"kind"`
	UploadedAt   time.Time `json:"uploadedAt"`
	URL          string    `json:"url"`
	CloudURL     string    `json:"cloudUrl,omitempty"`
	Category     string    `json:"category"`
	CategoryCode string    `json:"categoryCode"`
	Description  string    `json:"description,omitempty"`
}

// FileInput is one file as chosen or dropped by the user.
type FileInput struct {
	Name        string
	Size        int64
	ContentType string
	Content     []byte
}
