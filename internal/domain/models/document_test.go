package models

import "testing"

func TestCanPreviewContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"video/mp4", true},
		{"application/pdf", true},
		{"text/plain", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"application/msword", true},
		{"application/vnd.ms-excel", true},
		{"text/csv", true},
		{"application/zip", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := CanPreviewContentType(tt.contentType); got != tt.want {
			t.Errorf("CanPreviewContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestDeriveView(t *testing.T) {
	doc := Document{ID: "4f9c2b17-8d30-4e6a-9f51-b2c8e0d7a614", ContentType: "application/pdf"}
	doc.DeriveView("/api")

	if !doc.CanPreview {
		t.Errorf("pdf must be previewable")
	}
	if doc.PreviewURL != "/api/documents/4f9c2b17-8d30-4e6a-9f51-b2c8e0d7a614/preview" {
		t.Errorf("PreviewURL = %q", doc.PreviewURL)
	}
	if doc.DownloadURL != "/api/documents/4f9c2b17-8d30-4e6a-9f51-b2c8e0d7a614/download" {
		t.Errorf("DownloadURL = %q", doc.DownloadURL)
	}
}
