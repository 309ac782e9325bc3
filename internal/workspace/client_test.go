package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"claimdocs/internal/domain/models"
)

func TestListDocumentsTreats404AsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"no documents"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	docs, err := c.ListDocuments(context.Background(), testEventID, nil)
	if err != nil {
		t.Fatalf("404 must not be an error: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("docs = %v, want empty non-nil slice", docs)
	}
}

func TestClientErrorBodyParsing(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "problem detail", status: 500, body: `{"detail":"pool exhausted"}`, want: "pool exhausted"},
		{name: "legacy error field", status: 500, body: `{"error":"boom"}`, want: "boom"},
		{name: "legacy message field", status: 500, body: `{"message":"nope"}`, want: "nope"},
		{name: "non-json body falls back to status", status: 502, body: "<html>bad gateway</html>", want: "502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "")
			_, err := c.ListDocuments(context.Background(), testEventID, nil)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Document{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	if _, err := c.ListDocuments(context.Background(), testEventID, nil); err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if got != "Bearer secret-token" {
		t.Errorf("Authorization = %q", got)
	}
}
