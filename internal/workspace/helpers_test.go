package workspace

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"claimdocs/internal/domain/models"
)

const testEventID = "7b8d3a52-90c1-4f6e-a2d4-1c5e8f9b0a37"

func persistedDoc(name, code, categoryName string) *models.Document {
	return &models.Document{
		ID:               uuid.NewString(),
		EventID:          testEventID,
		FileName:         name,
		OriginalFileName: name,
		ContentType:      "application/pdf",
		Size:             1024,
		Status:           models.StatusUploaded,
		Category:         categoryName,
		CategoryCode:     code,
		CreatedAt:        time.Now(),
	}
}

func stagedFile(name, code, categoryName string) *PendingFile {
	return &PendingFile{
		ID:           newPendingID(),
		Name:         name,
		Size:         512,
		Kind:         KindPDF,
		ContentType:  "application/pdf",
		Category:     categoryName,
		CategoryCode: code,
		Content:      []byte("pdf bytes"),
		AddedAt:      time.Now(),
	}
}

// newTestWorkspace wires a workspace against an httptest server and a
// recording notifier. The server is torn down with the test.
func newTestWorkspace(t *testing.T, handler http.Handler) (*Workspace, *RecorderNotifier) {
	t.Helper()
	notifier := &RecorderNotifier{ConfirmAnswer: true}
	opts := Options{
		Notifier:   notifier,
		ObjectType: "vehicle",
	}
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		opts.Client = NewClient(srv.URL, "test-token")
	}
	w := New(opts)
	w.store.SetCatalog(testCatalog())
	w.resolver = NewResolver(testCatalog())
	return w, notifier
}
