package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/services"
)

// mutateAPI fakes the document update/delete endpoints. When failing is set
// every call gets a 500, simulating an offline or broken backend.
type mutateAPI struct {
	failing  bool
	updates  atomic.Int64
	deletes  atomic.Int64
	lastBody services.UpdateDocumentRequest
	docs     map[string]*models.Document
}

func newMutateAPI(docs ...*models.Document) *mutateAPI {
	a := &mutateAPI{docs: map[string]*models.Document{}}
	for _, d := range docs {
		a.docs[d.ID] = d
	}
	return a
}

func (a *mutateAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		a.updates.Add(1)
		if a.failing {
			http.Error(w, `{"detail":"backend unavailable"}`, http.StatusInternalServerError)
			return
		}
		doc, ok := a.docs[r.PathValue("id")]
		if !ok {
			http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
			return
		}
		var upd services.UpdateDocumentRequest
		json.NewDecoder(r.Body).Decode(&upd)
		a.lastBody = upd
		if upd.FileName != nil {
			doc.FileName = *upd.FileName
		}
		if upd.Description != nil {
			doc.Description = *upd.Description
		}
		if upd.DocumentType != nil {
			doc.CategoryCode = *upd.DocumentType
			name, _ := testCatalog().NameForCode(*upd.DocumentType)
			doc.Category = name
		}
		json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("DELETE /documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		a.deletes.Add(1)
		if a.failing {
			http.Error(w, `{"detail":"backend unavailable"}`, http.StatusInternalServerError)
			return
		}
		delete(a.docs, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestRenameKeepsOptimisticNameOnFailure(t *testing.T) {
	doc := persistedDoc("scan.pdf", "POL", "Police Report")
	api := newMutateAPI(doc)
	api.failing = true
	w, notifier := newTestWorkspace(t, api.handler())
	w.SetScope(testEventID, nil)
	w.Store().PutPersisted(doc)

	out := w.Rename(context.Background(), doc.ID, "police_report.pdf")

	if !out.Applied {
		t.Fatalf("rename not applied locally")
	}
	if out.Synced || out.Err == nil {
		t.Fatalf("failed sync must report Synced=false with the error")
	}
	e, _ := w.Store().Get(doc.ID)
	if e.Persisted.FileName != "police_report.pdf" {
		t.Errorf("optimistic name reverted to %q", e.Persisted.FileName)
	}
	if len(notifier.Errors()) != 1 {
		t.Errorf("error toasts = %d, want 1", len(notifier.Errors()))
	}
}

func TestRenameReconcilesOnSuccess(t *testing.T) {
	doc := persistedDoc("scan.pdf", "POL", "Police Report")
	api := newMutateAPI(doc)
	w, _ := newTestWorkspace(t, api.handler())
	w.SetScope(testEventID, nil)
	w.Store().PutPersisted(doc)

	out := w.Rename(context.Background(), doc.ID, "police_report.pdf")
	if !out.Applied || !out.Synced || out.Err != nil {
		t.Fatalf("outcome = %+v, want applied and synced", out)
	}
	if api.lastBody.FileName == nil || *api.lastBody.FileName != "police_report.pdf" {
		t.Errorf("server did not receive the new name")
	}
}

func TestRenamePendingIsLocalOnly(t *testing.T) {
	api := newMutateAPI()
	w, _ := newTestWorkspace(t, api.handler())
	pf := stagedFile("draft.pdf", "EST", "Estimate")
	w.Store().PutPending(pf)

	out := w.Rename(context.Background(), pf.ID, "final.pdf")
	if !out.Applied || !out.Synced {
		t.Fatalf("outcome = %+v", out)
	}
	if api.updates.Load() != 0 {
		t.Errorf("pending rename must not issue a network call")
	}
	e, _ := w.Store().Get(pf.ID)
	if e.Pending.Name != "final.pdf" {
		t.Errorf("pending name = %q", e.Pending.Name)
	}
}

func TestMoveAdjustsUploadedFlags(t *testing.T) {
	doc := persistedDoc("estimate.pdf", "EST", "Estimate")
	api := newMutateAPI(doc)
	w, _ := newTestWorkspace(t, api.handler())
	w.SetScope(testEventID, nil)
	w.Store().PutPersisted(doc)
	w.Store().SetUploaded("EST", true)

	out := w.Move(context.Background(), doc.ID, "Photos")
	if !out.Applied || !out.Synced {
		t.Fatalf("outcome = %+v", out)
	}
	if api.lastBody.DocumentType == nil || *api.lastBody.DocumentType != "PHO" {
		t.Errorf("server did not receive the resolved code")
	}

	flags := map[string]bool{}
	for _, entry := range w.Store().Catalog() {
		flags[entry.Code] = entry.Uploaded
	}
	if !flags["PHO"] {
		t.Errorf("destination category not flagged uploaded")
	}
	if flags["EST"] {
		t.Errorf("emptied source category still flagged uploaded")
	}

	sections := w.Store().Sections(w.Resolver())
	if len(sections) != 1 || sections[0].Category.Name != "Photos" {
		t.Errorf("document not regrouped under Photos")
	}
}

func TestMoveKeepsSourceFlagWhenDocumentsRemain(t *testing.T) {
	doc1 := persistedDoc("a.pdf", "EST", "Estimate")
	doc2 := persistedDoc("b.pdf", "EST", "Estimate")
	api := newMutateAPI(doc1, doc2)
	w, _ := newTestWorkspace(t, api.handler())
	w.SetScope(testEventID, nil)
	w.Store().PutPersisted(doc1)
	w.Store().PutPersisted(doc2)
	w.Store().SetUploaded("EST", true)

	w.Move(context.Background(), doc1.ID, "Photos")

	for _, entry := range w.Store().Catalog() {
		if entry.Code == "EST" && !entry.Uploaded {
			t.Errorf("source category emptied prematurely")
		}
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	doc := persistedDoc("estimate.pdf", "EST", "Estimate")
	api := newMutateAPI(doc)
	w, notifier := newTestWorkspace(t, api.handler())
	w.SetScope(testEventID, nil)
	w.Store().PutPersisted(doc)
	notifier.ConfirmAnswer = false

	out := w.Delete(context.Background(), doc.ID)

	if out.Applied {
		t.Errorf("declined confirmation must not touch the store")
	}
	if notifier.Confirms() != 1 {
		t.Errorf("confirms = %d, want 1", notifier.Confirms())
	}
	if api.deletes.Load() != 0 {
		t.Errorf("declined delete reached the network")
	}
	if _, ok := w.Store().Get(doc.ID); !ok {
		t.Errorf("document removed despite declined confirmation")
	}
}

func TestDeleteRemovesOptimisticallyWithoutRevert(t *testing.T) {
	doc := persistedDoc("estimate.pdf", "EST", "Estimate")
	api := newMutateAPI(doc)
	api.failing = true
	w, notifier := newTestWorkspace(t, api.handler())
	w.SetScope(testEventID, nil)
	w.Store().PutPersisted(doc)
	w.Store().Select(doc.ID)

	out := w.Delete(context.Background(), doc.ID)

	if !out.Applied || out.Synced || out.Err == nil {
		t.Fatalf("outcome = %+v, want applied but not synced", out)
	}
	if _, ok := w.Store().Get(doc.ID); ok {
		t.Errorf("optimistic removal reverted after failed call")
	}
	if w.Store().IsSelected(doc.ID) {
		t.Errorf("deleted document still selected")
	}
	if len(notifier.Errors()) != 1 {
		t.Errorf("error toasts = %d, want 1", len(notifier.Errors()))
	}
}

func TestDeletePendingReleasesBlob(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	w.AddFiles(context.Background(), "Photos", []FileInput{
		{Name: "front.jpg", Size: 100, ContentType: "image/jpeg", Content: []byte("img")},
	})
	flat := w.Store().Flattened(w.Resolver())
	if len(flat) != 1 {
		t.Fatalf("staging failed")
	}

	out := w.Delete(context.Background(), flat[0].ID)
	if !out.Applied {
		t.Fatalf("pending delete not applied")
	}
	if w.Store().Len() != 0 {
		t.Errorf("pending entry survived delete")
	}
	if w.Blobs().Len() != 0 {
		t.Errorf("deleted pending file leaked its blob handle")
	}
}

func TestDescribeUpdatesPendingLocally(t *testing.T) {
	api := newMutateAPI()
	w, _ := newTestWorkspace(t, api.handler())
	pf := stagedFile("draft.pdf", "EST", "Estimate")
	w.Store().PutPending(pf)

	out := w.Describe(context.Background(), pf.ID, "rough first estimate")
	if !out.Applied || api.updates.Load() != 0 {
		t.Fatalf("pending describe must stay local, outcome %+v", out)
	}
	flat := w.Store().Flattened(w.Resolver())
	if flat[0].Description != "rough first estimate" {
		t.Errorf("description = %q", flat[0].Description)
	}
}

func TestRemoveCategoryClearsFlagOnly(t *testing.T) {
	doc := persistedDoc("estimate.pdf", "EST", "Estimate")
	w, _ := newTestWorkspace(t, nil)
	w.Store().PutPersisted(doc)
	w.Store().SetUploaded("EST", true)

	w.RemoveCategory("EST")

	for _, entry := range w.Store().Catalog() {
		if entry.Code == "EST" && entry.Uploaded {
			t.Errorf("uploaded flag not cleared")
		}
	}
	if _, ok := w.Store().Get(doc.ID); !ok {
		t.Errorf("category removal must not delete documents")
	}
}
