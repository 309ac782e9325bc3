package workspace

import (
	"context"
	"fmt"

	"claimdocs/internal/domain/services"
)

// Outcome reports what a mutation did. Applied means the local store changed;
// Synced means the server accepted the change. Mutations apply locally first
// and never revert on a failed sync, so Applied without Synced is a real
// state the caller must expect.
type Outcome struct {
	Applied bool
	Synced  bool
	Err     error
}

func localOnly() Outcome { return Outcome{Applied: true, Synced: true} }

func notApplied(err error) Outcome { return Outcome{Err: err} }

// Rename changes a document's display file name.
func (w *Workspace) Rename(ctx context.Context, id, newName string) Outcome {
	if newName == "" {
		return notApplied(fmt.Errorf("file name cannot be empty"))
	}
	e, ok := w.store.Get(id)
	if !ok {
		return notApplied(fmt.Errorf("document %s not found", id))
	}

	if p := e.Pending; p != nil {
		p.Name = newName
		w.store.PutPending(p)
		return localOnly()
	}

	d := *e.Persisted
	d.FileName = newName
	w.store.PutPersisted(&d)

	updated, err := w.client.UpdateDocument(ctx, id, &services.UpdateDocumentRequest{FileName: &newName})
	if err != nil {
		w.notifier.Error("Rename not saved", err.Error())
		return Outcome{Applied: true, Err: err}
	}
	w.store.PutPersisted(updated)
	return Outcome{Applied: true, Synced: true}
}

// Describe sets a document's description.
func (w *Workspace) Describe(ctx context.Context, id, description string) Outcome {
	e, ok := w.store.Get(id)
	if !ok {
		return notApplied(fmt.Errorf("document %s not found", id))
	}

	if p := e.Pending; p != nil {
		p.Description = description
		w.store.PutPending(p)
		return localOnly()
	}

	d := *e.Persisted
	d.Description = description
	w.store.PutPersisted(&d)

	updated, err := w.client.UpdateDocument(ctx, id, &services.UpdateDocumentRequest{Description: &description})
	if err != nil {
		w.notifier.Error("Description not saved", err.Error())
		return Outcome{Applied: true, Err: err}
	}
	w.store.PutPersisted(updated)
	return Outcome{Applied: true, Synced: true}
}

// GenerateDescription asks the server to describe a persisted document and
// stores the result. Pending documents have nothing on the server to
// describe.
func (w *Workspace) GenerateDescription(ctx context.Context, id string) Outcome {
	e, ok := w.store.Get(id)
	if !ok {
		return notApplied(fmt.Errorf("document %s not found", id))
	}
	if !e.IsPersisted() {
		return notApplied(fmt.Errorf("document is not uploaded yet"))
	}
	doc, err := w.client.GenerateDescription(ctx, id)
	if err != nil {
		w.notifier.Error("Description failed", err.Error())
		return notApplied(err)
	}
	w.store.PutPersisted(doc)
	return Outcome{Applied: true, Synced: true}
}

// Move recategorizes a document to the category named by the user. The
// destination's uploaded flag is set immediately; the source's flag clears
// when the move empties its category.
func (w *Workspace) Move(ctx context.Context, id, categoryName string) Outcome {
	e, ok := w.store.Get(id)
	if !ok {
		return notApplied(fmt.Errorf("document %s not found", id))
	}
	destCode := w.resolver.Code(categoryName)

	if p := e.Pending; p != nil {
		p.Category = categoryName
		p.CategoryCode = destCode
		w.store.PutPending(p)
		return localOnly()
	}

	sourceCode := e.Persisted.CategoryCode
	d := *e.Persisted
	d.CategoryCode = destCode
	d.Category = w.resolver.Name(destCode)
	w.store.PutPersisted(&d)
	w.adjustUploadedFlags(sourceCode, destCode, id)

	updated, err := w.client.UpdateDocument(ctx, id, &services.UpdateDocumentRequest{DocumentType: &destCode})
	if err != nil {
		w.notifier.Error("Move not saved", err.Error())
		return Outcome{Applied: true, Err: err}
	}
	w.resolver.Observe(updated.CategoryCode, updated.Category)
	w.store.PutPersisted(updated)
	return Outcome{Applied: true, Synced: true}
}

// adjustUploadedFlags updates the catalog's uploaded flags after a document
// left sourceCode for destCode. movedID is excluded when checking whether the
// source category still has documents.
func (w *Workspace) adjustUploadedFlags(sourceCode, destCode, movedID string) {
	if destCode != "" {
		w.store.SetUploaded(destCode, true)
	}
	if sourceCode != "" && sourceCode != destCode && !w.store.HasPersistedInCategory(sourceCode, movedID) {
		w.store.SetUploaded(sourceCode, false)
	}
}

// Delete removes a document after the user confirms. Pending documents are
// dropped locally and their blob handle released; persisted ones are removed
// locally first and the server delete follows.
func (w *Workspace) Delete(ctx context.Context, id string) Outcome {
	e, ok := w.store.Get(id)
	if !ok {
		return notApplied(fmt.Errorf("document %s not found", id))
	}
	name := flatten(e, w.resolver).Name
	if !w.notifier.Confirm("Delete document", fmt.Sprintf("Delete %q? This cannot be undone.", name)) {
		return Outcome{}
	}

	removed, _ := w.store.Remove(id)
	if p := removed.Pending; p != nil {
		w.blobs.Revoke(p.ObjectURL)
		return localOnly()
	}

	code := removed.Persisted.CategoryCode
	if code != "" && !w.store.HasPersistedInCategory(code, id) {
		w.store.SetUploaded(code, false)
	}

	if err := w.client.DeleteDocument(ctx, id); err != nil {
		w.notifier.Error("Delete not saved", err.Error())
		return Outcome{Applied: true, Err: err}
	}
	w.notifier.Success("Document deleted", name)
	return Outcome{Applied: true, Synced: true}
}

// RemoveCategory clears a catalog entry's uploaded flag without touching any
// documents. Used when the claim form drops a requirement.
func (w *Workspace) RemoveCategory(code string) {
	w.store.SetUploaded(code, false)
}
