package workspace

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"claimdocs/internal/config"
)

// validateFile checks one file before any network or staging work. Size
// limits are enforced here so an oversized file never leaves the client.
func validateFile(in FileInput) error {
	if in.Size == 0 || len(in.Content) == 0 {
		return fmt.Errorf("%q is empty", in.Name)
	}
	if in.Size > config.MaxUploadBytes {
		return fmt.Errorf("%q exceeds the %d MB upload limit", in.Name, config.MaxUploadBytes>>20)
	}
	return nil
}

// AddFiles takes the user's chosen files into the workspace under one
// category. Before the claim exists the files are staged locally; after, each
// file uploads on its own goroutine and failures are reported per file
// without affecting the others. A file that fails validation is skipped;
// the rest proceed.
func (w *Workspace) AddFiles(ctx context.Context, categoryName string, inputs []FileInput) {
	if categoryName == "" {
		w.notifier.Error("Upload failed", "Choose a document category before adding files")
		return
	}
	if len(inputs) == 0 {
		return
	}

	code := w.resolver.Code(categoryName)
	valid := inputs[:0:0]
	for _, in := range inputs {
		if err := validateFile(in); err != nil {
			w.notifier.Error("File rejected", err.Error())
			continue
		}
		valid = append(valid, in)
	}
	if len(valid) == 0 {
		return
	}

	if w.eventID == "" {
		w.stageFiles(categoryName, code, valid)
		return
	}
	w.uploadFiles(ctx, categoryName, code, valid)
}

// stageFiles holds validated files in memory until a claim id arrives.
func (w *Workspace) stageFiles(categoryName, code string, inputs []FileInput) {
	for _, in := range inputs {
		pf := &PendingFile{
			ID:           newPendingID(),
			Name:         in.Name,
			Size:         in.Size,
			Kind:         KindForContentType(in.ContentType),
			ContentType:  in.ContentType,
			Category:     categoryName,
			CategoryCode: code,
			Content:      in.Content,
			AddedAt:      time.Now(),
		}
		pf.ObjectURL = w.blobs.Create(in.Content, in.ContentType)
		w.store.PutPending(pf)
	}
	w.notifier.Success("Files added", fmt.Sprintf("Added %d file(s)", len(inputs)))
}

// uploadFiles sends validated files concurrently and normalizes each
// returned document into the store as its upload completes.
func (w *Workspace) uploadFiles(ctx context.Context, categoryName, code string, inputs []FileInput) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, in := range inputs {
		wg.Add(1)
		go func(in FileInput) {
			defer wg.Done()
			doc, err := w.client.UploadDocument(ctx, w.eventID, w.damageID, code, in.Name, in.ContentType, bytes.NewReader(in.Content))
			if err != nil {
				w.logger.Warn("upload failed", "fileName", in.Name, "error", err)
				w.notifier.Error("Upload failed", fmt.Sprintf("%s: %v", in.Name, err))
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}
			w.resolver.Observe(doc.CategoryCode, doc.Category)
			w.store.PutPersisted(doc)
			if doc.CategoryCode != "" {
				w.store.SetUploaded(doc.CategoryCode, true)
			}
		}(in)
	}
	wg.Wait()

	uploaded := len(inputs) - failures
	if uploaded > 0 {
		w.notifier.Success("Upload complete", fmt.Sprintf("Uploaded %d file(s) to %s", uploaded, categoryName))
	}
	if failures > 0 {
		w.notifier.Error("Upload incomplete", fmt.Sprintf("%d file(s) failed to upload", failures))
	}
}

// FlushPending uploads every staged file once a claim id exists. Files that
// upload successfully are promoted in place; files that fail stay pending so
// nothing the user added silently disappears.
func (w *Workspace) FlushPending(ctx context.Context) {
	if w.eventID == "" {
		return
	}
	var pending []Entry
	for _, e := range w.store.Visible(w.resolver) {
		if !e.IsPersisted() {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		return
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, e := range pending {
		wg.Add(1)
		go func(pf *PendingFile) {
			defer wg.Done()
			doc, err := w.client.UploadDocument(ctx, w.eventID, w.damageID, pf.CategoryCode, pf.Name, pf.ContentType, bytes.NewReader(pf.Content))
			if err != nil {
				w.logger.Warn("pending upload failed", "fileName", pf.Name, "error", err)
				w.notifier.Error("Upload failed", fmt.Sprintf("%s: %v", pf.Name, err))
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}
			w.resolver.Observe(doc.CategoryCode, doc.Category)
			w.store.Promote(pf.ID, doc)
			w.blobs.Revoke(pf.ObjectURL)
			if doc.CategoryCode != "" {
				w.store.SetUploaded(doc.CategoryCode, true)
			}
		}(e.Pending)
	}
	wg.Wait()

	uploaded := len(pending) - failures
	if uploaded > 0 {
		w.notifier.Success("Upload complete", fmt.Sprintf("Uploaded %d file(s)", uploaded))
	}
	if failures > 0 {
		w.notifier.Error("Upload incomplete", fmt.Sprintf("%d file(s) failed to upload", failures))
	}
}
