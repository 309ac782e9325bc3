package workspace

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DownloadAll archives visible documents into a single zip. A non-empty
// categoryName scopes the archive to that section.
func (w *Workspace) DownloadAll(ctx context.Context, categoryName string) ([]byte, error) {
	return w.downloadEntries(ctx, w.inCategory(w.store.Visible(w.resolver), categoryName))
}

// DownloadSelected archives the selected documents into a single zip. A
// non-empty categoryName narrows the target to the intersection of that
// section and the selection.
func (w *Workspace) DownloadSelected(ctx context.Context, categoryName string) ([]byte, error) {
	return w.downloadEntries(ctx, w.inCategory(w.store.Selected(w.resolver), categoryName))
}

// inCategory keeps the entries whose category renders under categoryName.
// The empty name keeps everything.
func (w *Workspace) inCategory(entries []Entry, categoryName string) []Entry {
	if categoryName == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.EqualFold(e.Category(w.resolver).DisplayName(), categoryName) {
			out = append(out, e)
		}
	}
	return out
}

func (w *Workspace) downloadEntries(ctx context.Context, entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		err := fmt.Errorf("nothing to download")
		w.notifier.Error("Download failed", err.Error())
		return nil, err
	}
	w.notifier.Success("Download started", fmt.Sprintf("Preparing %d file(s)", len(entries)))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]int)
	var failures int
	for _, e := range entries {
		content, name, err := w.entryContent(ctx, e)
		if err != nil {
			w.notifier.Error("Download failed", fmt.Sprintf("%s: %v", name, err))
			failures++
			continue
		}
		f, err := zw.Create(uniqueName(used, name))
		if err != nil {
			zw.Close()
			return nil, err
		}
		if _, err := f.Write(content); err != nil {
			zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	if failures == len(entries) {
		err := fmt.Errorf("no files could be downloaded")
		w.notifier.Error("Download failed", err.Error())
		return nil, err
	}
	if failures > 0 {
		w.notifier.Error("Download incomplete", fmt.Sprintf("%d file(s) could not be fetched", failures))
	}

	w.notifier.Success("Download ready", fmt.Sprintf("Archived %d file(s)", len(entries)-failures))
	return buf.Bytes(), nil
}

// entryContent returns an entry's bytes and archive file name. Persisted
// entries fetch from the server under their original upload name; pending
// ones read from memory.
func (w *Workspace) entryContent(ctx context.Context, e Entry) ([]byte, string, error) {
	if p := e.Pending; p != nil {
		return p.Content, p.Name, nil
	}
	d := e.Persisted
	name := d.OriginalFileName
	if name == "" {
		name = d.FileName
	}
	content, err := w.client.DownloadDocument(ctx, d.ID)
	return content, name, err
}

// uniqueName disambiguates duplicate file names inside one archive by
// suffixing a counter before the extension.
func uniqueName(used map[string]int, name string) string {
	key := strings.ToLower(name)
	n := used[key]
	used[key] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
}

// MoveSelected recategorizes the selected documents in the (optional) source
// section into destName, then drops the moved ids from the selection.
// Selected documents outside the source section stay selected. Each move is
// its own mutation; one failure does not stop the rest.
func (w *Workspace) MoveSelected(ctx context.Context, sourceName, destName string) {
	targets := w.inCategory(w.store.Selected(w.resolver), sourceName)
	if len(targets) == 0 {
		w.notifier.Error("Move failed", "No documents selected")
		return
	}
	var failures int
	for _, e := range targets {
		out := w.Move(ctx, e.ID(), destName)
		if out.Err != nil {
			failures++
		}
		if out.Applied {
			w.store.Deselect(e.ID())
		}
	}
	moved := len(targets) - failures
	if moved > 0 {
		w.notifier.Success("Documents moved", fmt.Sprintf("Moved %d file(s) to %s", moved, destName))
	}
}

// DeleteSelected removes every selected document after one combined
// confirmation.
func (w *Workspace) DeleteSelected(ctx context.Context) {
	selected := w.store.Selected(w.resolver)
	if len(selected) == 0 {
		w.notifier.Error("Delete failed", "No documents selected")
		return
	}
	if !w.notifier.Confirm("Delete documents", fmt.Sprintf("Delete %d file(s)? This cannot be undone.", len(selected))) {
		return
	}
	var failures int
	for _, e := range selected {
		id := e.ID()
		removed, ok := w.store.Remove(id)
		if !ok {
			continue
		}
		if p := removed.Pending; p != nil {
			w.blobs.Revoke(p.ObjectURL)
			continue
		}
		code := removed.Persisted.CategoryCode
		if code != "" && !w.store.HasPersistedInCategory(code, id) {
			w.store.SetUploaded(code, false)
		}
		if err := w.client.DeleteDocument(ctx, id); err != nil {
			w.notifier.Error("Delete not saved", fmt.Sprintf("%s: %v", removed.Persisted.FileName, err))
			failures++
		}
	}
	deleted := len(selected) - failures
	if deleted > 0 {
		w.notifier.Success("Documents deleted", fmt.Sprintf("Deleted %d file(s)", deleted))
	}
}
