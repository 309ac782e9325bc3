package workspace

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"claimdocs/internal/docx"
)

// PreviewState is the preview session's lifecycle phase.
type PreviewState int

const (
	PreviewClosed PreviewState = iota
	PreviewOpening
	PreviewOpen
)

// RenderStrategy selects how the current document is displayed.
type RenderStrategy string

const (
	RenderImage        RenderStrategy = "image"
	RenderVideo        RenderStrategy = "video"
	RenderPDF          RenderStrategy = "pdf"
	RenderText         RenderStrategy = "text"
	RenderWord         RenderStrategy = "word"
	RenderOfficeViewer RenderStrategy = "office-viewer"
	RenderDownloadOnly RenderStrategy = "download-only"
)

const (
	minZoom  = 0.25
	maxZoom  = 3.0
	zoomStep = 0.25
)

// PreviewSession holds one preview at a time over a fixed document set (one
// category's documents or the full visible list). The blob handle and any
// rendered content are owned by the session and released through Close, the
// single cleanup path; opening a new document releases the previous one's
// resources first.
type PreviewSession struct {
	w *Workspace

	mu         sync.Mutex
	state      PreviewState
	set        []Entry
	index      int
	zoom       float64
	rotation   int
	fullscreen bool
	editing    bool

	strategy  RenderStrategy
	blobURL   string
	rendered  string // client-rendered HTML for word documents
	viewerURL string // external viewer link for spreadsheets
}

func newPreviewSession(w *Workspace) *PreviewSession {
	return &PreviewSession{w: w, zoom: 1.0}
}

// OpenAll opens the preview over the full visible document list, starting at
// its first document.
func (p *PreviewSession) OpenAll(ctx context.Context) error {
	visible := p.w.store.Visible(p.w.resolver)
	if len(visible) == 0 {
		p.w.notifier.Error("Preview failed", "No documents to preview")
		return fmt.Errorf("no documents to preview")
	}
	return p.OpenSet(ctx, visible, 0)
}

// OpenSet opens the preview over an explicit document set at the given index.
// Navigation stays within this set until the preview closes.
func (p *PreviewSession) OpenSet(ctx context.Context, set []Entry, index int) error {
	if len(set) == 0 {
		p.w.notifier.Error("Preview failed", "No documents to preview")
		return fmt.Errorf("no documents to preview")
	}
	if index < 0 || index >= len(set) {
		index = 0
	}
	p.mu.Lock()
	p.releaseLocked()
	p.set = append([]Entry(nil), set...)
	p.index = index
	p.mu.Unlock()
	return p.load(ctx)
}

// Open opens the preview on one document within the current visible list.
func (p *PreviewSession) Open(ctx context.Context, id string) error {
	visible := p.w.store.Visible(p.w.resolver)
	for i, e := range visible {
		if e.ID() == id {
			return p.OpenSet(ctx, visible, i)
		}
	}
	p.w.notifier.Error("Preview failed", "Document not found")
	return fmt.Errorf("document %s not found", id)
}

// load fetches and prepares the document at the current index. A fetch
// failure leaves the dialog open with no content.
func (p *PreviewSession) load(ctx context.Context) error {
	p.mu.Lock()
	e := p.set[p.index]
	p.state = PreviewOpening
	p.zoom = 1.0
	p.rotation = 0
	p.editing = false
	p.mu.Unlock()

	contentType := entryContentType(e)
	strategy := p.strategyFor(contentType)

	var (
		blobURL, rendered, viewerURL string
		err                          error
	)
	switch strategy {
	case RenderOfficeViewer:
		viewerURL = p.officeViewerLink(e)
	case RenderDownloadOnly:
		// nothing to fetch
	default:
		var content []byte
		content, err = p.fetchContent(ctx, e)
		if err == nil {
			blobURL = p.w.blobs.Create(content, contentType)
			if strategy == RenderWord {
				rendered, err = docx.RenderHTML(content)
			}
		}
	}

	p.mu.Lock()
	p.state = PreviewOpen
	p.strategy = strategy
	p.blobURL = blobURL
	p.rendered = rendered
	p.viewerURL = viewerURL
	p.mu.Unlock()

	if err != nil {
		p.w.logger.Warn("preview load failed", "documentId", e.ID(), "error", err)
		p.w.notifier.Error("Cannot display document", err.Error())
		return err
	}
	return nil
}

func entryContentType(e Entry) string {
	if e.Persisted != nil {
		return e.Persisted.ContentType
	}
	return e.Pending.ContentType
}

func (p *PreviewSession) strategyFor(contentType string) RenderStrategy {
	switch KindForContentType(contentType) {
	case KindImage:
		return RenderImage
	case KindVideo:
		return RenderVideo
	case KindPDF:
		return RenderPDF
	case KindDoc:
		return RenderWord
	case KindSheet:
		if p.w.officeViewerURL != "" {
			return RenderOfficeViewer
		}
		return RenderDownloadOnly
	}
	if contentType == "text/plain" {
		return RenderText
	}
	return RenderDownloadOnly
}

func (p *PreviewSession) fetchContent(ctx context.Context, e Entry) ([]byte, error) {
	if pf := e.Pending; pf != nil {
		return pf.Content, nil
	}
	return p.w.client.PreviewDocument(ctx, e.Persisted.ID)
}

// officeViewerLink builds the external viewer URL for a spreadsheet. The
// viewer needs a URL it can reach, so the cloud URL wins over the API
// download path.
func (p *PreviewSession) officeViewerLink(e Entry) string {
	var src string
	if d := e.Persisted; d != nil {
		src = d.CloudURL
		if src == "" {
			src = d.DownloadURL
		}
	} else {
		src = e.Pending.ObjectURL
	}
	return p.w.officeViewerURL + "?src=" + url.QueryEscape(src)
}

// State returns the session's lifecycle phase.
func (p *PreviewSession) State() PreviewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the document under preview.
func (p *PreviewSession) Current() (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == PreviewClosed || len(p.set) == 0 {
		return Entry{}, false
	}
	return p.set[p.index], true
}

// Strategy returns the active rendering strategy.
func (p *PreviewSession) Strategy() RenderStrategy {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.strategy
}

// BlobURL returns the active content handle, empty when nothing is loaded.
func (p *PreviewSession) BlobURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blobURL
}

// RenderedHTML returns the client-rendered view of a word document.
func (p *PreviewSession) RenderedHTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rendered
}

// ViewerURL returns the external viewer link for a spreadsheet.
func (p *PreviewSession) ViewerURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewerURL
}

// CanNext reports whether a next document exists in the opened set.
func (p *PreviewSession) CanNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state != PreviewClosed && p.index < len(p.set)-1
}

// CanPrev reports whether a previous document exists in the opened set.
func (p *PreviewSession) CanPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state != PreviewClosed && p.index > 0
}

// Next moves to the next document in the opened set. At the end it is a
// no-op.
func (p *PreviewSession) Next(ctx context.Context) error {
	p.mu.Lock()
	if p.state == PreviewClosed || p.index >= len(p.set)-1 {
		p.mu.Unlock()
		return nil
	}
	p.releaseLocked()
	p.index++
	p.mu.Unlock()
	return p.load(ctx)
}

// Prev moves to the previous document in the opened set. At the start it is
// a no-op.
func (p *PreviewSession) Prev(ctx context.Context) error {
	p.mu.Lock()
	if p.state == PreviewClosed || p.index <= 0 {
		p.mu.Unlock()
		return nil
	}
	p.releaseLocked()
	p.index--
	p.mu.Unlock()
	return p.load(ctx)
}

// Zoom returns the current image zoom factor.
func (p *PreviewSession) Zoom() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.zoom
}

// ZoomIn increases the zoom one step, clamped to the maximum.
func (p *PreviewSession) ZoomIn() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.zoom+zoomStep <= maxZoom {
		p.zoom += zoomStep
	} else {
		p.zoom = maxZoom
	}
}

// ZoomOut decreases the zoom one step, clamped to the minimum.
func (p *PreviewSession) ZoomOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.zoom-zoomStep >= minZoom {
		p.zoom -= zoomStep
	} else {
		p.zoom = minZoom
	}
}

// Rotation returns the current image rotation in degrees.
func (p *PreviewSession) Rotation() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rotation
}

// Rotate advances the image rotation a quarter turn.
func (p *PreviewSession) Rotate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rotation = (p.rotation + 90) % 360
}

// IsFullscreen reports the fullscreen flag.
func (p *PreviewSession) IsFullscreen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fullscreen
}

// ToggleFullscreen flips the fullscreen flag.
func (p *PreviewSession) ToggleFullscreen() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fullscreen = !p.fullscreen
}

// ExitFullscreen syncs the session back to windowed state, as when the
// platform leaves fullscreen on its own. The preview stays open.
func (p *PreviewSession) ExitFullscreen() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fullscreen = false
}

// HandleEscape applies the escape key: exit fullscreen if active, otherwise
// close the preview.
func (p *PreviewSession) HandleEscape() {
	p.mu.Lock()
	if p.fullscreen {
		p.fullscreen = false
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.Close()
}

// IsEditing reports whether the word document is in edit mode.
func (p *PreviewSession) IsEditing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.editing
}

// StartEditing switches a rendered word document into editable mode.
func (p *PreviewSession) StartEditing() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.strategy != RenderWord {
		return fmt.Errorf("document is not editable")
	}
	p.editing = true
	return nil
}

// SaveEdits serializes the edited HTML back into a word-compatible binary
// and returns it for the caller to save. Edits are local only; the stored
// document is untouched unless the user re-uploads.
func (p *PreviewSession) SaveEdits(editedHTML string) ([]byte, error) {
	p.mu.Lock()
	if !p.editing {
		p.mu.Unlock()
		return nil, fmt.Errorf("not in edit mode")
	}
	p.rendered = editedHTML
	p.editing = false
	p.mu.Unlock()

	out, err := docx.Export(editedHTML)
	if err != nil {
		p.w.notifier.Error("Save failed", err.Error())
		return nil, err
	}
	p.w.notifier.Success("Document exported", "Edited copy saved locally")
	return out, nil
}

// Close shuts the preview and releases its resources. Safe to call in any
// state.
func (p *PreviewSession) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	p.state = PreviewClosed
	p.set = nil
	p.index = 0
	p.zoom = 1.0
	p.rotation = 0
	p.fullscreen = false
	p.editing = false
}

// releaseLocked revokes the active blob handle and clears rendered content.
// Caller holds the mutex.
func (p *PreviewSession) releaseLocked() {
	if p.blobURL != "" {
		p.w.blobs.Revoke(p.blobURL)
		p.blobURL = ""
	}
	p.rendered = ""
	p.viewerURL = ""
	p.strategy = ""
}
