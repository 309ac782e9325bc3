package workspace

import (
	"context"
	"log/slog"

	"claimdocs/internal/domain/models"
)

// Workspace is the document working set for one claim: the normalized store,
// the category resolver, the API client and the preview session, plus the
// claim identity everything operates against. One workspace serves one claim
// form at a time.
type Workspace struct {
	client   *Client
	store    *Store
	resolver *Resolver
	notifier Notifier
	blobs    *BlobCache
	preview  *PreviewSession
	logger   *slog.Logger

	eventID         string
	damageID        *string
	objectType      string
	officeViewerURL string
}

// Options configures a new workspace.
type Options struct {
	Client     *Client
	Notifier   Notifier
	Logger     *slog.Logger
	ObjectType string
	Hidden     models.HiddenCategories

	// OfficeViewerURL is the external viewer spreadsheets open in. Empty
	// disables the viewer and spreadsheets fall back to download-only.
	OfficeViewerURL string
}

// New builds an empty workspace. Call SetScope once the claim exists, or
// AddFiles beforehand to stage files locally.
func New(opts Options) *Workspace {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = &SlogNotifier{Logger: opts.Logger}
	}
	hidden := opts.Hidden
	if hidden == nil {
		hidden = models.DefaultHiddenCategories()
	}
	blobs := NewBlobCache()
	w := &Workspace{
		client:          opts.Client,
		store:           NewStore(hidden),
		resolver:        NewResolver(nil),
		notifier:        opts.Notifier,
		blobs:           blobs,
		logger:          opts.Logger,
		objectType:      opts.ObjectType,
		officeViewerURL: opts.OfficeViewerURL,
	}
	w.preview = newPreviewSession(w)
	return w
}

// Store exposes the normalized store for projections and selection.
func (w *Workspace) Store() *Store { return w.store }

// Resolver exposes the category resolver.
func (w *Workspace) Resolver() *Resolver { return w.resolver }

// Preview exposes the preview session.
func (w *Workspace) Preview() *PreviewSession { return w.preview }

// Blobs exposes the blob handle cache.
func (w *Workspace) Blobs() *BlobCache { return w.blobs }

// EventID returns the claim id the workspace is bound to, empty before the
// claim exists.
func (w *Workspace) EventID() string { return w.eventID }

// SetScope binds the workspace to a claim and optional damage. It does not
// load anything; call Load (and FlushPending if files were staged) after.
func (w *Workspace) SetScope(eventID string, damageID *string) {
	w.eventID = eventID
	w.damageID = damageID
}

// Load fetches the claim's documents and catalog and rebuilds the store's
// persisted entries. Staged pending entries survive a load.
func (w *Workspace) Load(ctx context.Context) error {
	if w.eventID == "" {
		return nil
	}

	catalog, err := w.client.ListRequiredTypes(ctx, w.objectType, w.eventID)
	if err != nil {
		w.logger.Warn("loading required types failed", "eventId", w.eventID, "error", err)
		catalog = models.Catalog{}
	}
	w.store.SetCatalog(catalog)
	w.resolver = NewResolver(catalog)

	docs, err := w.client.ListDocuments(ctx, w.eventID, w.damageID)
	if err != nil {
		return err
	}
	for i := range docs {
		d := &docs[i]
		w.resolver.Observe(d.CategoryCode, d.Category)
		w.store.PutPersisted(d)
	}
	return nil
}
