package workspace

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"claimdocs/internal/domain/models"
)

// Entry is one store slot. Exactly one of Persisted and Pending is set; the
// id shape carries the same distinction (persisted ids are UUIDs, pending
// ids carry the local prefix), so an entry never needs a separate state flag.
type Entry struct {
	Persisted *models.Document
	Pending   *PendingFile
}

// ID returns the entry's store key.
func (e Entry) ID() string {
	if e.Persisted != nil {
		return e.Persisted.ID
	}
	if e.Pending != nil {
		return e.Pending.ID
	}
	return ""
}

// IsPersisted reports whether the entry is backed by a server row.
func (e Entry) IsPersisted() bool {
	return e.Persisted != nil
}

// Category resolves the entry's category identity through the resolver.
func (e Entry) Category(r *Resolver) models.Category {
	var code, name string
	if e.Persisted != nil {
		code, name = e.Persisted.CategoryCode, e.Persisted.Category
	} else if e.Pending != nil {
		code, name = e.Pending.CategoryCode, e.Pending.Category
	}
	if code == "" && name == "" {
		return models.OtherCategory()
	}
	if code != "" {
		resolved := r.Name(code)
		if resolved != code {
			return models.KnownCategory(code, resolved)
		}
		if name != "" {
			return models.KnownCategory(code, name)
		}
		return models.RawCategory(code)
	}
	return models.RawCategory(name)
}

// IsPersistedID reports whether an id refers to a server row. Persisted ids
// are UUIDs; staged files carry opaque local tokens.
func IsPersistedID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Section is one category group in the sectioned projection.
type Section struct {
	Category models.Category
	Entries  []Entry
}

// Store is the single normalized collection behind every document view.
// Entries are keyed by id and kept in insertion order; the flat list, the
// sectioned view and the selection are all projections over the same
// entries, so they can never disagree about which documents exist.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	order    []string
	selected map[string]struct{}
	hidden   models.HiddenCategories
	catalog  models.Catalog
}

// NewStore builds an empty store with the given hidden-category set.
func NewStore(hidden models.HiddenCategories) *Store {
	return &Store{
		entries:  make(map[string]Entry),
		selected: make(map[string]struct{}),
		hidden:   hidden,
	}
}

// SetCatalog installs the claim's required-type catalog. The store keeps its
// own copy so uploaded flags can be adjusted locally without refetching.
func (s *Store) SetCatalog(catalog models.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append(models.Catalog(nil), catalog...)
}

// Catalog returns a copy of the store's catalog with its current flags.
func (s *Store) Catalog() models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(models.Catalog(nil), s.catalog...)
}

// SetUploaded adjusts the uploaded flag on one catalog entry.
func (s *Store) SetUploaded(code string, uploaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.catalog {
		if s.catalog[i].Code == code {
			s.catalog[i].Uploaded = uploaded
		}
	}
}

// HasPersistedInCategory reports whether any persisted entry other than
// excludeID still carries the category code.
func (s *Store) HasPersistedInCategory(code, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		e := s.entries[id]
		if e.Persisted == nil || e.Persisted.ID == excludeID {
			continue
		}
		if e.Persisted.CategoryCode == code {
			return true
		}
	}
	return false
}

// PutPersisted inserts or updates a server-backed entry.
func (s *Store) PutPersisted(doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(Entry{Persisted: doc})
}

// PutPending inserts or updates a staged entry.
func (s *Store) PutPending(pf *PendingFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(Entry{Pending: pf})
}

func (s *Store) put(e Entry) {
	id := e.ID()
	if _, exists := s.entries[id]; !exists {
		s.order = append(s.order, id)
	}
	s.entries[id] = e
}

// Promote replaces a pending entry with the persisted document the server
// returned for it. The entry keeps its slot in insertion order; the selection
// follows the id swap.
func (s *Store) Promote(pendingID string, doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[pendingID]; !ok {
		s.put(Entry{Persisted: doc})
		return
	}
	delete(s.entries, pendingID)
	s.entries[doc.ID] = Entry{Persisted: doc}
	for i, id := range s.order {
		if id == pendingID {
			s.order[i] = doc.ID
			break
		}
	}
	if _, sel := s.selected[pendingID]; sel {
		delete(s.selected, pendingID)
		s.selected[doc.ID] = struct{}{}
	}
}

// Get returns the entry for an id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Remove drops an entry and its selection mark. It returns the removed entry
// so callers can release any resources it held.
func (s *Store) Remove(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	delete(s.entries, id)
	delete(s.selected, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return e, true
}

// Len returns the total entry count, hidden included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Visible returns the entries the document browser shows: persisted entries
// first, then pending ones, each group in insertion order, with entries in
// hidden categories filtered out. Every call prunes the selection down to
// the visible set, so a selection can never reference a document the user
// cannot see.
func (s *Store) Visible(r *Resolver) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked(r)
}

func (s *Store) visibleLocked(r *Resolver) []Entry {
	var persisted, pending []Entry
	for _, id := range s.order {
		e := s.entries[id]
		if s.hidden.Contains(e.Category(r).DisplayName()) {
			continue
		}
		if e.IsPersisted() {
			persisted = append(persisted, e)
		} else {
			pending = append(pending, e)
		}
	}
	visible := append(persisted, pending...)

	if len(s.selected) > 0 {
		keep := make(map[string]struct{}, len(visible))
		for _, e := range visible {
			keep[e.ID()] = struct{}{}
		}
		for id := range s.selected {
			if _, ok := keep[id]; !ok {
				delete(s.selected, id)
			}
		}
	}
	return visible
}

// Flattened projects every entry into the flat form the claim form consumes
// and submits, persisted entries first. Hiding is a browser concern only, so
// documents in hidden categories still appear here; the submitted list
// carries every file the claim owns.
func (s *Store) Flattened(r *Resolver) []UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	var persisted, pending []UploadedFile
	for _, id := range s.order {
		e := s.entries[id]
		if e.IsPersisted() {
			persisted = append(persisted, flatten(e, r))
		} else {
			pending = append(pending, flatten(e, r))
		}
	}
	return append(persisted, pending...)
}

func flatten(e Entry, r *Resolver) UploadedFile {
	cat := e.Category(r)
	if d := e.Persisted; d != nil {
		return UploadedFile{
			ID:           d.ID,
			Name:         d.FileName,
			Size:         d.Size,
			Kind:         KindForContentType(d.ContentType),
			UploadedAt:   d.CreatedAt,
			URL:          d.DownloadURL,
			CloudURL:     d.CloudURL,
			Category:     cat.DisplayName(),
			CategoryCode: cat.Code,
			Description:  d.Description,
		}
	}
	p := e.Pending
	return UploadedFile{
		ID:           p.ID,
		Name:         p.Name,
		Size:         p.Size,
		Kind:         p.Kind,
		UploadedAt:   p.AddedAt,
		URL:          p.ObjectURL,
		Category:     cat.DisplayName(),
		CategoryCode: cat.Code,
		Description:  p.Description,
	}
}

// Sections groups the visible entries by category. The section list is a
// union: the catch-all bucket is always present, catalog entries flagged
// uploaded keep their section even when no document is locally visible, and
// every category seen on a visible entry gets one. Catalog categories come
// first in catalog order, then raw categories in first-seen order, with the
// catch-all bucket last.
func (s *Store) Sections(r *Resolver) []Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible := s.visibleLocked(r)

	byKey := make(map[string]*Section)
	var keys []string
	section := func(cat models.Category) *Section {
		key := sectionKey(cat)
		sec, ok := byKey[key]
		if !ok {
			sec = &Section{Category: cat}
			byKey[key] = sec
			keys = append(keys, key)
		}
		return sec
	}

	section(models.OtherCategory())
	for _, t := range s.catalog {
		if t.Uploaded && !s.hidden.Contains(t.Name) {
			section(models.KnownCategory(t.Code, t.Name))
		}
	}
	for _, e := range visible {
		sec := section(e.Category(r))
		sec.Entries = append(sec.Entries, e)
	}

	rank := func(key string) (int, int) {
		sec := byKey[key]
		switch sec.Category.Kind {
		case models.CategoryKnown:
			for i, t := range s.catalog {
				if t.Code == sec.Category.Code {
					return 0, i
				}
			}
			return 1, 0
		case models.CategoryRaw:
			return 1, 0
		default:
			return 2, 0
		}
	}
	firstSeen := make(map[string]int, len(keys))
	for i, k := range keys {
		firstSeen[k] = i
	}
	sort.SliceStable(keys, func(i, j int) bool {
		gi, oi := rank(keys[i])
		gj, oj := rank(keys[j])
		if gi != gj {
			return gi < gj
		}
		if oi != oj {
			return oi < oj
		}
		return firstSeen[keys[i]] < firstSeen[keys[j]]
	})

	out := make([]Section, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}

func sectionKey(c models.Category) string {
	if c.Kind == models.CategoryOther {
		return "\x00other"
	}
	if c.Code != "" {
		return "c:" + c.Code
	}
	return "n:" + c.Name
}

// Select marks an entry as selected. Unknown ids are ignored.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; ok {
		s.selected[id] = struct{}{}
	}
}

// Deselect clears one selection mark.
func (s *Store) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// ToggleSelect flips one selection mark.
func (s *Store) ToggleSelect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	if _, ok := s.entries[id]; ok {
		s.selected[id] = struct{}{}
	}
}

// ClearSelection drops all selection marks.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// SelectAllVisible selects every currently visible entry.
func (s *Store) SelectAllVisible(r *Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.visibleLocked(r) {
		s.selected[e.ID()] = struct{}{}
	}
}

// IsSelected reports whether an entry is selected.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// Selected returns the selected entries in visible order.
func (s *Store) Selected(r *Resolver) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for _, e := range s.visibleLocked(r) {
		if _, ok := s.selected[e.ID()]; ok {
			out = append(out, e)
		}
	}
	return out
}

// SelectionCount returns the number of selected entries.
func (s *Store) SelectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}
