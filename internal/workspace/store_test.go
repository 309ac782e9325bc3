package workspace

import (
	"testing"

	"claimdocs/internal/domain/models"
)

func TestStoreVisibleOrdering(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	r := NewResolver(testCatalog())

	first := stagedFile("draft.pdf", "EST", "Estimate")
	s.PutPending(first)
	doc1 := persistedDoc("estimate.pdf", "EST", "Estimate")
	doc2 := persistedDoc("photo.jpg", "PHO", "Photos")
	s.PutPersisted(doc1)
	s.PutPersisted(doc2)

	visible := s.Visible(r)
	if len(visible) != 3 {
		t.Fatalf("visible count = %d, want 3", len(visible))
	}
	// persisted entries come first even when a pending one was added earlier
	if !visible[0].IsPersisted() || !visible[1].IsPersisted() {
		t.Errorf("persisted entries must sort before pending ones")
	}
	if visible[0].ID() != doc1.ID || visible[1].ID() != doc2.ID {
		t.Errorf("persisted entries out of insertion order")
	}
	if visible[2].ID() != first.ID {
		t.Errorf("pending entry missing from the tail")
	}
}

func TestStoreHiddenCategoriesNeverVisible(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	r := NewResolver(testCatalog())

	s.PutPersisted(persistedDoc("estimate.pdf", "EST", "Estimate"))
	s.PutPersisted(persistedDoc("decision.pdf", "", "Decisions"))
	s.PutPersisted(persistedDoc("appeal.pdf", "", "appeals")) // casing differs on old rows
	s.PutPersisted(persistedDoc("settlement.pdf", "", "Settlements"))

	visible := s.Visible(r)
	if len(visible) != 1 {
		t.Fatalf("visible count = %d, want 1", len(visible))
	}
	if visible[0].Persisted.FileName != "estimate.pdf" {
		t.Errorf("wrong survivor: %s", visible[0].Persisted.FileName)
	}
	if s.Len() != 4 {
		t.Errorf("hidden documents must stay in the store, Len = %d", s.Len())
	}
}

func TestStoreUnmappedCategoryStillRenders(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	r := NewResolver(testCatalog())

	s.PutPersisted(persistedDoc("tow.pdf", "TOW", ""))

	visible := s.Visible(r)
	if len(visible) != 1 {
		t.Fatalf("unmapped category dropped from visible list")
	}
	cat := visible[0].Category(r)
	if cat.Kind != models.CategoryRaw {
		t.Errorf("category kind = %v, want raw", cat.Kind)
	}
	if cat.DisplayName() != "TOW" {
		t.Errorf("display name = %q, want raw code", cat.DisplayName())
	}
}

func TestStoreSections(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	s.SetCatalog(testCatalog())
	r := NewResolver(testCatalog())

	s.PutPersisted(persistedDoc("misc.pdf", "", ""))
	s.PutPersisted(persistedDoc("photo.jpg", "PHO", "Photos"))
	s.PutPersisted(persistedDoc("tow.pdf", "TOW", "Towing"))
	s.PutPersisted(persistedDoc("estimate.pdf", "EST", "Estimate"))

	sections := s.Sections(r)
	var got []string
	for _, sec := range sections {
		got = append(got, sec.Category.DisplayName())
	}
	want := []string{"Estimate", "Photos", "Towing", models.OtherCategoryName}
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStoreSectionsUnion(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	s.SetCatalog(models.Catalog{
		{Code: "EST", Name: "Estimate", Uploaded: true},
		{Code: "POL", Name: "Police Report"},
		{Code: "APP", Name: "Appeals", Uploaded: true},
	})
	r := NewResolver(nil)

	// one visible document in a category the catalog does not know
	s.PutPersisted(persistedDoc("photo.jpg", "", "Photos"))

	sections := s.Sections(r)
	var got []string
	for _, sec := range sections {
		got = append(got, sec.Category.DisplayName())
	}
	// uploaded catalog entries and the catch-all render even when empty;
	// unflagged and hidden catalog entries do not
	want := []string{"Estimate", "Photos", models.OtherCategoryName}
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if n := len(sections[0].Entries); n != 0 {
		t.Errorf("Estimate entries = %d, want empty section", n)
	}
	if n := len(sections[1].Entries); n != 1 {
		t.Errorf("Photos entries = %d, want 1", n)
	}
}

func TestStoreSelectionPrunedToVisible(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	r := NewResolver(testCatalog())

	docA := persistedDoc("a.pdf", "EST", "Estimate")
	docB := persistedDoc("b.pdf", "PHO", "Photos")
	docC := persistedDoc("c.pdf", "PHO", "Photos")
	s.PutPersisted(docA)
	s.PutPersisted(docB)
	s.PutPersisted(docC)
	s.Select(docA.ID)
	s.Select(docB.ID)
	s.Select(docC.ID)

	// removing one id leaves the selection equal to S \ {x}
	s.Remove(docB.ID)
	s.Visible(r)
	if s.SelectionCount() != 2 {
		t.Fatalf("selection count = %d, want 2", s.SelectionCount())
	}
	if s.IsSelected(docB.ID) {
		t.Errorf("removed id still selected")
	}

	// a selected document moving into a hidden category is pruned too
	docC.Category = "Decisions"
	docC.CategoryCode = ""
	s.PutPersisted(docC)
	s.Visible(r)
	if s.IsSelected(docC.ID) {
		t.Errorf("hidden document still selected")
	}
	if s.SelectionCount() != 1 {
		t.Errorf("selection count = %d, want 1", s.SelectionCount())
	}
}

func TestStorePromote(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	r := NewResolver(testCatalog())

	pf := stagedFile("draft.pdf", "EST", "Estimate")
	s.PutPending(pf)
	s.Select(pf.ID)

	doc := persistedDoc("draft.pdf", "EST", "Estimate")
	s.Promote(pf.ID, doc)

	if _, ok := s.Get(pf.ID); ok {
		t.Errorf("pending entry still present after promote")
	}
	e, ok := s.Get(doc.ID)
	if !ok || !e.IsPersisted() {
		t.Fatalf("promoted entry missing")
	}
	if !s.IsSelected(doc.ID) {
		t.Errorf("selection did not follow the id swap")
	}
	if got := len(s.Visible(r)); got != 1 {
		t.Errorf("visible count = %d, want 1", got)
	}
}

func TestStoreFlattened(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	r := NewResolver(testCatalog())

	doc := persistedDoc("estimate.pdf", "EST", "")
	doc.Description = "front bumper estimate"
	doc.DeriveView("/api")
	s.PutPersisted(doc)
	pf := stagedFile("photo.jpg", "PHO", "Photos")
	s.PutPending(pf)

	flat := s.Flattened(r)
	if len(flat) != 2 {
		t.Fatalf("flattened count = %d, want 2", len(flat))
	}
	if flat[0].ID != doc.ID || flat[0].Category != "Estimate" || flat[0].CategoryCode != "EST" {
		t.Errorf("persisted projection wrong: %+v", flat[0])
	}
	if flat[0].Description != "front bumper estimate" {
		t.Errorf("description lost in projection")
	}
	if flat[1].ID != pf.ID || flat[1].Category != "Photos" {
		t.Errorf("pending projection wrong: %+v", flat[1])
	}
}

func TestStoreFlattenedIncludesHiddenDocuments(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	r := NewResolver(testCatalog())

	s.PutPersisted(persistedDoc("estimate.pdf", "EST", "Estimate"))
	hidden := persistedDoc("decision.pdf", "", "Decisions")
	s.PutPersisted(hidden)

	if got := len(s.Visible(r)); got != 1 {
		t.Fatalf("visible count = %d, want 1", got)
	}
	// the submitted list still carries the hidden document
	flat := s.Flattened(r)
	if len(flat) != 2 {
		t.Fatalf("flattened count = %d, want every entry", len(flat))
	}
	var found bool
	for _, f := range flat {
		if f.ID == hidden.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("hidden document missing from the flattened projection")
	}
}

func TestIsPersistedID(t *testing.T) {
	if !IsPersistedID(testEventID) {
		t.Errorf("GUID-shaped id must read as persisted")
	}
	if IsPersistedID(newPendingID()) {
		t.Errorf("client token must not read as persisted")
	}
}

func TestStoreUploadedFlags(t *testing.T) {
	s := NewStore(models.DefaultHiddenCategories())
	s.SetCatalog(testCatalog())

	s.SetUploaded("EST", true)
	catalog := s.Catalog()
	name, _ := catalog.NameForCode("EST")
	if name != "Estimate" {
		t.Fatalf("catalog lost its entries")
	}
	for _, entry := range catalog {
		want := entry.Code == "EST"
		if entry.Uploaded != want {
			t.Errorf("%s uploaded = %v, want %v", entry.Code, entry.Uploaded, want)
		}
	}
}
