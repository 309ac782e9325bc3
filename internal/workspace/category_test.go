package workspace

import (
	"testing"

	"claimdocs/internal/domain/models"
)

func testCatalog() models.Catalog {
	return models.Catalog{
		{Code: "EST", Name: "Estimate", ObjectType: "vehicle", Required: true, SortOrder: 1},
		{Code: "PHO", Name: "Photos", ObjectType: "vehicle", Required: true, SortOrder: 2},
		{Code: "POL", Name: "Police Report", ObjectType: "vehicle", SortOrder: 3},
	}
}

func TestResolverName(t *testing.T) {
	r := NewResolver(testCatalog())

	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "known code", code: "EST", want: "Estimate"},
		{name: "unknown code resolves to itself", code: "XYZ", want: "XYZ"},
		{name: "empty code resolves to catch-all", code: "", want: models.OtherCategoryName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Name(tt.code); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestResolverCode(t *testing.T) {
	r := NewResolver(testCatalog())

	tests := []struct {
		name     string
		category string
		want     string
	}{
		{name: "known name", category: "Estimate", want: "EST"},
		{name: "known name case-insensitive", category: "estimate", want: "EST"},
		{name: "unknown name resolves to itself", category: "Towing", want: "Towing"},
		{name: "catch-all name resolves to empty code", category: models.OtherCategoryName, want: ""},
		{name: "empty name resolves to empty code", category: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Code(tt.category); got != tt.want {
				t.Errorf("Code(%q) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}
}

func TestResolverRoundTrip(t *testing.T) {
	r := NewResolver(testCatalog())

	// catalog categories survive name -> code -> name unchanged
	for _, entry := range testCatalog() {
		if got := r.Name(r.Code(entry.Name)); got != entry.Name {
			t.Errorf("round trip of %q = %q", entry.Name, got)
		}
	}

	// categories absent from the catalog fall back to identity
	if got := r.Name(r.Code("Towing")); got != "Towing" {
		t.Errorf("round trip of unmapped category = %q, want identity", got)
	}
}

func TestResolverObserve(t *testing.T) {
	r := NewResolver(testCatalog())
	r.Observe("TOW", "Towing")

	if got := r.Name("TOW"); got != "Towing" {
		t.Errorf("Name(TOW) = %q after observe, want Towing", got)
	}
	if got := r.Code("Towing"); got != "TOW" {
		t.Errorf("Code(Towing) = %q after observe, want TOW", got)
	}

	// catalog mappings win over later observations
	r.Observe("EST", "Something Else")
	if got := r.Name("EST"); got != "Estimate" {
		t.Errorf("Name(EST) = %q, catalog mapping should win", got)
	}
}
