package models

import "strings"

// CategoryKind tags how a category identity was resolved.
type CategoryKind int

const (
	// CategoryKnown is a category that exists in the required-document-type
	// catalog and carries both a code and a display name.
	CategoryKnown CategoryKind = iota

	// CategoryRaw is a category observed on a document but absent from the
	// catalog. It carries the original string for both code and name so
	// unmapped categories stay representable instead of being dropped.
	CategoryRaw

	// CategoryOther is the catch-all bucket for documents with no category
	// at all.
	CategoryOther
)

// OtherCategoryName is the display label of the catch-all category.
const OtherCategoryName = "Other documents"

// Category is a resolved category identity. Construct via KnownCategory,
// RawCategory or OtherCategory rather than ad hoc string comparison.
type Category struct {
	Kind CategoryKind
	Code string
	Name string
}

func KnownCategory(code, name string) Category {
	return Category{Kind: CategoryKnown, Code: code, Name: name}
}

func RawCategory(s string) Category {
	return Category{Kind: CategoryRaw, Code: s, Name: s}
}

func OtherCategory() Category {
	return Category{Kind: CategoryOther, Code: "", Name: OtherCategoryName}
}

// DisplayName returns the label the category renders under.
func (c Category) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Code != "" {
		return c.Code
	}
	return OtherCategoryName
}

// HiddenCategories is the set of category names excluded from the generic
// document browser because they have dedicated UI elsewhere.
type HiddenCategories map[string]struct{}

// DefaultHiddenCategories returns the standard hidden set.
func DefaultHiddenCategories() HiddenCategories {
	return NewHiddenCategories("Decisions", "Appeals", "Client claims", "Settlements")
}

// NewHiddenCategories builds a hidden set from category names.
func NewHiddenCategories(names ...string) HiddenCategories {
	h := make(HiddenCategories, len(names))
	for _, n := range names {
		h[strings.ToLower(n)] = struct{}{}
	}
	return h
}

// Contains reports whether the category name is hidden. Matching is
// case-insensitive because the backing rows mix historical casings.
func (h HiddenCategories) Contains(name string) bool {
	_, ok := h[strings.ToLower(name)]
	return ok
}
