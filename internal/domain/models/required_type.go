package models

// RequiredDocumentType is one catalog entry describing a document category a
// claim may need. Uploaded reports whether at least one document currently
// exists in that category for the claim the catalog was resolved against.
type RequiredDocumentType struct {
	Code       string `json:"code" db:"code"`
	Name       string `json:"name" db:"name"`
	ObjectType string `json:"objectType" db:"object_type"`
	Required   bool   `json:"required" db:"required"`
	SortOrder  int    `json:"sortOrder" db:"sort_order"`

	// Derived per claim, not stored
	Uploaded bool `json:"uploaded"`
}

// Catalog is the required-document-type list for one claim object type.
type Catalog []RequiredDocumentType

// NameForCode returns the display name for a code and whether the code is in
// the catalog.
func (c Catalog) NameForCode(code string) (string, bool) {
	for _, t := range c {
		if t.Code == code {
			return t.Name, true
		}
	}
	return "", false
}

// CodeForName returns the code for a display name and whether the name is in
// the catalog.
func (c Catalog) CodeForName(name string) (string, bool) {
	for _, t := range c {
		if t.Name == name {
			return t.Code, true
		}
	}
	return "", false
}
