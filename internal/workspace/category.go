package workspace

import (
	"strings"
	"sync"

	"claimdocs/internal/domain/models"
)

// Resolver maps between category codes and display names. Both directions
// fall back to the input when no mapping is known, so round-tripping an
// unknown value returns it unchanged, and an empty input resolves to the
// catch-all category.
type Resolver struct {
	mu         sync.RWMutex
	codeToName map[string]string
	nameToCode map[string]string
}

// NewResolver builds a resolver from the required-type catalog. Additional
// pairs observed on fetched documents are merged in with Observe.
func NewResolver(catalog models.Catalog) *Resolver {
	r := &Resolver{
		codeToName: make(map[string]string, len(catalog)),
		nameToCode: make(map[string]string, len(catalog)),
	}
	for _, t := range catalog {
		r.put(t.Code, t.Name)
	}
	return r
}

func (r *Resolver) put(code, name string) {
	if code == "" || name == "" {
		return
	}
	r.codeToName[code] = name
	r.nameToCode[strings.ToLower(name)] = code
}

// Observe records a code/name pair seen on a fetched document. Catalog
// entries win over observed pairs.
func (r *Resolver) Observe(code, name string) {
	if code == "" || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codeToName[code]; !ok {
		r.codeToName[code] = name
	}
	if _, ok := r.nameToCode[strings.ToLower(name)]; !ok {
		r.nameToCode[strings.ToLower(name)] = code
	}
}

// Name resolves a category code to its display name. Unknown codes resolve
// to themselves; the empty code resolves to the catch-all category name.
func (r *Resolver) Name(code string) string {
	if code == "" {
		return models.OtherCategoryName
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.codeToName[code]; ok {
		return name
	}
	return code
}

// Code resolves a display name back to its category code. Unknown names
// resolve to themselves; the catch-all name and the empty name resolve to
// the empty code.
func (r *Resolver) Code(name string) string {
	if name == "" || strings.EqualFold(name, models.OtherCategoryName) {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if code, ok := r.nameToCode[strings.ToLower(name)]; ok {
		return code
	}
	return name
}
