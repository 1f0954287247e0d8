// Package pipeline turns raw provider records into the canonical transaction
// table: category resolution, per-record normalization and table assembly.
package pipeline

import "fjacquet/up-budget/internal/models"

// Resolver maps category ids to display names.
type Resolver struct {
	names map[string]string
}

// NewResolver indexes the category listing by id. Later duplicates win.
func NewResolver(categories []models.RawCategory) *Resolver {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return &Resolver{names: names}
}

// Resolve returns the category name, or models.CategoryUncategorized when the
// id is empty or unknown.
func (r *Resolver) Resolve(categoryID string) string {
	if categoryID == "" {
		return models.CategoryUncategorized
	}
	if name, ok := r.names[categoryID]; ok {
		return name
	}
	return models.CategoryUncategorized
}

// Len returns the number of known categories.
func (r *Resolver) Len() int {
	return len(r.names)
}
