package datatable

import (
	"maps"
	"slices"
)

// SelectionPolicy controls what happens to selected rows when the page changes.
type SelectionPolicy int

const (
	// SelectionPerPage clears the selection whenever the visible page changes.
	SelectionPerPage SelectionPolicy = iota
	// SelectionPersist keeps selected ids across page and filter changes.
	SelectionPersist
)

// PolicyFor maps the keep-selection setting to a policy.
func PolicyFor(keep bool) SelectionPolicy {
	if keep {
		return SelectionPersist
	}
	return SelectionPerPage
}

// Selection is a set of selected row ids.
type Selection map[string]struct{}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips the selection of id.
func (s Selection) Toggle(id string) {
	if s.Has(id) {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	return maps.Clone(s)
}

// Visible returns the subset of the selection present in rows.
func Visible[R Row](s Selection, rows []R) Selection {
	out := make(Selection)
	for _, r := range rows {
		if s.Has(r.RowID()) {
			out[r.RowID()] = struct{}{}
		}
	}
	return out
}
