package datatable

import (
	"slices"
	"strings"
)

// Facet derives a filter dimension from one column.
type Facet[R any] struct {
	// Column is the column id the facet filters.
	Column string
	// Label is shown on the facet popover; defaults to Column.
	Label string
	// Value reads the facet value of a row; ok is false when the row has none.
	Value func(R) (string, bool)
}

// FieldFacet builds a facet from a typed accessor. Rows whose accessor yields
// nil or an empty display string carry no facet value.
func FieldFacet[R any](column string, accessor func(R) any) Facet[R] {
	return Facet[R]{
		Column: column,
		Value: func(r R) (string, bool) {
			v := accessor(r)
			if v == nil {
				return "", false
			}
			s := Display(v)
			return s, s != ""
		},
	}
}

// PathFacet builds a facet from an accessor key. With nested set the key is
// split at its first dot: the first segment projects a sub-object and the rest
// names the field read from it, e.g. "role.name". Without nested the key names
// a top-level field.
func PathFacet[R any](column, key string, nested bool) Facet[R] {
	return Facet[R]{
		Column: column,
		Value: func(r R) (string, bool) {
			var (
				v  any
				ok bool
			)
			if nested {
				head, field, found := strings.Cut(key, ".")
				if !found {
					return "", false
				}
				var sub any
				if sub, ok = ResolvePath(r, head); !ok {
					return "", false
				}
				v, ok = ResolvePath(sub, field)
			} else {
				v, ok = resolveTopLevel(r, key)
			}
			if !ok || v == nil {
				return "", false
			}
			s := Display(v)
			return s, s != ""
		},
	}
}

func resolveTopLevel(v any, key string) (any, bool) {
	if strings.Contains(key, ".") {
		return nil, false
	}
	return ResolvePath(v, key)
}

// FacetValues returns the distinct values of a facet across rows in natural
// order. Rows without a value are skipped.
func FacetValues[R any](rows []R, facet Facet[R]) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if v, ok := facet.Value(r); ok {
			seen[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	slices.SortFunc(values, NaturalCompare)
	return values
}

// SearchFacetValues returns the values containing search, ignoring case.
func SearchFacetValues(values []string, search string) []string {
	search = strings.TrimSpace(search)
	if search == "" {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if ContainsFold(v, search) {
			out = append(out, v)
		}
	}
	return out
}

// FacetState holds the selected values per facet column.
type FacetState map[string][]string

// Selected returns the selected values of a column.
func (s FacetState) Selected(column string) []string {
	return s[column]
}

// IsSelected reports whether value is selected on column.
func (s FacetState) IsSelected(column, value string) bool {
	return slices.Contains(s[column], value)
}

// Active reports whether any facet has a selection.
func (s FacetState) Active() bool {
	for _, vs := range s {
		if len(vs) > 0 {
			return true
		}
	}
	return false
}

// Set replaces the selection of a column. An empty selection clears it.
func (s *FacetState) Set(column string, values []string) {
	if *s == nil {
		*s = FacetState{}
	}
	clean := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" && !slices.Contains(clean, v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		delete(*s, column)
		return
	}
	(*s)[column] = clean
}

// Toggle adds value to the column's selection, or removes it when present.
func (s *FacetState) Toggle(column, value string) {
	current := s.Selected(column)
	if i := slices.Index(current, value); i >= 0 {
		s.Set(column, slices.Delete(slices.Clone(current), i, i+1))
		return
	}
	s.Set(column, append(slices.Clone(current), value))
}

// Clear removes the selection of a column, or of every column when column is empty.
func (s *FacetState) Clear(column string) {
	if column == "" {
		*s = FacetState{}
		return
	}
	delete(*s, column)
}

// Clone returns an independent copy.
func (s FacetState) Clone() FacetState {
	out := make(FacetState, len(s))
	for k, v := range s {
		out[k] = slices.Clone(v)
	}
	return out
}
