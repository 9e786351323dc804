package datatable

import "slices"

// FilterState is the free-text query plus the facet selections of a table.
type FilterState struct {
	Query  string
	Facets FacetState
}

// Empty reports whether the filter matches every row.
func (f FilterState) Empty() bool {
	return f.Query == "" && !f.Facets.Active()
}

// Clone returns an independent copy.
func (f FilterState) Clone() FilterState {
	return FilterState{Query: f.Query, Facets: f.Facets.Clone()}
}

// Compile turns a filter state into a pure row predicate. Facets are ANDed
// across columns and ORed within one column. Facet selections on columns with
// no facet definition fall back to the column's display text; selections on
// unknown columns are ignored.
func Compile[R any](f FilterState, global FilterFunc[R], columns Columns[R], facets []Facet[R]) func(R) bool {
	type check struct {
		value    func(R) (string, bool)
		selected []string
	}

	var checks []check
	for col, selected := range f.Facets {
		if len(selected) == 0 {
			continue
		}
		if i := slices.IndexFunc(facets, func(fc Facet[R]) bool { return fc.Column == col }); i >= 0 {
			checks = append(checks, check{value: facets[i].Value, selected: selected})
			continue
		}
		if c, ok := columns.Find(col); ok {
			checks = append(checks, check{
				value: func(r R) (string, bool) {
					s := c.Text(r)
					return s, s != ""
				},
				selected: selected,
			})
		}
	}

	query := f.Query
	return func(r R) bool {
		if global != nil && query != "" && !global(r, query) {
			return false
		}
		for _, ch := range checks {
			v, ok := ch.value(r)
			if !ok || !slices.Contains(ch.selected, v) {
				return false
			}
		}
		return true
	}
}
