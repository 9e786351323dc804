package datatable

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode"
)

// SortKey orders rows by one column.
type SortKey struct {
	Column string
	Desc   bool
}

// SortState is an ordered list of sort keys with at most one key per column.
// An empty state keeps the input order.
type SortState []SortKey

// Direction returns the sort direction of a column: "asc", "desc" or "".
func (s SortState) Direction(column string) string {
	for _, k := range s {
		if k.Column == column {
			if k.Desc {
				return "desc"
			}
			return "asc"
		}
	}
	return ""
}

// Set returns the state with column sorted in the given direction. Without
// multi the column becomes the only key; with multi an existing key for the
// column is updated in place and a new one is appended.
func (s SortState) Set(column string, desc, multi bool) SortState {
	if !multi {
		return SortState{{Column: column, Desc: desc}}
	}
	out := slices.Clone(s)
	for i := range out {
		if out[i].Column == column {
			out[i].Desc = desc
			return out
		}
	}
	return append(out, SortKey{Column: column, Desc: desc})
}

// Remove returns the state without the column's key.
func (s SortState) Remove(column string) SortState {
	return slices.DeleteFunc(slices.Clone(s), func(k SortKey) bool { return k.Column == column })
}

// Toggle cycles a column through ascending, descending and unsorted.
func (s SortState) Toggle(column string, multi bool) SortState {
	switch s.Direction(column) {
	case "":
		return s.Set(column, false, multi)
	case "asc":
		return s.Set(column, true, multi)
	default:
		return s.Remove(column)
	}
}

// Normalize drops repeated keys for a column, keeping the first.
func (s SortState) Normalize() SortState {
	seen := make(map[string]bool, len(s))
	out := make(SortState, 0, len(s))
	for _, k := range s {
		if k.Column == "" || seen[k.Column] {
			continue
		}
		seen[k.Column] = true
		out = append(out, k)
	}
	return out
}

// SortRows sorts rows in place by state. Keys naming unknown or non-sortable
// columns are ignored. The sort is stable, so ties keep insertion order.
func SortRows[R any](rows []R, state SortState, columns Columns[R]) {
	type key struct {
		cmp  func(a, b R) int
		desc bool
	}

	var keys []key
	for _, k := range state.Normalize() {
		c, ok := columns.Find(k.Column)
		if !ok || !c.Sortable {
			continue
		}
		compare := c.Compare
		if compare == nil {
			compare = func(a, b R) int { return CompareValues(c.Value(a), c.Value(b)) }
		}
		keys = append(keys, key{cmp: compare, desc: k.Desc})
	}
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(rows, func(a, b R) int {
		for _, k := range keys {
			c := k.cmp(a, b)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

// CompareValues orders two cell values. nil sorts before everything; numbers,
// times and booleans compare by value; everything else compares by display
// text in natural order.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}
	return NaturalCompare(Display(a), Display(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// NaturalCompare compares strings case-insensitively, treating runs of digits
// as numbers so "Tower 2" sorts before "Tower 10".
func NaturalCompare(a, b string) int {
	ar, br := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		if unicode.IsDigit(ar[i]) && unicode.IsDigit(br[j]) {
			si := i
			for i < len(ar) && unicode.IsDigit(ar[i]) {
				i++
			}
			sj := j
			for j < len(br) && unicode.IsDigit(br[j]) {
				j++
			}
			na := strings.TrimLeft(string(ar[si:i]), "0")
			nb := strings.TrimLeft(string(br[sj:j]), "0")
			if c := cmp.Compare(len(na), len(nb)); c != 0 {
				return c
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}
		if c := cmp.Compare(ar[i], br[j]); c != 0 {
			return c
		}
		i++
		j++
	}
	if c := cmp.Compare(len(ar)-i, len(br)-j); c != 0 {
		return c
	}
	// Equal ignoring case: fall back to a case-sensitive order for determinism.
	return strings.Compare(a, b)
}
