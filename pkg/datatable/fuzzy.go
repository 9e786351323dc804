package datatable

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxGap is the number of target characters allowed between two
// consecutive query characters before a fuzzy match is rejected.
const DefaultMaxGap = 3

// FuzzyMatch reports whether every character of query appears in target, in
// order and case-insensitively, with at most maxGap target characters skipped
// between consecutive matched characters. The first query character may match
// anywhere. An empty query matches every target.
func FuzzyMatch(target, query string, maxGap int) bool {
	if query == "" {
		return true
	}
	if maxGap < 0 {
		maxGap = 0
	}

	t := []rune(strings.ToLower(target))
	q := []rune(strings.ToLower(query))
	if len(q) > len(t) {
		return false
	}

	// reach[j] marks positions in t where q[:i+1] can end.
	reach := make([]bool, len(t))
	found := false
	for j, r := range t {
		if r == q[0] {
			reach[j] = true
			found = true
		}
	}

	for i := 1; i < len(q) && found; i++ {
		next := make([]bool, len(t))
		found = false
		last := -1 // most recent reachable position before j
		for j := range t {
			if last >= 0 && t[j] == q[i] && j-last-1 <= maxGap {
				next[j] = true
				found = true
			}
			if reach[j] {
				last = j
			}
		}
		reach = next
	}
	return found
}

// ContainsFold reports whether s contains substr, ignoring case.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	if utf8.RuneCountInString(substr) > utf8.RuneCountInString(s) {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// FilterFunc decides whether a row belongs to the filtered set.
type FilterFunc[R any] func(row R, query string) bool

// GlobalFilter returns the free-text predicate used by list screens: a row
// matches when any searchable column fuzzy-matches the query, or when its id
// contains the raw query as a case-insensitive substring.
func GlobalFilter[R Row](columns Columns[R], maxGap int) FilterFunc[R] {
	searchable := columns.Searchable()
	return func(row R, query string) bool {
		trimmed := strings.TrimSpace(query)
		if trimmed == "" {
			return true
		}
		if ContainsFold(row.RowID(), query) {
			return true
		}
		for _, c := range searchable {
			if FuzzyMatch(c.Text(row), trimmed, maxGap) {
				return true
			}
		}
		return false
	}
}
