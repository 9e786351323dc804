// Package urlstate binds table state to URL query parameters.
package urlstate

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Codec maps a page request onto query parameters. Every parameter that is
// not one of the reserved keys is a facet column.
type Codec struct {
	PageKey  string
	SizeKey  string
	QueryKey string
	SortKey  string
}

var (
	// Browser is the codec of the admin screens' address bar.
	Browser = Codec{PageKey: "page", SizeKey: "size", QueryKey: "query", SortKey: "sort"}
	// API is the codec of the JSON list endpoints.
	API = Codec{PageKey: "page", SizeKey: "limit", QueryKey: "query", SortKey: "sort"}
)

func (c Codec) reserved(key string) bool {
	return key == c.PageKey || key == c.SizeKey || key == c.QueryKey || key == c.SortKey
}

// Encode renders a request as query parameters. Zero values are omitted.
func (c Codec) Encode(req datatable.PageRequest) url.Values {
	v := url.Values{}
	if req.Page > 1 {
		v.Set(c.PageKey, strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		v.Set(c.SizeKey, strconv.Itoa(req.Limit))
	}
	if req.Query != "" {
		v.Set(c.QueryKey, req.Query)
	}
	for _, key := range req.Sort.Normalize() {
		v.Add(c.SortKey, FormatSortKey(key))
	}
	for col, values := range req.Facets {
		if c.reserved(col) {
			continue
		}
		for _, value := range values {
			v.Add(col, value)
		}
	}
	return v
}

// Decode parses query parameters into a request. Malformed numbers fall back
// to zero; unknown sort directions are ascending.
func (c Codec) Decode(v url.Values) datatable.PageRequest {
	req := datatable.PageRequest{
		Page:   atoi(v.Get(c.PageKey)),
		Limit:  atoi(v.Get(c.SizeKey)),
		Query:  v.Get(c.QueryKey),
		Facets: datatable.FacetState{},
	}
	for _, raw := range v[c.SortKey] {
		// accept both repeated parameters and comma-separated lists
		for _, part := range strings.Split(raw, ",") {
			if key, ok := ParseSortKey(part); ok {
				req.Sort = append(req.Sort, key)
			}
		}
	}
	req.Sort = req.Sort.Normalize()

	keys := make([]string, 0, len(v))
	for key := range v {
		if !c.reserved(key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	for _, key := range keys {
		req.Facets.Set(key, v[key])
	}
	return req
}

// FormatSortKey renders a sort key as "column:asc" or "column:desc".
func FormatSortKey(k datatable.SortKey) string {
	if k.Desc {
		return k.Column + ":desc"
	}
	return k.Column + ":asc"
}

// ParseSortKey parses "column", "column:asc" or "column:desc". A leading "-"
// also selects descending order.
func ParseSortKey(s string) (datatable.SortKey, bool) {
	s = strings.TrimSpace(s)
	col, dir, _ := strings.Cut(s, ":")
	key := datatable.SortKey{Column: col}
	if rest, ok := strings.CutPrefix(col, "-"); ok {
		key = datatable.SortKey{Column: rest, Desc: true}
	}
	if strings.EqualFold(dir, "desc") {
		key.Desc = true
	}
	return key, key.Column != ""
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
