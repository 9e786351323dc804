package datatable

import (
	"context"
	"slices"
)

// PageRequest is what a list screen asks its data source for.
type PageRequest struct {
	Page   int
	Limit  int
	Query  string
	Facets FacetState
	Sort   SortState
}

// PageResult is one page of rows plus the server-reported paging totals.
type PageResult[R any] struct {
	Data       []R        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Fetcher loads one page of rows. Implementations talk to a store or a
// remote API; the table engine itself never performs I/O.
type Fetcher[R any] interface {
	FetchPage(ctx context.Context, req PageRequest) (PageResult[R], error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[R any] func(ctx context.Context, req PageRequest) (PageResult[R], error)

// FetchPage calls f.
func (f FetcherFunc[R]) FetchPage(ctx context.Context, req PageRequest) (PageResult[R], error) {
	return f(ctx, req)
}

// SliceFetcher serves pages out of an in-memory slice using the same filter,
// facet and sort rules as a local table.
type SliceFetcher[R Row] struct {
	Rows    []R
	Columns Columns[R]
	Facets  []Facet[R]
	MaxGap  int
}

// FetchPage filters, sorts and slices the resident rows.
func (f *SliceFetcher[R]) FetchPage(ctx context.Context, req PageRequest) (PageResult[R], error) {
	if err := ctx.Err(); err != nil {
		return PageResult[R]{}, err
	}

	maxGap := f.MaxGap
	if maxGap <= 0 {
		maxGap = DefaultMaxGap
	}
	pred := Compile(FilterState{Query: req.Query, Facets: req.Facets}, GlobalFilter(f.Columns, maxGap), f.Columns, f.Facets)

	var matched []R
	for _, r := range f.Rows {
		if pred(r) {
			matched = append(matched, r)
		}
	}
	matched = slices.Clip(matched)
	SortRows(matched, req.Sort, f.Columns)

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	p := Pagination{PageSize: limit, TotalItems: len(matched)}
	p.TotalPages = PageCount(len(matched), limit, 0)
	p.Page = ClampPage(req.Page, p.TotalPages)
	start, end := p.Bounds(len(matched))

	data := make([]R, end-start)
	copy(data, matched[start:end])
	return PageResult[R]{Data: data, Pagination: p}, nil
}
