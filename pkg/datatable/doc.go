// Package datatable is the tabular-data engine behind every back-office list screen.
//
// This package contains:
//   - Column definitions generic over the row type (Column, Path)
//   - The global fuzzy filter (FuzzyMatch, GlobalFilter)
//   - Column facet extraction (Facet, FacetValues, FacetState)
//   - The table state controller (Table, View)
//   - The pagination coordinator for local and server-driven paging (Coordinator)
//   - The fetch contract shared with data sources (Fetcher, PageRequest, PageResult)
//
// The package performs no I/O of its own. Server-driven paging goes through
// a Fetcher supplied by the caller; rendering lives in the render subpackage.
package datatable
