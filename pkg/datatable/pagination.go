package datatable

// DefaultPageSize is used when a table is configured without a page size.
const DefaultPageSize = 10

// Pagination is the paging state of a table.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"limit"`
	TotalItems int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PageCount returns ceil(totalItems/pageSize), floored at floor.
func PageCount(totalItems, pageSize, floor int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := 0
	if totalItems > 0 {
		pages = (totalItems + pageSize - 1) / pageSize
	}
	if pages < floor {
		return floor
	}
	return pages
}

// ClampPage clamps page into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	upper := max(1, totalPages)
	switch {
	case page < 1:
		return 1
	case page > upper:
		return upper
	default:
		return page
	}
}

// Bounds returns the half-open slice range of the current page over n rows.
func (p Pagination) Bounds(n int) (start, end int) {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	start = (p.Page - 1) * size
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end = min(start+size, n)
	return start, end
}

// CanGoNext reports whether a later page exists.
func (p Pagination) CanGoNext() bool {
	return p.Page < p.TotalPages
}

// CanGoPrevious reports whether an earlier page exists.
func (p Pagination) CanGoPrevious() bool {
	return p.Page > 1
}

// Window returns up to size page numbers centred on the current page for a pager.
func (p Pagination) Window(size int) []int {
	if p.TotalPages <= 0 || size <= 0 {
		return nil
	}
	start := max(1, p.Page-size/2)
	end := min(p.TotalPages, start+size-1)
	start = max(1, end-size+1)

	pages := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}
