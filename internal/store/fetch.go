package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// fetcher serves one screen's pages. Filtering, sorting and paging happen in
// SQL; a free-text query is narrowed in SQL by a subsequence pattern and then
// matched exactly with the same fuzzy rules as a local table.
type fetcher[R datatable.Row] struct {
	s *Store
	e *entity[R]
}

// Brands returns the brand list fetcher.
func (s *Store) Brands() datatable.Fetcher[domain.Brand] {
	return &fetcher[domain.Brand]{s: s, e: brandEntity}
}

// Residences returns the residence list fetcher.
func (s *Store) Residences() datatable.Fetcher[domain.Residence] {
	return &fetcher[domain.Residence]{s: s, e: residenceEntity}
}

// Users returns the user list fetcher.
func (s *Store) Users() datatable.Fetcher[domain.User] {
	return &fetcher[domain.User]{s: s, e: userEntity}
}

// Leads returns the lead list fetcher.
func (s *Store) Leads() datatable.Fetcher[domain.Lead] {
	return &fetcher[domain.Lead]{s: s, e: leadEntity}
}

// Amenities returns the amenity list fetcher.
func (s *Store) Amenities() datatable.Fetcher[domain.Amenity] {
	return &fetcher[domain.Amenity]{s: s, e: amenityEntity}
}

// BrandTypes returns the brand type list fetcher.
func (s *Store) BrandTypes() datatable.Fetcher[domain.BrandType] {
	return &fetcher[domain.BrandType]{s: s, e: brandTypeEntity}
}

// ClampLimit normalizes a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return datatable.DefaultPageSize
	}
	return min(limit, MaxPageSize)
}

func (f *fetcher[R]) FetchPage(ctx context.Context, req datatable.PageRequest) (datatable.PageResult[R], error) {
	d := f.e.def
	limit := ClampLimit(req.Limit)
	where := d.where(req)
	order := d.orderBy(req.Sort)

	q := d.selectFrom(f.s.builder, f.e.selects...).OrderBy(order...)
	if len(where) > 0 {
		q = q.Where(where)
	}

	var res datatable.PageResult[R]
	if strings.TrimSpace(req.Query) == "" {
		total, err := f.s.count(ctx, d, where)
		if err != nil {
			return res, err
		}
		p := pageOf(req.Page, limit, total)
		rows, err := queryAll(ctx, f.s.db, q.Limit(uint64(limit)).Offset(uint64((p.Page-1)*limit)), f.e.scan)
		if err != nil {
			return res, fmt.Errorf("failed to list %s: %w", d.screen, err)
		}
		res = datatable.PageResult[R]{Data: rows, Pagination: p}
	} else {
		candidates, err := queryAll(ctx, f.s.db, q, f.e.scan)
		if err != nil {
			return res, fmt.Errorf("failed to search %s: %w", d.screen, err)
		}
		match := datatable.GlobalFilter(f.e.columns, f.s.maxGap)
		matched := candidates[:0]
		for _, r := range candidates {
			if match(r, req.Query) {
				matched = append(matched, r)
			}
		}
		p := pageOf(req.Page, limit, len(matched))
		start, end := p.Bounds(len(matched))
		data := make([]R, end-start)
		copy(data, matched[start:end])
		res = datatable.PageResult[R]{Data: data, Pagination: p}
	}

	f.s.logger.Debug("fetched page",
		"screen", d.screen,
		"page", res.Pagination.Page,
		"rows", len(res.Data),
		"total", res.Pagination.TotalItems,
	)
	return res, nil
}

func pageOf(page, limit, total int) datatable.Pagination {
	pages := datatable.PageCount(total, limit, 0)
	return datatable.Pagination{
		Page:       datatable.ClampPage(page, pages),
		PageSize:   limit,
		TotalItems: total,
		TotalPages: pages,
	}
}
