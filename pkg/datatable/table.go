package datatable

import (
	"slices"
	"sync"
)

// Options configures a Table.
type Options[R Row] struct {
	Columns Columns[R]
	Facets  []Facet[R]

	// Sort is the initial sort state.
	Sort SortState
	// PageSize defaults to DefaultPageSize.
	PageSize int

	// GlobalFilter overrides the free-text predicate. The default is
	// GlobalFilter(Columns, MaxGap).
	GlobalFilter FilterFunc[R]
	// MaxGap tunes the fuzzy matcher; zero means DefaultMaxGap.
	MaxGap int

	// ManualPagination treats the rows as the already-paged server response.
	ManualPagination bool
	// ManualFiltering skips local filtering because the server already applied it.
	ManualFiltering bool
	// PageFloor is the minimum reported page count, 0 or 1.
	PageFloor int

	Selection SelectionPolicy
}

// View is the read-only view model of a table after filter, sort and paging.
type View[R Row] struct {
	// Rows is the visible page.
	Rows []R
	// Columns are the visible columns in order.
	Columns Columns[R]
	// AllColumns includes hidden columns.
	AllColumns Columns[R]
	Hidden     map[string]bool

	// TotalRows counts matching rows before paging.
	TotalRows  int
	Pagination Pagination
	Sort       SortState
	Filter     FilterState
	// Selected holds the selected ids present on the visible page.
	Selected Selection

	CanNext     bool
	CanPrevious bool
}

// IsSelected reports whether a visible row is selected.
func (v View[R]) IsSelected(id string) bool {
	return v.Selected.Has(id)
}

// Empty reports whether the visible page has no rows.
func (v View[R]) Empty() bool {
	return len(v.Rows) == 0
}

// Table owns the sort, filter, paging, visibility and selection state of one
// list screen. It never mutates the rows it is given. Table is safe for
// concurrent use.
type Table[R Row] struct {
	mu   sync.Mutex
	opts Options[R]

	rows     []R
	filter   FilterState
	sort     SortState
	page     int
	pageSize int
	hidden   map[string]bool
	selected Selection

	// server-reported totals in manual pagination mode
	serverTotal int
	serverPages int

	// installed is the state that produced the resident server page.
	installed *snapshot
}

// snapshot is the request-shaping state of a table at one point in time.
type snapshot struct {
	filter      FilterState
	sort        SortState
	page        int
	pageSize    int
	serverTotal int
	serverPages int
}

// New creates a table over rows.
func New[R Row](rows []R, opts Options[R]) *Table[R] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxGap <= 0 {
		opts.MaxGap = DefaultMaxGap
	}
	if opts.GlobalFilter == nil {
		opts.GlobalFilter = GlobalFilter(opts.Columns, opts.MaxGap)
	}
	if opts.PageFloor < 0 {
		opts.PageFloor = 0
	}

	t := &Table[R]{
		opts:     opts,
		rows:     rows,
		sort:     opts.Sort.Normalize(),
		page:     1,
		pageSize: opts.PageSize,
		hidden:   make(map[string]bool),
		selected: make(Selection),
		filter:   FilterState{Facets: FacetState{}},
	}
	for _, c := range opts.Columns {
		if c.Hidden && c.Hideable {
			t.hidden[c.ID] = true
		}
	}
	if opts.ManualPagination {
		t.serverTotal = len(rows)
		t.serverPages = PageCount(len(rows), opts.PageSize, opts.PageFloor)
	}
	return t
}

// Options returns the table's configuration.
func (t *Table[R]) Options() Options[R] {
	return t.opts
}

// Rows returns the full row sequence the table was last given.
func (t *Table[R]) Rows() []R {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

// SetRows replaces the resident rows. The current page is re-clamped.
func (t *Table[R]) SetRows(rows []R) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = rows
	if t.opts.ManualPagination {
		t.serverTotal = len(rows)
		t.serverPages = PageCount(len(rows), t.pageSize, t.opts.PageFloor)
	}
	t.page = ClampPage(t.page, t.totalPagesLocked())
}

// SetServerPage installs one page of rows returned by a server together with
// the server's paging totals.
func (t *Table[R]) SetServerPage(res PageResult[R]) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := res.Pagination
	if p.PageSize > 0 {
		t.pageSize = p.PageSize
	}
	t.rows = res.Data
	t.serverTotal = max(p.TotalItems, 0)
	t.serverPages = p.TotalPages
	if t.serverPages <= 0 {
		t.serverPages = PageCount(t.serverTotal, t.pageSize, 0)
	}
	t.serverPages = max(t.serverPages, t.opts.PageFloor)

	prev := t.page
	t.page = ClampPage(p.Page, t.serverPages)
	if prev != t.page {
		t.pageChangedLocked()
	}
	t.installed = t.snapshotLocked()
}

// Revert returns the filter, sort, page size and page to the state of the
// last installed server page, so the view matches the rows it shows after a
// failed fetch. Before the first server page it does nothing.
func (t *Table[R]) Revert() {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.installed
	if s == nil {
		return
	}
	t.filter = s.filter.Clone()
	t.sort = slices.Clone(s.sort)
	t.page = s.page
	t.pageSize = s.pageSize
	t.serverTotal = s.serverTotal
	t.serverPages = s.serverPages
}

func (t *Table[R]) snapshotLocked() *snapshot {
	return &snapshot{
		filter:      t.filter.Clone(),
		sort:        slices.Clone(t.sort),
		page:        t.page,
		pageSize:    t.pageSize,
		serverTotal: t.serverTotal,
		serverPages: t.serverPages,
	}
}

// Filter returns a snapshot of the filter state.
func (t *Table[R]) Filter() FilterState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter.Clone()
}

// SetFilter replaces the whole filter state and returns to the first page.
func (t *Table[R]) SetFilter(f FilterState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = f.Clone()
	if t.filter.Facets == nil {
		t.filter.Facets = FacetState{}
	}
	t.resetPageLocked()
}

// SetQuery sets the free-text query and returns to the first page.
func (t *Table[R]) SetQuery(q string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.filter.Query == q {
		return
	}
	t.filter.Query = q
	t.resetPageLocked()
}

// SetFacet replaces the selected values of a facet column.
func (t *Table[R]) SetFacet(column string, values []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter.Facets.Set(column, values)
	t.resetPageLocked()
}

// ToggleFacetValue toggles one value of a facet column.
func (t *Table[R]) ToggleFacetValue(column, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter.Facets.Toggle(column, value)
	t.resetPageLocked()
}

// ClearFilters removes the query and every facet selection.
func (t *Table[R]) ClearFilters() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = FilterState{Facets: FacetState{}}
	t.resetPageLocked()
}

// Sort returns a snapshot of the sort state.
func (t *Table[R]) Sort() SortState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.sort)
}

// SetSort replaces the sort state. Repeated columns keep their first key.
func (t *Table[R]) SetSort(s SortState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sort = s.Normalize()
}

// ToggleSort cycles a column through ascending, descending and unsorted.
// Non-sortable and unknown columns are ignored.
func (t *Table[R]) ToggleSort(column string, multi bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.opts.Columns.Find(column)
	if !ok || !c.Sortable {
		return
	}
	t.sort = t.sort.Toggle(column, multi)
}

// ClearSort falls back to the input order.
func (t *Table[R]) ClearSort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sort = nil
}

// SetPageSize changes the page size and returns to the first page.
func (t *Table[R]) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pageSize = size
	if t.opts.ManualPagination {
		t.serverPages = PageCount(t.serverTotal, size, t.opts.PageFloor)
	}
	t.resetPageLocked()
}

// SetPage moves to page n, clamped into [1, max(1, totalPages)].
func (t *Table[R]) SetPage(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.page
	t.page = ClampPage(n, t.totalPagesLocked())
	if prev != t.page {
		t.pageChangedLocked()
	}
}

// Page returns the current page number.
func (t *Table[R]) Page() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

// PageSize returns the current page size.
func (t *Table[R]) PageSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pageSize
}

// TotalPages returns the page count for the current filter.
func (t *Table[R]) TotalPages() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalPagesLocked()
}

// SetColumnVisible shows or hides a hideable column.
func (t *Table[R]) SetColumnVisible(column string, visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.opts.Columns.Find(column)
	if !ok || !c.Hideable {
		return
	}
	if visible {
		delete(t.hidden, column)
		return
	}
	t.hidden[column] = true
}

// ToggleSelected flips the selection of a row id.
func (t *Table[R]) ToggleSelected(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected.Toggle(id)
}

// SelectPage selects every row on the visible page, or clears them when all
// are already selected.
func (t *Table[R]) SelectPage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, _ := t.pageRowsLocked()
	all := len(rows) > 0
	for _, r := range rows {
		if !t.selected.Has(r.RowID()) {
			all = false
			break
		}
	}
	for _, r := range rows {
		if all {
			delete(t.selected, r.RowID())
		} else {
			t.selected[r.RowID()] = struct{}{}
		}
	}
}

// ClearSelection deselects every row.
func (t *Table[R]) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = make(Selection)
}

// Selection returns every selected id, including ids not on the visible page.
func (t *Table[R]) Selection() Selection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected.Clone()
}

// Request builds the fetch request for page n under the current state.
func (t *Table[R]) Request(n int) PageRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return PageRequest{
		Page:   n,
		Limit:  t.pageSize,
		Query:  t.filter.Query,
		Facets: t.filter.Facets.Clone(),
		Sort:   slices.Clone(t.sort),
	}
}

// View applies filter, sort and paging and returns the view model.
func (t *Table[R]) View() View[R] {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, total := t.pageRowsLocked()
	pages := t.pagesFor(total)

	visible := make(Columns[R], 0, len(t.opts.Columns))
	for _, c := range t.opts.Columns {
		if !t.hidden[c.ID] {
			visible = append(visible, c)
		}
	}

	p := Pagination{
		Page:       t.page,
		PageSize:   t.pageSize,
		TotalItems: total,
		TotalPages: pages,
	}
	return View[R]{
		Rows:        rows,
		Columns:     visible,
		AllColumns:  t.opts.Columns,
		Hidden:      cloneHidden(t.hidden),
		TotalRows:   total,
		Pagination:  p,
		Sort:        slices.Clone(t.sort),
		Filter:      t.filter.Clone(),
		Selected:    Visible(t.selected, rows),
		CanNext:     p.CanGoNext(),
		CanPrevious: p.CanGoPrevious(),
	}
}

// pageRowsLocked runs the filter, sort and slice pipeline. It returns the
// visible rows and the number of rows before paging.
func (t *Table[R]) pageRowsLocked() ([]R, int) {
	rows := t.filteredLocked()
	SortRows(rows, t.sort, t.opts.Columns)

	if t.opts.ManualPagination {
		return rows, t.serverTotal
	}

	total := len(rows)
	t.page = ClampPage(t.page, t.pagesFor(total))
	p := Pagination{Page: t.page, PageSize: t.pageSize}
	start, end := p.Bounds(total)
	return rows[start:end], total
}

// filteredLocked returns a fresh slice of the rows matching the filter.
func (t *Table[R]) filteredLocked() []R {
	if t.opts.ManualFiltering || t.filter.Empty() {
		return slices.Clone(t.rows)
	}
	pred := Compile(t.filter, t.opts.GlobalFilter, t.opts.Columns, t.opts.Facets)
	out := make([]R, 0, len(t.rows))
	for _, r := range t.rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table[R]) totalPagesLocked() int {
	if t.opts.ManualPagination {
		return t.serverPages
	}
	return t.pagesFor(len(t.filteredLocked()))
}

func (t *Table[R]) pagesFor(total int) int {
	if t.opts.ManualPagination {
		return t.serverPages
	}
	return PageCount(total, t.pageSize, t.opts.PageFloor)
}

// resetPageLocked returns to the first page after the visible set changed.
func (t *Table[R]) resetPageLocked() {
	t.page = 1
	t.pageChangedLocked()
}

func (t *Table[R]) pageChangedLocked() {
	if t.opts.Selection == SelectionPerPage {
		t.selected = make(Selection)
	}
}

func cloneHidden(h map[string]bool) map[string]bool {
	out := make(map[string]bool, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
