// Package tablestate keeps the data table state of every (session, screen)
// pair on the server, between the requests of one browser tab.
package tablestate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/brandedliving/backoffice/internal/screens"
	"github.com/brandedliving/backoffice/internal/ui/notifier"
	"github.com/brandedliving/backoffice/internal/urlstate"
	"github.com/brandedliving/backoffice/pkg/datatable"
	"github.com/brandedliving/backoffice/pkg/datatable/render"
)

// clientSideBatch is the page size used to pull every row in client-side mode.
const clientSideBatch = 100

// Options configures new listings.
type Options struct {
	PageSize      int
	PageFloor     int
	MaxGap        int
	KeepSelection bool
	// ClientSide loads every row once and filters, sorts and pages in memory.
	ClientSide bool
	Debounce   time.Duration
	Logger     *slog.Logger
}

// Listing is the state of one screen for one session.
type Listing interface {
	Screen() string
	Title() string

	// Restore applies URL state and loads the requested page.
	Restore(ctx context.Context, values url.Values) error
	// Refresh reloads the current page.
	Refresh(ctx context.Context) error
	GoToPage(ctx context.Context, n int) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SetPageSize(ctx context.Context, n int) error
	ToggleSort(ctx context.Context, column string) error
	ToggleFacet(ctx context.Context, column, value string) error
	ClearFilters(ctx context.Context) error
	// Search records typed input. The query is applied and fetched once
	// typing settles, followed by a ping on Changes.
	Search(query string)
	// FlushSearch applies a waiting query immediately.
	FlushSearch()

	ToggleSelected(id string)
	SelectPage()
	ToggleColumn(id string)
	SetLayout(l render.Layout)
	Layout() render.Layout
	// WillFetch reports whether state changes go to the server.
	WillFetch() bool

	// Screen renders the toolbar and the table container.
	Render(loading bool) templ.Component
	// Body renders the table container only.
	Body(loading bool) templ.Component
	Toolbar() templ.Component
	// Href is the screen URL that reproduces the current state.
	Href() string
	// Changes pings after asynchronous updates such as a settled search.
	Changes() *notifier.Notifier
	Close()
}

// ID is the element id of a screen's toolbar and table wrapper.
func ID(screen string) string {
	return screen + "-screen"
}

type instance[R datatable.Row] struct {
	def     screens.Definition[R]
	source  screens.Source
	table   *datatable.Table[R]
	coord   *datatable.Coordinator[R]
	sync    *urlstate.Synchronizer
	changes *notifier.Notifier
	opts    Options
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	layout render.Layout
	notice string
	facets map[string][]string
}

// New creates the listing of one screen.
func New[R datatable.Row](def screens.Definition[R], source screens.Source, opts Options) Listing {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("screen", def.Name)
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = datatable.DefaultPageSize
	}

	table := datatable.New[R](nil, datatable.Options[R]{
		Columns:          def.Columns,
		Facets:           def.Facets,
		PageSize:         pageSize,
		MaxGap:           opts.MaxGap,
		ManualPagination: !opts.ClientSide,
		ManualFiltering:  !opts.ClientSide,
		PageFloor:        opts.PageFloor,
		Selection:        datatable.PolicyFor(opts.KeepSelection),
	})

	var fetcher datatable.Fetcher[R]
	if !opts.ClientSide {
		fetcher = def.Fetcher(source)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &instance[R]{
		def:     def,
		source:  source,
		table:   table,
		coord:   datatable.NewCoordinator(table, fetcher, logger),
		changes: notifier.New(),
		opts:    opts,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	l.sync = urlstate.New(table, urlstate.Options{
		Debounce:        opts.Debounce,
		DefaultPageSize: pageSize,
		OnCommit:        l.committed,
		Logger:          logger,
	})
	return l
}

func (l *instance[R]) Screen() string { return l.def.Name }
func (l *instance[R]) Title() string  { return l.def.Title }

func (l *instance[R]) WillFetch() bool {
	return l.coord.Mode() == datatable.ModeServer
}

func (l *instance[R]) Changes() *notifier.Notifier {
	return l.changes
}

func (l *instance[R]) Restore(ctx context.Context, values url.Values) error {
	page := l.sync.Restore(values)
	if l.WillFetch() {
		if err := l.settle(l.coord.GoToPage(ctx, page)); err != nil {
			return err
		}
		return l.loadFacets(ctx)
	}
	if err := l.settle(l.loadAll(ctx)); err != nil {
		return err
	}
	l.table.SetPage(page)
	return nil
}

func (l *instance[R]) Refresh(ctx context.Context) error {
	if l.WillFetch() {
		if err := l.settle(l.coord.Refresh(ctx)); err != nil {
			return err
		}
		return l.loadFacets(ctx)
	}
	page := l.table.Page()
	if err := l.settle(l.loadAll(ctx)); err != nil {
		return err
	}
	l.table.SetPage(page)
	return nil
}

func (l *instance[R]) GoToPage(ctx context.Context, n int) error {
	return l.settle(l.coord.GoToPage(ctx, n))
}

func (l *instance[R]) Next(ctx context.Context) error {
	return l.settle(l.coord.GoToNextPage(ctx))
}

func (l *instance[R]) Previous(ctx context.Context) error {
	return l.settle(l.coord.GoToPreviousPage(ctx))
}

func (l *instance[R]) SetPageSize(ctx context.Context, n int) error {
	l.table.SetPageSize(n)
	return l.reload(ctx)
}

func (l *instance[R]) ToggleSort(ctx context.Context, column string) error {
	l.table.ToggleSort(column, false)
	return l.reload(ctx)
}

func (l *instance[R]) ToggleFacet(ctx context.Context, column, value string) error {
	l.table.ToggleFacetValue(column, value)
	return l.reload(ctx)
}

func (l *instance[R]) ClearFilters(ctx context.Context) error {
	l.sync.Discard()
	l.table.ClearFilters()
	return l.reload(ctx)
}

func (l *instance[R]) Search(query string) {
	l.sync.Type(query)
}

func (l *instance[R]) FlushSearch() {
	l.sync.Flush()
}

// committed runs on the debouncer once a typed query settles.
func (l *instance[R]) committed(query string) {
	if err := l.reload(l.ctx); err != nil && !errors.Is(err, datatable.ErrClosed) {
		l.logger.Warn("search reload failed", "query", query, "error", err)
	}
	l.changes.Broadcast()
}

// reload fetches the first page after the visible set changed; local
// tables already re-derive their view.
func (l *instance[R]) reload(ctx context.Context) error {
	if !l.WillFetch() {
		return nil
	}
	return l.settle(l.coord.GoToPage(ctx, l.table.Page()))
}

func (l *instance[R]) ToggleSelected(id string) { l.table.ToggleSelected(id) }
func (l *instance[R]) SelectPage()              { l.table.SelectPage() }

func (l *instance[R]) ToggleColumn(id string) {
	hidden := l.table.View().Hidden[id]
	l.table.SetColumnVisible(id, hidden)
}

func (l *instance[R]) SetLayout(layout render.Layout) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.layout = layout
}

func (l *instance[R]) Layout() render.Layout {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.layout
}

func (l *instance[R]) Href() string {
	return l.sync.Href("/" + l.def.Name)
}

func (l *instance[R]) Close() {
	l.sync.Close()
	l.coord.Close()
	l.cancel()
}

// settle turns fetch failures into a notice over the last good rows.
// Stale responses are dropped silently.
func (l *instance[R]) settle(err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case err == nil:
		l.notice = ""
		return nil
	case errors.Is(err, datatable.ErrStale):
		return nil
	case errors.Is(err, datatable.ErrClosed), errors.Is(err, context.Canceled):
		return err
	default:
		l.logger.Warn("listing update failed", "error", err)
		l.notice = fmt.Sprintf("Could not load %s. Showing the last loaded results.", l.def.Title)
		return nil
	}
}

// loadAll pulls every row for client-side mode.
func (l *instance[R]) loadAll(ctx context.Context) error {
	fetcher := l.def.Fetcher(l.source)
	var rows []R
	for page := 1; ; page++ {
		res, err := fetcher.FetchPage(ctx, datatable.PageRequest{Page: page, Limit: clientSideBatch})
		if err != nil {
			return fmt.Errorf("%w: %w", datatable.ErrFetch, err)
		}
		rows = append(rows, res.Data...)
		if page >= res.Pagination.TotalPages || len(res.Data) == 0 {
			break
		}
	}
	l.table.SetRows(rows)
	return nil
}

// loadFacets refreshes the server-side facet options. Failures keep the
// previous options.
func (l *instance[R]) loadFacets(ctx context.Context) error {
	values := make(map[string][]string, len(l.def.Facets))
	for _, f := range l.def.Facets {
		vs, err := l.source.FacetValues(ctx, l.def.Name, f.Column)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			l.logger.Warn("facet values unavailable", "column", f.Column, "error", err)
			return nil
		}
		values[f.Column] = vs
	}
	l.mu.Lock()
	l.facets = values
	l.mu.Unlock()
	return nil
}

func (l *instance[R]) facetGroups(v datatable.View[R]) []render.FacetGroup {
	if !l.WillFetch() {
		return render.FacetGroups(l.table.Rows(), l.def.Facets, v.Filter.Facets)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	groups := make([]render.FacetGroup, 0, len(l.def.Facets))
	for _, f := range l.def.Facets {
		values := slices.Clone(l.facets[f.Column])
		for _, sel := range v.Filter.Facets.Selected(f.Column) {
			if !slices.Contains(values, sel) {
				values = append(values, sel)
			}
		}
		groups = append(groups, render.FacetGroup{Column: f.Column, Label: l.def.FacetLabel(f.Column), Values: values})
	}
	return groups
}

func (l *instance[R]) options(loading bool) render.Options {
	l.mu.Lock()
	defer l.mu.Unlock()
	return render.Options{
		Layout:     l.layout,
		Loading:    loading,
		Notice:     l.notice,
		Selectable: true,
	}
}

func (l *instance[R]) Body(loading bool) templ.Component {
	return render.Adaptive(l.table.View(), l.def.Spec(), l.options(loading))
}

func (l *instance[R]) Toolbar() templ.Component {
	v := l.table.View()
	return render.Toolbar(v, l.def.Spec(), l.facetGroups(v))
}

func (l *instance[R]) Render(loading bool) templ.Component {
	return render.Element("div", render.Attrs{
		render.Attr("id", ID(l.def.Name)),
		render.Attr("class", "screen"),
	}, l.Toolbar(), l.Body(loading))
}
