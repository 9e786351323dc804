package urlstate

import (
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/romdo/go-debounce"

	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Default debounce timing of the search box.
const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultMaxWait  = 2 * time.Second
)

// Target is the table state a Synchronizer binds. *datatable.Table
// satisfies it for every row type.
type Target interface {
	Filter() datatable.FilterState
	SetFilter(datatable.FilterState)
	SetQuery(string)
	Sort() datatable.SortState
	SetSort(datatable.SortState)
	Page() int
	PageSize() int
	SetPageSize(int)
}

// Options configures a Synchronizer.
type Options struct {
	// Codec defaults to Browser.
	Codec Codec
	// Debounce is the quiet period before a typed query is committed.
	Debounce time.Duration
	// MaxWait bounds how long continuous typing can delay a commit.
	MaxWait time.Duration
	// DefaultPageSize is left out of encoded URLs.
	DefaultPageSize int
	// OnCommit runs after a typed query has been applied to the target.
	OnCommit func(query string)
	Logger   *slog.Logger
}

// Synchronizer is the two-way binding between a table and its URL. Restore
// reads the URL into the table, Values and Href write the table back out.
// Facet, sort and page changes apply to the table directly; typed queries go
// through a debouncer so the table only sees the settled value.
type Synchronizer struct {
	target Target
	opts   Options

	mu      sync.Mutex
	pending string
	dirty   bool
	closed  bool

	debounced func()
	cancel    func()
}

// New binds target.
func New(target Target, opts Options) *Synchronizer {
	if opts.Codec == (Codec{}) {
		opts.Codec = Browser
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MaxWait < opts.Debounce {
		opts.MaxWait = max(DefaultMaxWait, opts.Debounce)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Synchronizer{target: target, opts: opts}
	s.debounced, s.cancel = debounce.NewWithMaxWait(opts.Debounce, opts.MaxWait, s.commit)
	return s
}

// Restore applies URL state to the target and returns the requested page.
// The page is returned rather than applied because a server-paged table
// cannot be positioned before its first fetch.
func (s *Synchronizer) Restore(v url.Values) int {
	req := s.opts.Codec.Decode(v)
	if req.Limit > 0 {
		s.target.SetPageSize(req.Limit)
	}
	s.target.SetFilter(datatable.FilterState{Query: req.Query, Facets: req.Facets})
	s.target.SetSort(req.Sort)

	s.mu.Lock()
	s.pending = req.Query
	s.dirty = false
	s.mu.Unlock()

	return max(req.Page, 1)
}

// Values encodes the target's current state.
func (s *Synchronizer) Values() url.Values {
	f := s.target.Filter()
	req := datatable.PageRequest{
		Page:   s.target.Page(),
		Query:  f.Query,
		Facets: f.Facets,
		Sort:   s.target.Sort(),
	}
	if size := s.target.PageSize(); size != s.opts.DefaultPageSize {
		req.Limit = size
	}
	return s.opts.Codec.Encode(req)
}

// Href returns path with the encoded state as its query string.
func (s *Synchronizer) Href(path string) string {
	q := s.Values().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

// Type records the search box contents. The query reaches the target once
// the debounce interval passes without further input.
func (s *Synchronizer) Type(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = query
	s.dirty = true
	s.mu.Unlock()

	s.debounced()
}

// Pending returns the typed query and whether it is still waiting to commit.
func (s *Synchronizer) Pending() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.dirty
}

// Flush commits a waiting query immediately.
func (s *Synchronizer) Flush() {
	s.commit()
}

// Discard drops a waiting query without applying it.
func (s *Synchronizer) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// Close drops any waiting query. Later input is ignored.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.dirty = false
	s.mu.Unlock()
	s.cancel()
}

func (s *Synchronizer) commit() {
	s.mu.Lock()
	if !s.dirty || s.closed {
		s.mu.Unlock()
		return
	}
	query := s.pending
	s.dirty = false
	s.mu.Unlock()

	s.opts.Logger.Debug("committing search query", "query", query)
	s.target.SetQuery(query)
	if s.opts.OnCommit != nil {
		s.opts.OnCommit(query)
	}
}
