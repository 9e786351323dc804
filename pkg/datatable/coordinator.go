package datatable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrFetch wraps failures reported by a Fetcher.
	ErrFetch = errors.New("fetch failed")
	// ErrStale is returned when a response arrives after a newer request was issued.
	ErrStale = errors.New("stale response discarded")
	// ErrClosed is returned once the coordinator has been closed.
	ErrClosed = errors.New("coordinator closed")
)

// Mode selects where paging happens.
type Mode int

const (
	// ModeLocal pages over rows already resident in the table.
	ModeLocal Mode = iota
	// ModeServer asks a Fetcher for every page.
	ModeServer
)

func (m Mode) String() string {
	if m == ModeServer {
		return "server"
	}
	return "local"
}

// Coordinator moves a table between pages. In server mode every transition
// goes through the Fetcher and the table only changes once the fetch returns;
// a failed fetch reverts the table to the state of its resident page. Responses from superseded
// requests are discarded and their contexts cancelled.
type Coordinator[R Row] struct {
	table   *Table[R]
	fetcher Fetcher[R]
	logger  *slog.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	loading bool
	loaded  bool
	closed  bool
	lastErr error
}

// NewCoordinator wraps a table. A nil fetcher selects local mode.
// If logger is nil, a discard logger is used.
func NewCoordinator[R Row](table *Table[R], fetcher Fetcher[R], logger *slog.Logger) *Coordinator[R] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator[R]{
		table:   table,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Table returns the coordinated table.
func (c *Coordinator[R]) Table() *Table[R] {
	return c.table
}

// Mode reports whether paging is local or server-driven.
func (c *Coordinator[R]) Mode() Mode {
	if c.fetcher == nil {
		return ModeLocal
	}
	return ModeServer
}

// Loading reports whether a fetch is in flight.
func (c *Coordinator[R]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Loaded reports whether at least one server page has been installed.
func (c *Coordinator[R]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded || c.fetcher == nil
}

// Err returns the error of the most recent completed fetch, if it failed.
func (c *Coordinator[R]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// CanGoNext reports whether a later page exists.
func (c *Coordinator[R]) CanGoNext() bool {
	return c.table.Page() < c.table.TotalPages()
}

// CanGoPrevious reports whether an earlier page exists.
func (c *Coordinator[R]) CanGoPrevious() bool {
	return c.table.Page() > 1
}

// GoToNextPage advances one page if a later page exists.
func (c *Coordinator[R]) GoToNextPage(ctx context.Context) error {
	if !c.CanGoNext() {
		return nil
	}
	return c.GoToPage(ctx, c.table.Page()+1)
}

// GoToPreviousPage goes back one page if an earlier page exists.
func (c *Coordinator[R]) GoToPreviousPage(ctx context.Context) error {
	if !c.CanGoPrevious() {
		return nil
	}
	return c.GoToPage(ctx, c.table.Page()-1)
}

// GoToPage moves to page n clamped into [1, totalPages]. Before the first
// server page is known, n is only floored at 1 and the server clamps it.
func (c *Coordinator[R]) GoToPage(ctx context.Context, n int) error {
	if c.fetcher == nil {
		c.table.SetPage(n)
		return nil
	}

	target := max(n, 1)
	if c.Loaded() {
		target = ClampPage(n, c.table.TotalPages())
	}
	return c.fetch(ctx, target)
}

// Refresh reloads the current page, e.g. after a mutation or a filter change.
// In local mode it only re-clamps the page.
func (c *Coordinator[R]) Refresh(ctx context.Context) error {
	if c.fetcher == nil {
		c.table.SetPage(c.table.Page())
		return nil
	}
	return c.fetch(ctx, c.table.Page())
}

// Close cancels any in-flight fetch. Later transitions return ErrClosed.
func (c *Coordinator[R]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
	c.loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Coordinator[R]) fetch(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		// A newer request supersedes the one in flight.
		c.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	c.mu.Unlock()

	req := c.table.Request(page)
	res, err := c.fetcher.FetchPage(fctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()

	if gen != c.gen {
		c.logger.Debug("discarding stale page", "page", page, "generation", gen, "current", c.gen)
		return ErrStale
	}
	c.cancel = nil
	c.loading = false

	if err != nil {
		c.lastErr = err
		c.table.Revert()
		c.logger.Warn("page fetch failed", "page", page, "error", err)
		return fmt.Errorf("%w: page %d: %w", ErrFetch, page, err)
	}

	c.lastErr = nil
	c.loaded = true
	c.table.SetServerPage(res)
	return nil
}
