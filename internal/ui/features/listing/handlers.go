package listing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/screens"
	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/ui/notifier"
	"github.com/brandedliving/backoffice/internal/ui/pages"
	"github.com/brandedliving/backoffice/internal/ui/tablestate"
	"github.com/brandedliving/backoffice/pkg/datatable/render"
)

// MaxPageSize bounds the page sizes a screen accepts.
const MaxPageSize = 100

// Backend reads and changes the records behind the screens.
type Backend interface {
	screens.Source
	SetStatus(ctx context.Context, screen, id, status string) error
	Delete(ctx context.Context, screen, id string) error
}

// SearchSignals are the datastar signals posted by the search box.
type SearchSignals struct {
	Query string `json:"query"`
}

// Handlers provides HTTP handlers for the list screens.
type Handlers struct {
	backend      Backend
	registry     *tablestate.Registry
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(backend Backend, registry *tablestate.Registry, sessionStore sessions.Store, notify *notifier.Notifier, isDev bool) *Handlers {
	return &Handlers{
		backend:      backend,
		registry:     registry,
		sessionStore: sessionStore,
		notifier:     notify,
		isDev:        isDev,
	}
}

// ListPage renders a screen with its first page. The URL query is the
// source of truth on full page loads.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	l, _, ok := h.listing(w, r)
	if !ok {
		return
	}
	if err := l.Restore(r.Context(), r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := pages.ListPage(l.Title(), l.Screen(), h.isDev, l.Render(false)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListPageUpdates is the long-lived SSE endpoint of a screen. It pushes the
// table after a search settles and reloads it when the records change.
func (h *Handlers) ListPageUpdates(w http.ResponseWriter, r *http.Request) {
	sid, err := tablestate.SessionID(h.sessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	l, created, release, err := h.registry.Hold(sid, chi.URLParam(r, "screen"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	defer release()

	ctx := r.Context()
	if created {
		if err := l.Restore(ctx, nil); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	sse := datastar.NewSSE(w, r)

	changes := l.Changes().Subscribe()
	defer l.Changes().Unsubscribe(changes)
	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			h.send(sse, l, false)
		case change := <-updates:
			if !change.Affects(l.Screen()) {
				continue
			}
			if err := l.Refresh(ctx); err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			h.send(sse, l, true)
		}
	}
}

// Search records the typed query. The update stream delivers the result
// once typing settles.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var signals SearchSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}
	l, _, ok := h.restored(w, r)
	if !ok {
		return
	}
	l.Search(strings.TrimSpace(signals.Query))
	w.WriteHeader(http.StatusNoContent)
}

// Facets toggles one facet value, or clears every filter when no column is given.
func (h *Handlers) Facets(w http.ResponseWriter, r *http.Request) {
	column, value := r.URL.Query().Get("column"), r.URL.Query().Get("value")
	h.update(w, r, true, func(ctx context.Context, l tablestate.Listing) error {
		if column == "" {
			return l.ClearFilters(ctx)
		}
		return l.ToggleFacet(ctx, column, value)
	})
}

// Sort cycles the sort direction of a column.
func (h *Handlers) Sort(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	h.update(w, r, false, func(ctx context.Context, l tablestate.Listing) error {
		return l.ToggleSort(ctx, column)
	})
}

// Page moves to a page number.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		http.Error(w, "invalid page number", http.StatusBadRequest)
		return
	}
	h.update(w, r, false, func(ctx context.Context, l tablestate.Listing) error {
		return l.GoToPage(ctx, n)
	})
}

// Next moves to the following page.
func (h *Handlers) Next(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false, func(ctx context.Context, l tablestate.Listing) error {
		return l.Next(ctx)
	})
}

// Previous moves to the preceding page.
func (h *Handlers) Previous(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false, func(ctx context.Context, l tablestate.Listing) error {
		return l.Previous(ctx)
	})
}

// Size changes the page size.
func (h *Handlers) Size(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 || n > MaxPageSize {
		http.Error(w, "invalid page size", http.StatusBadRequest)
		return
	}
	h.update(w, r, false, func(ctx context.Context, l tablestate.Listing) error {
		return l.SetPageSize(ctx, n)
	})
}

// SelectPage selects or clears every row on the page.
func (h *Handlers) SelectPage(w http.ResponseWriter, r *http.Request) {
	h.local(w, r, false, func(l tablestate.Listing) { l.SelectPage() })
}

// Select toggles the selection of one row.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.local(w, r, false, func(l tablestate.Listing) { l.ToggleSelected(id) })
}

// Column shows or hides a column.
func (h *Handlers) Column(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.local(w, r, true, func(l tablestate.Listing) { l.ToggleColumn(id) })
}

// Layout switches between the table and the card presentation.
func (h *Handlers) Layout(w http.ResponseWriter, r *http.Request) {
	layout, err := render.ParseLayout(chi.URLParam(r, "mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.local(w, r, false, func(l tablestate.Listing) { l.SetLayout(layout) })
}

// SetStatus changes the status of a record and reloads the page.
func (h *Handlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	h.mutate(w, r, func(ctx context.Context, screen, id string) error {
		return h.backend.SetStatus(ctx, screen, id, status)
	})
}

// Delete removes a record and reloads the page.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.backend.Delete)
}

// listing resolves the session's listing of the requested screen.
func (h *Handlers) listing(w http.ResponseWriter, r *http.Request) (tablestate.Listing, bool, bool) {
	sid, err := tablestate.SessionID(h.sessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false, false
	}
	l, created, err := h.registry.Get(sid, chi.URLParam(r, "screen"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false, false
	}
	return l, created, true
}

// restored is listing for interactions: a listing lost to a restart or an
// idle sweep is reloaded from the page the browser is on.
func (h *Handlers) restored(w http.ResponseWriter, r *http.Request) (tablestate.Listing, bool, bool) {
	l, created, ok := h.listing(w, r)
	if ok && created {
		if err := l.Restore(r.Context(), refererQuery(r)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return nil, false, false
		}
	}
	return l, created, ok
}

// update applies a state change that may fetch, showing the skeleton while
// the fetch runs.
func (h *Handlers) update(w http.ResponseWriter, r *http.Request, toolbar bool, op func(context.Context, tablestate.Listing) error) {
	l, _, ok := h.restored(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	if l.WillFetch() {
		_ = sse.PatchElementTempl(l.Body(true))
	}
	if err := op(r.Context(), l); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	h.send(sse, l, toolbar)
}

// local applies a state change that never fetches.
func (h *Handlers) local(w http.ResponseWriter, r *http.Request, toolbar bool, op func(tablestate.Listing)) {
	l, _, ok := h.restored(w, r)
	if !ok {
		return
	}
	op(l)
	h.send(datastar.NewSSE(w, r), l, toolbar)
}

// mutate runs a record change, then reloads this session's page and tells
// the other open screens showing the changed records.
func (h *Handlers) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, screen, id string) error) {
	l, _, ok := h.restored(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	if err := op(ctx, l.Screen(), chi.URLParam(r, "id")); err != nil {
		_ = sse.PatchElementTempl(render.Notice(l.Screen()+"-table", mutationMessage(err)))
		return
	}
	h.notifier.Broadcast(domain.Affected(l.Screen())...)

	if err := l.Refresh(ctx); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	h.send(sse, l, true)
}

// send patches the screen and mirrors its state into the address bar.
func (h *Handlers) send(sse *datastar.ServerSentEventGenerator, l tablestate.Listing, toolbar bool) {
	c := l.Body(false)
	if toolbar {
		c = l.Render(false)
	}
	if err := sse.PatchElementTempl(c); err != nil {
		return
	}
	_ = sse.ExecuteScript(ReplaceURLScript(l.Href()))
}

// refererQuery returns the state of the screen the browser shows, or nil
// when the request did not come from that screen.
func refererQuery(r *http.Request) url.Values {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path != "/"+chi.URLParam(r, "screen") {
		return nil
	}
	return ref.Query()
}

// ReplaceURLScript updates the address bar without adding a history entry.
func ReplaceURLScript(href string) string {
	return fmt.Sprintf("window.history.replaceState(null, '', %s)", strconv.Quote(href))
}

func mutationMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "That record no longer exists."
	case errors.Is(err, store.ErrInvalidStatus):
		return "That status is not allowed for this record."
	default:
		return "The change could not be saved. Please try again."
	}
}
