package home

import (
	"context"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/screens"
	"github.com/brandedliving/backoffice/internal/ui/notifier"
	"github.com/brandedliving/backoffice/internal/ui/pages"
)

// CountsNotice is shown when the record counts cannot be loaded.
const CountsNotice = "Could not load record counts."

// Counter reports how many records each screen holds.
type Counter interface {
	Counts(ctx context.Context) (map[string]int, error)
}

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	counter  Counter
	notifier *notifier.Notifier
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(counter Counter, notify *notifier.Notifier, isDev bool) *Handlers {
	return &Handlers{
		counter:  counter,
		notifier: notify,
		isDev:    isDev,
	}
}

// HomePage renders the dashboard with full content.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	links, notice := h.buildDashboardData(r.Context())

	if err := pages.DashboardPage(h.isDev, links, notice).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the dashboard.
// It does not send initial state; HomePage already rendered it.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendDashboardView(ctx, sse); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) sendDashboardView(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
	links, notice := h.buildDashboardData(ctx)
	return sse.PatchElementTempl(pages.Dashboard(links, notice))
}

// buildDashboardData assembles one link per screen. A failed count leaves
// every count at zero and returns a notice.
func (h *Handlers) buildDashboardData(ctx context.Context) ([]pages.ScreenLink, string) {
	var notice string
	counts, err := h.counter.Counts(ctx)
	if err != nil {
		notice = CountsNotice
	}

	links := make([]pages.ScreenLink, 0, len(domain.Screens))
	for _, screen := range domain.Screens {
		links = append(links, pages.ScreenLink{
			Screen: screen,
			Title:  screens.Label(screen),
			Count:  counts[screen],
		})
	}
	return links, notice
}
