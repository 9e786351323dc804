package tablestate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/screens"
)

// ErrUnknownScreen is returned for a screen without a factory.
var ErrUnknownScreen = errors.New("unknown screen")

// DefaultIdle is how long an unused listing is kept.
const DefaultIdle = 30 * time.Minute

// Factory creates the listing of one screen.
type Factory func() Listing

// Catalog returns a factory per screen with the row actions bound.
func Catalog(source screens.Source, opts Options) map[string]Factory {
	return map[string]Factory{
		domain.ScreenBrands: func() Listing {
			return New(screens.Brands(screens.StatusActions(domain.ScreenBrands, screens.PublicationStatuses,
				func(r domain.Brand) string { return string(r.Status) })), source, opts)
		},
		domain.ScreenResidences: func() Listing {
			return New(screens.Residences(screens.StatusActions(domain.ScreenResidences, screens.PublicationStatuses,
				func(r domain.Residence) string { return string(r.Status) })), source, opts)
		},
		domain.ScreenUsers: func() Listing {
			return New(screens.Users(screens.StatusActions(domain.ScreenUsers, screens.PublicationStatuses,
				func(r domain.User) string { return string(r.Status) })), source, opts)
		},
		domain.ScreenLeads: func() Listing {
			return New(screens.Leads(screens.StatusActions(domain.ScreenLeads, screens.LeadStatuses,
				func(r domain.Lead) string { return string(r.Status) })), source, opts)
		},
		domain.ScreenAmenities: func() Listing {
			return New(screens.Amenities(screens.StatusActions(domain.ScreenAmenities, screens.PublicationStatuses,
				func(r domain.Amenity) string { return string(r.Status) })), source, opts)
		},
		domain.ScreenBrandTypes: func() Listing {
			return New(screens.BrandTypes(screens.DeleteAction[domain.BrandType](domain.ScreenBrandTypes)), source, opts)
		},
	}
}

type key struct {
	session string
	screen  string
}

type entry struct {
	listing Listing
	used    time.Time
	holds   int
}

// Registry owns the listings of every session.
type Registry struct {
	factories map[string]Factory
	idle      time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	entries map[key]*entry
}

// NewRegistry creates a registry. Listings unused for longer than idle are
// closed by Sweep; zero means DefaultIdle.
func NewRegistry(factories map[string]Factory, idle time.Duration, logger *slog.Logger) *Registry {
	if idle <= 0 {
		idle = DefaultIdle
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		factories: factories,
		idle:      idle,
		logger:    logger,
		now:       time.Now,
		entries:   make(map[key]*entry),
	}
}

// Get returns a session's listing of screen, creating it on first use.
// created reports a new listing that has not been restored yet.
func (r *Registry) Get(session, screen string) (l Listing, created bool, err error) {
	l, created, _, err = r.get(session, screen, false)
	return l, created, err
}

// Hold is Get for long-lived streams: the listing is not swept until
// release is called.
func (r *Registry) Hold(session, screen string) (l Listing, created bool, release func(), err error) {
	return r.get(session, screen, true)
}

func (r *Registry) get(session, screen string, hold bool) (Listing, bool, func(), error) {
	factory, ok := r.factories[screen]
	if !ok {
		return nil, false, nil, fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{session, screen}
	e, found := r.entries[k]
	if !found {
		e = &entry{listing: factory()}
		r.entries[k] = e
		r.logger.Debug("created listing", "session", session, "screen", screen)
	}
	e.used = r.now()

	release := func() {}
	if hold {
		e.holds++
		var once sync.Once
		release = func() {
			once.Do(func() {
				r.mu.Lock()
				defer r.mu.Unlock()
				e.holds--
				e.used = r.now()
			})
		}
	}
	return e.listing, !found, release, nil
}

// Sweep closes listings idle since before now-idle and returns how many.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var stale []Listing
	for k, e := range r.entries {
		if e.holds == 0 && now.Sub(e.used) > r.idle {
			stale = append(stale, e.listing)
			delete(r.entries, k)
		}
	}
	r.mu.Unlock()

	for _, l := range stale {
		l.Close()
	}
	if len(stale) > 0 {
		r.logger.Debug("swept idle listings", "count", len(stale))
	}
	return len(stale)
}

// Run sweeps periodically until ctx is done, then closes every listing.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return nil
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Close closes every listing.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[key]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.listing.Close()
	}
}

// Len returns the number of live listings.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

const (
	sessionName = "backoffice"
	sessionKey  = "sid"
)

// SessionID returns the id of the browser session, starting one when the
// request carries none. It must run before the response is written.
func SessionID(store sessions.Store, w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := store.Get(r, sessionName)
	if sess == nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if id, ok := sess.Values[sessionKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[sessionKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}
