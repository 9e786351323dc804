// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/store/storetest"
	"github.com/brandedliving/backoffice/internal/testutil"
	"github.com/brandedliving/backoffice/internal/ui/notifier"
	"github.com/brandedliving/backoffice/internal/ui/tablestate"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store        *store.Store
	Registry     *tablestate.Registry
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a seeded in-memory store with a listing registry
// over it. Listings page on the server unless opts says otherwise.
func SetupTestFixture(t *testing.T, opts tablestate.Options) *TestFixture {
	t.Helper()

	s := storetest.Seeded(t)
	if opts.Logger == nil {
		opts.Logger = testutil.NewTestLogger(t)
	}
	registry := tablestate.NewRegistry(tablestate.Catalog(s, opts), 0, opts.Logger)
	t.Cleanup(registry.Close)

	return &TestFixture{
		Store:        s,
		Registry:     registry,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// RequestWithPathParams wraps a request with chi URL params given as
// key, value pairs.
func RequestWithPathParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	_ = cancel // the timeout releases the context
	return r.WithContext(ctx)
}

// SessionCookies returns the cookies a response set, for replaying the
// session on a following request.
func SessionCookies(resp *http.Response) []*http.Cookie {
	defer func() { _ = resp.Body.Close() }()
	return resp.Cookies()
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
