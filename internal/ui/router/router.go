// Package router sets up HTTP routes for the UI server.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/brandedliving/backoffice/internal/api"
	"github.com/brandedliving/backoffice/internal/domain"
	homeFeature "github.com/brandedliving/backoffice/internal/ui/features/home"
	listingFeature "github.com/brandedliving/backoffice/internal/ui/features/listing"
	"github.com/brandedliving/backoffice/internal/ui/notifier"
	"github.com/brandedliving/backoffice/internal/ui/resources"
	"github.com/brandedliving/backoffice/internal/ui/tablestate"
)

// Deps are the shared dependencies of every route.
type Deps struct {
	Backend      api.Backend
	Registry     *tablestate.Registry
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
	IsDev        bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	router.Handle(resources.Prefix+"*", resources.Handler())

	// Changes made through the JSON API refresh open screens too.
	api.SetupRoutes(router, notifying{Backend: deps.Backend, notify: deps.Notifier}, deps.Logger)

	if err := homeFeature.SetupRoutes(router, deps.Backend, deps.Notifier, deps.IsDev); err != nil {
		return err
	}

	if err := listingFeature.SetupRoutes(router, deps.Backend, deps.Registry, deps.SessionStore, deps.Notifier, deps.IsDev); err != nil {
		return err
	}

	return nil
}

// notifying broadcasts after every successful mutation.
type notifying struct {
	api.Backend
	notify *notifier.Notifier
}

func (n notifying) SetStatus(ctx context.Context, screen, id, status string) error {
	return n.after(n.Backend.SetStatus(ctx, screen, id, status), domain.Affected(screen)...)
}

func (n notifying) Delete(ctx context.Context, screen, id string) error {
	return n.after(n.Backend.Delete(ctx, screen, id), domain.Affected(screen)...)
}

func (n notifying) AddAmenity(ctx context.Context, residenceID, amenityID string) error {
	return n.after(n.Backend.AddAmenity(ctx, residenceID, amenityID), domain.ScreenResidences, domain.ScreenAmenities)
}

func (n notifying) after(err error, screens ...string) error {
	if err == nil {
		n.notify.Broadcast(screens...)
	}
	return err
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
