// Package listing serves the list screens: the page, its update stream and
// every table interaction.
package listing

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/brandedliving/backoffice/internal/ui/notifier"
	"github.com/brandedliving/backoffice/internal/ui/tablestate"
)

// SetupRoutes configures routes for the list screens.
func SetupRoutes(
	router chi.Router,
	backend Backend,
	registry *tablestate.Registry,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	isDev bool,
) error {
	handlers := NewHandlers(backend, registry, sessionStore, notify, isDev)

	router.Route("/{screen}", func(r chi.Router) {
		r.Get("/", handlers.ListPage)
		r.Get("/updates", handlers.ListPageUpdates)

		r.Post("/search", handlers.Search)
		r.Post("/facets", handlers.Facets)
		r.Post("/sort/{column}", handlers.Sort)
		r.Post("/page/{n}", handlers.Page)
		r.Post("/next", handlers.Next)
		r.Post("/prev", handlers.Previous)
		r.Post("/size/{n}", handlers.Size)
		r.Post("/select", handlers.SelectPage)
		r.Post("/select/{id}", handlers.Select)
		r.Post("/columns/{id}", handlers.Column)
		r.Post("/layout/{mode}", handlers.Layout)

		r.Patch("/{id}/status", handlers.SetStatus)
		r.Delete("/{id}", handlers.Delete)
	})

	return nil
}
