// Package home provides the dashboard landing page feature for the UI.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/brandedliving/backoffice/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	counter Counter,
	notify *notifier.Notifier,
	isDev bool,
) error {
	handlers := NewHandlers(counter, notify, isDev)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	return nil
}
