// Package api exposes the list screens as a JSON API: paged, filtered and
// sorted listings plus the status, delete and amenity mutations.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/urlstate"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Backend is the record source the API serves.
type Backend interface {
	Brands() datatable.Fetcher[domain.Brand]
	Residences() datatable.Fetcher[domain.Residence]
	Users() datatable.Fetcher[domain.User]
	Leads() datatable.Fetcher[domain.Lead]
	Amenities() datatable.Fetcher[domain.Amenity]
	BrandTypes() datatable.Fetcher[domain.BrandType]

	SetStatus(ctx context.Context, screen, id, status string) error
	Delete(ctx context.Context, screen, id string) error
	AddAmenity(ctx context.Context, residenceID, amenityID string) error
	ResidenceAmenities(ctx context.Context, residenceID string) ([]domain.Amenity, error)
	FacetValues(ctx context.Context, screen, column string) ([]string, error)
	Counts(ctx context.Context) (map[string]int, error)
}

// StatusRequest is the body of a status change.
type StatusRequest struct {
	Status string `json:"status"`
}

// AmenityRequest is the body of an amenity link.
type AmenityRequest struct {
	AmenityID string `json:"amenityId"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Prefix is the mount point of the API.
const Prefix = "/api/v1"

// Handlers serves the JSON API.
type Handlers struct {
	backend Backend
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(backend Backend, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{backend: backend, logger: logger}
}

// SetupRoutes registers the API routes.
func SetupRoutes(router chi.Router, backend Backend, logger *slog.Logger) {
	h := NewHandlers(backend, logger)

	router.Route(Prefix, func(r chi.Router) {
		r.Get("/counts", h.Counts)
		r.Get("/residences/{id}/amenities", h.ResidenceAmenities)
		r.Post("/residences/{id}/amenities", h.AddAmenity)
		r.Get("/{screen}", h.List)
		r.Get("/{screen}/facets/{column}", h.FacetValues)
		r.Patch("/{screen}/{id}/status", h.SetStatus)
		r.Delete("/{screen}/{id}", h.Delete)
	})
}

// List serves one page of a screen.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	screen := chi.URLParam(r, "screen")
	req := urlstate.API.Decode(r.URL.Query())
	if req.Page < 1 {
		req.Page = 1
	}

	switch screen {
	case domain.ScreenBrands:
		serveList(h, w, r, h.backend.Brands(), req)
	case domain.ScreenResidences:
		serveList(h, w, r, h.backend.Residences(), req)
	case domain.ScreenUsers:
		serveList(h, w, r, h.backend.Users(), req)
	case domain.ScreenLeads:
		serveList(h, w, r, h.backend.Leads(), req)
	case domain.ScreenAmenities:
		serveList(h, w, r, h.backend.Amenities(), req)
	case domain.ScreenBrandTypes:
		serveList(h, w, r, h.backend.BrandTypes(), req)
	default:
		h.writeError(w, r, fmt.Errorf("%w: %q", store.ErrUnknownScreen, screen))
	}
}

func serveList[R datatable.Row](h *Handlers, w http.ResponseWriter, r *http.Request, f datatable.Fetcher[R], req datatable.PageRequest) {
	res, err := f.FetchPage(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if res.Data == nil {
		res.Data = []R{}
	}
	writeJSON(w, http.StatusOK, res)
}

// SetStatus changes a record's status.
func (h *Handlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	var body StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	screen, id := chi.URLParam(r, "screen"), chi.URLParam(r, "id")
	if err := h.backend.SetStatus(r.Context(), screen, id, body.Status); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logger.Info("status changed", "screen", screen, "id", id, "status", body.Status)
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a record.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	screen, id := chi.URLParam(r, "screen"), chi.URLParam(r, "id")
	if err := h.backend.Delete(r.Context(), screen, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddAmenity links an amenity to a residence.
func (h *Handlers) AddAmenity(w http.ResponseWriter, r *http.Request) {
	var body AmenityRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AmenityID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "amenityId is required"})
		return
	}
	if err := h.backend.AddAmenity(r.Context(), chi.URLParam(r, "id"), body.AmenityID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResidenceAmenities lists the amenities of a residence.
func (h *Handlers) ResidenceAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.backend.ResidenceAmenities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if amenities == nil {
		amenities = []domain.Amenity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": amenities})
}

// FacetValues lists the distinct values of a facet column.
func (h *Handlers) FacetValues(w http.ResponseWriter, r *http.Request) {
	values, err := h.backend.FacetValues(r.Context(), chi.URLParam(r, "screen"), chi.URLParam(r, "column"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": values})
}

// Counts returns the record count of every screen.
func (h *Handlers) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.backend.Counts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": counts})
}

// StatusCode maps a backend error onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrUnknownScreen),
		errors.Is(err, store.ErrUnknownColumn):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(code)
	}
	writeJSON(w, code, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
