package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/store/storetest"
	"github.com/brandedliving/backoffice/internal/testutil"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := storetest.Seeded(t)
	r := chi.NewRouter()
	SetupRoutes(r, s, testutil.NewTestLogger(t))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestList(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/brands?limit=2&page=2&sort=name:asc", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	page := decode[datatable.PageResult[domain.Brand]](t, resp)
	assert.Equal(t, datatable.Pagination{Page: 2, PageSize: 2, TotalItems: 4, TotalPages: 2}, page.Pagination)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Bulgari", page.Data[0].Name)
	assert.Equal(t, "Ritz", page.Data[1].Name)
}

func TestList_FiltersAndSearch(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/brands?status=Active&status=Draft&country=Italy", "")
	page := decode[datatable.PageResult[domain.Brand]](t, resp)
	assert.Equal(t, 2, page.Pagination.TotalItems)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/residences?query=tokyo", "")
	residences := decode[datatable.PageResult[domain.Residence]](t, resp)
	require.Len(t, residences.Data, 1)
	assert.Equal(t, "r-2", residences.Data[0].ID)
	assert.Equal(t, "Aman", residences.Data[0].BrandName)
}

func TestList_EmptyResult(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/leads?query=xyz123", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw["data"]))
	assert.JSONEq(t, `{"page":1,"limit":10,"total":0,"totalPages":0}`, string(raw["pagination"]))
}

func TestList_EveryScreen(t *testing.T) {
	srv := newServer(t)
	for _, screen := range domain.Screens {
		t.Run(screen, func(t *testing.T) {
			resp := do(t, http.MethodGet, srv.URL+"/api/v1/"+screen, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestList_UnknownScreen(t *testing.T) {
	srv := newServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/api/v1/planets", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decode[ErrorResponse](t, resp).Error, "unknown screen")
}

func TestSetStatus(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodPatch, srv.URL+"/api/v1/brands/b-aman/status", `{"status":"Active"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	counts := do(t, http.MethodGet, srv.URL+"/api/v1/brands?status=Active", "")
	assert.Equal(t, 3, decode[datatable.PageResult[domain.Brand]](t, counts).Pagination.TotalItems)

	resp = do(t, http.MethodPatch, srv.URL+"/api/v1/brands/b-aman/status", `{"status":"Won"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPatch, srv.URL+"/api/v1/brands/missing/status", `{"status":"Active"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPatch, srv.URL+"/api/v1/brands/b-aman/status", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodDelete, srv.URL+"/api/v1/residences/r-3", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/v1/residences/r-3", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAmenities(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/residences/r-1/amenities", `{"amenityId":"am-spa"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/residences/r-1/amenities", "")
	body := decode[struct {
		Data []domain.Amenity `json:"data"`
	}](t, resp)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Spa", body.Data[0].Name)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/residences/r-1/amenities", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/residences/r-404/amenities", `{"amenityId":"am-spa"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFacetValuesAndCounts(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/brands/facets/country", "")
	values := decode[struct {
		Data []string `json:"data"`
	}](t, resp)
	assert.Equal(t, []string{"Italy", "Japan", "UAE"}, values.Data)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/brands/facets/slug", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/counts", "")
	counts := decode[struct {
		Data map[string]int `json:"data"`
	}](t, resp)
	assert.Equal(t, 4, counts.Data[domain.ScreenBrands])
	assert.Equal(t, 3, counts.Data[domain.ScreenResidences])
	assert.Equal(t, 2, counts.Data[domain.ScreenLeads])
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(store.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, StatusCode(store.ErrUnknownColumn))
	assert.Equal(t, http.StatusBadRequest, StatusCode(store.ErrInvalidStatus))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("disk on fire")))
}

func TestInternalErrorsAreHidden(t *testing.T) {
	backend := failingBackend{Backend: storetest.Seeded(t)}
	logger, logs := testutil.NewCaptureLogger(t)
	r := chi.NewRouter()
	SetupRoutes(r, backend, logger)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/counts", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())

	entry, ok := logs.Find("request failed")
	require.True(t, ok, "the hidden error is logged")
	assert.Equal(t, "/api/v1/counts", entry["path"])
	assert.Equal(t, "connection reset by peer", entry["error"])
}

type failingBackend struct {
	Backend
}

func (failingBackend) Counts(context.Context) (map[string]int, error) {
	return nil, errors.New("connection reset by peer")
}
