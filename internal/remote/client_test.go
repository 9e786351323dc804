package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandedliving/backoffice/internal/api"
	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/store/storetest"
	"github.com/brandedliving/backoffice/internal/testutil"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Both implementations must satisfy the API's backend contract.
var (
	_ api.Backend = (*Client)(nil)
	_ api.Backend = (*store.Store)(nil)
)

func newClient(t *testing.T) *Client {
	t.Helper()
	r := chi.NewRouter()
	api.SetupRoutes(r, storetest.Seeded(t), testutil.NewTestLogger(t))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"localhost:8080", "ftp://example.com", "http://"} {
		_, err := New(Config{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestFetchPage(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	res, err := c.Brands().FetchPage(ctx, datatable.PageRequest{
		Page:   1,
		Limit:  2,
		Facets: datatable.FacetState{"brandType": {"Fashion"}},
		Sort:   datatable.SortState{{Column: "name", Desc: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, datatable.Pagination{Page: 1, PageSize: 2, TotalItems: 2, TotalPages: 1}, res.Pagination)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Bulgari", res.Data[0].Name)
	assert.Equal(t, "Armani", res.Data[1].Name)

	users, err := c.Users().FetchPage(ctx, datatable.PageRequest{Page: 1, Query: "dana"})
	require.NoError(t, err)
	require.Len(t, users.Data, 1)
	require.NotNil(t, users.Data[0].Role)
	assert.Equal(t, "Admin", users.Data[0].Role.Name)

	empty, err := c.Leads().FetchPage(ctx, datatable.PageRequest{Page: 1, Query: "xyz123"})
	require.NoError(t, err)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.Pagination.TotalPages)
}

func TestFetchPage_EveryScreen(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	req := datatable.PageRequest{Page: 1}

	_, err := c.Residences().FetchPage(ctx, req)
	assert.NoError(t, err)
	_, err = c.Amenities().FetchPage(ctx, req)
	assert.NoError(t, err)
	types, err := c.BrandTypes().FetchPage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, types.Pagination.TotalItems)
}

func TestMutations(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetStatus(ctx, domain.ScreenLeads, "l-1", "Contacted"))
	err := c.SetStatus(ctx, domain.ScreenLeads, "l-1", "Active")
	assert.ErrorIs(t, err, store.ErrInvalidStatus)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "invalid status")

	require.NoError(t, c.Delete(ctx, domain.ScreenAmenities, "am-gym"))
	assert.ErrorIs(t, c.Delete(ctx, domain.ScreenAmenities, "am-gym"), store.ErrNotFound)

	require.NoError(t, c.AddAmenity(ctx, "r-3", "am-pool"))
	amenities, err := c.ResidenceAmenities(ctx, "r-3")
	require.NoError(t, err)
	require.Len(t, amenities, 1)
	assert.Equal(t, "Pool", amenities[0].Name)
}

func TestFacetValuesAndCounts(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	values, err := c.FacetValues(ctx, domain.ScreenResidences, "developmentStatus")
	require.NoError(t, err)
	assert.Equal(t, []string{"Completed", "Planned", "Under Construction"}, values)

	counts, err := c.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[domain.ScreenUsers])
	assert.Equal(t, 3, counts[domain.ScreenAmenities])
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"brands":7}}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Retries: 3})
	require.NoError(t, err)
	counts, err := c.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, counts[domain.ScreenBrands])
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchPage_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Brands().FetchPage(context.Background(), datatable.PageRequest{Page: 1})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}
