// Package remote reads and mutates list screens through a running server's
// JSON API. A Client serves the same operations as a local store.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/brandedliving/backoffice/internal/api"
	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/urlstate"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string
	Timeout time.Duration
	// Retries is the number of extra attempts after a network or 5xx failure.
	Retries int
	Logger  *slog.Logger
}

// Client talks to the JSON API.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is maps HTTP statuses back onto the store's sentinels so callers can
// treat local and remote failures alike.
func (e *APIError) Is(target error) bool {
	switch target {
	case store.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case store.ErrInvalidStatus:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

// New creates a Client for the server at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL must have a host, got: %s", cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+api.Prefix).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(max(cfg.Retries, 0)).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	client.AddRetryCondition(retryCondition)

	return &Client{http: client, logger: logger}, nil
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	req := c.http.R().SetContext(ctx).SetError(&api.ErrorResponse{})
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		msg := resp.String()
		if e, ok := resp.Error().(*api.ErrorResponse); ok && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	c.logger.Debug("api request completed", "method", method, "path", path, "status", resp.StatusCode())
	return nil
}

func escape(parts ...string) string {
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(parts, "/")
}

type fetcher[R datatable.Row] struct {
	c      *Client
	screen string
}

func (f fetcher[R]) FetchPage(ctx context.Context, req datatable.PageRequest) (datatable.PageResult[R], error) {
	var res datatable.PageResult[R]
	if err := f.c.do(ctx, http.MethodGet, escape(f.screen), urlstate.API.Encode(req), nil, &res); err != nil {
		return datatable.PageResult[R]{}, fmt.Errorf("failed to list %s: %w", f.screen, err)
	}
	if res.Data == nil {
		res.Data = []R{}
	}
	return res, nil
}

// Brands returns the brands list source.
func (c *Client) Brands() datatable.Fetcher[domain.Brand] {
	return fetcher[domain.Brand]{c, domain.ScreenBrands}
}

// Residences returns the residences list source.
func (c *Client) Residences() datatable.Fetcher[domain.Residence] {
	return fetcher[domain.Residence]{c, domain.ScreenResidences}
}

// Users returns the users list source.
func (c *Client) Users() datatable.Fetcher[domain.User] {
	return fetcher[domain.User]{c, domain.ScreenUsers}
}

// Leads returns the leads list source.
func (c *Client) Leads() datatable.Fetcher[domain.Lead] {
	return fetcher[domain.Lead]{c, domain.ScreenLeads}
}

// Amenities returns the amenities list source.
func (c *Client) Amenities() datatable.Fetcher[domain.Amenity] {
	return fetcher[domain.Amenity]{c, domain.ScreenAmenities}
}

// BrandTypes returns the brand types list source.
func (c *Client) BrandTypes() datatable.Fetcher[domain.BrandType] {
	return fetcher[domain.BrandType]{c, domain.ScreenBrandTypes}
}

// SetStatus changes the status of one record.
func (c *Client) SetStatus(ctx context.Context, screen, id, status string) error {
	return c.do(ctx, http.MethodPatch, escape(screen, id, "status"), nil, api.StatusRequest{Status: status}, nil)
}

// Delete removes one record.
func (c *Client) Delete(ctx context.Context, screen, id string) error {
	return c.do(ctx, http.MethodDelete, escape(screen, id), nil, nil, nil)
}

// AddAmenity links an amenity to a residence.
func (c *Client) AddAmenity(ctx context.Context, residenceID, amenityID string) error {
	return c.do(ctx, http.MethodPost, escape(domain.ScreenResidences, residenceID, "amenities"), nil, api.AmenityRequest{AmenityID: amenityID}, nil)
}

// ResidenceAmenities lists the amenities linked to a residence.
func (c *Client) ResidenceAmenities(ctx context.Context, residenceID string) ([]domain.Amenity, error) {
	var out struct {
		Data []domain.Amenity `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, escape(domain.ScreenResidences, residenceID, "amenities"), nil, nil, &out)
	return out.Data, err
}

// FacetValues lists the distinct values of a facet column.
func (c *Client) FacetValues(ctx context.Context, screen, column string) ([]string, error) {
	var out struct {
		Data []string `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, escape(screen, "facets", column), nil, nil, &out)
	return out.Data, err
}

// Counts returns the number of records per screen.
func (c *Client) Counts(ctx context.Context) (map[string]int, error) {
	var out struct {
		Data map[string]int `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, "/counts", nil, nil, &out)
	return out.Data, err
}
