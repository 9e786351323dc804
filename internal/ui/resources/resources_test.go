//go:build !dev

package resources

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticPath_IsVersioned(t *testing.T) {
	path := StaticPath(Stylesheet)

	assert.True(t, strings.HasPrefix(path, "/static/backoffice.css?v="))
	assert.Len(t, strings.TrimPrefix(path, "/static/backoffice.css?v="), 16)
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantCache string
	}{
		{"versioned asset", StaticPath(Stylesheet), http.StatusOK, "public, max-age=31536000, immutable"},
		{"unversioned asset", "/static/backoffice.css", http.StatusOK, "no-cache"},
		{"missing asset", "/static/missing.css", http.StatusNotFound, ""},
		{"directory listing", "/static/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))
				assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
				assert.Contains(t, rec.Body.String(), ".dt-table")
			}
		})
	}
}
