// Package resources provides static asset handling for the UI server.
package resources

import (
	"net/http"
	"strings"
)

// Stylesheet is the back office stylesheet.
const Stylesheet = "backoffice.css"

// Prefix is where static assets are mounted.
const Prefix = "/static/"

// StaticPath returns the URL path for a static asset. Embedded builds add
// a content version so the asset can be cached forever.
func StaticPath(name string) string {
	if version == "" {
		return Prefix + name
	}
	return Prefix + name + "?v=" + version
}

// serve strips the mount prefix and sets the cache policy of each response.
func serve(files http.Handler, cacheControl func(r *http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cacheControl(r))
		http.StripPrefix(Prefix, files).ServeHTTP(w, r)
	})
}
