//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Assets are read from disk on every request so stylesheet edits show up
// on reload.
const version = ""

// staticDir is the static directory next to this source file, wherever the
// binary runs from.
func staticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "internal/ui/resources/static"
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler returns an HTTP handler for serving static files from the filesystem.
func Handler() http.Handler {
	dir := staticDir()
	slog.Info("static assets served from filesystem", "path", dir)

	return serve(http.FileServer(http.FS(os.DirFS(dir))), func(*http.Request) string {
		return "no-cache"
	})
}
