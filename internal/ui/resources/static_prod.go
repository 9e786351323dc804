//go:build !dev

package resources

import (
	"embed"
	"encoding/hex"
	"hash/fnv"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

var version = contentVersion(staticFS)

// contentVersion hashes every embedded asset.
func contentVersion(fsys fs.FS) string {
	h := fnv.New64a()
	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		_, _ = h.Write([]byte(path))
		_, _ = h.Write(data)
		return nil
	})
	return hex.EncodeToString(h.Sum(nil))
}

// Handler returns an HTTP handler for serving the embedded static files.
// Versioned requests are cached for a year.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")

	return serve(http.FileServer(http.FS(fsys)), func(r *http.Request) string {
		if r.URL.Query().Get("v") == version {
			return "public, max-age=31536000, immutable"
		}
		return "no-cache"
	})
}
