package web

import (
	"net/http"
	"os"
	"path/filepath"
)

// StaticHandler serves files from a local assets directory, mirroring the
// original deployment where the frontend build sat next to the API.
type StaticHandler struct {
	dir string
}

// NewStaticHandler creates a static asset handler rooted at dir. Returns
// nil when the directory does not exist so callers can skip wiring it.
func NewStaticHandler(dir string) *StaticHandler {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return &StaticHandler{dir: dir}
}

// TryServe serves the file matching the request path if one exists.
// Returns false when there is no matching file so the caller can fall
// through to its not-found response.
func (h *StaticHandler) TryServe(w http.ResponseWriter, r *http.Request) bool {
	if h == nil {
		return false
	}

	// Clean under "/" first so ".." cannot escape the asset root.
	rel := filepath.Clean("/" + r.URL.Path)
	full := filepath.Join(h.dir, rel)

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeFile(w, r, full)
	return true
}
