package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the built client bundle. Requests for files that exist
// are served directly; anything else falls back to index.html so the
// client-side router can take over. API paths never reach this handler
// because the mux routes them to more specific patterns first.
func SPAHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reject path traversal before touching the filesystem.
		path := filepath.Clean(r.URL.Path)
		if strings.Contains(path, "..") {
			http.NotFound(w, r)
			return
		}

		full := filepath.Join(dir, path)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
