package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// NotFound returns the catch-all handler for unmatched routes. The response
// representation is negotiated from the Accept header: HTML gets the 404
// page from viewsDir, JSON gets {"error": "Not found"}, anything else plain
// text.
func NotFound(viewsDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		switch {
		case strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*") || accept == "":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			page, err := os.ReadFile(filepath.Join(viewsDir, "404.html"))
			if err != nil {
				io.WriteString(w, "<!DOCTYPE html><html><head><title>404 Not Found</title></head><body><h1>404 Not Found</h1></body></html>")
				return
			}
			w.Write(page)
		case strings.Contains(accept, "application/json"):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, "404 Not Found")
		}
	})
}

// Static serves files from dir, delegating to notFound when no file matches.
func Static(dir string, notFound http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upath := r.URL.Path
		if upath == "/" {
			upath = "/index.html"
		}
		name := filepath.Join(dir, filepath.Clean("/"+upath))

		info, err := os.Stat(name)
		if err != nil || info.IsDir() {
			notFound.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, name)
	})
}
