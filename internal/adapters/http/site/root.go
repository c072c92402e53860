// Package site serves the embedded ratings page.
package site

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var static embed.FS

// Register attaches the ratings page at "/" and its assets below it. Paths
// with no embedded file answer 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	root, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	files := http.FileServer(http.FS(root))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		// The page reads live ratings, so browsers should revalidate it.
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}
