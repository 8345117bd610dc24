// Package site serves the embedded daily word page.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register attaches the page at / and its assets under /static/ to r.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	h := NewRootHandler()
	r.Get("/", h.HandleRoot)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(FS())))
}

// RootHandler serves the index page.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// HandleRoot handles GET /. The page reads /daily-word and /clock itself
// and forwards its own testdate query.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	r2 := r.Clone(r.Context())
	r2.URL.Path = "/"
	h.files.ServeHTTP(w, r2)
}
