package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts health, catalog and websocket routes.
func NewRouter(ws *WSHandler, catalogs *CatalogHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recovery)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/catalogs", func(r chi.Router) {
		r.Get("/", catalogs.List)
		r.Get("/{catalogID}", catalogs.Get)
	})
	r.Get("/ws", ws.ServeWS)
	return r
}
