package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/randomchill-vibes/findthestate/internal/app"
	"github.com/randomchill-vibes/findthestate/internal/domain"
)

// CatalogHandler exposes region catalogs so render surfaces can label the map.
type CatalogHandler struct {
	catalogs app.CatalogRepository
	ids      []string
}

func NewCatalogHandler(catalogs app.CatalogRepository, ids []string) *CatalogHandler {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return &CatalogHandler{catalogs: catalogs, ids: sorted}
}

type regionEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type catalogResponse struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Regions []regionEntry `json:"regions"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"catalogs": h.ids})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "catalogID")
	catalog, err := h.catalogs.GetCatalog(r.Context(), id)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := catalogResponse{ID: catalog.ID, Title: catalog.Title}
	for _, code := range catalog.Codes() {
		name, _ := catalog.Name(code)
		resp.Regions = append(resp.Regions, regionEntry{Code: code, Name: name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Message: msg})
}
