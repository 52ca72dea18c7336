package sandbox

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/delicias-storefront/internal/catalog"
)

// CatalogHandlers serves the read-only product catalog.
type CatalogHandlers struct {
	fixtures Fixtures
}

func NewCatalogHandlers(f Fixtures) *CatalogHandlers {
	return &CatalogHandlers{fixtures: f}
}

// ListProducts supports ?categoria=<exact name> and ?search=<term>.
func (h *CatalogHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondJSON(w, http.StatusOK, h.fixtures.listProducts(q.Get("categoria"), q.Get("search")))
}

func (h *CatalogHandlers) Featured(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.fixtures.featured())
}

func (h *CatalogHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.fixtures.Categories)
}

func (h *CatalogHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondDetail(w, "No encontrado.", http.StatusNotFound)
		return
	}
	p, ok := h.fixtures.product(id)
	if !ok {
		respondDetail(w, "No encontrado.", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Banners answers in the paginated shape.
func (h *CatalogHandlers) Banners(w http.ResponseWriter, r *http.Request) {
	banners := h.fixtures.activeBanners()
	respondJSON(w, http.StatusOK, struct {
		Count    int              `json:"count"`
		Next     *string          `json:"next"`
		Previous *string          `json:"previous"`
		Results  []catalog.Banner `json:"results"`
	}{Count: len(banners), Results: banners})
}
