package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bichitomultihogar/elcausa/pkg/httputil"
	"github.com/bichitomultihogar/elcausa/pkg/pagination"
)

// ListCategories handles GET /api/v1/categories
func (h *StorefrontHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Categories())
}

// ListProducts handles GET /api/v1/products?category=&q=&page=&per_page=
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result := h.service.ListProducts(q.Get("category"), q.Get("q"), pagination.FromRequest(r))
	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /api/v1/products/{slug}
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, p)
}
