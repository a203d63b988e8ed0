package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bichitomultihogar/elcausa/pkg/httputil"
)

// GetFavorites handles GET /api/v1/favorites
func (h *StorefrontHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.service.GetFavorites(r.Context(), sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, favs)
}

// ClearFavorites handles DELETE /api/v1/favorites
func (h *StorefrontHandler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.service.ClearFavorites(r.Context(), sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, favs)
}

// IsFavorite handles GET /api/v1/favorites/{productId}
func (h *StorefrontHandler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.IsFavorite(r.Context(), sessionID(r), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, status)
}

// ToggleFavorite handles POST /api/v1/favorites/{productId}/toggle
func (h *StorefrontHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.ToggleFavorite(r.Context(), sessionID(r), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, status)
}

// AddFavorite handles PUT /api/v1/favorites/{productId}
func (h *StorefrontHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.AddToFavorites(r.Context(), sessionID(r), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, status)
}

// RemoveFavorite handles DELETE /api/v1/favorites/{productId}
func (h *StorefrontHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.RemoveFromFavorites(r.Context(), sessionID(r), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, status)
}
