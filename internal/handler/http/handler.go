package http

import (
	"log/slog"
	"net/http"

	"github.com/bichitomultihogar/elcausa/internal/service"
	"github.com/bichitomultihogar/elcausa/pkg/httputil"
	"github.com/bichitomultihogar/elcausa/pkg/middleware"
)

// StorefrontHandler handles the catalog, cart, favorites and checkout
// endpoints.
type StorefrontHandler struct {
	service *service.Storefront
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront HTTP handler.
func NewStorefrontHandler(svc *service.Storefront, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: svc,
		logger:  logger,
	}
}

func (h *StorefrontHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteError(w, r, err, h.logger)
}

func sessionID(r *http.Request) string {
	return middleware.SessionIDFromContext(r)
}
