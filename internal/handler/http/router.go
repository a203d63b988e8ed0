package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bichitomultihogar/elcausa/internal/service"
	"github.com/bichitomultihogar/elcausa/pkg/health"
	"github.com/bichitomultihogar/elcausa/pkg/middleware"
)

// catalogMaxAge is how long clients may cache catalog responses. The catalog
// only changes on redeploy.
const catalogMaxAge = 5 * time.Minute

// RouterConfig holds the cross-cutting settings of the router.
type RouterConfig struct {
	ServiceName    string
	RequestTimeout time.Duration
	PprofCIDRs     []string
	CORS           middleware.CORSConfig
	Metrics        *middleware.HTTPMetrics
	Gatherer       prometheus.Gatherer
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc *service.Storefront,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	h := NewStorefrontHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(catalogMaxAge))

			r.Get("/categories", h.ListCategories)
			r.Get("/products", h.ListProducts)
			r.Get("/products/{slug}", h.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Session)

			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/items", h.AddItem)
			r.Put("/cart/items/{productId}", h.UpdateItemQuantity)
			r.Delete("/cart/items/{productId}", h.RemoveItem)

			r.Get("/favorites", h.GetFavorites)
			r.Delete("/favorites", h.ClearFavorites)
			r.Get("/favorites/{productId}", h.IsFavorite)
			r.Put("/favorites/{productId}", h.AddFavorite)
			r.Delete("/favorites/{productId}", h.RemoveFavorite)
			r.Post("/favorites/{productId}/toggle", h.ToggleFavorite)

			r.Post("/checkout", h.Checkout)
		})
	})

	return r
}
