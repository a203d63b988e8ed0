package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/bichitomultihogar/elcausa/internal/catalog"
	"github.com/bichitomultihogar/elcausa/internal/checkout"
	"github.com/bichitomultihogar/elcausa/internal/config"
	"github.com/bichitomultihogar/elcausa/internal/domain"
	"github.com/bichitomultihogar/elcausa/internal/event"
	handler "github.com/bichitomultihogar/elcausa/internal/handler/http"
	"github.com/bichitomultihogar/elcausa/internal/repository"
	"github.com/bichitomultihogar/elcausa/internal/repository/memory"
	redisrepo "github.com/bichitomultihogar/elcausa/internal/repository/redis"
	"github.com/bichitomultihogar/elcausa/internal/service"
	"github.com/bichitomultihogar/elcausa/internal/store"
	"github.com/bichitomultihogar/elcausa/pkg/database"
	"github.com/bichitomultihogar/elcausa/pkg/health"
	pkgkafka "github.com/bichitomultihogar/elcausa/pkg/kafka"
	"github.com/bichitomultihogar/elcausa/pkg/middleware"
	"github.com/bichitomultihogar/elcausa/pkg/tracing"
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	shutdownTracer func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Tracing.
	tcfg := tracing.DefaultConfig(cfg.ServiceName)
	tcfg.Environment = cfg.Environment
	tcfg.OTLPEndpoint = cfg.OTELEndpoint
	tcfg.SampleRate = cfg.OTELSampleRate
	tcfg.Enabled = cfg.OTELEnabled
	shutdownTracer, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTracer = shutdownTracer

	// Catalog.
	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded",
		slog.Int("products", cat.Len()),
		slog.Int("categories", len(cat.Categories())),
	)

	healthHandler := health.NewHandler()

	// Session state storage.
	var repo repository.StateRepository
	switch cfg.StorageDriver {
	case config.StorageRedis:
		rcfg := database.DefaultRedisConfig()
		rcfg.Host = cfg.RedisHost
		rcfg.Port = cfg.RedisPort
		rcfg.Password = cfg.RedisPass
		rcfg.DB = cfg.RedisDB
		rdb, err := database.NewRedisClient(ctx, rcfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", rcfg.Addr()),
			slog.Int("db", cfg.RedisDB),
		)
		a.rdb = rdb
		repo = redisrepo.NewStateRepository(rdb, cfg.StateTTLDuration())
		healthHandler.Register("redis", database.RedisChecker(rdb))
	default:
		repo = memory.NewStateRepository()
		logger.Warn("using in-memory session storage; state is lost on restart")
	}

	// Events.
	var publisher event.Publisher = event.NopPublisher{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = a.producer
		healthHandler.Register("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Build the dependency graph.
	pricing := domain.DeliveryPricing{Fee: cfg.DeliveryFee, FreeThreshold: cfg.FreeDeliveryThreshold}
	dispatcher := checkout.NewDispatcher(cfg.WhatsAppDomain, cfg.WhatsAppPhone, checkout.LogOpener(logger), logger)
	storefront := service.NewStorefront(
		cat,
		repo,
		dispatcher,
		event.NewProducer(publisher, logger),
		logger,
		store.NewMetrics(reg),
		service.NewMetrics(reg),
		service.Config{
			Pricing: pricing,
			Formatter: checkout.Formatter{
				ETAMinMinutes: cfg.DeliveryETAMin,
				ETAMaxMinutes: cfg.DeliveryETAMax,
			},
			ProcessingDelay: cfg.CheckoutProcessingDelay,
			TransferContact: cfg.TransferContact,
		},
	)

	// HTTP router.
	router := handler.NewRouter(storefront, healthHandler, logger, handler.RouterConfig{
		ServiceName:    cfg.ServiceName,
		RequestTimeout: cfg.RequestTimeout,
		PprofCIDRs:     cfg.PprofCIDRs,
		CORS:           middleware.DefaultCORSConfig(cfg.CORSOrigins, cfg.Environment),
		Metrics:        middleware.NewHTTPMetrics(reg, "elcausa"),
		Gatherer:       reg,
	})

	// WriteTimeout leaves room for the checkout processing delay.
	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// Handler exposes the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
