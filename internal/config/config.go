package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	pkgconfig "github.com/bichitomultihogar/elcausa/pkg/config"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Config holds all configuration for the storefront service.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"elcausa"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	PprofCIDRs      []string      `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`

	// Session state storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass     string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// State TTL in hours (default: 30 days, close to a browser keeping localStorage)
	StateTTL int `env:"STATE_TTL_HOURS" envDefault:"720"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Catalog
	CatalogFile string `env:"CATALOG_FILE"`

	// Delivery pricing, whole pesos
	DeliveryFee           int64 `env:"DELIVERY_FEE" envDefault:"800"`
	FreeDeliveryThreshold int64 `env:"FREE_DELIVERY_THRESHOLD" envDefault:"10000"`
	DeliveryETAMin        int   `env:"DELIVERY_ETA_MIN_MINUTES" envDefault:"30"`
	DeliveryETAMax        int   `env:"DELIVERY_ETA_MAX_MINUTES" envDefault:"45"`

	// Checkout
	WhatsAppDomain          string        `env:"WHATSAPP_DOMAIN" envDefault:"wa.me"`
	WhatsAppPhone           string        `env:"WHATSAPP_PHONE" envDefault:"543521539991"`
	TransferContact         string        `env:"TRANSFER_CONTACT" envDefault:"+54 9 11 2345-6789"`
	CheckoutProcessingDelay time.Duration `env:"CHECKOUT_PROCESSING_DELAY" envDefault:"2s"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads configuration from environ, or from the process environment
// when environ is nil.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg, pkgconfig.WithEnvironment(environ)); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StateTTLDuration converts StateTTL to a time.Duration.
func (c *Config) StateTTLDuration() time.Duration {
	return time.Duration(c.StateTTL) * time.Hour
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	var errs []error

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP port: %d", c.HTTPPort))
	}
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	if c.StorageDriver != StorageMemory && c.StorageDriver != StorageRedis {
		errs = append(errs, fmt.Errorf("invalid storage driver %q: want %s or %s", c.StorageDriver, StorageMemory, StorageRedis))
	}
	if c.StateTTL < 0 {
		errs = append(errs, fmt.Errorf("invalid state TTL: %d hours", c.StateTTL))
	}
	if c.DeliveryFee < 0 {
		errs = append(errs, fmt.Errorf("delivery fee must not be negative: %d", c.DeliveryFee))
	}
	if c.FreeDeliveryThreshold < 0 {
		errs = append(errs, fmt.Errorf("free delivery threshold must not be negative: %d", c.FreeDeliveryThreshold))
	}
	if c.DeliveryETAMin < 0 || c.DeliveryETAMax < 1 || c.DeliveryETAMax < c.DeliveryETAMin {
		errs = append(errs, fmt.Errorf("invalid delivery ETA range: %d-%d", c.DeliveryETAMin, c.DeliveryETAMax))
	}
	if !digitsOnly.MatchString(c.WhatsAppPhone) {
		errs = append(errs, fmt.Errorf("whatsapp phone must be digits only: %q", c.WhatsAppPhone))
	}
	if c.WhatsAppDomain == "" {
		errs = append(errs, errors.New("whatsapp domain must not be empty"))
	}
	if c.CheckoutProcessingDelay < 0 {
		errs = append(errs, fmt.Errorf("checkout processing delay must not be negative: %s", c.CheckoutProcessingDelay))
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("kafka enabled without brokers"))
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		errs = append(errs, fmt.Errorf("otel sample rate out of range [0,1]: %v", c.OTELSampleRate))
	}

	return errors.Join(errs...)
}
