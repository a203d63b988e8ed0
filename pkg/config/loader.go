package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Option adjusts how Load reads variables.
type Option func(*env.Options)

// WithEnvironment reads variables from environ instead of the process
// environment. A nil map keeps the process environment.
func WithEnvironment(environ map[string]string) Option {
	return func(o *env.Options) {
		if environ != nil {
			o.Environment = environ
		}
	}
}

// Load parses environment variables into the provided struct. The struct
// uses `env` tags; durations such as CHECKOUT_PROCESSING_DELAY accept Go
// duration syntax ("2s") and lists are comma separated.
//
// Example:
//
//	type Config struct {
//	    DeliveryFee int64         `env:"DELIVERY_FEE" envDefault:"800"`
//	    Delay       time.Duration `env:"CHECKOUT_PROCESSING_DELAY" envDefault:"2s"`
//	}
func Load(cfg any, opts ...Option) error {
	var o env.Options
	for _, opt := range opts {
		opt(&o)
	}
	if err := env.ParseWithOptions(cfg, o); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
