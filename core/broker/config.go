package broker

import (
	"time"

	"github.com/dmitrymomot/hub/core/config"
)

// Config holds broker configuration with environment variable support.
type Config struct {
	// Async delivery worker pool
	Workers   int `env:"BROKER_WORKERS" envDefault:"4"`
	QueueSize int `env:"BROKER_QUEUE_SIZE" envDefault:"256"`

	// Graceful shutdown
	ShutdownTimeout time.Duration `env:"BROKER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         DefaultWorkers,
		QueueSize:       DefaultQueueSize,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadConfig loads broker configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates a Broker from configuration.
// Additional options can override config values.
//
// Example:
//
//	cfg, err := broker.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b := broker.NewFromConfig(cfg, broker.WithLogger(logger))
func NewFromConfig(cfg Config, opts ...Option) *Broker {
	configOpts := make([]Option, 0, 3)

	if cfg.Workers > 0 {
		configOpts = append(configOpts, WithWorkers(cfg.Workers))
	}
	if cfg.QueueSize > 0 {
		configOpts = append(configOpts, WithQueueSize(cfg.QueueSize))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	return New(append(configOpts, opts...)...)
}
