package broker

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Broker.
type Option func(*Broker)

// WithLogger sets the logger for the broker.
// If not set, slog.Default() is used.
//
// Example:
//
//	b := broker.New(broker.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithWorkers sets the number of worker goroutines for asynchronous delivery.
// Default is DefaultWorkers. More workers increase delivery concurrency.
func WithWorkers(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithQueueSize sets the buffer size of the asynchronous delivery queue.
// Default is DefaultQueueSize. Publishing in async mode fails with
// ErrQueueFull once the buffer is full.
func WithQueueSize(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.queueSize = n
		}
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout for Close.
// Default is DefaultShutdownTimeout. If queued deliveries don't drain within
// this timeout, Close returns an error but the broker still stops.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(b *Broker) {
		if timeout > 0 {
			b.shutdownTimeout = timeout
		}
	}
}

// WithMetrics registers broker metrics on the given Prometheus registerer.
// Without this option the broker records no metrics.
//
// Example:
//
//	b := broker.New(broker.WithMetrics(prometheus.DefaultRegisterer))
func WithMetrics(reg prometheus.Registerer) Option {
	return func(b *Broker) {
		if reg != nil {
			b.metrics = newMetrics(reg)
		}
	}
}

// WithMiddleware sets middleware applied to every handler at subscription
// time, in the order provided (first middleware is outermost).
// Middleware must be configured at construction time.
func WithMiddleware(middleware ...Middleware) Option {
	return func(b *Broker) {
		b.middleware = middleware
	}
}

type subscribeOptions struct {
	group string
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeOptions)

// WithGroup places the subscription in a named group. Only messages
// published to the same group are delivered to it.
// Subscriptions without a group belong to the default group.
func WithGroup(name string) SubscribeOption {
	return func(o *subscribeOptions) {
		o.group = name
	}
}

type publishOptions struct {
	group string
	async bool
}

// PublishOption configures a single publish or batch-publish call.
type PublishOption func(*publishOptions)

// ToGroup targets the message at a named subscriber group.
// Without this option the message goes to the default group.
func ToGroup(name string) PublishOption {
	return func(o *publishOptions) {
		o.group = name
	}
}

// WithAsync delivers the message on the broker's worker pool instead of the
// calling goroutine. The publish call returns without waiting for handler
// completion, and no ordering is guaranteed between deliveries.
func WithAsync() PublishOption {
	return func(o *publishOptions) {
		o.async = true
	}
}

func applyPublishOptions(opts []PublishOption) publishOptions {
	var o publishOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
