package broker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/hub/core/logger"
)

const (
	// DefaultWorkers is the default number of async delivery workers.
	DefaultWorkers = 4

	// DefaultQueueSize is the default buffer size of the async delivery queue.
	DefaultQueueSize = 256

	// DefaultShutdownTimeout is the default graceful shutdown timeout for Close.
	DefaultShutdownTimeout = 30 * time.Second
)

// Broker is an in-process publish/subscribe hub. Handlers and receivers
// register interest in messages and receive them without knowing the
// publisher's identity. All public operations are safe for concurrent use.
type Broker struct {
	registry   *registry
	dispatcher *dispatcher
	middleware []Middleware
	logger     *slog.Logger
	metrics    *metrics

	workers         int
	queueSize       int
	shutdownTimeout time.Duration

	closed    atomic.Bool
	published atomic.Uint64
}

// New creates a broker with the given options.
//
// Example:
//
//	b := broker.New(
//	    broker.WithWorkers(8),
//	    broker.WithLogger(logger),
//	)
//	defer b.Close()
func New(opts ...Option) *Broker {
	b := &Broker{
		registry:        newRegistry(),
		logger:          slog.Default(),
		workers:         DefaultWorkers,
		queueSize:       DefaultQueueSize,
		shutdownTimeout: DefaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.logger = b.logger.With(logger.Component("broker"))
	b.dispatcher = newDispatcher(b.workers, b.queueSize, b.shutdownTimeout, b.logger, b.metrics)

	return b
}

var (
	defaultBroker *Broker
	defaultOnce   sync.Once
)

// Default returns the process-wide broker, constructing it with default
// options on first access. Construction happens exactly once even under
// concurrent first access from multiple goroutines. The default broker lives
// for the rest of the process and is never closed.
func Default() *Broker {
	defaultOnce.Do(func() {
		defaultBroker = New()
	})
	return defaultBroker
}

// Subscribe registers a handler. The handler value itself is the subscription
// identity: subscribing the same handler again replaces the existing entry
// instead of creating a duplicate delivery.
//
// Example:
//
//	handler := broker.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
//	    return sendWelcomeEmail(ctx, evt.Email)
//	})
//	b.Subscribe(handler)
func (b *Broker) Subscribe(h Handler, opts ...SubscribeOption) {
	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}

	b.registry.add(&subscription{
		key:     h,
		name:    h.Name(),
		group:   o.group,
		handler: chainMiddleware(h, b.middleware),
	})
	b.metrics.setSubscribers(b.registry.len())

	b.logger.Debug("handler subscribed",
		logger.HandlerName(h.Name()),
		logger.GroupName(o.group))
}

// SubscribeReceiver adapts a Receiver into handler form and registers it.
// The receiver value is the subscription identity, so the original receiver
// can later be passed to Unsubscribe to remove the adapted form.
//
// Example:
//
//	var r MailSender // implements broker.Receiver[UserCreated]
//	broker.SubscribeReceiver(b, r)
//	...
//	b.Unsubscribe(r)
func SubscribeReceiver[T any](b *Broker, r Receiver[T], opts ...SubscribeOption) {
	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}

	h := newReceiverHandler(r)
	b.registry.add(&subscription{
		key:     r,
		name:    h.Name(),
		group:   o.group,
		handler: chainMiddleware(h, b.middleware),
	})
	b.metrics.setSubscribers(b.registry.len())

	b.logger.Debug("receiver subscribed",
		logger.HandlerName(h.Name()),
		logger.GroupName(o.group))
}

// Unsubscribe removes the subscription keyed by the given identity: the
// Handler passed to Subscribe, or the Receiver passed to SubscribeReceiver.
// Unsubscribing an identity that was never subscribed, or was already
// removed, is a silent no-op.
func (b *Broker) Unsubscribe(key any) {
	if b.registry.remove(key) {
		b.metrics.setSubscribers(b.registry.len())
		b.logger.Debug("subscriber removed")
	}
}

// Publish delivers a message to all matching subscribers.
//
// By default delivery is synchronous: handlers run in snapshot order on the
// calling goroutine, and Publish returns once all of them finished. With
// WithAsync, deliveries are handed to the worker pool and Publish returns
// immediately.
//
// Handler faults never surface here; they are logged and counted. The
// returned error reports dispatch-level failures only: a closed broker, a
// cancelled context, or a full async queue.
func (b *Broker) Publish(ctx context.Context, payload any, opts ...PublishOption) error {
	if b.closed.Load() {
		return ErrBrokerClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	o := applyPublishOptions(opts)
	msg := newMessage(payload, o.group)
	snapshot := b.registry.snapshot()

	b.published.Add(1)
	b.metrics.incPublished(1)

	if o.async {
		return b.dispatcher.dispatchAsync(ctx, msg, snapshot)
	}

	b.dispatcher.dispatchSync(ctx, msg, snapshot)
	return nil
}

// PublishBatch delivers an ordered sequence of messages against a single
// subscriber snapshot. The registry lock is acquired once for the whole
// batch; subscription changes made while the batch is dispatching do not
// affect it. Messages are dispatched in input order. An empty batch is a
// no-op.
//
// In async mode, deliveries that cannot be queued are reported in the
// returned error (joined per message); the rest of the batch still proceeds.
func (b *Broker) PublishBatch(ctx context.Context, payloads []any, opts ...PublishOption) error {
	if len(payloads) == 0 {
		return nil
	}
	if b.closed.Load() {
		return ErrBrokerClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	o := applyPublishOptions(opts)

	// Single snapshot shared by every message in the batch.
	snapshot := b.registry.snapshot()

	b.published.Add(uint64(len(payloads)))
	b.metrics.incPublished(len(payloads))

	var errs []error
	for _, payload := range payloads {
		msg := newMessage(payload, o.group)
		if o.async {
			if err := b.dispatcher.dispatchAsync(ctx, msg, snapshot); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		b.dispatcher.dispatchSync(ctx, msg, snapshot)
	}

	return errors.Join(errs...)
}

// Stats provides observability counters for monitoring and debugging.
type Stats struct {
	Subscribers int    // current number of subscriptions
	Published   uint64 // messages accepted by Publish/PublishBatch
	Delivered   uint64 // successful handler deliveries
	Failed      uint64 // handler deliveries that failed or panicked
	Pending     int    // queued async deliveries not yet executed
}

// Stats returns the current broker statistics.
func (b *Broker) Stats() Stats {
	return Stats{
		Subscribers: b.registry.len(),
		Published:   b.published.Load(),
		Delivered:   b.dispatcher.delivered.Load(),
		Failed:      b.dispatcher.failed.Load(),
		Pending:     b.dispatcher.pending(),
	}
}

// Healthcheck validates that the broker is operational.
// Returns nil if healthy, or an error describing the health issue.
func (b *Broker) Healthcheck(ctx context.Context) error {
	if b.closed.Load() {
		return ErrBrokerClosed
	}
	return nil
}

// Close stops message intake, drains queued async deliveries and waits for
// in-flight handlers up to the shutdown timeout. Subsequent publishes return
// ErrBrokerClosed. Closing an already-closed broker returns ErrBrokerClosed.
//
// The Default() broker is process-wide and is not meant to be closed.
func (b *Broker) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return ErrBrokerClosed
	}

	b.logger.Info("broker closing, draining async deliveries",
		slog.Int("pending", b.dispatcher.pending()))

	return b.dispatcher.close()
}

// Subscribe registers a handler on the process-wide default broker.
func Subscribe(h Handler, opts ...SubscribeOption) {
	Default().Subscribe(h, opts...)
}

// Unsubscribe removes a subscription from the process-wide default broker.
func Unsubscribe(key any) {
	Default().Unsubscribe(key)
}

// Publish delivers a message via the process-wide default broker.
func Publish(ctx context.Context, payload any, opts ...PublishOption) error {
	return Default().Publish(ctx, payload, opts...)
}

// PublishBatch delivers a batch via the process-wide default broker.
func PublishBatch(ctx context.Context, payloads []any, opts ...PublishOption) error {
	return Default().PublishBatch(ctx, payloads, opts...)
}
