// Package broker provides an in-process publish/subscribe hub: a single
// shared message broker that lets independent components register interest in
// messages and receive them without knowing each other's identity.
//
// # Features
//
//   - Type-safe handlers via generics; messages are routed by payload type name
//   - Thread-safe subscribe/unsubscribe/publish from any goroutine
//   - Synchronous delivery on the publisher's goroutine, or asynchronous
//     delivery on a worker pool
//   - Batch publishing against a single subscriber snapshot (one lock
//     acquisition for the whole batch)
//   - Fault isolation: a failing or panicking handler never aborts the
//     fan-out and never reaches the publisher
//   - Subscriber groups for targeted delivery
//   - Optional Prometheus metrics and structured slog logging
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/hub/core/broker"
//
//	type UserCreated struct {
//	    UserID string
//	    Email  string
//	}
//
//	b := broker.New()
//	defer b.Close()
//
//	handler := broker.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
//	    return sendWelcomeEmail(ctx, evt.Email)
//	})
//	b.Subscribe(handler)
//
//	err := b.Publish(ctx, UserCreated{UserID: "123", Email: "user@example.com"})
//
// The package-level Subscribe, Unsubscribe, Publish and PublishBatch
// functions operate on the process-wide broker returned by Default(), which
// is constructed lazily and exactly once.
//
// # Subscription Identity
//
// The Handler value returned by NewHandlerFunc (or NewHandler) is the
// subscription identity. Subscribing the same Handler twice is an idempotent
// replace, and Unsubscribe takes the same value:
//
//	h := broker.NewHandlerFunc(onUserCreated)
//	b.Subscribe(h)
//	b.Subscribe(h) // no duplicate deliveries
//	b.Unsubscribe(h)
//	b.Unsubscribe(h) // silent no-op
//
// Object-form consumers implement Receiver[T] and keep their own identity:
//
//	type AuditLog struct{ ... }
//
//	func (a *AuditLog) Receive(ctx context.Context, evt UserCreated) error { ... }
//
//	audit := &AuditLog{}
//	broker.SubscribeReceiver(b, audit)
//	b.Unsubscribe(audit)
//
// # Delivery Modes
//
// Publish runs handlers synchronously in snapshot order and returns once
// they finished. WithAsync hands each delivery to the broker's worker pool
// and returns immediately; no ordering is guaranteed between asynchronous
// deliveries:
//
//	err := b.Publish(ctx, evt, broker.WithAsync())
//
// PublishBatch takes one registry snapshot for the whole ordered sequence,
// so per-message lock acquisition is amortized away. Subscription changes
// made concurrently with a batch do not affect any message in it:
//
//	err := b.PublishBatch(ctx, []any{evt1, evt2, evt3})
//
// # Error Handling
//
// Handler errors and panics are isolated by the dispatcher: they are logged,
// counted in Stats (and Prometheus metrics when wired), and never returned
// to the publisher. Publish reports only dispatch-level failures:
// ErrBrokerClosed, a cancelled context, or ErrQueueFull in async mode.
package broker
