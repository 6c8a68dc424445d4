package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Decorator wraps a Handler to add additional functionality.
// Unlike broker-level middleware, decorators are applied per handler before
// subscribing. Multiple decorators can be composed using the Decorate helper.
type Decorator func(Handler) Handler

// decoratorHandler wraps a Handler with additional functionality.
type decoratorHandler struct {
	name string
	next Handler
	fn   func(ctx context.Context, payload any) error
}

func (h *decoratorHandler) Name() string {
	return h.name
}

func (h *decoratorHandler) Handle(ctx context.Context, payload any) error {
	return h.fn(ctx, payload)
}

// WithRetry wraps a handler to retry on errors up to maxRetries times.
// Retries are immediate; use WithBackoff for delayed retries.
// Returns the last error if all retries fail.
//
// Example:
//
//	handler := broker.WithRetry(
//	    broker.NewHandlerFunc(notifyWebhookHandler),
//	    3, // max retries
//	)
//	b.Subscribe(handler)
func WithRetry(handler Handler, maxRetries int) Handler {
	return &decoratorHandler{
		name: handler.Name(),
		next: handler,
		fn: func(ctx context.Context, payload any) error {
			var lastErr error

			for attempt := 0; attempt <= maxRetries; attempt++ {
				if attempt > 0 {
					if ctx.Err() != nil {
						return ctx.Err()
					}
				}

				err := handler.Handle(ctx, payload)
				if err == nil {
					return nil
				}

				lastErr = err
			}

			return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
		},
	}
}

// WithBackoff wraps a handler with exponential backoff retry logic.
// Waits between retries with exponentially increasing delays, capped at
// maxDelay, and respects context cancellation between attempts.
//
// Example:
//
//	handler := broker.WithBackoff(
//	    broker.NewHandlerFunc(notifyWebhookHandler),
//	    5,                    // max retries
//	    100*time.Millisecond, // initial delay
//	    10*time.Second,       // max delay
//	)
//	b.Subscribe(handler)
func WithBackoff(handler Handler, maxRetries uint64, initialDelay, maxDelay time.Duration) Handler {
	return &decoratorHandler{
		name: handler.Name(),
		next: handler,
		fn: func(ctx context.Context, payload any) error {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = initialDelay
			bo.MaxInterval = maxDelay
			bo.MaxElapsedTime = 0 // bounded by maxRetries, not wall clock

			policy := backoff.WithMaxRetries(backoff.WithContext(bo, ctx), maxRetries)

			if err := backoff.Retry(func() error {
				return handler.Handle(ctx, payload)
			}, policy); err != nil {
				return fmt.Errorf("failed after %d retries with backoff: %w", maxRetries, err)
			}
			return nil
		},
	}
}

// WithTimeout wraps a handler to enforce a maximum execution time.
// Cancels the handler's context if it exceeds the timeout.
//
// Example:
//
//	handler := broker.WithTimeout(
//	    broker.NewHandlerFunc(processImageHandler),
//	    30*time.Second,
//	)
//	b.Subscribe(handler)
func WithTimeout(handler Handler, timeout time.Duration) Handler {
	return &decoratorHandler{
		name: handler.Name(),
		next: handler,
		fn: func(ctx context.Context, payload any) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- handler.Handle(ctx, payload)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return fmt.Errorf("handler timeout after %s: %w", timeout, ctx.Err())
			}
		},
	}
}

// Retry returns a Decorator that wraps a handler with retry logic.
// This is a factory function for use with the Decorate helper.
func Retry(maxRetries int) Decorator {
	return func(h Handler) Handler {
		return WithRetry(h, maxRetries)
	}
}

// Backoff returns a Decorator that wraps a handler with exponential backoff
// retry logic. This is a factory function for use with the Decorate helper.
func Backoff(maxRetries uint64, initialDelay, maxDelay time.Duration) Decorator {
	return func(h Handler) Handler {
		return WithBackoff(h, maxRetries, initialDelay, maxDelay)
	}
}

// Timeout returns a Decorator that wraps a handler with timeout logic.
// This is a factory function for use with the Decorate helper.
func Timeout(timeout time.Duration) Decorator {
	return func(h Handler) Handler {
		return WithTimeout(h, timeout)
	}
}

// Decorate applies multiple decorators to a handler in sequence.
// Decorators are applied left-to-right (first decorator wraps innermost).
//
// Example:
//
//	handler := broker.Decorate(
//	    broker.NewHandlerFunc(notifyWebhookHandler),
//	    broker.Retry(3),
//	    broker.Timeout(30*time.Second),
//	)
//	b.Subscribe(handler)
func Decorate(handler Handler, decorators ...Decorator) Handler {
	for _, decorator := range decorators {
		handler = decorator(handler)
	}
	return handler
}
