package broker

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/hub/core/logger"
)

// Middleware wraps a Handler to add additional functionality.
// Broker-level middleware is applied to every handler at subscription time.
type Middleware func(Handler) Handler

// middlewareHandler wraps a Handler with additional functionality.
type middlewareHandler struct {
	name string
	next Handler
	fn   func(ctx context.Context, payload any) error
}

func (h *middlewareHandler) Name() string {
	return h.name
}

func (h *middlewareHandler) Handle(ctx context.Context, payload any) error {
	return h.fn(ctx, payload)
}

// chainMiddleware applies multiple middleware in order.
// The first middleware in the slice is the outermost (executed first).
func chainMiddleware(handler Handler, middleware []Middleware) Handler {
	// Reverse order required: wrapping innermost first makes it execute last
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// LoggingMiddleware logs handler execution with timing.
// Logs start, completion, and errors for all deliveries.
//
// Example:
//
//	b := broker.New(
//	    broker.WithMiddleware(broker.LoggingMiddleware(log)),
//	)
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return &middlewareHandler{
			name: next.Name(),
			next: next,
			fn: func(ctx context.Context, payload any) error {
				start := time.Now()
				log.InfoContext(ctx, "delivery started",
					logger.HandlerName(next.Name()),
					logger.MessageID(MessageID(ctx)))

				err := next.Handle(ctx, payload)
				duration := time.Since(start)

				if err != nil {
					log.ErrorContext(ctx, "delivery failed",
						logger.HandlerName(next.Name()),
						logger.Duration(duration),
						logger.Error(err))
				} else {
					log.InfoContext(ctx, "delivery completed",
						logger.HandlerName(next.Name()),
						logger.Duration(duration))
				}

				return err
			},
		}
	}
}
