package broker

import (
	"context"
	"fmt"
	"reflect"
)

// HandlerFunc is a type-safe function signature for handling messages of type T.
type HandlerFunc[T any] func(context.Context, T) error

// Handler consumes messages. Each Handler value is also a subscription
// identity: subscribing the same Handler twice is idempotent, and passing it
// to Unsubscribe removes the subscription.
type Handler interface {
	// Name returns the message name this handler consumes.
	Name() string

	// Handle executes the handler with the given message payload.
	Handle(ctx context.Context, payload any) error
}

// NewHandler creates a handler with a manually specified message name.
// Use this when you need explicit control over routing.
//
// Example:
//
//	handler := broker.NewHandler("UserCreated", func(ctx context.Context, evt UserCreated) error {
//	    return sendWelcomeEmail(ctx, evt.Email)
//	})
func NewHandler[T any](name string, fn HandlerFunc[T]) Handler {
	return &handlerFunc[T]{
		name: name,
		fn:   fn,
	}
}

// NewHandlerFunc creates a type-safe handler from a function.
// The message name is derived from the type parameter using reflection.
//
// Example:
//
//	handler := broker.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
//	    return sendWelcomeEmail(ctx, evt.Email)
//	})
//	b.Subscribe(handler)
func NewHandlerFunc[T any](fn HandlerFunc[T]) Handler {
	return &handlerFunc[T]{
		name: typeName(reflect.TypeOf((*T)(nil)).Elem()),
		fn:   fn,
	}
}

// handlerFunc is a generic, type-safe handler implementation.
type handlerFunc[T any] struct {
	name string
	fn   HandlerFunc[T]
}

func (h *handlerFunc[T]) Name() string {
	return h.name
}

// Handle executes the handler function with type-safe payload conversion.
// Returns ErrInvalidPayload if the payload is not of type T.
func (h *handlerFunc[T]) Handle(ctx context.Context, payload any) error {
	typed, ok := payload.(T)
	if !ok {
		return fmt.Errorf("%w: handler %s received %T", ErrInvalidPayload, h.name, payload)
	}
	return h.fn(ctx, typed)
}
