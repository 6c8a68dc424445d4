package broker

import (
	"context"
	"fmt"
	"reflect"
)

// Receiver is a capability interface for object-form message consumers.
// Implementations expose a single Receive method for a fixed payload type.
//
// A Receiver is adapted into the internal Handler form at subscription time;
// the receiver value itself is the subscription identity, so passing the
// original receiver to Unsubscribe removes its adapted form.
type Receiver[T any] interface {
	Receive(ctx context.Context, msg T) error
}

// receiverHandler adapts a Receiver into a Handler.
type receiverHandler[T any] struct {
	name string
	recv Receiver[T]
}

func newReceiverHandler[T any](r Receiver[T]) Handler {
	return &receiverHandler[T]{
		name: typeName(reflect.TypeOf((*T)(nil)).Elem()),
		recv: r,
	}
}

func (h *receiverHandler[T]) Name() string {
	return h.name
}

func (h *receiverHandler[T]) Handle(ctx context.Context, payload any) error {
	typed, ok := payload.(T)
	if !ok {
		return fmt.Errorf("%w: receiver %s received %T", ErrInvalidPayload, h.name, payload)
	}
	return h.recv.Receive(ctx, typed)
}
