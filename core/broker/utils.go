package broker

import (
	"context"
	"fmt"
)

// safeHandle executes a handler with panic recovery.
// If the handler panics, the panic is caught and converted to an error.
// This provides a single point of panic recovery for both dispatch modes.
func safeHandle(handler Handler, ctx context.Context, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", handler.Name(), r)
		}
	}()
	return handler.Handle(ctx, payload)
}
