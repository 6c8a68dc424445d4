package broker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hub/core/broker"
)

type (
	PointerMsg struct {
		Value string
	}

	PrimitiveMsg int
)

func TestNewHandlerFunc_TypeSafety(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		handler     broker.Handler
		payload     any
		expectError bool
	}{
		{
			name: "struct type - correct payload",
			handler: broker.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
				return nil
			}),
			payload:     UserCreated{ID: "123"},
			expectError: false,
		},
		{
			name: "struct type - wrong payload type",
			handler: broker.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
				return nil
			}),
			payload:     OrderPlaced{Amount: 42},
			expectError: true,
		},
		{
			name: "pointer type - correct payload",
			handler: broker.NewHandlerFunc(func(ctx context.Context, evt *PointerMsg) error {
				return nil
			}),
			payload:     &PointerMsg{Value: "test"},
			expectError: false,
		},
		{
			name: "pointer type - non-pointer payload",
			handler: broker.NewHandlerFunc(func(ctx context.Context, evt *PointerMsg) error {
				return nil
			}),
			payload:     PointerMsg{Value: "test"},
			expectError: true,
		},
		{
			name: "primitive type - correct payload",
			handler: broker.NewHandlerFunc(func(ctx context.Context, evt PrimitiveMsg) error {
				return nil
			}),
			payload:     PrimitiveMsg(123),
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.handler.Handle(context.Background(), tt.payload)
			if tt.expectError {
				require.ErrorIs(t, err, broker.ErrInvalidPayload)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewHandlerFunc_NameDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		handler      broker.Handler
		expectedName string
	}{
		{
			name: "struct type",
			handler: broker.NewHandlerFunc(func(ctx context.Context, evt UserCreated) error {
				return nil
			}),
			expectedName: "UserCreated",
		},
		{
			name: "pointer type",
			handler: broker.NewHandlerFunc(func(ctx context.Context, evt *PointerMsg) error {
				return nil
			}),
			expectedName: "PointerMsg",
		},
		{
			name: "primitive type",
			handler: broker.NewHandlerFunc(func(ctx context.Context, evt PrimitiveMsg) error {
				return nil
			}),
			expectedName: "PrimitiveMsg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expectedName, tt.handler.Name())
		})
	}
}

func TestNewHandler_ExplicitName(t *testing.T) {
	t.Parallel()

	h := broker.NewHandler("user.created", func(ctx context.Context, evt UserCreated) error {
		return nil
	})
	assert.Equal(t, "user.created", h.Name())
}

func TestNewHandlerFunc_DistinctIdentities(t *testing.T) {
	t.Parallel()

	fn := func(ctx context.Context, evt UserCreated) error { return nil }

	// Two handlers built from the same function are distinct subscriptions.
	h1 := broker.NewHandlerFunc(fn)
	h2 := broker.NewHandlerFunc(fn)
	assert.NotSame(t, h1, h2)
}

type errorReceiver struct{}

func (errorReceiver) Receive(ctx context.Context, evt UserCreated) error {
	return context.Canceled
}

func TestReceiverAdapter_ErrorPropagation(t *testing.T) {
	t.Parallel()

	b := newTestBroker(t)
	broker.SubscribeReceiver(b, errorReceiver{})

	// The receiver's error is isolated like any handler fault.
	require.NoError(t, b.Publish(context.Background(), UserCreated{ID: "1"}))
	assert.Equal(t, uint64(1), b.Stats().Failed)
}
