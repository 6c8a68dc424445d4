package broker

import "errors"

var (
	// ErrBrokerClosed is returned when publishing to a closed broker.
	ErrBrokerClosed = errors.New("broker is closed")

	// ErrQueueFull is returned when the async delivery queue is full.
	ErrQueueFull = errors.New("async delivery queue is full")

	// ErrInvalidPayload is returned when a handler receives a payload of an unexpected type.
	ErrInvalidPayload = errors.New("invalid payload type")

	// ErrShutdownTimeout is returned when Close exceeds the shutdown timeout
	// before in-flight deliveries finish.
	ErrShutdownTimeout = errors.New("shutdown timeout exceeded")
)
