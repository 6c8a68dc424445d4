package broker

import (
	"context"
	"time"
)

type messageIDCtx struct{}

// WithMessageID attaches a message ID to the context.
func WithMessageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, messageIDCtx{}, id)
}

// MessageID extracts the message ID from the context.
// Returns empty string if not present.
func MessageID(ctx context.Context) string {
	if id, ok := ctx.Value(messageIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type messageNameCtx struct{}

// WithMessageName attaches a message name to the context.
func WithMessageName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, messageNameCtx{}, name)
}

// MessageName extracts the message name from the context.
// Returns empty string if not present.
func MessageName(ctx context.Context) string {
	if name, ok := ctx.Value(messageNameCtx{}).(string); ok {
		return name
	}
	return ""
}

type publishedAtCtx struct{}

// WithPublishedAt attaches the publish time to the context.
func WithPublishedAt(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, publishedAtCtx{}, t)
}

// PublishedAt extracts the publish time from the context.
// Returns zero time if not present.
func PublishedAt(ctx context.Context) time.Time {
	if t, ok := ctx.Value(publishedAtCtx{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}

// WithMessageMeta attaches all message metadata (ID, Name, PublishedAt) to
// the context. Handler contexts carry this metadata on every delivery.
func WithMessageMeta(ctx context.Context, msg Message) context.Context {
	ctx = WithMessageID(ctx, msg.ID)
	ctx = WithMessageName(ctx, msg.Name)
	ctx = WithPublishedAt(ctx, msg.PublishedAt)
	return ctx
}
