package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/hub/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
}

func TestErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Errors())
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))

	attr := logger.Errors(errors.New("a"), nil, errors.New("b"))
	assert.Equal(t, "errors", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)
}

func TestDurationAndElapsed(t *testing.T) {
	t.Parallel()

	attr := logger.Duration(time.Second)
	assert.Equal(t, "duration", attr.Key)
	assert.Equal(t, time.Second, attr.Value.Duration())

	elapsed := logger.Elapsed(time.Now().Add(-time.Millisecond))
	assert.Equal(t, "elapsed", elapsed.Key)
	assert.GreaterOrEqual(t, elapsed.Value.Duration(), time.Millisecond)
}

func TestIdentifierAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.MessageID(""))
	assert.Equal(t, "message_id", logger.MessageID("m1").Key)

	assert.Equal(t, slog.Attr{}, logger.MessageName(""))
	assert.Equal(t, "message", logger.MessageName("UserCreated").Key)

	assert.Equal(t, slog.Attr{}, logger.HandlerName(""))
	assert.Equal(t, "handler", logger.HandlerName("UserCreated").Key)

	assert.Equal(t, "component", logger.Component("broker").Key)
	assert.Equal(t, "count", logger.Count(3).Key)
}

func TestGroupName_DefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	attr := logger.GroupName("")
	assert.Equal(t, "group", attr.Key)
	assert.Equal(t, "default", attr.Value.String())

	assert.Equal(t, "billing", logger.GroupName("billing").Value.String())
}

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("meta", logger.Component("broker"), logger.Count(1))
	assert.Equal(t, "meta", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)
}
