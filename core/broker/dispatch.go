package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/hub/core/logger"
)

// task is one handler invocation queued for asynchronous delivery.
type task struct {
	ctx context.Context // original publish context
	msg Message
	sub *subscription
}

// dispatcher delivers messages to subscription snapshots. Synchronous
// delivery runs on the publisher's goroutine; asynchronous delivery is
// submitted to a fixed pool of workers consuming a buffered queue.
type dispatcher struct {
	queue           chan task
	wg              sync.WaitGroup
	shutdownTimeout time.Duration
	logger          *slog.Logger
	metrics         *metrics

	mu     sync.RWMutex // guards queue submission against close
	closed bool

	delivered atomic.Uint64
	failed    atomic.Uint64
}

func newDispatcher(workers, queueSize int, shutdownTimeout time.Duration, log *slog.Logger, m *metrics) *dispatcher {
	d := &dispatcher{
		queue:           make(chan task, queueSize),
		shutdownTimeout: shutdownTimeout,
		logger:          log,
		metrics:         m,
	}

	for range workers {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// worker processes queued deliveries until the queue is closed.
func (d *dispatcher) worker() {
	defer d.wg.Done()

	for t := range d.queue {
		d.invoke(t.ctx, t.msg, t.sub)
	}
}

// dispatchSync delivers msg to each matching subscription in snapshot order,
// one after another, on the calling goroutine.
func (d *dispatcher) dispatchSync(ctx context.Context, msg Message, snapshot []*subscription) {
	for _, sub := range snapshot {
		if !sub.matches(msg) {
			continue
		}
		d.invoke(ctx, msg, sub)
	}
}

// dispatchAsync queues one invocation per matching subscription and returns
// without waiting for handler completion. Submission is non-blocking: a full
// queue fails the remaining deliveries with ErrQueueFull rather than stalling
// the publisher.
func (d *dispatcher) dispatchAsync(ctx context.Context, msg Message, snapshot []*subscription) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrBrokerClosed
	}

	for _, sub := range snapshot {
		if !sub.matches(msg) {
			continue
		}
		select {
		case d.queue <- task{ctx: ctx, msg: msg, sub: sub}:
		default:
			d.failed.Add(1)
			d.metrics.incFailed()
			return fmt.Errorf("%w: handler %s", ErrQueueFull, sub.handler.Name())
		}
	}
	return nil
}

// invoke runs a single handler with message metadata on the context.
// Faults (errors and panics) are isolated here: they are logged and counted,
// and never abort the fan-out or reach the publisher.
func (d *dispatcher) invoke(ctx context.Context, msg Message, sub *subscription) {
	ctx = WithMessageMeta(ctx, msg)
	start := time.Now()

	if err := safeHandle(sub.handler, ctx, msg.Payload); err != nil {
		d.failed.Add(1)
		d.metrics.incFailed()
		d.logger.ErrorContext(ctx, "message delivery failed",
			logger.MessageID(msg.ID),
			logger.MessageName(msg.Name),
			logger.HandlerName(sub.handler.Name()),
			logger.Elapsed(start),
			logger.Error(err))
		return
	}

	d.delivered.Add(1)
	d.metrics.incDelivered()
	d.logger.DebugContext(ctx, "message delivered",
		logger.MessageID(msg.ID),
		logger.MessageName(msg.Name),
		logger.HandlerName(sub.handler.Name()),
		logger.Elapsed(start))
}

// pending returns the number of queued asynchronous deliveries.
func (d *dispatcher) pending() int {
	return len(d.queue)
}

// close stops intake, drains queued deliveries and waits for workers to
// finish, up to the shutdown timeout.
func (d *dispatcher) close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(d.shutdownTimeout):
		d.logger.Warn("dispatcher shutdown timeout exceeded - some deliveries may be abandoned",
			slog.Duration("timeout", d.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, d.shutdownTimeout)
	}
}
