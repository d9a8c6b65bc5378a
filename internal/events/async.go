package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned when the async queue has no room left.
var ErrQueueFull = errors.New("events: publish queue full")

// AsyncConfig tunes an AsyncPublisher.
type AsyncConfig struct {
	QueueSize int
	Timeout   time.Duration
}

// AsyncPublisher hands events to a background worker so callers never wait
// on the broker. Each delivery runs with its own timeout, detached from the
// caller's context.
type AsyncPublisher struct {
	next    Publisher
	logger  *slog.Logger
	timeout time.Duration
	queue   chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncPublisher starts the delivery worker. Close stops it after the
// queue is drained.
func NewAsyncPublisher(next Publisher, cfg AsyncConfig, logger *slog.Logger) *AsyncPublisher {
	if next == nil {
		next = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	p := &AsyncPublisher{
		next:    next,
		logger:  logger.With("component", "event_dispatch"),
		timeout: cfg.Timeout,
		queue:   make(chan Event, cfg.QueueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues event and returns immediately.
func (p *AsyncPublisher) Publish(_ context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close rejects new events and waits until queued ones were attempted.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return nil
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		p.deliver(event)
	}
}

func (p *AsyncPublisher) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.next.Publish(ctx, event); err != nil {
		p.logger.Warn("event delivery failed",
			"event_type", string(event.Type),
			"aggregate_id", event.AggregateID,
			"error", err,
		)
	}
}
