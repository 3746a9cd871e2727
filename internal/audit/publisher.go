package audit

import (
	"context"
	"log/slog"
	"time"

	"formprefill/pkg/requestcontext"
)

// Publisher queues events and hands them to the store from a background
// loop, so a slow sink never delays a data request.
type Publisher struct {
	store         Store
	pending       *pendingQueue
	logger        *slog.Logger
	batchSize     int
	flushInterval time.Duration
	wake          chan struct{}
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithBufferSize(n int) Option {
	return func(p *Publisher) { p.pending = newPendingQueue(n) }
}

func WithFlushInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.flushInterval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:         store,
		pending:       newPendingQueue(1000),
		logger:        slog.Default(),
		batchSize:     100,
		flushInterval: time.Second,
		wake:          make(chan struct{}, 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Emit enqueues an event, stamping time and request id from ctx when unset.
// It never blocks.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if evicted, ok := p.pending.push(event); ok {
		p.logger.WarnContext(ctx, "audit queue full, oldest event dropped",
			"action", string(evicted.Action),
			"user_id", evicted.UserID.String(),
			"request_id", evicted.RequestID,
		)
	}
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done, then flushes what is left.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// ctx is already cancelled; give the final flush its own deadline
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			p.Flush(flushCtx)
			cancel()
			return nil
		case <-p.wake:
			p.Flush(ctx)
		case <-ticker.C:
			p.Flush(ctx)
		}
	}
}

// Flush writes all pending events. Failed events are logged and dropped.
func (p *Publisher) Flush(ctx context.Context) {
	for {
		batch := p.pending.take(p.batchSize)
		if len(batch) == 0 {
			return
		}
		for _, event := range batch {
			if err := p.store.Append(ctx, event); err != nil {
				p.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", string(event.Action),
					"request_id", event.RequestID,
					"error", err,
				)
			}
		}
	}
}

// Dropped reports how many events were lost to a full queue. It backs the
// formprefill_audit_events_dropped gauge.
func (p *Publisher) Dropped() int64 {
	return p.pending.evictedTotal()
}
