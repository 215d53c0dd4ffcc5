// Package poller turns periodic range queries into a stream of row changes.
//
// Each cycle asks for rows whose update column is at or after the watermark
// and classifies them: rows created at or after the watermark are inserts,
// older rows are updates. Deletions cannot be seen through such a query, so
// the Deletes stream exists but never fires. Rows may be delivered more than
// once around a watermark boundary; subscribers should be idempotent.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/void2610/online-type-game/internal/client/events"
	"github.com/void2610/online-type-game/internal/client/query"
	"github.com/void2610/online-type-game/internal/clock"
	"github.com/void2610/online-type-game/internal/logging"
)

const (
	DefaultInterval      = time.Second
	DefaultUpdatedColumn = "updated_at"
)

// Timestamped rows expose the two audit columns the poller classifies by.
type Timestamped interface {
	CreatedTime() time.Time
	UpdatedTime() time.Time
}

type Options struct {
	// Interval between the end of one cycle and the start of the next.
	Interval time.Duration
	Clock    clock.Clock
	Logger   logging.Logger
	// UpdatedColumn is the server column compared against the watermark.
	UpdatedColumn string
}

// Poller watches one table. It is safe for concurrent use.
type Poller[T Timestamped] struct {
	source   query.Builder[T]
	interval time.Duration
	clock    clock.Clock
	logger   logging.Logger
	column   string

	inserts *events.Subject[T]
	updates *events.Subject[T]
	deletes *events.Subject[T]

	mu        sync.Mutex
	watermark time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	closed    bool
}

// New builds a stopped poller over source. Filters already on source narrow
// every poll; the poller adds its own watermark filter and ordering.
func New[T Timestamped](source query.Builder[T], opts Options) *Poller[T] {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.UpdatedColumn == "" {
		opts.UpdatedColumn = DefaultUpdatedColumn
	}
	return &Poller[T]{
		source:   source,
		interval: opts.Interval,
		clock:    opts.Clock,
		logger:   opts.Logger.With("component", "poller", "table", source.Table()),
		column:   opts.UpdatedColumn,
		inserts:  events.NewSubject[T](),
		updates:  events.NewSubject[T](),
		deletes:  events.NewSubject[T](),
	}
}

func (p *Poller[T]) Inserts() *events.Subject[T] { return p.inserts }
func (p *Poller[T]) Updates() *events.Subject[T] { return p.updates }

// Deletes never fires; see the package documentation.
func (p *Poller[T]) Deletes() *events.Subject[T] { return p.deletes }

// Start resets the watermark to now and begins polling until ctx is done or
// Stop is called. Starting a running or closed poller only logs a warning.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.logger.Warn(ctx, "start on closed poller ignored")
		return
	}
	if p.runningLocked() {
		p.logger.Warn(ctx, "poller already running")
		return
	}

	p.watermark = p.clock.Now()
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(runCtx, p.done)
	p.logger.Info(ctx, "polling started", "interval", p.interval, "watermark", p.watermark)
}

// Stop cancels the loop and waits for it to exit. Idempotent.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info(context.Background(), "polling stopped")
}

// Close stops the poller and closes its streams. A closed poller cannot be
// restarted.
func (p *Poller[T]) Close() {
	p.Stop()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.inserts.Close()
	p.updates.Close()
	p.deletes.Close()
}

// Running reports whether the polling loop is active.
func (p *Poller[T]) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runningLocked()
}

// Watermark returns the lower bound of the next poll.
func (p *Poller[T]) Watermark() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.watermark
}

func (p *Poller[T]) runningLocked() bool {
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Poller[T]) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(p.interval):
		}

		if err := p.pollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error(ctx, "poll failed", "error", err, "watermark", p.Watermark())
		}
	}
}

// pollOnce runs one cycle. The watermark only moves after the whole batch
// has been delivered.
func (p *Poller[T]) pollOnce(ctx context.Context) error {
	cycleStart := p.clock.Now()
	watermark := p.Watermark()

	rows, err := p.source.
		Gte(p.column, watermark).
		Order(p.column, true).
		Execute(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		subject := p.updates
		if !row.CreatedTime().Before(watermark) {
			subject = p.inserts
		}
		if err := subject.Publish(row); errors.Is(err, events.ErrClosed) {
			return nil
		}
	}

	p.advance(cycleStart)
	if len(rows) > 0 {
		p.logger.Debug(ctx, "poll delivered rows", "count", len(rows))
	}
	return nil
}

func (p *Poller[T]) advance(to time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if to.After(p.watermark) {
		p.watermark = to
	}
}
