// Package progress reports how far nested range evaluations have advanced.
//
// A Reporter's Listener is attached to ranges. Counting happens synchronously
// in the evaluating goroutine; logging and hooks run on background workers,
// one partition per variable, so events for one variable arrive in order.
package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/memo_ive_go/internal/handlers"
	"github.com/on-the-ground/memo_ive_go/log"
	"github.com/on-the-ground/memo_ive_go/ranges"
	"github.com/on-the-ground/memo_ive_go/value"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Event records one value written by a range.
type Event struct {
	ReporterID string
	Variable   string
	Value      value.Value
	// Step counts the values this variable has taken so far, starting at 1.
	Step int
	// Held spans from the variable's previous value to this one. It is empty
	// for the first step.
	Held timespan.TimeSpan
}

func (e Event) PartitionKey() string {
	return e.Variable
}

// Hook is called on a worker for every event. Returned errors are collected
// and reported by Close.
type Hook func(ctx context.Context, e Event) error

type Option func(*Reporter)

// WithLevel sets the level events are logged at. The default is debug.
func WithLevel(level log.LogLevel) Option {
	return func(r *Reporter) { r.level = level }
}

func WithHook(hook Hook) Option {
	return func(r *Reporter) { r.hook = hook }
}

func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

type Reporter struct {
	ID string

	logger *zap.Logger
	level  log.LogLevel
	hook   Hook
	now    func() time.Time

	ctx        context.Context
	dispatcher *handlers.Dispatcher[Event]

	mu     sync.Mutex
	counts map[string]int
	last   map[string]time.Time

	errMu sync.Mutex
	errs  error
}

func NewReporter(ctx context.Context, logger *zap.Logger, config handlers.ScopeConfig, opts ...Option) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reporter{
		ID:     uuid.New().String(),
		logger: logger,
		level:  log.LogDebug,
		now:    time.Now,
		ctx:    ctx,
		counts: make(map[string]int),
		last:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("reporter", r.ID))
	r.dispatcher = handlers.NewDispatcher(ctx, config, r.logger, r.handle, nil)
	return r
}

// Listener returns the function to register with ranges.Sequence.Listen.
func (r *Reporter) Listener() ranges.Listener {
	return r.observe
}

func (r *Reporter) observe(name string, v value.Value) {
	now := r.now()

	r.mu.Lock()
	r.counts[name]++
	step := r.counts[name]
	prev, seen := r.last[name]
	r.last[name] = now
	r.mu.Unlock()

	if !seen {
		prev = now
	}
	r.dispatcher.Dispatch(r.ctx, Event{
		ReporterID: r.ID,
		Variable:   name,
		Value:      v,
		Step:       step,
		Held:       timespan.BetweenTimes(prev, now),
	})
}

func (r *Reporter) handle(ctx context.Context, e Event) {
	log.Emit(r.logger, r.level, "range advanced", map[string]interface{}{
		"variable": e.Variable,
		"value":    e.Value,
		"step":     e.Step,
		"held":     e.Held.Duration().String(),
	})
	if r.hook == nil {
		return
	}
	if err := r.hook(ctx, e); err != nil {
		r.errMu.Lock()
		multierr.AppendInto(&r.errs, fmt.Errorf("%s step %d: %w", e.Variable, e.Step, err))
		r.errMu.Unlock()
	}
}

// Count returns how many values name has taken.
func (r *Reporter) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

// Counts returns a copy of every variable's count.
func (r *Reporter) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Close waits for queued events to be handled, flushes the logger and returns
// every error the hook reported.
func (r *Reporter) Close() error {
	r.dispatcher.Close()
	log.Sync(r.logger)

	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.errs
}
