package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher hands payloads to a fixed pool of workers, one queue per worker.
// Payloads are routed by the hash of their partition key.
type Dispatcher[T Partitionable] struct {
	ID string

	logger   *zap.Logger
	queues   []chan T
	cancelFn context.CancelFunc
	teardown func()
	workers  sync.WaitGroup
	once     sync.Once
}

// NewDispatcher starts config.NumWorkers workers calling handleFn. Workers stop
// when ctx is done or, after handling everything queued, when Close is called.
// teardown runs once every worker has stopped.
func NewDispatcher[T Partitionable](
	ctx context.Context,
	config ScopeConfig,
	logger *zap.Logger,
	handleFn func(context.Context, T),
	teardown func(),
) *Dispatcher[T] {
	config = NewScopeConfig(config.BufferSize, config.NumWorkers)
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancelFn := context.WithCancel(ctx)

	d := &Dispatcher[T]{
		ID:       uuid.New().String(),
		logger:   logger,
		queues:   make([]chan T, config.NumWorkers),
		cancelFn: cancelFn,
		teardown: teardown,
	}
	ready := sync.WaitGroup{}
	for i := range d.queues {
		ch := make(chan T, config.BufferSize)
		d.queues[i] = ch
		ready.Add(1)
		d.workers.Add(1)
		go func(ch chan T) {
			defer d.workers.Done()
			ready.Done()
			for {
				select {
				case msg, ok := <-ch:
					if !ok {
						return
					}
					handleFn(ctx, msg)
				case <-ctx.Done():
					return
				}
			}
		}(ch)
	}
	ready.Wait()
	return d
}

// Dispatch queues payload for its partition's worker. It blocks while that
// queue is full, and gives up when ctx is done. Payloads dispatched after
// Close are dropped.
func (d *Dispatcher[T]) Dispatch(ctx context.Context, payload T) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("dispatch after close",
				zap.String("dispatcher", d.ID),
				zap.String("partition", payload.PartitionKey()),
			)
		}
	}()

	select {
	case <-ctx.Done():
	case d.queues[getIndexByHash(payload, len(d.queues))] <- payload:
	}
}

// Close stops accepting payloads, waits for the workers to drain their queues
// and runs teardown. It is safe to call more than once.
func (d *Dispatcher[T]) Close() {
	d.once.Do(func() {
		for _, ch := range d.queues {
			close(ch)
		}
		d.workers.Wait()
		d.cancelFn()
		if d.teardown != nil {
			d.teardown()
		}
		d.logger.Debug("dispatcher closed", zap.String("dispatcher", d.ID))
	})
}
