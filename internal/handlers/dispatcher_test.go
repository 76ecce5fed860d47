package handlers_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/memo_ive_go/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// mockPartitionable is a mock type that implements the Partitionable interface
type mockPartitionable struct {
	id   string
	hash string
}

func (m mockPartitionable) PartitionKey() string {
	return m.hash
}

func TestNewScopeConfig_Defaults(t *testing.T) {
	assert.Equal(t, handlers.ScopeConfig{BufferSize: 1, NumWorkers: 1}, handlers.NewScopeConfig(0, -3))
	assert.Equal(t, handlers.ScopeConfig{BufferSize: 8, NumWorkers: 2}, handlers.NewScopeConfig(8, 2))
}

func TestDispatcher_BasicExecution(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []string
	done := make(chan struct{})

	d := handlers.NewDispatcher(
		ctx,
		handlers.ScopeConfig{BufferSize: 5, NumWorkers: 2},
		nil,
		func(ctx context.Context, msg mockPartitionable) {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, msg.id)
			if len(received) == 2 {
				close(done)
			}
		},
		func() {},
	)
	defer d.Close()

	d.Dispatch(ctx, mockPartitionable{id: "a", hash: "1"})
	d.Dispatch(ctx, mockPartitionable{id: "b", hash: "2"})

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for dispatcher to handle all messages")
	}

	mu.Lock()
	assert.ElementsMatch(t, []string{"a", "b"}, received)
	mu.Unlock()
}

func TestDispatcher_SameKeyKeepsOrder(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	received := map[string][]int{}

	d := handlers.NewDispatcher(
		ctx,
		handlers.ScopeConfig{BufferSize: 4, NumWorkers: 3},
		nil,
		func(ctx context.Context, msg mockPartitionable) {
			mu.Lock()
			defer mu.Unlock()
			var n int
			fmt.Sscanf(msg.id, "%d", &n)
			received[msg.hash] = append(received[msg.hash], n)
		},
		nil,
	)

	for i := 0; i < 50; i++ {
		for _, key := range []string{"x", "y", "z"} {
			d.Dispatch(ctx, mockPartitionable{id: fmt.Sprint(i), hash: key})
		}
	}
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	for _, key := range []string{"x", "y", "z"} {
		require.Len(t, received[key], 50, key)
		for i, n := range received[key] {
			assert.Equal(t, i, n, "messages with the same key should be handled in order")
		}
	}
}

func TestDispatcher_CloseDrainsAndTearsDown(t *testing.T) {
	handled := 0
	tornDown := false

	d := handlers.NewDispatcher(
		context.Background(),
		handlers.ScopeConfig{BufferSize: 100, NumWorkers: 1},
		nil,
		func(ctx context.Context, msg mockPartitionable) {
			time.Sleep(time.Millisecond)
			handled++
		},
		func() { tornDown = true },
	)
	for i := 0; i < 20; i++ {
		d.Dispatch(context.Background(), mockPartitionable{id: fmt.Sprint(i), hash: "k"})
	}
	d.Close()
	d.Close()

	assert.Equal(t, 20, handled)
	assert.True(t, tornDown)
}

func TestDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	called := false

	d := handlers.NewDispatcher(
		context.Background(),
		handlers.NewScopeConfig(1, 1),
		zap.New(core),
		func(ctx context.Context, msg mockPartitionable) { called = true },
		nil,
	)
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), mockPartitionable{id: "late", hash: "0"})
	})
	assert.False(t, called)
	require.Equal(t, 1, logs.FilterMessage("dispatch after close").Len())
	assert.Equal(t, d.ID, logs.All()[0].ContextMap()["dispatcher"])
}

func TestDispatcher_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	d := handlers.NewDispatcher(
		context.Background(),
		handlers.ScopeConfig{BufferSize: 1, NumWorkers: 1},
		nil,
		func(ctx context.Context, msg mockPartitionable) {
			<-release
		},
		nil,
	)

	returned := make(chan struct{})
	go func() {
		defer close(returned)
		// the worker holds the first payload, the second fills the queue and
		// the third can only give up
		for _, id := range []string{"first", "second", "third"} {
			d.Dispatch(ctx, mockPartitionable{id: id, hash: "0"})
		}
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("dispatch with a cancelled context should return")
	}
	close(release)
	d.Close()
}
