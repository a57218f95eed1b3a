package audit_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/pkg/audit"
)

func event(i int) audit.Event {
	return audit.Event{Action: fmt.Sprintf("POST /tools/%d", i)}
}

func TestAsyncWriterFlushesOnClose(t *testing.T) {
	t.Parallel()
	w := &memoryWriter{}
	aw, closeWriter := audit.NewAsyncWriter(w, audit.AsyncOptions{BatchSize: 100, BatchTimeout: time.Hour}, nil)

	for i := range 10 {
		require.NoError(t, aw.Store(context.Background(), event(i)))
	}
	require.NoError(t, closeWriter(context.Background()))

	assert.Len(t, w.snapshot(), 10)
}

func TestAsyncWriterBatchesBySize(t *testing.T) {
	t.Parallel()
	w := &memoryWriter{}
	aw, closeWriter := audit.NewAsyncWriter(w, audit.AsyncOptions{BatchSize: 5, BatchTimeout: time.Hour}, nil)

	for i := range 12 {
		require.NoError(t, aw.Store(context.Background(), event(i)))
	}
	require.NoError(t, closeWriter(context.Background()))

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Len(t, w.events, 12)
	for _, n := range w.batches {
		assert.LessOrEqual(t, n, 5)
	}
}

func TestAsyncWriterFlushesOnTimeout(t *testing.T) {
	t.Parallel()
	w := &memoryWriter{}
	aw, closeWriter := audit.NewAsyncWriter(w, audit.AsyncOptions{BatchSize: 100, BatchTimeout: 10 * time.Millisecond}, nil)
	defer closeWriter(context.Background())

	require.NoError(t, aw.Store(context.Background(), event(1)))

	assert.Eventually(t, func() bool { return len(w.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestAsyncWriterRejectsAfterClose(t *testing.T) {
	t.Parallel()
	aw, closeWriter := audit.NewAsyncWriter(&memoryWriter{}, audit.AsyncOptions{}, nil)
	require.NoError(t, closeWriter(context.Background()))
	require.NoError(t, closeWriter(context.Background()))

	assert.ErrorIs(t, aw.Store(context.Background(), event(1)), audit.ErrWriterClosed)
}

func TestAsyncWriterConcurrentStores(t *testing.T) {
	t.Parallel()
	w := &memoryWriter{}
	aw, closeWriter := audit.NewAsyncWriter(w, audit.AsyncOptions{BufferSize: 8, BatchSize: 4}, nil)

	var wg sync.WaitGroup
	for g := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 20 {
				assert.NoError(t, aw.Store(context.Background(), event(g*100+i)))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, closeWriter(context.Background()))

	assert.Len(t, w.snapshot(), 200)
}

func TestAsyncWriterPanicsWithoutStorage(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { audit.NewAsyncWriter(nil, audit.AsyncOptions{}, nil) })
}
