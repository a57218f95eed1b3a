package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
)

// BatchWriter stores many events at once.
type BatchWriter interface {
	StoreBatch(ctx context.Context, events []Event) error
}

// AsyncOptions tunes AsyncWriter. Zero values take defaults.
type AsyncOptions struct {
	BufferSize     int           `env:"AUDIT_BUFFER_SIZE" envDefault:"1000"`
	BatchSize      int           `env:"AUDIT_BATCH_SIZE" envDefault:"100"`
	BatchTimeout   time.Duration `env:"AUDIT_BATCH_TIMEOUT" envDefault:"500ms"`
	StorageTimeout time.Duration `env:"AUDIT_STORAGE_TIMEOUT" envDefault:"5s"`
}

// AsyncWriter queues events and writes them in batches from a single
// goroutine. When the queue is full Store falls back to a synchronous write
// so no event is dropped.
type AsyncWriter struct {
	bw     BatchWriter
	opts   AsyncOptions
	log    *slog.Logger
	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewAsyncWriter starts the background writer. Storage errors go to log,
// which may be nil. The returned function stops the writer after flushing
// queued events.
func NewAsyncWriter(bw BatchWriter, opts AsyncOptions, log *slog.Logger) (*AsyncWriter, func(context.Context) error) {
	if bw == nil {
		panic("audit: batch writer is required")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 500 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Discard()
	}

	aw := &AsyncWriter{
		bw:     bw,
		opts:   opts,
		log:    log.With(logger.Component("audit")),
		events: make(chan Event, opts.BufferSize),
		done:   make(chan struct{}),
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, aw.Close
}

// Store queues e. It returns ErrWriterClosed after Close.
func (aw *AsyncWriter) Store(ctx context.Context, e Event) error {
	aw.mu.RLock()
	defer aw.mu.RUnlock()

	if aw.closed {
		return ErrWriterClosed
	}

	select {
	case aw.events <- e:
		return nil
	default:
		return aw.bw.StoreBatch(ctx, []Event{e})
	}
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	batch := make([]Event, 0, aw.opts.BatchSize)
	ticker := time.NewTicker(aw.opts.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Request contexts are gone by now; storage gets its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), aw.opts.StorageTimeout)
		defer cancel()

		if err := aw.bw.StoreBatch(ctx, batch); err != nil {
			aw.log.ErrorContext(ctx, "failed to store audit events", slog.Int("events", len(batch)), logger.Error(err))
		}
		clear(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-aw.events:
			batch = append(batch, e)
			if len(batch) >= aw.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-aw.done:
			for {
				select {
				case e := <-aw.events:
					batch = append(batch, e)
					if len(batch) >= aw.opts.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops accepting events and waits until queued ones are written or
// ctx ends. Calling it more than once is safe.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	aw.once.Do(func() {
		aw.mu.Lock()
		aw.closed = true
		aw.mu.Unlock()
		close(aw.done)
	})

	finished := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
