package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/pkg/audit"
)

// memoryWriter collects events in memory and implements both writer interfaces.
type memoryWriter struct {
	mu      sync.Mutex
	events  []audit.Event
	batches []int
	err     error
}

func (m *memoryWriter) Store(_ context.Context, e audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memoryWriter) StoreBatch(_ context.Context, events []audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, events...)
	m.batches = append(m.batches, len(events))
	return nil
}

func (m *memoryWriter) snapshot() []audit.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]audit.Event(nil), m.events...)
}

type ctxKey string

func TestRecorder(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))

	newRecorder := func(w audit.Writer) *audit.Recorder {
		return audit.NewRecorder(w,
			audit.WithClock(func() time.Time { return now }),
			audit.WithUserIDExtractor(func(ctx context.Context) (string, bool) {
				id, ok := ctx.Value(ctxKey("user")).(string)
				return id, ok
			}),
			audit.WithRequestIDExtractor(func(context.Context) string { return "req-1" }),
			audit.WithIPExtractor(func(context.Context) string { return "192.0.2.10" }),
		)
	}

	t.Run("fills context fields", func(t *testing.T) {
		t.Parallel()
		w := &memoryWriter{}
		ctx := context.WithValue(context.Background(), ctxKey("user"), "u1")

		require.NoError(t, newRecorder(w).Record(ctx, audit.Event{Action: "POST /tools", Resource: "tools"}))

		events := w.snapshot()
		require.Len(t, events, 1)
		assert.Equal(t, audit.Event{
			UserID:    "u1",
			Action:    "POST /tools",
			Resource:  "tools",
			Result:    audit.ResultSuccess,
			RequestID: "req-1",
			IP:        "192.0.2.10",
			CreatedAt: now.UTC(),
		}, events[0])
	})

	t.Run("explicit fields win", func(t *testing.T) {
		t.Parallel()
		w := &memoryWriter{}
		ctx := context.WithValue(context.Background(), ctxKey("user"), "u1")
		at := now.Add(-time.Hour)

		require.NoError(t, newRecorder(w).Record(ctx, audit.Event{
			Action:    "DELETE /users/{id}",
			UserID:    "system",
			Result:    audit.ResultFailure,
			CreatedAt: at,
		}))

		e := w.snapshot()[0]
		assert.Equal(t, "system", e.UserID)
		assert.Equal(t, audit.ResultFailure, e.Result)
		assert.Equal(t, at, e.CreatedAt)
	})

	t.Run("anonymous request", func(t *testing.T) {
		t.Parallel()
		w := &memoryWriter{}
		require.NoError(t, newRecorder(w).Record(context.Background(), audit.Event{Action: "POST /auth/login"}))
		assert.Empty(t, w.snapshot()[0].UserID)
	})

	t.Run("action required", func(t *testing.T) {
		t.Parallel()
		w := &memoryWriter{}
		err := newRecorder(w).Record(context.Background(), audit.Event{})
		assert.ErrorIs(t, err, audit.ErrEventValidation)
		assert.Empty(t, w.snapshot())
	})

	t.Run("writer error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		err := newRecorder(&memoryWriter{err: boom}).Record(context.Background(), audit.Event{Action: "PUT /tools/{slug}"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("panics without writer", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { audit.NewRecorder(nil) })
	})
}

func TestResultForStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status int
		want   audit.Result
	}{
		{200, audit.ResultSuccess},
		{201, audit.ResultSuccess},
		{303, audit.ResultSuccess},
		{400, audit.ResultFailure},
		{403, audit.ResultFailure},
		{429, audit.ResultFailure},
		{500, audit.ResultError},
		{503, audit.ResultError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, audit.ResultForStatus(tt.status), "status %d", tt.status)
	}
}

func TestCriteriaNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		limit int
		want  int
	}{
		{0, audit.DefaultLimit},
		{-5, audit.DefaultLimit},
		{10, 10},
		{audit.MaxLimit, audit.MaxLimit},
		{audit.MaxLimit + 1, audit.MaxLimit},
	}
	for _, tt := range tests {
		c := audit.Criteria{UserID: "u1", Limit: tt.limit}.Normalize()
		assert.Equal(t, tt.want, c.Limit, "limit %d", tt.limit)
		assert.Equal(t, "u1", c.UserID)
	}
}
