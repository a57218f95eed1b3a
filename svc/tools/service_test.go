package tools_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/pkg/validator"
	"github.com/dmitrymomot/opsdesk/svc/tools"
)

// memoryStorage enforces slug uniqueness on insert like the unique index.
type memoryStorage struct {
	mu      sync.Mutex
	tools   map[string]tools.Tool
	inserts int
	failOn  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{tools: make(map[string]tools.Tool)}
}

func (m *memoryStorage) Insert(_ context.Context, t *tools.Tool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.failOn != nil {
		return m.failOn
	}
	if _, ok := m.tools[t.Slug]; ok {
		return tools.ErrSlugTaken
	}
	m.tools[t.Slug] = *t
	return nil
}

func (m *memoryStorage) Get(_ context.Context, slug string) (*tools.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tools[slug]
	if !ok {
		return nil, tools.ErrToolNotFound
	}
	return &t, nil
}

func (m *memoryStorage) List(_ context.Context, includeHidden bool) ([]*tools.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*tools.Tool{}
	for _, t := range m.tools {
		if t.Visible || includeHidden {
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *memoryStorage) Update(_ context.Context, slug string, c tools.Changes) (*tools.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tools[slug]
	if !ok {
		return nil, tools.ErrToolNotFound
	}
	t.Label, t.Description, t.Visible = c.Label, c.Description, c.Visible
	m.tools[slug] = t
	return &t, nil
}

func (m *memoryStorage) Delete(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tools[slug]; !ok {
		return tools.ErrToolNotFound
	}
	delete(m.tools, slug)
	return nil
}

func TestCreateSuffixesTakenSlugs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := tools.New(newMemoryStorage())

	want := []string{"log-viewer", "log-viewer-2", "log-viewer-3"}
	for _, slug := range want {
		tool, err := svc.Create(ctx, tools.Changes{Label: "Log Viewer", Visible: true})
		require.NoError(t, err)
		assert.Equal(t, slug, tool.Slug)
		assert.Equal(t, "Log Viewer", tool.Label)
	}
}

func TestCreateConcurrentSameLabel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := tools.New(newMemoryStorage())

	const workers = 20
	slugs := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tool, err := svc.Create(ctx, tools.Changes{Label: "Reindex"})
			if assert.NoError(t, err) {
				slugs[i] = tool.Slug
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for _, s := range slugs {
		assert.False(t, seen[s], "duplicate slug %s", s)
		seen[s] = true
	}
	assert.True(t, seen["reindex"])
	assert.True(t, seen[fmt.Sprintf("reindex-%d", workers)])
}

func TestCreateExhausted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := newMemoryStorage()
	svc := tools.New(storage)

	for range tools.MaxSlugAttempts {
		_, err := svc.Create(ctx, tools.Changes{Label: "Same"})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, tools.Changes{Label: "Same"})
	assert.ErrorIs(t, err, tools.ErrSlugExhausted)
}

func TestCreateStorageError(t *testing.T) {
	t.Parallel()
	storage := newMemoryStorage()
	storage.failOn = errors.New("connection reset")
	svc := tools.New(storage)

	_, err := svc.Create(context.Background(), tools.Changes{Label: "Metrics"})
	assert.ErrorIs(t, err, storage.failOn)
	assert.Equal(t, 1, storage.inserts)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		in    tools.Changes
		field string
	}{
		{"empty label", tools.Changes{Label: "  "}, "label"},
		{"punctuation only", tools.Changes{Label: "!!!"}, "label"},
		{"newline", tools.Changes{Label: "a\nb"}, "label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tools.New(newMemoryStorage()).Create(context.Background(), tt.in)
			assert.True(t, validator.ExtractValidationErrors(err).Has(tt.field))
		})
	}
}

func TestVisibilityAndUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := tools.New(newMemoryStorage())

	_, err := svc.Create(ctx, tools.Changes{Label: "Public", Visible: true})
	require.NoError(t, err)
	hidden, err := svc.Create(ctx, tools.Changes{Label: "Secret Ops", Visible: false})
	require.NoError(t, err)

	visible, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "public", visible[0].Slug)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Get(ctx, hidden.Slug, false)
	assert.ErrorIs(t, err, tools.ErrToolNotFound)
	got, err := svc.Get(ctx, hidden.Slug, true)
	require.NoError(t, err)
	assert.Equal(t, "Secret Ops", got.Label)

	exists, err := svc.Exists(ctx, hidden.Slug)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = svc.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	updated, err := svc.Update(ctx, hidden.Slug, tools.Changes{Label: "Renamed", Description: "now public", Visible: true})
	require.NoError(t, err)
	assert.Equal(t, "secret-ops", updated.Slug)
	assert.Equal(t, "Renamed", updated.Label)
	assert.True(t, updated.Visible)

	_, err = svc.Update(ctx, "nope", tools.Changes{Label: "X"})
	assert.ErrorIs(t, err, tools.ErrToolNotFound)

	require.NoError(t, svc.Delete(ctx, hidden.Slug))
	assert.ErrorIs(t, svc.Delete(ctx, hidden.Slug), tools.ErrToolNotFound)
}
