package buttons_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/pkg/validator"
	"github.com/dmitrymomot/opsdesk/svc/buttons"
)

type memoryStorage struct {
	mu      sync.Mutex
	buttons map[string]buttons.Button
	order   []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{buttons: make(map[string]buttons.Button)}
}

func (m *memoryStorage) Insert(_ context.Context, b *buttons.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buttons[b.ID] = *b
	m.order = append(m.order, b.ID)
	return nil
}

func (m *memoryStorage) Get(_ context.Context, id string) (*buttons.Button, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buttons[id]
	if !ok {
		return nil, buttons.ErrButtonNotFound
	}
	return &b, nil
}

func (m *memoryStorage) List(_ context.Context) ([]*buttons.Button, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*buttons.Button{}
	for _, id := range m.order {
		if b, ok := m.buttons[id]; ok {
			out = append(out, &b)
		}
	}
	return out, nil
}

func (m *memoryStorage) Update(_ context.Context, b *buttons.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buttons[b.ID]; !ok {
		return buttons.ErrButtonNotFound
	}
	m.buttons[b.ID] = *b
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buttons[id]; !ok {
		return buttons.ErrButtonNotFound
	}
	delete(m.buttons, id)
	return nil
}

func knownTools(slugs ...string) buttons.ToolLookup {
	return func(_ context.Context, slug string) (bool, error) {
		for _, s := range slugs {
			if s == slug {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		button string
		action buttons.Action
		field  string
	}{
		{"missing name", " ", buttons.CopyText{Text: "x"}, "name"},
		{"missing action", "Docs", nil, "actionType"},
		{"relative url", "Docs", buttons.OpenURL{URL: "/docs"}, "parameters.url"},
		{"javascript url", "Docs", buttons.OpenURL{URL: "javascript:alert(1)"}, "parameters.url"},
		{"webhook method", "Hook", buttons.Webhook{URL: "https://example.com", Method: "TRACE"}, "parameters.method"},
		{"empty text", "Copy", buttons.CopyText{}, "parameters.text"},
		{"empty tool", "Run", buttons.RunTool{}, "parameters.toolSlug"},
		{"unknown tool", "Run", buttons.RunTool{ToolSlug: "nope"}, "parameters.toolSlug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := buttons.New(newMemoryStorage(), buttons.WithToolLookup(knownTools("reindex")))
			_, err := svc.Create(context.Background(), tt.button, tt.action, "u1")
			require.Error(t, err)
			assert.True(t, validator.ExtractValidationErrors(err).Has(tt.field), err.Error())
		})
	}
}

func TestCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := buttons.New(newMemoryStorage(), buttons.WithToolLookup(knownTools("reindex")))

	hook, err := svc.Create(ctx, " Deploy ", buttons.Webhook{URL: " https://ci.example.com/deploy "}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Deploy", hook.Name)
	assert.Equal(t, buttons.Webhook{URL: "https://ci.example.com/deploy", Method: "POST"}, hook.Action)
	assert.Equal(t, "u1", hook.CreatedBy)

	run, err := svc.Create(ctx, "Reindex", buttons.RunTool{ToolSlug: "reindex"}, "u1")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, hook.ID, list[0].ID)

	updated, err := svc.Update(ctx, run.ID, "Copy", buttons.CopyText{Text: "token"})
	require.NoError(t, err)
	assert.Equal(t, buttons.ActionCopyText, updated.Action.Type())

	got, err := svc.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copy", got.Name)

	_, err = svc.Update(ctx, "missing", "Copy", buttons.CopyText{Text: "x"})
	assert.ErrorIs(t, err, buttons.ErrButtonNotFound)

	require.NoError(t, svc.Delete(ctx, run.ID))
	assert.ErrorIs(t, svc.Delete(ctx, run.ID), buttons.ErrButtonNotFound)
	_, err = svc.Get(ctx, run.ID)
	assert.ErrorIs(t, err, buttons.ErrButtonNotFound)
}

func TestToolLookupFailure(t *testing.T) {
	t.Parallel()
	down := errors.New("mongo down")
	svc := buttons.New(newMemoryStorage(), buttons.WithToolLookup(func(context.Context, string) (bool, error) {
		return false, down
	}))

	_, err := svc.Create(context.Background(), "Run", buttons.RunTool{ToolSlug: "reindex"}, "u1")
	assert.ErrorIs(t, err, down)
	assert.False(t, validator.IsValidationError(err))
}
