package tools

import "context"

// Storage persists tools keyed by slug.
type Storage interface {
	// Insert returns ErrSlugTaken when the slug is already used.
	Insert(ctx context.Context, t *Tool) error
	Get(ctx context.Context, slug string) (*Tool, error)
	List(ctx context.Context, includeHidden bool) ([]*Tool, error)
	Update(ctx context.Context, slug string, c Changes) (*Tool, error)
	Delete(ctx context.Context, slug string) error
}
