package buttons

import "context"

// Storage persists buttons. Get, Update and Delete return ErrButtonNotFound
// for unknown ids.
type Storage interface {
	Insert(ctx context.Context, b *Button) error
	Get(ctx context.Context, id string) (*Button, error)
	List(ctx context.Context) ([]*Button, error)
	Update(ctx context.Context, b *Button) error
	Delete(ctx context.Context, id string) error
}
