package inventory

import "context"

// Storage persists encrypted items. Lookups return ErrItemNotFound when
// nothing matches.
type Storage interface {
	Insert(ctx context.Context, item *StoreItem) error
	Get(ctx context.Context, id string) (*StoreItem, error)
	List(ctx context.Context) ([]*StoreItem, error)
	FindByCodeHash(ctx context.Context, hash string) (*StoreItem, error)
	Delete(ctx context.Context, id string) error
}
