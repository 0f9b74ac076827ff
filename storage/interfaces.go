package storage

import (
	"context"

	"github.com/poiesic/snapdex/core"
)

// ItemRepository provides durable catalog storage for searchable items.
// Implementations must be safe for concurrent use.
type ItemRepository interface {
	// PutItem stores an item, overwriting any existing item with the
	// same id.
	PutItem(ctx context.Context, item *core.SearchableItem) error

	// GetItem retrieves a single item by id.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id string) (*core.SearchableItem, error)

	// DeleteItem removes an item by id. Deleting an absent id is a
	// no-op, not an error.
	DeleteItem(ctx context.Context, id string) error

	// ForEachItem calls fn for every stored item. Iteration stops on
	// the first error returned by fn, which is propagated.
	ForEachItem(ctx context.Context, fn func(item *core.SearchableItem) error) error

	// CountItems returns the number of stored items.
	CountItems(ctx context.Context) (uint64, error)

	// ClearItems removes every stored item. The repository remains
	// open and usable afterward.
	ClearItems(ctx context.Context) error

	// Close closes the repository and releases resources.
	Close() error
}
