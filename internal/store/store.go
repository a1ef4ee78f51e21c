// Package store defines the persistence contract behind the todo server.
package store

import (
	"context"
	"errors"

	"github.com/idilsaglam/tada/internal/model"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("item not found")

// Store persists todo items. Implementations return items in creation order
// and assign ids on Create; an id carried by the item passed to Create is ignored.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, item model.Item) (model.Item, error)
	Update(ctx context.Context, item model.Item) (model.Item, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
