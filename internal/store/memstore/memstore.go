// Package memstore keeps todo items in process memory.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// Store is an in-memory store.Store. Contents are lost on exit.
type Store struct {
	mu    sync.RWMutex
	items []model.Item
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

func (s *Store) List(_ context.Context) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) Create(_ context.Context, item model.Item) (model.Item, error) {
	item.ID = uuid.NewString()
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
	return item, nil
}

func (s *Store) Update(_ context.Context, item model.Item) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(item.ID)
	if i < 0 {
		return model.Item{}, store.ErrNotFound
	}
	s.items[i] = item
	return item, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Store) Close() error { return nil }

// index must be called with the lock held.
func (s *Store) index(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
