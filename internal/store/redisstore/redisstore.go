// Package redisstore persists todo items in Redis.
//
// Each item lives under todo:<id> as JSON; the list key "todos" holds ids in
// creation order.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

const orderKey = "todos"

// Store is a Redis-backed store.Store.
type Store struct {
	client *redis.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key, so several stores can share one database.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New wraps an existing client.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr string, opts ...Option) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis (%s): %w", addr, err)
	}
	return New(client, opts...), nil
}

func (s *Store) itemKey(id string) string { return fmt.Sprintf("%stodo:%s", s.prefix, id) }
func (s *Store) listKey() string          { return s.prefix + orderKey }

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	ids, err := s.client.LRange(ctx, s.listKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange: %w", err)
	}
	items := make([]model.Item, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, s.itemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get items: %w", err)
	}
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Id left in the order list by an interrupted delete.
				continue
			}
			return nil, err
		}
		var it model.Item
		if err := json.Unmarshal([]byte(data), &it); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Store) Create(ctx context.Context, item model.Item) (model.Item, error) {
	item.ID = uuid.NewString()
	data, err := json.Marshal(item)
	if err != nil {
		return model.Item{}, err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.itemKey(item.ID), data, 0)
		pipe.RPush(ctx, s.listKey(), item.ID)
		return nil
	})
	if err != nil {
		return model.Item{}, fmt.Errorf("save item: %w", err)
	}
	return item, nil
}

func (s *Store) Update(ctx context.Context, item model.Item) (model.Item, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return model.Item{}, err
	}
	ok, err := s.client.SetXX(ctx, s.itemKey(item.ID), data, 0).Result()
	if err != nil {
		return model.Item{}, fmt.Errorf("update item: %w", err)
	}
	if !ok {
		return model.Item{}, store.ErrNotFound
	}
	return item, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.itemKey(id))
		pipe.LRem(ctx, s.listKey(), 0, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if del.Val() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
