// Package sqlitestore persists todo items in a SQLite database (pure Go driver).
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// Store is a SQLite-backed store.Store.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and ensures the schema.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: cannot open database: %w", err)
	}

	// SQLite serializes writers; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Ping: failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS todos (
			seq   INTEGER PRIMARY KEY AUTOINCREMENT,
			id    TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			done  INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, done FROM todos ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Done); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func (s *Store) Create(ctx context.Context, item model.Item) (model.Item, error) {
	item.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO todos (id, title, done) VALUES (:id, :title, :done)`,
		sql.Named("id", item.ID),
		sql.Named("title", item.Title),
		sql.Named("done", item.Done))
	if err != nil {
		return model.Item{}, fmt.Errorf("insert todo: %w", err)
	}
	return item, nil
}

func (s *Store) Update(ctx context.Context, item model.Item) (model.Item, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE todos SET title = :title, done = :done WHERE id = :id`,
		sql.Named("title", item.Title),
		sql.Named("done", item.Done),
		sql.Named("id", item.ID))
	if err != nil {
		return model.Item{}, fmt.Errorf("update todo: %w", err)
	}
	if err := requireRow(res); err != nil {
		return model.Item{}, err
	}
	return item, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = :id`, sql.Named("id", id))
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return requireRow(res)
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
