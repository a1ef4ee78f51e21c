// Package firestorestore persists todo items in Cloud Firestore.
package firestorestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// DefaultCollection holds the todo documents.
const DefaultCollection = "todos"

// document is the stored shape; createdAt keeps list order stable.
type document struct {
	Title     string    `firestore:"title"`
	Done      bool      `firestore:"done"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Store is a Firestore-backed store.Store.
type Store struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

// New connects to the project's default database.
// FIRESTORE_EMULATOR_HOST is honoured by the client library.
func New(ctx context.Context, projectID, collection string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{client: client, collection: collection, now: time.Now}, nil
}

func (s *Store) col() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	iter := s.col().OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	items := make([]model.Item, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate todos: %w", err)
		}
		var d document
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal todo: %w", err)
		}
		items = append(items, model.Item{ID: doc.Ref.ID, Title: d.Title, Done: d.Done})
	}
	return items, nil
}

func (s *Store) Create(ctx context.Context, item model.Item) (model.Item, error) {
	item.ID = uuid.NewString()
	d := document{Title: item.Title, Done: item.Done, CreatedAt: s.now().UTC()}
	if _, err := s.col().Doc(item.ID).Create(ctx, d); err != nil {
		return model.Item{}, fmt.Errorf("failed to create todo: %w", err)
	}
	return item, nil
}

func (s *Store) Update(ctx context.Context, item model.Item) (model.Item, error) {
	_, err := s.col().Doc(item.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: item.Title},
		{Path: "done", Value: item.Done},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Item{}, store.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to update todo: %w", err)
	}
	return item, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.col().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
