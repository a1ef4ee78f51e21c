// Package storetest is a conformance suite shared by every store.Store backend.
package storetest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// Run exercises a backend. newStore must return an empty store; Run closes it.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"EmptyList", testEmptyList},
		{"CreateAssignsID", testCreateAssignsID},
		{"ListKeepsCreationOrder", testListOrder},
		{"UpdateReplaces", testUpdate},
		{"UpdateUnknown", testUpdateUnknown},
		{"Delete", testDelete},
		{"DeleteUnknown", testDeleteUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func testEmptyList(t *testing.T, s store.Store) {
	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("List: got %d items, want 0", len(items))
	}
}

func testCreateAssignsID(t *testing.T, s store.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, model.Item{ID: "client-chosen", Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.ID == "client-chosen" {
		t.Fatalf("Create: got id %q, want a server-assigned id", created.ID)
	}
	if created.Title != "Buy milk" || created.Done {
		t.Errorf("Create: got %+v", created)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || !reflect.DeepEqual(items[0], created) {
		t.Errorf("List: got %+v, want [%+v]", items, created)
	}
}

func testListOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	titles := []string{"first", "second", "third", "fourth"}
	for _, title := range titles {
		if _, err := s.Create(ctx, model.Draft(title)); err != nil {
			t.Fatalf("Create(%s): %v", title, err)
		}
	}
	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != len(titles) {
		t.Fatalf("List: got %d items, want %d", len(items), len(titles))
	}
	for i, title := range titles {
		if items[i].Title != title {
			t.Errorf("items[%d].Title = %q, want %q", i, items[i].Title, title)
		}
	}

	again, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List again: %v", err)
	}
	if !reflect.DeepEqual(items, again) {
		t.Errorf("List is not stable: %+v vs %+v", items, again)
	}
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, model.Draft("Write report"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other, err := s.Create(ctx, model.Draft("Other"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := s.Update(ctx, created.Completed())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Done || updated.ID != created.ID || updated.Title != created.Title {
		t.Errorf("Update: got %+v", updated)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []model.Item{updated, other}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("List: got %+v, want %+v", items, want)
	}
}

func testUpdateUnknown(t *testing.T, s store.Store) {
	_, err := s.Update(context.Background(), model.Item{ID: "missing", Title: "x"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update unknown: got %v, want ErrNotFound", err)
	}
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	a, err := s.Create(ctx, model.Draft("a"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := s.Create(ctx, model.Draft("b"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != b.ID {
		t.Errorf("List after delete: got %+v, want only %s", items, b.ID)
	}
	if err := s.Delete(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

func testDeleteUnknown(t *testing.T, s store.Store) {
	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete unknown: got %v, want ErrNotFound", err)
	}
}
