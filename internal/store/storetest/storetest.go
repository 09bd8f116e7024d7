// Package storetest checks a domain.Store implementation against the
// contract the classifier relies on.
package storetest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"genresim/internal/domain"
)

// Run exercises newStore with the shared contract. newStore must return
// a fresh, empty store; Run closes it.
func Run(t *testing.T, newStore func(t *testing.T) domain.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("unknown genre is empty", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		ids, err := s.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ids == nil || len(ids) != 0 {
			t.Errorf("Get(unknown) = %#v, want empty non-nil slice", ids)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		mustPut(t, s, "music", domain.Document{ID: "456", Text: "chillwave"})
		mustPut(t, s, "music", domain.Document{ID: "123", Text: "synthwave"})
		mustPut(t, s, "film", domain.Document{ID: "789", Text: "movies"})
		assertIDs(t, s, "music", []string{"123", "456"})
		assertIDs(t, s, "film", []string{"789"})
	})

	t.Run("put overwrites and reports previous", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		mustPut(t, s, "music", domain.Document{ID: "1", Text: "old text"})
		prev, replaced, err := s.Put(ctx, "music", domain.Document{ID: "1", Text: "new text"})
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		if !replaced || prev.Text != "old text" || prev.ID != "1" {
			t.Errorf("Put = (%+v, %v), want old document replaced", prev, replaced)
		}
		assertIDs(t, s, "music", []string{"1"})
		doc, ok, err := s.Remove(ctx, "music", "1")
		if err != nil || !ok || doc.Text != "new text" {
			t.Errorf("Remove = (%+v, %v, %v), want new text", doc, ok, err)
		}
	})

	t.Run("same id in two genres", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		mustPut(t, s, "a", domain.Document{ID: "x", Text: "in a"})
		_, replaced, err := s.Put(ctx, "b", domain.Document{ID: "x", Text: "in b"})
		if err != nil || replaced {
			t.Fatalf("Put into second genre = (%v, %v), want fresh insert", replaced, err)
		}
		doc, ok, err := s.Remove(ctx, "a", "x")
		if err != nil || !ok || doc.Text != "in a" {
			t.Errorf("Remove(a, x) = (%+v, %v, %v)", doc, ok, err)
		}
		assertIDs(t, s, "b", []string{"x"})
	})

	t.Run("remove", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		mustPut(t, s, "music", domain.Document{ID: "123", Text: "synthwave"})
		mustPut(t, s, "music", domain.Document{ID: "456", Text: "chillwave"})

		doc, ok, err := s.Remove(ctx, "music", "123")
		if err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if !ok || doc != (domain.Document{ID: "123", Text: "synthwave"}) {
			t.Errorf("Remove = (%+v, %v)", doc, ok)
		}
		assertIDs(t, s, "music", []string{"456"})

		mustRemove(t, s, "music", "456")
		assertIDs(t, s, "music", []string{})

		if _, ok, err := s.Remove(ctx, "music", "000"); err != nil || ok {
			t.Errorf("Remove(missing) = (%v, %v), want (false, nil)", ok, err)
		}
		if _, ok, err := s.Remove(ctx, "never", "000"); err != nil || ok {
			t.Errorf("Remove(unknown genre) = (%v, %v), want (false, nil)", ok, err)
		}
	})

	t.Run("catalog", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		catalog, ok := s.(domain.Catalog)
		if !ok {
			t.Skip("store does not implement domain.Catalog")
		}
		mustPut(t, s, "b", domain.Document{ID: "1", Text: "one"})
		mustPut(t, s, "a", domain.Document{ID: "2", Text: "two"})
		genres, err := catalog.Genres(ctx)
		if err != nil {
			t.Fatalf("Genres: %v", err)
		}
		if !reflect.DeepEqual(genres, []string{"a", "b"}) {
			t.Errorf("Genres = %v, want [a b]", genres)
		}
		doc, ok, err := catalog.Document(ctx, "b", "1")
		if err != nil || !ok || doc.Text != "one" {
			t.Errorf("Document(b, 1) = (%+v, %v, %v)", doc, ok, err)
		}
		if _, ok, err := catalog.Document(ctx, "b", "2"); err != nil || ok {
			t.Errorf("Document(b, 2) = (%v, %v), want absent", ok, err)
		}
	})

	t.Run("closed store reports StoreError", func(t *testing.T) {
		s := newStore(t)
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		_, _, err := s.Put(ctx, "music", domain.Document{ID: "1", Text: "x"})
		var storeErr *domain.StoreError
		if !errors.As(err, &storeErr) {
			t.Fatalf("Put after Close err = %v, want *domain.StoreError", err)
		}
	})
}

func mustPut(t *testing.T, s domain.Store, genre string, doc domain.Document) {
	t.Helper()
	if _, _, err := s.Put(context.Background(), genre, doc); err != nil {
		t.Fatalf("Put(%s, %s): %v", genre, doc.ID, err)
	}
}

func mustRemove(t *testing.T, s domain.Store, genre, id string) {
	t.Helper()
	if _, _, err := s.Remove(context.Background(), genre, id); err != nil {
		t.Fatalf("Remove(%s, %s): %v", genre, id, err)
	}
}

func assertIDs(t *testing.T, s domain.Store, genre string, want []string) {
	t.Helper()
	got, err := s.Get(context.Background(), genre)
	if err != nil {
		t.Fatalf("Get(%s): %v", genre, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get(%s) = %v, want %v", genre, got, want)
	}
}
