package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"genresim/internal/domain"
	"genresim/internal/store/storetest"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "genres.db"), PoolSize: 2})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store { return openTemp(t) })
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatal("Open with empty path succeeded")
	}
}

func TestDocumentsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "genres.db")

	s, err := Open(Config{Path: path, PoolSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Put(ctx, "music", domain.Document{ID: "1", Text: "synthwave"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(Config{Path: path, PoolSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	doc, ok, err := s.Document(ctx, "music", "1")
	if err != nil || !ok || doc.Text != "synthwave" {
		t.Errorf("Document after reopen = (%+v, %v, %v)", doc, ok, err)
	}
}
