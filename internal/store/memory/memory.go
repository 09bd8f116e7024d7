package memory

import (
	"context"
	"slices"
	"sync"

	"genresim/internal/domain"
	"genresim/internal/store"
)

// Storage keeps documents in process memory. Nothing survives a restart.
type Storage struct {
	mu     sync.RWMutex
	genres map[string]map[string]string // genre -> id -> text
	closed bool
}

func NewStorage() *Storage {
	return &Storage{genres: make(map[string]map[string]string)}
}

func (s *Storage) Get(_ context.Context, genre string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &domain.StoreError{Op: "get", Genre: genre, Err: store.ErrClosed}
	}
	docs := s.genres[genre]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Storage) Put(_ context.Context, genre string, doc domain.Document) (domain.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Document{}, false, &domain.StoreError{Op: "put", Genre: genre, Err: store.ErrClosed}
	}
	docs, ok := s.genres[genre]
	if !ok {
		docs = make(map[string]string)
		s.genres[genre] = docs
	}
	prev, replaced := docs[doc.ID]
	docs[doc.ID] = doc.Text
	if !replaced {
		return domain.Document{}, false, nil
	}
	return domain.Document{ID: doc.ID, Text: prev}, true, nil
}

func (s *Storage) Remove(_ context.Context, genre, id string) (domain.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Document{}, false, &domain.StoreError{Op: "remove", Genre: genre, Err: store.ErrClosed}
	}
	text, ok := s.genres[genre][id]
	if !ok {
		return domain.Document{}, false, nil
	}
	delete(s.genres[genre], id)
	return domain.Document{ID: id, Text: text}, true, nil
}

// Genres lists every genre that has ever held a document.
func (s *Storage) Genres(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &domain.StoreError{Op: "genres", Err: store.ErrClosed}
	}
	names := make([]string, 0, len(s.genres))
	for name := range s.genres {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *Storage) Document(_ context.Context, genre, id string) (domain.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.Document{}, false, &domain.StoreError{Op: "document", Genre: genre, Err: store.ErrClosed}
	}
	text, ok := s.genres[genre][id]
	if !ok {
		return domain.Document{}, false, nil
	}
	return domain.Document{ID: id, Text: text}, true, nil
}

// Close marks the store closed; later calls fail with store.ErrClosed.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.genres = nil
	return nil
}
