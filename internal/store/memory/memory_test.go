package memory

import (
	"context"
	"sync"
	"testing"

	"genresim/internal/domain"
	"genresim/internal/store/storetest"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(*testing.T) domain.Store { return NewStorage() })
}

func TestConcurrentPuts(t *testing.T) {
	s := NewStorage()
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			if _, _, err := s.Put(ctx, "g", domain.Document{ID: id, Text: "t"}); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
	ids, err := s.Get(ctx, "g")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 26 {
		t.Errorf("len(ids) = %d, want 26", len(ids))
	}
}
