// Package classifier maintains per-genre centroids over a document store
// and ranks genres by similarity to a query text.
package classifier

import (
	"context"
	"maps"
	"sync"

	"genresim/internal/domain"
)

// Genre owns one genre's document-frequency counts and the centroid
// derived from them. The store holds the documents themselves; Genre
// re-vectorizes a document's stored text when it has to retract it.
//
// All mutation happens under mu, so a reader never sees a centroid that
// was computed from different counts than the ones it sits beside.
type Genre struct {
	name       string
	store      domain.Store
	vectorizer domain.Vectorizer

	mu         sync.RWMutex
	similarity domain.Similarity
	termCounts map[string]float64
	centroid   domain.Vector
	docCount   int
}

// NewGenre creates an empty classifier for name backed by store.
func NewGenre(name string, store domain.Store, vectorizer domain.Vectorizer, similarity domain.Similarity) *Genre {
	return &Genre{
		name:       name,
		store:      store,
		vectorizer: vectorizer,
		similarity: similarity,
		termCounts: make(map[string]float64),
		centroid:   make(domain.Vector),
	}
}

// Name returns the genre label.
func (g *Genre) Name() string { return g.name }

// AddDocument stores doc under this genre and folds its terms into the
// centroid. A document whose id is already present replaces the old
// one, whose terms are retracted first. Nothing in memory changes if
// the store write fails; once it succeeds the aggregates always follow.
func (g *Genre) AddDocument(ctx context.Context, doc domain.Document) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	previous, replaced, err := g.store.Put(ctx, g.name, doc)
	if err != nil {
		return err
	}
	if replaced {
		g.retract(g.vectorizer.Vectorize(previous.Text))
	} else {
		g.docCount++
	}
	for term := range g.vectorizer.Vectorize(doc.Text) {
		g.termCounts[term]++
	}
	g.recompute()
	return nil
}

// RemoveDocument deletes the document with id from the store and
// retracts its terms. An unknown id is a no-op.
func (g *Genre) RemoveDocument(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, ok, err := g.store.Remove(ctx, g.name, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	g.retract(g.vectorizer.Vectorize(doc.Text))
	g.docCount--
	g.recompute()
	return nil
}

// retract decrements the count of every distinct term in tf, deleting
// terms that reach zero.
func (g *Genre) retract(tf domain.Vector) {
	for term := range tf {
		count, ok := g.termCounts[term]
		if !ok {
			continue
		}
		if count <= 1 {
			delete(g.termCounts, term)
			continue
		}
		g.termCounts[term] = count - 1
	}
}

// recompute rebuilds the centroid from termCounts and docCount.
// Callers hold mu.
func (g *Genre) recompute() {
	centroid := make(domain.Vector, len(g.termCounts))
	if g.docCount > 0 {
		n := float64(g.docCount)
		for term, count := range g.termCounts {
			centroid[term] = count / n
		}
	}
	g.centroid = centroid
}

// SimilarityToCentroid scores doc against the centroid. The result is
// tagged with this genre's name.
func (g *Genre) SimilarityToCentroid(doc domain.Document) (domain.SimilarityScore, error) {
	return g.similarityTo(g.vectorizer.Vectorize(doc.Text))
}

func (g *Genre) similarityTo(query domain.Vector) (domain.SimilarityScore, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	score, err := g.similarity.Calculate(g.centroid, query)
	if err != nil {
		return domain.SimilarityScore{}, err
	}
	return domain.SimilarityScore{Genre: g.name, Score: score}, nil
}

// DocumentCount returns the number of documents in this genre. It moves
// in the same critical section as the store write that changed it.
func (g *Genre) DocumentCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.docCount
}

// Centroid returns a copy of the centroid vector.
func (g *Genre) Centroid() domain.Vector {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return maps.Clone(g.centroid)
}

// TermCounts returns a copy of the per-term document counts.
func (g *Genre) TermCounts() map[string]float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return maps.Clone(g.termCounts)
}

// SetSimilarity swaps the scoring strategy.
func (g *Genre) SetSimilarity(s domain.Similarity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.similarity = s
}

// rebuild discards the in-memory counts and recomputes them from every
// document the catalog holds for this genre.
func (g *Genre) rebuild(ctx context.Context, catalog domain.Catalog) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids, err := g.store.Get(ctx, g.name)
	if err != nil {
		return err
	}
	counts := make(map[string]float64)
	docCount := 0
	for _, id := range ids {
		doc, ok, err := catalog.Document(ctx, g.name, id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		docCount++
		for term := range g.vectorizer.Vectorize(doc.Text) {
			counts[term]++
		}
	}
	g.termCounts = counts
	g.docCount = docCount
	g.recompute()
	return nil
}
