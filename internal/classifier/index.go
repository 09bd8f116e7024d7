package classifier

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"genresim/internal/domain"
	"genresim/internal/similarity"
	"genresim/internal/termvec"
)

// Index maps genre names to their classifiers and ranks genres against
// query texts. Classifiers are created on the first document added to a
// genre and are never dropped, even when they become empty.
type Index struct {
	store      domain.Store
	vectorizer domain.Vectorizer
	similarity domain.Similarity
	logger     *slog.Logger

	mu     sync.RWMutex
	genres map[string]*Genre
}

// Option configures an Index.
type Option func(*Index)

// WithSimilarity sets the strategy used for every genre and for
// pairwise comparisons. Defaults to cosine.
func WithSimilarity(s domain.Similarity) Option {
	return func(ix *Index) { ix.similarity = s }
}

// WithVectorizer sets the text -> vector conversion. Defaults to raw
// term counts.
func WithVectorizer(v domain.Vectorizer) Option {
	return func(ix *Index) { ix.vectorizer = v }
}

// WithLogger sets the logger for no-op and warning paths.
func WithLogger(l *slog.Logger) Option {
	return func(ix *Index) { ix.logger = l }
}

// NewIndex creates an empty index over store.
func NewIndex(store domain.Store, opts ...Option) *Index {
	ix := &Index{
		store:      store,
		vectorizer: termvec.Counter{},
		similarity: similarity.Cosine{},
		genres:     make(map[string]*Genre),
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.logger == nil {
		ix.logger = slog.New(slog.DiscardHandler)
	}
	return ix
}

// genre returns the classifier for name, creating it if absent. Exactly
// one classifier is ever registered per name. Restore uses it for
// genres the store already holds.
func (ix *Index) genre(name string) *Genre {
	ix.mu.RLock()
	g, ok := ix.genres[name]
	ix.mu.RUnlock()
	if ok {
		return g
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if g, ok := ix.genres[name]; ok {
		return g
	}
	g = NewGenre(name, ix.store, ix.vectorizer, ix.similarity)
	ix.genres[name] = g
	ix.logger.Debug("genre created", "genre", name)
	return g
}

// Genre looks up an existing classifier.
func (ix *Index) Genre(name string) (*Genre, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	g, ok := ix.genres[name]
	return g, ok
}

// Genres returns the registered genre names in ascending order,
// including empty ones.
func (ix *Index) Genres() []string {
	ix.mu.RLock()
	names := make([]string, 0, len(ix.genres))
	for name := range ix.genres {
		names = append(names, name)
	}
	ix.mu.RUnlock()
	slices.Sort(names)
	return names
}

// AddDocument adds a document to genre. A new genre is registered only
// once its first document is stored, so a failed write never leaves an
// empty genre behind.
func (ix *Index) AddDocument(ctx context.Context, genre, id, text string) error {
	doc := domain.Document{ID: id, Text: text}
	if g, ok := ix.Genre(genre); ok {
		return g.AddDocument(ctx, doc)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if g, ok := ix.genres[genre]; ok {
		return g.AddDocument(ctx, doc)
	}
	g := NewGenre(genre, ix.store, ix.vectorizer, ix.similarity)
	if err := g.AddDocument(ctx, doc); err != nil {
		return err
	}
	ix.genres[genre] = g
	ix.logger.Debug("genre created", "genre", genre)
	return nil
}

// RemoveDocument removes id from genre. An unknown genre is logged and
// otherwise ignored.
func (ix *Index) RemoveDocument(ctx context.Context, genre, id string) error {
	g, ok := ix.Genre(genre)
	if !ok {
		ix.logger.Warn("genre does not exist", "genre", genre, "doc_id", id)
		return nil
	}
	return g.RemoveDocument(ctx, id)
}

// DocumentsInGenre returns the ids stored for genre, empty when the
// genre is unknown.
func (ix *Index) DocumentsInGenre(ctx context.Context, genre string) ([]string, error) {
	ids, err := ix.store.Get(ctx, genre)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// RankGenres scores text against every non-empty genre and returns the
// best n, highest score first. Equal scores are ordered by genre name.
func (ix *Index) RankGenres(text string, n int) ([]domain.SimilarityScore, error) {
	if n <= 0 {
		return []domain.SimilarityScore{}, nil
	}
	ix.mu.RLock()
	candidates := make([]*Genre, 0, len(ix.genres))
	for _, g := range ix.genres {
		candidates = append(candidates, g)
	}
	ix.mu.RUnlock()

	query := ix.vectorizer.Vectorize(text)
	scores := make([]domain.SimilarityScore, 0, len(candidates))
	for _, g := range candidates {
		if g.DocumentCount() == 0 {
			continue
		}
		s, err := g.similarityTo(query)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	slices.SortFunc(scores, func(a, b domain.SimilarityScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Genre, b.Genre)
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores, nil
}

// NearestGenres returns the names of the n genres closest to text.
func (ix *Index) NearestGenres(text string, n int) ([]string, error) {
	scores, err := ix.RankGenres(text, n)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(scores))
	for i, s := range scores {
		names[i] = s.Genre
	}
	return names, nil
}

// PairwiseSimilarity compares two texts directly, independent of any
// genre.
func (ix *Index) PairwiseSimilarity(textA, textB string) (domain.SimilarityScore, error) {
	score, err := ix.similarity.Calculate(ix.vectorizer.Vectorize(textA), ix.vectorizer.Vectorize(textB))
	if err != nil {
		return domain.SimilarityScore{}, err
	}
	return domain.SimilarityScore{Score: score}, nil
}

// TermFrequencies vectorizes text with the index's vectorizer.
func (ix *Index) TermFrequencies(text string) domain.Vector {
	return ix.vectorizer.Vectorize(text)
}

// Restore registers a classifier for every genre the store already
// holds and rebuilds its aggregates. Stores that cannot enumerate their
// contents are left alone.
func (ix *Index) Restore(ctx context.Context) error {
	catalog, ok := ix.store.(domain.Catalog)
	if !ok {
		return nil
	}
	names, err := catalog.Genres(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		g := ix.genre(name)
		if err := g.rebuild(ctx, catalog); err != nil {
			return err
		}
		ix.logger.Info("genre restored", "genre", name, "documents", g.DocumentCount())
	}
	return nil
}
