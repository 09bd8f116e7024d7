package service

import (
	"context"
	"fmt"
	"log/slog"

	"genresim/internal/classifier"
	"genresim/internal/domain"
	"genresim/internal/ingest"
	"genresim/internal/summarizer"
)

// ClassificationServiceImpl fronts the classifier index for the
// transports. It logs failures and passes them through unchanged.
type ClassificationServiceImpl struct {
	index   *classifier.Index
	store   domain.Store
	profile *summarizer.FrequencySummarizer
	logger  *slog.Logger
}

func NewClassificationService(index *classifier.Index, store domain.Store, logger *slog.Logger) *ClassificationServiceImpl {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ClassificationServiceImpl{
		index:   index,
		store:   store,
		profile: summarizer.NewFrequencySummarizer(),
		logger:  logger,
	}
}

func (s *ClassificationServiceImpl) TermFrequencies(text string) domain.Vector {
	return s.index.TermFrequencies(text)
}

func (s *ClassificationServiceImpl) SimilarityScore(textA, textB string) (float64, error) {
	score, err := s.index.PairwiseSimilarity(textA, textB)
	if err != nil {
		s.logger.Error("could not score documents", "error", err)
		return 0, err
	}
	return score.Score, nil
}

func (s *ClassificationServiceImpl) AddDocumentToGenre(ctx context.Context, genre, id, text string) error {
	if err := s.index.AddDocument(ctx, genre, id, text); err != nil {
		s.logger.Error("could not add document", "genre", genre, "doc_id", id, "error", err)
		return err
	}
	s.logger.Debug("document added", "genre", genre, "doc_id", id)
	return nil
}

func (s *ClassificationServiceImpl) RemoveDocumentFromGenre(ctx context.Context, genre, id string) error {
	if err := s.index.RemoveDocument(ctx, genre, id); err != nil {
		s.logger.Error("could not remove document", "genre", genre, "doc_id", id, "error", err)
		return err
	}
	return nil
}

func (s *ClassificationServiceImpl) DocumentsInGenre(ctx context.Context, genre string) ([]string, error) {
	ids, err := s.index.DocumentsInGenre(ctx, genre)
	if err != nil {
		s.logger.Error("could not get documents for genre", "genre", genre, "error", err)
		return nil, err
	}
	return ids, nil
}

func (s *ClassificationServiceImpl) NearestGenres(text string, n int) ([]string, error) {
	return s.index.NearestGenres(text, n)
}

func (s *ClassificationServiceImpl) RankGenres(text string, n int) ([]domain.SimilarityScore, error) {
	return s.index.RankGenres(text, n)
}

// GenreProfile lists the k terms that dominate the genre's centroid. An
// unknown genre has an empty profile.
func (s *ClassificationServiceImpl) GenreProfile(genre string, k int) []domain.TermWeight {
	g, ok := s.index.Genre(genre)
	if !ok {
		return []domain.TermWeight{}
	}
	return s.profile.TopTerms(g.Centroid(), k)
}

func (s *ClassificationServiceImpl) Genres() []string {
	return s.index.Genres()
}

// IngestDirectory adds every document found under root (one
// subdirectory per genre) and reports what was loaded.
func (s *ClassificationServiceImpl) IngestDirectory(ctx context.Context, root string) (domain.IngestSummary, error) {
	entries, err := ingest.LoadDirectory(root)
	if err != nil {
		return domain.IngestSummary{}, err
	}
	if len(entries) == 0 {
		return domain.IngestSummary{}, fmt.Errorf("no supported documents found under %s", root)
	}
	summary := domain.IngestSummary{Genres: make(map[string]int)}
	for _, e := range entries {
		if err := s.AddDocumentToGenre(ctx, e.Genre, e.Document.ID, e.Document.Text); err != nil {
			return summary, fmt.Errorf("ingest %s: %w", e.Path, err)
		}
		summary.Documents++
		summary.Genres[e.Genre]++
	}
	s.logger.Info("corpus ingested", "root", root, "documents", summary.Documents, "genres", len(summary.Genres))
	return summary, nil
}

// Close releases the underlying store.
func (s *ClassificationServiceImpl) Close() error {
	return s.store.Close()
}
