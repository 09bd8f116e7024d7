package domain

import (
	"context"
	"fmt"
)

// Document is a piece of raw text, optionally identified. Query-only
// documents carry an empty ID.
type Document struct {
	ID   string
	Text string
}

// Vector is a sparse term -> weight mapping. Weights are raw occurrence
// counts for a single document, or per-term averages for a centroid.
type Vector map[string]float64

// SimilarityScore pairs a genre label with a score. Genre is empty for
// document-to-document comparisons.
type SimilarityScore struct {
	Genre string  `json:"genre" cbor:"genre"`
	Score float64 `json:"score" cbor:"score"`
}

// TermWeight is one entry of a genre profile. Weight is the centroid
// value scaled so the heaviest reported term is 1.
type TermWeight struct {
	Term   string  `json:"term" cbor:"term"`
	Weight float64 `json:"weight" cbor:"weight"`
}

// Vectorizer turns raw text into a sparse vector.
type Vectorizer interface {
	Vectorize(text string) Vector
}

// Similarity scores two sparse vectors. Implementations must reject nil
// vectors with an error and treat empty vectors as scoring 0.
type Similarity interface {
	Name() string
	Calculate(left, right Vector) (float64, error)
}

// Store persists the genre -> document association and the raw text of
// each document. Documents are keyed by (genre, id).
type Store interface {
	// Get returns the ids stored for genre in ascending order, or an
	// empty slice when the genre is unknown.
	Get(ctx context.Context, genre string) ([]string, error)
	// Put stores doc under genre, overwriting an existing document with
	// the same id. The overwritten document is returned with replaced=true.
	Put(ctx context.Context, genre string, doc Document) (previous Document, replaced bool, err error)
	// Remove deletes the document and returns it. ok is false when no
	// such document exists; that is not an error.
	Remove(ctx context.Context, genre, id string) (doc Document, ok bool, err error)
	Close() error
}

// StoreError reports a failure inside a Store backend.
type StoreError struct {
	Op    string
	Genre string
	Err   error
}

func (e *StoreError) Error() string {
	if e.Genre == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s (genre %q): %v", e.Op, e.Genre, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Catalog is implemented by stores that can enumerate what they hold.
// It lets a classifier rebuild its in-memory aggregates from a store
// that outlives the process.
type Catalog interface {
	Genres(ctx context.Context) ([]string, error)
	Document(ctx context.Context, genre, id string) (doc Document, ok bool, err error)
}

// IngestSummary reports the outcome of loading a corpus directory.
type IngestSummary struct {
	Documents int
	Genres    map[string]int
}

// ClassificationService defines the operations exposed by the application core.
type ClassificationService interface {
	TermFrequencies(text string) Vector
	SimilarityScore(textA, textB string) (float64, error)
	AddDocumentToGenre(ctx context.Context, genre, id, text string) error
	RemoveDocumentFromGenre(ctx context.Context, genre, id string) error
	DocumentsInGenre(ctx context.Context, genre string) ([]string, error)
	NearestGenres(text string, n int) ([]string, error)
	RankGenres(text string, n int) ([]SimilarityScore, error)
	GenreProfile(genre string, k int) []TermWeight
	Genres() []string
}
