// Package similarity provides interchangeable scoring strategies for
// sparse term vectors.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"genresim/internal/domain"
)

var (
	// ErrNilVector is returned when either input vector is nil.
	ErrNilVector = errors.New("similarity: vectors must not be nil")
	// ErrUnknown is returned by New for an unregistered strategy name.
	ErrUnknown = errors.New("similarity: unknown strategy")
)

// New resolves a strategy by name. The empty name selects cosine.
func New(name string) (domain.Similarity, error) {
	switch name {
	case "cosine", "":
		return Cosine{}, nil
	case "ochiai":
		return Ochiai{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

// Cosine is dot(left, right) / (|left| * |right|). Each norm runs over
// all of that vector's own keys, not only the shared ones.
type Cosine struct{}

func (Cosine) Name() string { return "cosine" }

// Calculate returns 0 when either vector has zero magnitude.
func (Cosine) Calculate(left, right domain.Vector) (float64, error) {
	if left == nil || right == nil {
		return 0, ErrNilVector
	}
	small, large := left, right
	if len(large) < len(small) {
		small, large = large, small
	}
	dot := 0.0
	for term, w := range small {
		if v, ok := large[term]; ok {
			dot += w * v
		}
	}
	normLeft := sumSquares(left)
	normRight := sumSquares(right)
	if normLeft <= 0 || normRight <= 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normLeft) * math.Sqrt(normRight)), nil
}

func sumSquares(v domain.Vector) float64 {
	s := 0.0
	for _, w := range v {
		s += w * w
	}
	return s
}

// Ochiai ignores weights and scores key-set overlap:
// |A ∩ B| / sqrt(|A| * |B|), counting only keys with a positive weight.
type Ochiai struct{}

func (Ochiai) Name() string { return "ochiai" }

func (Ochiai) Calculate(left, right domain.Vector) (float64, error) {
	if left == nil || right == nil {
		return 0, ErrNilVector
	}
	inter, sizeLeft, sizeRight := 0, 0, 0
	for term, w := range left {
		if w <= 0 {
			continue
		}
		sizeLeft++
		if v, ok := right[term]; ok && v > 0 {
			inter++
		}
	}
	for _, w := range right {
		if w > 0 {
			sizeRight++
		}
	}
	if sizeLeft == 0 || sizeRight == 0 {
		return 0, nil
	}
	return float64(inter) / math.Sqrt(float64(sizeLeft)*float64(sizeRight)), nil
}
