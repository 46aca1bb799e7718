package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Flat is an exact in-memory nearest-neighbor index over L2 distance. Search
// scans every stored vector, which is plenty for the per-session document
// sets this serves.
type Flat struct {
	dimension int
	vectors   [][]float32
}

func NewFlat(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, errors.New("cannot build an index over zero vectors")
	}
	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, errors.New("cannot build an index over empty vectors")
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, index dimension is %d", i, len(v), dimension)
		}
	}

	owned := make([][]float32, len(vectors))
	copy(owned, vectors)
	return &Flat{dimension: dimension, vectors: owned}, nil
}

func (f *Flat) Len() int       { return len(f.vectors) }
func (f *Flat) Dimension() int { return f.dimension }

func (f *Flat) Search(ctx context.Context, query []float32, topK int) ([]int, []float32, error) {
	if topK <= 0 {
		return nil, nil, errors.New("top_k must be positive")
	}
	if len(query) != f.dimension {
		return nil, nil, fmt.Errorf("query has dimension %d, index dimension is %d", len(query), f.dimension)
	}

	distances := make([]float32, len(f.vectors))
	for i, v := range f.vectors {
		distances[i] = squaredL2(query, v)
	}

	positions := make([]int, len(f.vectors))
	for i := range positions {
		positions[i] = i
	}
	sort.Slice(positions, func(a, b int) bool {
		return distances[positions[a]] < distances[positions[b]]
	})

	k := min(topK, len(positions))
	out := positions[:k]
	outDistances := make([]float32, k)
	for i, p := range out {
		outDistances[i] = distances[p]
	}
	return out, outDistances, nil
}

func (f *Flat) Close(ctx context.Context) error { return nil }

// squaredL2 skips the square root; ordering is what matters here.
func squaredL2(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(sum)
}
