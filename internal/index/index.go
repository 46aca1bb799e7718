package index

import "context"

// Searcher answers k-nearest-neighbor queries over the embeddings of exactly
// one processed document set. An index is built once from the full embedding
// matrix and replaced wholesale when a new set is processed; there is no
// incremental insert.
type Searcher interface {
	// Search returns up to min(topK, Len()) positions ordered nearest-first,
	// with their distances. Ordering among equal distances is not defined.
	Search(ctx context.Context, query []float32, topK int) ([]int, []float32, error)
	Len() int
	Dimension() int
	// Close releases whatever the backend holds for this document set.
	Close(ctx context.Context) error
}
