package retrieve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammyCodex/DocAI/internal/index"
)

type stubEmbedder struct {
	queryVector []float32
	err         error
	calls       int
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, chunks []string) ([][]float32, error) {
	return nil, errors.New("not used")
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	s.calls++
	return s.queryVector, s.err
}

type stubSearcher struct {
	positions []int
	size      int
	err       error
}

func (s *stubSearcher) Search(ctx context.Context, q []float32, topK int) ([]int, []float32, error) {
	return s.positions, make([]float32, len(s.positions)), s.err
}
func (s *stubSearcher) Len() int                        { return s.size }
func (s *stubSearcher) Dimension() int                  { return 1 }
func (s *stubSearcher) Close(ctx context.Context) error { return nil }

func TestChunks_EmptyQueryShortCircuits(t *testing.T) {
	embedder := &stubEmbedder{}
	searcher := &stubSearcher{size: 3}

	results, err := Chunks(context.Background(), searcher, []string{"a", "b", "c"}, "  ", embedder, 3)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, embedder.calls, "embedding provider must not be invoked")
}

func TestChunks_EmptyChunkSequenceShortCircuits(t *testing.T) {
	embedder := &stubEmbedder{}

	results, err := Chunks(context.Background(), &stubSearcher{}, nil, "what is x?", embedder, 3)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, embedder.calls)
}

func TestChunks_MissingIndexIsAnError(t *testing.T) {
	embedder := &stubEmbedder{}

	_, err := Chunks(context.Background(), nil, []string{"a"}, "question", embedder, 3)

	assert.Error(t, err)
	assert.Zero(t, embedder.calls)
}

func TestChunks_MapsPositionsNearestFirst(t *testing.T) {
	chunks := []string{"zero", "one", "two", "three"}
	idx, err := index.NewFlat([][]float32{{0}, {5}, {10}, {2}})
	require.NoError(t, err)

	embedder := &stubEmbedder{queryVector: []float32{0.9}}
	results, err := Chunks(context.Background(), idx, chunks, "anything", embedder, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"zero", "three"}, results)
	assert.Equal(t, 1, embedder.calls)
}

func TestChunks_DropsOutOfRangePositions(t *testing.T) {
	searcher := &stubSearcher{positions: []int{2, 9, -1, 0}, size: 3}
	embedder := &stubEmbedder{queryVector: []float32{1}}

	results, err := Chunks(context.Background(), searcher, []string{"a", "b", "c"}, "q", embedder, 4)

	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, results)
}

func TestChunks_EmbeddingFailurePropagates(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("provider down")}

	_, err := Chunks(context.Background(), &stubSearcher{size: 1}, []string{"a"}, "q", embedder, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}
