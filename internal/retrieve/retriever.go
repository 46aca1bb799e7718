package retrieve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ammyCodex/DocAI/internal/embedding"
	"github.com/ammyCodex/DocAI/internal/index"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

var logger = logger_i.NewLogger("Retriever")

// Chunks returns up to topK chunk texts ranked nearest-first against the
// query. An empty query or an empty chunk sequence is a valid
// nothing-to-search state: it yields an empty result without touching the
// embedding provider.
func Chunks(ctx context.Context, searcher index.Searcher, chunks []string, query string, embedder embedding.Embedder, topK int) ([]string, error) {
	if strings.TrimSpace(query) == "" || len(chunks) == 0 {
		return nil, nil
	}
	if searcher == nil || searcher.Len() == 0 {
		return nil, errors.New("no index is available to search")
	}

	queryVector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	positions, _, err := searcher.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	// the index and chunk sequence are replaced as a pair, but a drifted
	// position must not take the whole query down
	results := make([]string, 0, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(chunks) {
			logger.Warn("Dropping out-of-range index position", "position", p, "chunks", len(chunks))
			continue
		}
		results = append(results, chunks[p])
	}
	return results, nil
}
