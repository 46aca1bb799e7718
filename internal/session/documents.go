package session

import (
	"context"
	"sync"

	"github.com/ammyCodex/DocAI/internal/index"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

// Registry holds the per-session search index and its chunk texts in memory.
// The index and chunks for a session are always swapped as a pair so a
// concurrent query never sees a new index with old chunks.
type Registry interface {
	Publish(ctx context.Context, sessionID string, searcher index.Searcher, chunks []string)
	Get(sessionID string) (index.Searcher, []string, bool)
	Drop(ctx context.Context, sessionID string)
}

type sessionIndex struct {
	searcher index.Searcher
	chunks   []string
}

type registry struct {
	mu      sync.RWMutex
	entries map[string]sessionIndex
	logger  *logger_i.Logger
}

func NewRegistry() Registry {
	return &registry{
		entries: make(map[string]sessionIndex),
		logger:  logger_i.NewLogger("documentRegistry"),
	}
}

// Publish replaces any previous index for the session, closing the old one.
func (r *registry) Publish(ctx context.Context, sessionID string, searcher index.Searcher, chunks []string) {
	r.mu.Lock()
	previous, hadPrevious := r.entries[sessionID]
	r.entries[sessionID] = sessionIndex{searcher: searcher, chunks: chunks}
	r.mu.Unlock()

	if hadPrevious && previous.searcher != nil {
		if err := previous.searcher.Close(ctx); err != nil {
			r.logger.Warn("closing replaced index failed", "sessionId", sessionID, "error", err)
		}
	}
}

func (r *registry) Get(sessionID string) (index.Searcher, []string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[sessionID]
	if !ok {
		return nil, nil, false
	}
	return entry.searcher, entry.chunks, true
}

func (r *registry) Drop(ctx context.Context, sessionID string) {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	delete(r.entries, sessionID)
	r.mu.Unlock()

	if ok && entry.searcher != nil {
		if err := entry.searcher.Close(ctx); err != nil {
			r.logger.Warn("closing dropped index failed", "sessionId", sessionID, "error", err)
		}
	}
}
