package rag_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
)

func writeFile(t *testing.T, dir string, name string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnEmbedDocuments func(ctx context.Context, chunks []string) ([][]float32, error)
	OnEmbedQuery     func(ctx context.Context, query string) ([]float32, error)
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnEmbedDocuments != nil {
		return m.OnEmbedDocuments(ctx, chunks)
	}
	// One dummy vector per chunk, fixed width
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{float32(i), 0.5}
	}
	return vectors, nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, query)
	}
	return []float32{0.1, 0.5}, nil
}

// MockGenerator implements llm.Generator
type MockGenerator struct {
	OnGenerate func(ctx context.Context, question string, contextText string) (string, error)
}

func (m *MockGenerator) Generate(ctx context.Context, question string, contextText string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, contextText)
	}
	return "mocked llm response", nil
}

// MockSessionStore implements session.Store
type MockSessionStore struct {
	OnAppendTurn func(sessionID string, turn chatModel.Turn) error
	Appended     []chatModel.Turn
}

func (m *MockSessionStore) NewSessionID() string { return "mock-session" }

func (m *MockSessionStore) AppendTurn(sessionID string, turn chatModel.Turn) error {
	if m.OnAppendTurn != nil {
		return m.OnAppendTurn(sessionID, turn)
	}
	m.Appended = append(m.Appended, turn)
	return nil
}

func (m *MockSessionStore) LoadRecent(sessionID string, n int) ([]chatModel.Turn, error) {
	return m.Appended, nil
}

func (m *MockSessionStore) Clear(sessionID string) error { return nil }

func (m *MockSessionStore) ReapExpired(maxAge time.Duration) int { return 0 }
