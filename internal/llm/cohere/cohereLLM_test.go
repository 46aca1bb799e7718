package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		Model:      "command-r-plus",
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestGenerate_SendsGroundedPrompt(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{
			"generations": []map[string]string{{"text": "  Paris  "}},
		})
	})

	answer, err := client.Generate(context.Background(), "What is the capital of France?", "France's capital is Paris.")

	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)
	assert.Equal(t, "command-r-plus", captured.Model)
	assert.Equal(t, 64, captured.MaxTokens)
	assert.Contains(t, captured.Prompt, "France's capital is Paris.")
	assert.Contains(t, captured.Prompt, "Question: What is the capital of France?")
}

func TestGenerate_EmptyContextIsMadeExplicit(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{"text": "I do not know"})
	})

	answer, err := client.Generate(context.Background(), "Who wrote this?", "   ")

	require.NoError(t, err)
	assert.Equal(t, "I do not know", answer)
	assert.Contains(t, captured.Prompt, "no context available")
}

func TestGenerate_NormalizesAlternateResponseShapes(t *testing.T) {
	shapes := []map[string]any{
		{"text": "flat text"},
		{"message": map[string]string{"content": "flat text"}},
	}
	for _, shape := range shapes {
		body := shape
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(body)
		})

		answer, err := client.Generate(context.Background(), "q", "ctx")
		require.NoError(t, err)
		assert.Equal(t, "flat text", answer)
	}
}

func TestGenerate_EmptyQuestionRejectedWithoutCall(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Generate(context.Background(), "   ", "ctx")

	assert.Error(t, err)
	assert.False(t, called)
}

func TestGenerate_ClientErrorIsNotRetried(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"bad request"}`, http.StatusBadRequest)
	})

	_, err := client.Generate(context.Background(), "q", "ctx")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestGenerate_ThrottleIsRetried(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"text": "recovered"})
	})

	answer, err := client.Generate(context.Background(), "q", "ctx")

	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
	assert.Equal(t, 2, calls)
}

func TestGenerate_EmptyResponseBodyIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"generations": []map[string]string{}})
	})

	_, err := client.Generate(context.Background(), "q", "ctx")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text")
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
