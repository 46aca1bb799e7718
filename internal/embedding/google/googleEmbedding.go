package google

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/embedding"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	genAi *genai.Client
	model string
}

// GetGoogleEmbeddingClient returns the process-wide Gemini embedder, or nil
// when the client could not be initialized.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		return
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
	}
	logger.Info("Google Embedding client created", "model", modelName)
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func (c *client) EmbedDocuments(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	for i := 0; i < len(chunks); i += config.EmbedBatchSize {
		end := min(i+config.EmbedBatchSize, len(chunks))

		res, err := c.doCall(ctx, getContent(chunks[i:end]), embedding.IntentDocument)
		if err != nil && doRetry(err, logger) {
			time.Sleep(5 * time.Second)
			res, err = c.doCall(ctx, getContent(chunks[i:end]), embedding.IntentDocument)
		}
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d: %w", i, end, err)
		}
		if len(res.Embeddings) != end-i {
			return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(res.Embeddings), end-i)
		}
		for _, r := range res.Embeddings {
			vectors = append(vectors, r.Values)
		}
	}
	return vectors, nil
}

func (c *client) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, errors.New("empty query")
	}
	result, err := c.doCall(ctx, genai.Text(query), embedding.IntentQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("provider returned no embedding")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, intent embedding.Intent) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		TaskType: taskType(intent),
	})
}

// taskType maps the adapter intent onto Gemini's retrieval task types; the
// two sides of the index use different representations.
func taskType(intent embedding.Intent) string {
	if intent == embedding.IntentQuery {
		return "RETRIEVAL_QUERY"
	}
	return "RETRIEVAL_DOCUMENT"
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func doRetry(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			log.Warn("Rate limit hit!", "error", err)
			return true
		}
	}
	return false
}
