package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go"

	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

// Client embeds through the OpenAI embeddings endpoint. OpenAI has no
// document/query distinction, so both intents hit the same model; the
// interface contract (one vector per text, order preserved) still holds.
type Client struct {
	client    *openai.Client
	model     string
	batchSize int
	logger    *logger_i.Logger
}

func NewClient() (*Client, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}
	c := openai.NewClient()
	return &Client{
		client:    &c,
		model:     config.OpenAIEmbedModel,
		batchSize: config.EmbedBatchSize,
		logger:    logger_i.NewLogger("openai_embedding"),
	}, nil
}

func (c *Client) EmbedDocuments(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	for i := 0; i < len(chunks); i += c.batchSize {
		end := min(i+c.batchSize, len(chunks))
		batch, err := c.embed(ctx, chunks[i:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d: %w", i, end, err)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (c *Client) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, errors.New("empty query")
	}
	vectors, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = toFloat32(data.Embedding)
	}
	return vectors, nil
}

// toFloat32 narrows the API's float64 vectors to the index's storage type.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
