package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/customHttpClient"
	"github.com/ammyCodex/DocAI/internal/embedding"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

// Client talks to the Cohere embed endpoint. Document-side requests are
// batched; the input_type field carries the embedding intent.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	batchSize int
	http      *http.Client
	logger    *logger_i.Logger
}

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	BatchSize  int
	HTTPClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("cohere api key is not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.CohereBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = config.CohereEmbedModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.EmbedBatchSize
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = customHttpClient.Pooled()
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		batchSize: cfg.BatchSize,
		http:      cfg.HTTPClient,
		logger:    logger_i.NewLogger("cohere_embedding"),
	}, nil
}

func (c *Client) EmbedDocuments(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	dimension := 0
	for i := 0; i < len(chunks); i += c.batchSize {
		end := min(i+c.batchSize, len(chunks))
		batch, err := c.embed(ctx, chunks[i:end], embedding.IntentDocument)
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d: %w", i, end, err)
		}
		for _, v := range batch {
			if dimension == 0 {
				dimension = len(v)
			}
			if len(v) != dimension {
				return nil, fmt.Errorf("provider returned mixed dimensions: %d and %d", dimension, len(v))
			}
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (c *Client) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("empty query")
	}
	vectors, err := c.embed(ctx, []string{query}, embedding.IntentQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

type embedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Message    string      `json:"message"`
}

func (c *Client) embed(ctx context.Context, texts []string, intent embedding.Intent) ([][]float32, error) {
	var out embedResponse

	operation := func() error {
		body, err := json.Marshal(embedRequest{Texts: texts, Model: c.model, InputType: string(intent)})
		if err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.logger.Warn("Cohere embed throttled, backing off", "status", resp.Status)
			return fmt.Errorf("cohere embed: %s", resp.Status)
		}
		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(err)
		}
		if resp.StatusCode >= 300 {
			if json.Unmarshal(payload, &out) == nil && out.Message != "" {
				return backoff.Permanent(fmt.Errorf("cohere embed: %s: %s", resp.Status, out.Message))
			}
			return backoff.Permanent(fmt.Errorf("cohere embed: %s", resp.Status))
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding embed response: %w", err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}

	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, nil
}
