package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/customHttpClient"
	"github.com/ammyCodex/DocAI/internal/llm"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *logger_i.Logger
}

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere API key is not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.CohereBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = config.CohereGenModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = customHttpClient.Pooled()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    cfg.HTTPClient,
		logger:  logger_i.NewLogger("cohereLLM"),
	}, nil
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

// generateResponse covers the response shapes the generate endpoint has
// produced across API revisions. The first populated field wins.
type generateResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
	Text    string `json:"text"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func (r generateResponse) answer() (string, bool) {
	if len(r.Generations) > 0 && strings.TrimSpace(r.Generations[0].Text) != "" {
		return strings.TrimSpace(r.Generations[0].Text), true
	}
	if strings.TrimSpace(r.Text) != "" {
		return strings.TrimSpace(r.Text), true
	}
	if strings.TrimSpace(r.Message.Content) != "" {
		return strings.TrimSpace(r.Message.Content), true
	}
	return "", false
}

func (c *Client) Generate(ctx context.Context, question string, contextText string) (string, error) {
	prompt, err := llm.GroundingPrompt(question, contextText)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   config.MaxAnswerTokens,
		Temperature: config.ModelTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	var answer string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("building generate request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("calling generate endpoint: %w", err)
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading generate response: %w", err)
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.logger.Warn("Cohere generate throttled, backing off", "status", resp.Status)
			return fmt.Errorf("generate endpoint returned %d: %s", resp.StatusCode, payload)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("generate endpoint returned %d: %s", resp.StatusCode, payload))
		}

		var parsed generateResponse
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding generate response: %w", err))
		}
		text, ok := parsed.answer()
		if !ok {
			return backoff.Permanent(fmt.Errorf("generate response contained no text"))
		}
		answer = text
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return answer, nil
}
