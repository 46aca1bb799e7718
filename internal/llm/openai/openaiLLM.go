package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"

	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/llm"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

type Client struct {
	client *openai.Client
	model  string
	logger *logger_i.Logger
}

func NewClient() (*Client, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}
	c := openai.NewClient()
	return &Client{
		client: &c,
		model:  config.OpenAIChatModel,
		logger: logger_i.NewLogger("openai_llm"),
	}, nil
}

func (c *Client) Generate(ctx context.Context, question string, contextText string) (string, error) {
	prompt, err := llm.GroundingPrompt(question, contextText)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(config.MaxAnswerTokens)),
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai generate: response contained no choices")
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("openai generate: response contained no text")
	}
	return answer, nil
}
