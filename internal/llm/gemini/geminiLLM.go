package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/llm"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

// GetGeminiClient builds the shared Gemini client. Returns nil when the
// client could not be created so callers can fall back to another provider.
func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Generator {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Gemini client created", "model", modelName)
	go closeClient(ctx, geminiClient)
}

func (c *llmClient) Generate(ctx context.Context, question string, contextText string) (string, error) {
	prompt, err := llm.GroundingPrompt(question, contextText)
	if err != nil {
		return "", err
	}

	contentConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(config.MaxAnswerTokens),
		Temperature:     genai.Ptr(config.ModelTemperature),
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(prompt),
		contentConfig,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	answer := strings.TrimSpace(result.Text())
	if answer == "" {
		return "", fmt.Errorf("gemini generate: response contained no text")
	}
	return answer, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}
