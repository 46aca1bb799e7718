package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ammyCodex/DocAI/internal/config"
)

// Generator produces a grounded answer for a question using the supplied
// context text. contextText may be empty when no documents match.
type Generator interface {
	Generate(ctx context.Context, question string, contextText string) (string, error)
}

// GroundingPrompt assembles the prompt sent to every provider. An empty
// context is surfaced to the model explicitly so it can say it does not know.
func GroundingPrompt(question string, contextText string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question must not be empty")
	}
	if strings.TrimSpace(contextText) == "" {
		contextText = "no context available"
	}
	return fmt.Sprintf("%s\n\nContext:\n%s\n\nQuestion: %s\nAnswer (respond concisely, ideally in one word or a short phrase):",
		config.GroundingInstruction, contextText, question), nil
}
