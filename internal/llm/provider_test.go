package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundingPrompt_IncludesContextAndQuestion(t *testing.T) {
	prompt, err := GroundingPrompt("What year?", "The treaty was signed in 1648.")

	require.NoError(t, err)
	assert.Contains(t, prompt, "Context:\nThe treaty was signed in 1648.")
	assert.Contains(t, prompt, "Question: What year?")
	assert.Contains(t, prompt, "respond concisely")
}

func TestGroundingPrompt_EmptyContextBecomesExplicit(t *testing.T) {
	prompt, err := GroundingPrompt("What year?", "  \n ")

	require.NoError(t, err)
	assert.Contains(t, prompt, "Context:\nno context available")
}

func TestGroundingPrompt_EmptyQuestionRejected(t *testing.T) {
	_, err := GroundingPrompt("   ", "some context")
	assert.Error(t, err)
}
