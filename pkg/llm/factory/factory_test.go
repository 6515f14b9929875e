package factory

import (
	"testing"

	"ideaspark-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	for _, typ := range []string{"openai", "huggingface", "gemini", "ollama"} {
		t.Run(typ, func(t *testing.T) {
			p, err := NewLLMProvider(ProviderConfig{Type: typ, Model: "m"}, logger.NewNopLogger())
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestNewLLMProviderUnknown(t *testing.T) {
	_, err := NewLLMProvider(ProviderConfig{Type: "claude-local"}, logger.NewNopLogger())
	assert.EqualError(t, err, "unsupported LLM provider: claude-local")
}
