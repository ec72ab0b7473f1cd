package models

import (
	"context"
	"fmt"
)

// NewChatProvider constructs a ChatModel by provider name. An empty model
// string picks each provider's default.
func NewChatProvider(ctx context.Context, provider, model string) (ChatModel, error) {
	switch provider {
	case "openai":
		return NewOpenAILLM(model), nil
	case "gemini", "google":
		return NewGeminiLLM(ctx, model)
	case "ollama":
		return NewOllamaLLM(model)
	case "anthropic", "claude":
		return NewAnthropicLLM(model), nil
	case "scripted":
		return NewScriptedLLM(), nil
	default:
		return nil, fmt.Errorf("unknown chat provider: %s", provider)
	}
}
