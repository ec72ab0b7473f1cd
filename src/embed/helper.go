package embed

import "fmt"

// NewProvider returns a concrete Embedder by name. An empty provider falls
// back to the deterministic dummy embedder.
func NewProvider(provider, model string) (Embedder, error) {
	switch provider {
	case "", "dummy":
		return DummyEmbedder{}, nil
	case "ollama":
		return NewOllamaEmbedder(model)
	case "openai":
		return NewOpenAIEmbedder(model)
	case "fastembed":
		return NewFastEmbedder("")
	default:
		return nil, fmt.Errorf("unknown embed provider: %s", provider)
	}
}
