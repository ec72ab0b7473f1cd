//go:build fastembed

package embed

import (
	"context"
	"fmt"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedder runs a local ONNX embedding model via fastembed.
type FastEmbedder struct {
	model *fastembed.FlagEmbedding
}

func NewFastEmbedder(cacheDir string) (*FastEmbedder, error) {
	opts := &fastembed.InitOptions{
		Model:    fastembed.AllMiniLML6V2,
		CacheDir: cacheDir,
	}
	m, err := fastembed.NewFlagEmbedding(opts)
	if err != nil {
		return nil, fmt.Errorf("init fastembed: %w", err)
	}
	return &FastEmbedder{model: m}, nil
}

func (f *FastEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return f.model.QueryEmbed(text)
}

func (f *FastEmbedder) Close() error {
	f.model.Destroy()
	return nil
}

var _ Embedder = (*FastEmbedder)(nil)
