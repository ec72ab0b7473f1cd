//go:build !fastembed

package embed

import (
	"context"
	"fmt"
)

// FastEmbedder is unavailable without the fastembed build tag; the ONNX
// runtime dependency is heavy and opt-in.
type FastEmbedder struct{}

func NewFastEmbedder(string) (*FastEmbedder, error) {
	return nil, fmt.Errorf("fastembed support not included; rebuild with -tags fastembed")
}

func (*FastEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("fastembed support not included; rebuild with -tags fastembed")
}

func (*FastEmbedder) Close() error { return nil }

var _ Embedder = (*FastEmbedder)(nil)
