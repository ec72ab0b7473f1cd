//go:build !fastembed

package embed

import (
	"context"
	"strings"
	"testing"
)

func TestFastEmbedderStub(t *testing.T) {
	if _, err := NewFastEmbedder(""); err == nil || !strings.Contains(err.Error(), "-tags fastembed") {
		t.Fatalf("stub constructor must point at the build tag, got %v", err)
	}
	var e Embedder = &FastEmbedder{}
	if _, err := e.Embed(context.Background(), "anything"); err == nil {
		t.Fatal("stub Embed must error")
	}
	if _, err := NewProvider("fastembed", ""); err == nil {
		t.Fatal("fastembed provider must error without the build tag")
	}
}
