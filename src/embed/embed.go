// Package embed provides pluggable text-embedding providers for the
// semantic ranker.
package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Embedder maps text into a fixed-dimension vector space.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 for
// zero-length or mismatched vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// DummyEmbedder hashes lowercase tokens into a fixed-width histogram. Cosine
// similarity then tracks token overlap, which is deterministic and good
// enough for tests and offline use.
type DummyEmbedder struct{}

const dummyDim = 256

func (DummyEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return DummyEmbedding(text), nil
}

func DummyEmbedding(text string) []float32 {
	vec := make([]float32, dummyDim)
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%dummyDim]++
	}
	return vec
}
