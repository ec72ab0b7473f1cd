package embed

import (
	"context"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Fatalf("identical vectors: want 1, got %v", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("orthogonal vectors: want 0, got %v", got)
	}
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Fatalf("empty vectors: want 0, got %v", got)
	}
	if got := CosineSimilarity([]float32{1}, []float32{1, 2}); got != 0 {
		t.Fatalf("mismatched lengths: want 0, got %v", got)
	}
	if got := CosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Fatalf("zero vector: want 0, got %v", got)
	}
}

func TestDummyEmbedderTracksTokenOverlap(t *testing.T) {
	e := DummyEmbedder{}
	ctx := context.Background()

	romantic, err := e.Embed(ctx, "romantic rooftop dinner")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	alsoRomantic, _ := e.Embed(ctx, "rooftop romantic spot")
	unrelated, _ := e.Embed(ctx, "loud sports bar")

	if CosineSimilarity(romantic, alsoRomantic) <= CosineSimilarity(romantic, unrelated) {
		t.Fatal("overlapping token sets must score higher than disjoint ones")
	}
	if got := CosineSimilarity(romantic, romantic); got < 0.999 {
		t.Fatalf("self similarity: want ~1, got %v", got)
	}
}

func TestDummyEmbedderCaseAndPunctuation(t *testing.T) {
	a := DummyEmbedding("Romantic, Rooftop!")
	b := DummyEmbedding("romantic rooftop")
	if CosineSimilarity(a, b) < 0.999 {
		t.Fatal("tokenisation must ignore case and punctuation")
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider("", ""); err != nil {
		t.Fatalf("default provider: %v", err)
	}
	if _, err := NewProvider("dummy", ""); err != nil {
		t.Fatalf("dummy provider: %v", err)
	}
	if _, err := NewProvider("does-not-exist", ""); err == nil {
		t.Fatal("unknown provider must error")
	}
}
