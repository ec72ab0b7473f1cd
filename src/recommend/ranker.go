// Package recommend ranks restaurants against free-text mood queries by
// embedding similarity.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goodfoods/concierge/src/cache"
	"github.com/goodfoods/concierge/src/domain"
	"github.com/goodfoods/concierge/src/embed"
	"github.com/goodfoods/concierge/src/store"
)

// Match is a restaurant with its similarity score.
type Match struct {
	Restaurant domain.Restaurant `json:"restaurant"`
	Similarity float64           `json:"similarity"`
}

// Query carries the mood text plus optional hard filters applied before
// scoring.
type Query struct {
	Mood     string
	Area     string
	Cuisine  string
	MaxPrice int
	TopK     int
}

// Ranker embeds the catalog once (entries are read-only, so embeddings never
// go stale) and scores queries by cosine similarity. Query embeddings pass
// through a TTL'd LRU since users often rephrase the same mood.
type Ranker struct {
	store    store.Store
	embedder embed.Embedder
	floor    float64
	topK     int

	mu      sync.Mutex
	vectors map[int64][]float32
	queries *cache.LRUCache
}

// Options tune the ranker. Zero values pick the defaults.
type Options struct {
	// Floor is the minimum similarity for a match to be returned at all.
	Floor float64
	// TopK bounds the result list; clamped to [3, 5].
	TopK int
}

const (
	defaultFloor = 0.25
	defaultTopK  = 4
)

func NewRanker(s store.Store, e embed.Embedder, opts Options) *Ranker {
	floor := opts.Floor
	if floor <= 0 {
		floor = defaultFloor
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK < 3 {
		topK = 3
	}
	if topK > 5 {
		topK = 5
	}
	return &Ranker{
		store:    s,
		embedder: e,
		floor:    floor,
		topK:     topK,
		vectors:  make(map[int64][]float32),
		queries:  cache.NewLRUCache(256, 10*time.Minute),
	}
}

// Rank returns up to TopK matches above the relevance floor, best first,
// ties broken by restaurant ID ascending. An empty result means no strong
// matches rather than an error.
func (rk *Ranker) Rank(ctx context.Context, q Query) ([]Match, error) {
	restaurants, err := rk.store.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	queryVec, err := rk.queryEmbedding(ctx, q)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, r := range restaurants {
		if q.Area != "" && !strings.Contains(strings.ToLower(r.Area), strings.ToLower(q.Area)) {
			continue
		}
		if q.Cuisine != "" && !strings.Contains(strings.ToLower(r.Cuisine), strings.ToLower(q.Cuisine)) {
			continue
		}
		if q.MaxPrice > 0 && r.AvgPricePerPerson > q.MaxPrice {
			continue
		}
		vec, err := rk.restaurantEmbedding(ctx, r)
		if err != nil {
			return nil, err
		}
		sim := embed.CosineSimilarity(queryVec, vec)
		if sim < rk.floor {
			continue
		}
		matches = append(matches, Match{Restaurant: r, Similarity: sim})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Restaurant.ID < matches[j].Restaurant.ID
	})

	topK := q.TopK
	if topK <= 0 {
		topK = rk.topK
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (rk *Ranker) queryEmbedding(ctx context.Context, q Query) ([]float32, error) {
	parts := []string{q.Mood}
	if q.Area != "" {
		parts = append(parts, fmt.Sprintf("Area: %s", q.Area))
	}
	if q.Cuisine != "" {
		parts = append(parts, fmt.Sprintf("Cuisine: %s", q.Cuisine))
	}
	text := strings.Join(parts, ". ") + "."

	key := cache.HashKey(text)
	if v, ok := rk.queries.Get(key); ok {
		return v.([]float32), nil
	}
	vec, err := rk.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	rk.queries.Set(key, vec)
	return vec, nil
}

func (rk *Ranker) restaurantEmbedding(ctx context.Context, r domain.Restaurant) ([]float32, error) {
	rk.mu.Lock()
	vec, ok := rk.vectors[r.ID]
	rk.mu.Unlock()
	if ok {
		return vec, nil
	}

	vec, err := rk.embedder.Embed(ctx, r.Describe())
	if err != nil {
		return nil, fmt.Errorf("embed restaurant %d: %w", r.ID, err)
	}

	rk.mu.Lock()
	rk.vectors[r.ID] = vec
	rk.mu.Unlock()
	return vec, nil
}
