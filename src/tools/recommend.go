package tools

import (
	"context"

	concierge "github.com/goodfoods/concierge"
	"github.com/goodfoods/concierge/src/models"
	"github.com/goodfoods/concierge/src/recommend"
)

// RecommendTool ranks the catalog against a free-text mood description.
type RecommendTool struct {
	ranker *recommend.Ranker
}

func NewRecommendTool(r *recommend.Ranker) *RecommendTool {
	return &RecommendTool{ranker: r}
}

type recommendArgs struct {
	Mood     string `json:"mood"`
	Location string `json:"location"`
	Cuisine  string `json:"cuisine"`
	Budget   int    `json:"budget"`
	TopK     int    `json:"top_k"`
}

type recommendation struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Area              string   `json:"area"`
	Cuisine           string   `json:"cuisine"`
	AvgPricePerPerson int      `json:"avg_price_per_person"`
	Features          []string `json:"features"`
	Similarity        float64  `json:"similarity"`
}

func (t *RecommendTool) Spec() concierge.ToolSpec {
	return concierge.ToolSpec{
		Name:        "semantic_recommend",
		Description: "Recommend restaurants based on user mood, occasion, or vibe using semantic similarity. Use this when the user describes their preferences in terms of mood (romantic, casual, lively), occasion (anniversary, birthday, business meeting), or atmosphere rather than strict filters.",
		Parameters: []models.ParameterSpec{
			{Name: "mood", Type: "string", Description: "User's mood, occasion, or vibe description (e.g. 'romantic anniversary dinner', 'casual friends night out')", Required: true},
			{Name: "location", Type: "string", Description: "Preferred area/neighborhood (e.g. 'Bandra', 'Andheri')"},
			{Name: "cuisine", Type: "string", Description: "Optional preferred cuisine type"},
			{Name: "budget", Type: "integer", Description: "Optional maximum budget per person in INR"},
			{Name: "top_k", Type: "integer", Description: "Number of recommendations to return"},
		},
	}
}

func (t *RecommendTool) ReadOnly() bool { return true }

func (t *RecommendTool) Invoke(ctx context.Context, req concierge.ToolRequest) (concierge.ToolResponse, error) {
	var args recommendArgs
	if err := decodeArgs(req.Arguments, &args); err != nil {
		return concierge.ToolResponse{}, err
	}
	mood, err := requireString("mood", args.Mood)
	if err != nil {
		return concierge.ToolResponse{}, err
	}

	matches, err := t.ranker.Rank(ctx, recommend.Query{
		Mood:     mood,
		Area:     args.Location,
		Cuisine:  args.Cuisine,
		MaxPrice: args.Budget,
		TopK:     args.TopK,
	})
	if err != nil {
		return concierge.ToolResponse{}, err
	}

	if len(matches) == 0 {
		body, err := payload(map[string]any{
			"no_strong_matches": true,
			"message":           "no restaurants matched that vibe closely enough; try different mood words or relax the filters",
		})
		if err != nil {
			return concierge.ToolResponse{}, err
		}
		return concierge.ToolResponse{Content: body}, nil
	}

	recs := make([]recommendation, 0, len(matches))
	for _, m := range matches {
		recs = append(recs, recommendation{
			ID:                m.Restaurant.ID,
			Name:              m.Restaurant.Name,
			Area:              m.Restaurant.Area,
			Cuisine:           m.Restaurant.Cuisine,
			AvgPricePerPerson: m.Restaurant.AvgPricePerPerson,
			Features:          m.Restaurant.Features,
			Similarity:        m.Similarity,
		})
	}
	body, err := payload(map[string]any{"recommendations": recs})
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	return concierge.ToolResponse{Content: body}, nil
}
