package tools

import (
	"context"
	"strings"

	concierge "github.com/goodfoods/concierge"
	"github.com/goodfoods/concierge/src/domain"
	"github.com/goodfoods/concierge/src/models"
	"github.com/goodfoods/concierge/src/store"
)

// SearchTool filters the catalog by hard attributes. It is a pure read: no
// match is not an error, just an empty list.
type SearchTool struct {
	store store.Store
}

func NewSearchTool(s store.Store) *SearchTool {
	return &SearchTool{store: s}
}

type searchArgs struct {
	Location  string `json:"location"`
	Cuisine   string `json:"cuisine"`
	PartySize int    `json:"party_size"`
	Datetime  string `json:"datetime"`
	Budget    int    `json:"budget"`
	MaxPrice  int    `json:"max_price"`
}

func (t *SearchTool) Spec() concierge.ToolSpec {
	return concierge.ToolSpec{
		Name:        "search_restaurants",
		Description: "Search restaurants given location, cuisine, date/time, party size, and optional budget. Returns an empty list when nothing matches.",
		Parameters: []models.ParameterSpec{
			{Name: "location", Type: "string", Description: "Area/neighborhood (e.g. 'Bandra', 'Andheri')"},
			{Name: "cuisine", Type: "string", Description: "Type of cuisine (e.g. 'Italian', 'North Indian')"},
			{Name: "party_size", Type: "integer", Description: "Number of people"},
			{Name: "datetime", Type: "string", Description: "ISO 8601 datetime (e.g. '2024-12-25T19:00:00')"},
			{Name: "budget", Type: "integer", Description: "Maximum budget per person in INR"},
		},
	}
}

func (t *SearchTool) ReadOnly() bool { return true }

func (t *SearchTool) Invoke(ctx context.Context, req concierge.ToolRequest) (concierge.ToolResponse, error) {
	var args searchArgs
	if err := decodeArgs(req.Arguments, &args); err != nil {
		return concierge.ToolResponse{}, err
	}
	// Older clients send max_price, the model schema says budget. Same meaning.
	budget := args.Budget
	if budget == 0 {
		budget = args.MaxPrice
	}
	if args.PartySize < 0 {
		return concierge.ToolResponse{}, domain.Validationf("party_size must be a positive integer")
	}

	var matchHours func(domain.Restaurant) bool
	if strings.TrimSpace(args.Datetime) != "" {
		when, err := parseDatetime("datetime", args.Datetime)
		if err != nil {
			return concierge.ToolResponse{}, err
		}
		matchHours = func(r domain.Restaurant) bool { return r.WithinHours(when) }
	}

	all, err := t.store.ListRestaurants(ctx)
	if err != nil {
		return concierge.ToolResponse{}, err
	}

	matches := make([]domain.Restaurant, 0, 16)
	for _, r := range all {
		if args.Location != "" && !strings.EqualFold(r.Area, strings.TrimSpace(args.Location)) {
			continue
		}
		if args.Cuisine != "" && !strings.EqualFold(r.Cuisine, strings.TrimSpace(args.Cuisine)) {
			continue
		}
		if budget > 0 && r.AvgPricePerPerson > budget {
			continue
		}
		if args.PartySize > 0 && r.SeatingCapacity < args.PartySize {
			continue
		}
		if matchHours != nil && !matchHours(r) {
			continue
		}
		matches = append(matches, r)
	}

	body, err := payload(map[string]any{
		"restaurants": matches,
		"count":       len(matches),
	})
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	return concierge.ToolResponse{Content: body}, nil
}
