package tools

import (
	"context"

	concierge "github.com/goodfoods/concierge"
	"github.com/goodfoods/concierge/src/booking"
	"github.com/goodfoods/concierge/src/models"
)

// AvailabilityTool answers whether a party fits a slot. It reads through the
// booking engine so its accounting always agrees with create_reservation.
type AvailabilityTool struct {
	engine *booking.Engine
}

func NewAvailabilityTool(e *booking.Engine) *AvailabilityTool {
	return &AvailabilityTool{engine: e}
}

type availabilityArgs struct {
	RestaurantID int64  `json:"restaurant_id"`
	Datetime     string `json:"datetime"`
	PartySize    int    `json:"party_size"`
}

func (t *AvailabilityTool) Spec() concierge.ToolSpec {
	return concierge.ToolSpec{
		Name:        "check_availability",
		Description: "Check if a restaurant has availability for a given date/time and party size.",
		Parameters: []models.ParameterSpec{
			{Name: "restaurant_id", Type: "integer", Description: "The restaurant ID", Required: true},
			{Name: "datetime", Type: "string", Description: "ISO 8601 datetime", Required: true},
			{Name: "party_size", Type: "integer", Description: "Number of people", Required: true},
		},
	}
}

func (t *AvailabilityTool) ReadOnly() bool { return true }

func (t *AvailabilityTool) Invoke(ctx context.Context, req concierge.ToolRequest) (concierge.ToolResponse, error) {
	var args availabilityArgs
	if err := decodeArgs(req.Arguments, &args); err != nil {
		return concierge.ToolResponse{}, err
	}
	if err := requirePositive("restaurant_id", int(args.RestaurantID)); err != nil {
		return concierge.ToolResponse{}, err
	}
	if err := requirePositive("party_size", args.PartySize); err != nil {
		return concierge.ToolResponse{}, err
	}
	when, err := parseDatetime("datetime", args.Datetime)
	if err != nil {
		return concierge.ToolResponse{}, err
	}

	avail, err := t.engine.CheckAvailability(ctx, args.RestaurantID, when, args.PartySize)
	if err != nil {
		return concierge.ToolResponse{}, err
	}

	body, err := payload(map[string]any{
		"restaurant_id":      args.RestaurantID,
		"datetime":           args.Datetime,
		"party_size":         args.PartySize,
		"available":          avail.Available,
		"remaining_capacity": avail.Remaining,
		"reason":             avail.Reason,
	})
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	return concierge.ToolResponse{Content: body}, nil
}
