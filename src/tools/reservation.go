package tools

import (
	"context"
	"time"

	concierge "github.com/goodfoods/concierge"
	"github.com/goodfoods/concierge/src/booking"
	"github.com/goodfoods/concierge/src/domain"
	"github.com/goodfoods/concierge/src/models"
	"github.com/goodfoods/concierge/src/store"
)

// CreateReservationTool books a table. Capacity is checked atomically with
// the write inside the booking engine.
type CreateReservationTool struct {
	engine *booking.Engine
	store  store.Store
}

func NewCreateReservationTool(e *booking.Engine, s store.Store) *CreateReservationTool {
	return &CreateReservationTool{engine: e, store: s}
}

type createArgs struct {
	RestaurantID    int64  `json:"restaurant_id"`
	CustomerName    string `json:"customer_name"`
	Phone           string `json:"phone"`
	PartySize       int    `json:"party_size"`
	Datetime        string `json:"datetime"`
	SpecialRequests string `json:"special_requests"`
}

func (t *CreateReservationTool) Spec() concierge.ToolSpec {
	return concierge.ToolSpec{
		Name:        "create_reservation",
		Description: "Create a new reservation at a restaurant.",
		Parameters: []models.ParameterSpec{
			{Name: "restaurant_id", Type: "integer", Description: "The restaurant ID", Required: true},
			{Name: "customer_name", Type: "string", Description: "Customer name", Required: true},
			{Name: "phone", Type: "string", Description: "Contact phone number", Required: true},
			{Name: "party_size", Type: "integer", Description: "Number of people", Required: true},
			{Name: "datetime", Type: "string", Description: "ISO 8601 datetime", Required: true},
			{Name: "special_requests", Type: "string", Description: "Special requests or notes"},
		},
	}
}

func (t *CreateReservationTool) Invoke(ctx context.Context, req concierge.ToolRequest) (concierge.ToolResponse, error) {
	var args createArgs
	if err := decodeArgs(req.Arguments, &args); err != nil {
		return concierge.ToolResponse{}, err
	}
	if err := requirePositive("restaurant_id", int(args.RestaurantID)); err != nil {
		return concierge.ToolResponse{}, err
	}
	name, err := requireString("customer_name", args.CustomerName)
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	phone, err := requireString("phone", args.Phone)
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	if err := requirePositive("party_size", args.PartySize); err != nil {
		return concierge.ToolResponse{}, err
	}
	when, err := parseDatetime("datetime", args.Datetime)
	if err != nil {
		return concierge.ToolResponse{}, err
	}

	res, err := t.engine.Book(ctx, booking.BookingRequest{
		RestaurantID:    args.RestaurantID,
		CustomerName:    name,
		Phone:           phone,
		PartySize:       args.PartySize,
		At:              when,
		SpecialRequests: args.SpecialRequests,
	})
	if err != nil {
		return concierge.ToolResponse{}, err
	}

	doc := map[string]any{"reservation": res}
	if r, rErr := t.store.GetRestaurant(ctx, res.RestaurantID); rErr == nil {
		doc["restaurant_name"] = r.Name
	}
	body, err := payload(doc)
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	return concierge.ToolResponse{Content: body}, nil
}

// ModifyReservationTool changes a reservation's slot or party size,
// re-checking capacity as if the old allocation were first released.
type ModifyReservationTool struct {
	engine *booking.Engine
}

func NewModifyReservationTool(e *booking.Engine) *ModifyReservationTool {
	return &ModifyReservationTool{engine: e}
}

type modifyArgs struct {
	ReservationID int64  `json:"reservation_id"`
	NewDatetime   string `json:"new_datetime"`
	NewPartySize  int    `json:"new_party_size"`
}

func (t *ModifyReservationTool) Spec() concierge.ToolSpec {
	return concierge.ToolSpec{
		Name:        "modify_reservation",
		Description: "Modify an existing reservation's date/time or party size.",
		Parameters: []models.ParameterSpec{
			{Name: "reservation_id", Type: "integer", Description: "The reservation ID", Required: true},
			{Name: "new_datetime", Type: "string", Description: "New ISO 8601 datetime (optional)"},
			{Name: "new_party_size", Type: "integer", Description: "New party size (optional)"},
		},
	}
}

func (t *ModifyReservationTool) Invoke(ctx context.Context, req concierge.ToolRequest) (concierge.ToolResponse, error) {
	var args modifyArgs
	if err := decodeArgs(req.Arguments, &args); err != nil {
		return concierge.ToolResponse{}, err
	}
	if err := requirePositive("reservation_id", int(args.ReservationID)); err != nil {
		return concierge.ToolResponse{}, err
	}

	var newAt *time.Time
	if args.NewDatetime != "" {
		when, err := parseDatetime("new_datetime", args.NewDatetime)
		if err != nil {
			return concierge.ToolResponse{}, err
		}
		newAt = &when
	}
	var newSize *int
	if args.NewPartySize != 0 {
		if err := requirePositive("new_party_size", args.NewPartySize); err != nil {
			return concierge.ToolResponse{}, err
		}
		newSize = &args.NewPartySize
	}
	if newAt == nil && newSize == nil {
		return concierge.ToolResponse{}, domain.Validationf("nothing to change; provide new_datetime or new_party_size")
	}

	res, err := t.engine.Modify(ctx, args.ReservationID, newAt, newSize)
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	body, err := payload(map[string]any{"reservation": res})
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	return concierge.ToolResponse{Content: body}, nil
}

// CancelReservationTool releases a reservation's seats. Cancelling twice is
// a successful no-op.
type CancelReservationTool struct {
	engine *booking.Engine
}

func NewCancelReservationTool(e *booking.Engine) *CancelReservationTool {
	return &CancelReservationTool{engine: e}
}

type cancelArgs struct {
	ReservationID int64 `json:"reservation_id"`
}

func (t *CancelReservationTool) Spec() concierge.ToolSpec {
	return concierge.ToolSpec{
		Name:        "cancel_reservation",
		Description: "Cancel an existing reservation.",
		Parameters: []models.ParameterSpec{
			{Name: "reservation_id", Type: "integer", Description: "The reservation ID", Required: true},
		},
	}
}

func (t *CancelReservationTool) Invoke(ctx context.Context, req concierge.ToolRequest) (concierge.ToolResponse, error) {
	var args cancelArgs
	if err := decodeArgs(req.Arguments, &args); err != nil {
		return concierge.ToolResponse{}, err
	}
	if err := requirePositive("reservation_id", int(args.ReservationID)); err != nil {
		return concierge.ToolResponse{}, err
	}

	res, err := t.engine.Cancel(ctx, args.ReservationID)
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	body, err := payload(map[string]any{
		"cancelled":      true,
		"reservation_id": res.ID,
	})
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	return concierge.ToolResponse{Content: body}, nil
}

// LookupByPhoneTool lists every reservation, active or cancelled, tied to a
// phone number, most recent first.
type LookupByPhoneTool struct {
	store store.Store
}

func NewLookupByPhoneTool(s store.Store) *LookupByPhoneTool {
	return &LookupByPhoneTool{store: s}
}

type lookupArgs struct {
	Phone string `json:"phone"`
}

func (t *LookupByPhoneTool) Spec() concierge.ToolSpec {
	return concierge.ToolSpec{
		Name:        "get_reservation_by_phone",
		Description: "Look up all reservations associated with a phone number.",
		Parameters: []models.ParameterSpec{
			{Name: "phone", Type: "string", Description: "Phone number to search", Required: true},
		},
	}
}

func (t *LookupByPhoneTool) ReadOnly() bool { return true }

func (t *LookupByPhoneTool) Invoke(ctx context.Context, req concierge.ToolRequest) (concierge.ToolResponse, error) {
	var args lookupArgs
	if err := decodeArgs(req.Arguments, &args); err != nil {
		return concierge.ToolResponse{}, err
	}
	phone, err := requireString("phone", args.Phone)
	if err != nil {
		return concierge.ToolResponse{}, err
	}

	reservations, err := t.store.ReservationsByPhone(ctx, phone)
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	body, err := payload(map[string]any{
		"reservations": reservations,
		"count":        len(reservations),
	})
	if err != nil {
		return concierge.ToolResponse{}, err
	}
	return concierge.ToolResponse{Content: body}, nil
}
