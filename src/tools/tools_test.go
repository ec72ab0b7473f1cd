package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	concierge "github.com/goodfoods/concierge"
	"github.com/goodfoods/concierge/src/booking"
	"github.com/goodfoods/concierge/src/domain"
	"github.com/goodfoods/concierge/src/embed"
	"github.com/goodfoods/concierge/src/recommend"
	"github.com/goodfoods/concierge/src/store"
)

type fixture struct {
	store   store.Store
	engine  *booking.Engine
	catalog *concierge.StaticToolCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewInMemoryStore()
	err := s.SeedRestaurants(context.Background(), []domain.Restaurant{
		{
			ID: 1, Name: "Sea Breeze", Area: "Bandra", City: "Mumbai", Cuisine: "Italian",
			Features: []string{"rooftop", "romantic"}, AvgPricePerPerson: 900,
			SeatingCapacity: 10, OpeningTime: "11:00", ClosingTime: "23:30",
		},
		{
			ID: 2, Name: "Happy Plates", Area: "Bandra", City: "Mumbai", Cuisine: "North Indian",
			Features: []string{"casual", "family-friendly"}, AvgPricePerPerson: 400,
			SeatingCapacity: 40, OpeningTime: "10:00", ClosingTime: "22:00",
		},
		{
			ID: 3, Name: "Andheri Social", Area: "Andheri", City: "Mumbai", Cuisine: "Italian",
			Features: []string{"bar", "live-music"}, AvgPricePerPerson: 600,
			SeatingCapacity: 60, OpeningTime: "12:00", ClosingTime: "00:00",
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	engine := booking.NewEngine(s)
	ranker := recommend.NewRanker(s, embed.DummyEmbedder{}, recommend.Options{})
	catalog, err := NewCatalog(s, engine, ranker)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return &fixture{store: s, engine: engine, catalog: catalog}
}

func (f *fixture) invoke(t *testing.T, name string, args map[string]any) map[string]any {
	t.Helper()
	tool, _, ok := f.catalog.Lookup(name)
	if !ok {
		t.Fatalf("tool %s not registered", name)
	}
	resp, err := tool.Invoke(context.Background(), concierge.ToolRequest{SessionID: "s", Arguments: args})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(resp.Content), &doc); err != nil {
		t.Fatalf("%s returned invalid JSON: %v", name, err)
	}
	return doc
}

func (f *fixture) invokeErr(t *testing.T, name string, args map[string]any) *domain.ToolError {
	t.Helper()
	tool, _, ok := f.catalog.Lookup(name)
	if !ok {
		t.Fatalf("tool %s not registered", name)
	}
	_, err := tool.Invoke(context.Background(), concierge.ToolRequest{SessionID: "s", Arguments: args})
	if err == nil {
		t.Fatalf("%s: expected error", name)
	}
	te, ok := domain.AsToolError(err)
	if !ok {
		t.Fatalf("%s: expected domain error, got %v", name, err)
	}
	return te
}

func TestCatalogRegistersAllSeven(t *testing.T) {
	f := newFixture(t)
	specs := f.catalog.Specs()
	want := []string{
		"search_restaurants", "semantic_recommend", "check_availability",
		"create_reservation", "modify_reservation", "cancel_reservation",
		"get_reservation_by_phone",
	}
	if len(specs) != len(want) {
		t.Fatalf("want %d tools, got %d", len(want), len(specs))
	}
	for i, name := range want {
		if specs[i].Name != name {
			t.Fatalf("spec %d: want %s, got %s", i, name, specs[i].Name)
		}
	}
}

func TestSearchFilters(t *testing.T) {
	f := newFixture(t)

	doc := f.invoke(t, "search_restaurants", map[string]any{"location": "Bandra"})
	if doc["count"].(float64) != 2 {
		t.Fatalf("want 2 Bandra restaurants, got %v", doc["count"])
	}

	doc = f.invoke(t, "search_restaurants", map[string]any{"location": "bandra", "cuisine": "italian"})
	if doc["count"].(float64) != 1 {
		t.Fatalf("filters must be case-insensitive and conjunctive: %v", doc)
	}

	doc = f.invoke(t, "search_restaurants", map[string]any{"budget": float64(500)})
	if doc["count"].(float64) != 1 {
		t.Fatalf("budget filter: %v", doc["count"])
	}

	// A party bigger than every capacity matches nothing; that is still a
	// successful empty result, not an error.
	doc = f.invoke(t, "search_restaurants", map[string]any{"party_size": float64(500)})
	if doc["count"].(float64) != 0 {
		t.Fatalf("want empty result, got %v", doc["count"])
	}
}

func TestSearchBadDatetime(t *testing.T) {
	f := newFixture(t)
	te := f.invokeErr(t, "search_restaurants", map[string]any{"datetime": "next friday"})
	if te.Kind != domain.KindValidation {
		t.Fatalf("want validation error, got %s", te.Kind)
	}
}

func TestRecommendRequiresMood(t *testing.T) {
	f := newFixture(t)
	te := f.invokeErr(t, "semantic_recommend", map[string]any{"location": "Bandra"})
	if te.Kind != domain.KindValidation {
		t.Fatalf("want validation error, got %s", te.Kind)
	}
}

func TestRecommendRanksVibe(t *testing.T) {
	f := newFixture(t)
	doc := f.invoke(t, "semantic_recommend", map[string]any{"mood": "romantic rooftop dinner", "location": "Bandra"})

	recs, ok := doc["recommendations"].([]any)
	if !ok || len(recs) == 0 {
		t.Fatalf("expected recommendations, got %v", doc)
	}
	first := recs[0].(map[string]any)
	if first["id"].(float64) != 1 {
		t.Fatalf("rooftop/romantic restaurant must rank first: %v", first)
	}
}

func TestRecommendNoStrongMatches(t *testing.T) {
	f := newFixture(t)
	doc := f.invoke(t, "semantic_recommend", map[string]any{"mood": "xylophone warehouse blizzard"})
	if doc["no_strong_matches"] != true {
		t.Fatalf("expected explicit no-strong-matches signal, got %v", doc)
	}
}

func TestAvailabilityAndBookingFlow(t *testing.T) {
	f := newFixture(t)
	at := "2026-09-12T19:00:00"

	doc := f.invoke(t, "check_availability", map[string]any{
		"restaurant_id": float64(1), "datetime": at, "party_size": float64(8),
	})
	if doc["available"] != true {
		t.Fatalf("expected availability: %v", doc)
	}

	doc = f.invoke(t, "create_reservation", map[string]any{
		"restaurant_id": float64(1), "customer_name": "Asha", "phone": "+9198",
		"party_size": float64(8), "datetime": at, "special_requests": "window table",
	})
	res := doc["reservation"].(map[string]any)
	if res["status"] != "active" || res["party_size"].(float64) != 8 {
		t.Fatalf("bad reservation payload: %v", res)
	}
	if res["special_requests"] != "window table" {
		t.Fatalf("special requests dropped: %v", res)
	}
	if doc["restaurant_name"] != "Sea Breeze" {
		t.Fatalf("restaurant name missing: %v", doc)
	}

	doc = f.invoke(t, "check_availability", map[string]any{
		"restaurant_id": float64(1), "datetime": at, "party_size": float64(3),
	})
	if doc["available"] != false || doc["remaining_capacity"].(float64) != 2 {
		t.Fatalf("capacity accounting off: %v", doc)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	f := newFixture(t)
	base := map[string]any{
		"restaurant_id": float64(1), "customer_name": "Asha", "phone": "+9198",
		"party_size": float64(2), "datetime": "2026-09-12T19:00:00",
	}

	for _, missing := range []string{"customer_name", "phone", "party_size", "datetime"} {
		args := make(map[string]any, len(base))
		for k, v := range base {
			if k != missing {
				args[k] = v
			}
		}
		te := f.invokeErr(t, "create_reservation", args)
		if te.Kind != domain.KindValidation {
			t.Fatalf("missing %s: want validation error, got %s", missing, te.Kind)
		}
	}

	args := map[string]any{
		"restaurant_id": float64(99), "customer_name": "Asha", "phone": "+9198",
		"party_size": float64(2), "datetime": "2026-09-12T19:00:00",
	}
	te := f.invokeErr(t, "create_reservation", args)
	if te.Kind != domain.KindNotFound {
		t.Fatalf("unknown restaurant: want not_found, got %s", te.Kind)
	}
}

func TestModifyReservation(t *testing.T) {
	f := newFixture(t)
	at := "2026-09-12T19:00:00"

	doc := f.invoke(t, "create_reservation", map[string]any{
		"restaurant_id": float64(2), "customer_name": "Ravi", "phone": "+9100",
		"party_size": float64(2), "datetime": at,
	})
	id := doc["reservation"].(map[string]any)["id"].(float64)

	doc = f.invoke(t, "modify_reservation", map[string]any{
		"reservation_id": id, "new_party_size": float64(5),
	})
	if doc["reservation"].(map[string]any)["party_size"].(float64) != 5 {
		t.Fatalf("party size not updated: %v", doc)
	}

	te := f.invokeErr(t, "modify_reservation", map[string]any{"reservation_id": id})
	if te.Kind != domain.KindValidation {
		t.Fatalf("nothing-to-change: want validation error, got %s", te.Kind)
	}
}

func TestCancelReservationIdempotent(t *testing.T) {
	f := newFixture(t)

	doc := f.invoke(t, "create_reservation", map[string]any{
		"restaurant_id": float64(2), "customer_name": "Ravi", "phone": "+9100",
		"party_size": float64(2), "datetime": "2026-09-12T19:00:00",
	})
	id := doc["reservation"].(map[string]any)["id"].(float64)

	for i := 0; i < 2; i++ {
		doc = f.invoke(t, "cancel_reservation", map[string]any{"reservation_id": id})
		if doc["cancelled"] != true || doc["reservation_id"].(float64) != id {
			t.Fatalf("cancel attempt %d: %v", i+1, doc)
		}
	}

	te := f.invokeErr(t, "cancel_reservation", map[string]any{"reservation_id": float64(999)})
	if te.Kind != domain.KindNotFound {
		t.Fatalf("unknown reservation: want not_found, got %s", te.Kind)
	}
}

func TestLookupByPhone(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{0, 24 * time.Hour} {
		_, err := f.engine.Book(context.Background(), booking.BookingRequest{
			RestaurantID: 2, CustomerName: "Ravi", Phone: "+9100",
			PartySize: 2 + i, At: base.Add(offset),
		})
		if err != nil {
			t.Fatalf("book: %v", err)
		}
	}

	doc := f.invoke(t, "get_reservation_by_phone", map[string]any{"phone": "+9100"})
	if doc["count"].(float64) != 2 {
		t.Fatalf("want 2 reservations, got %v", doc["count"])
	}

	doc = f.invoke(t, "get_reservation_by_phone", map[string]any{"phone": "+0000"})
	if doc["count"].(float64) != 0 {
		t.Fatalf("unknown phone must yield an empty list: %v", doc)
	}

	te := f.invokeErr(t, "get_reservation_by_phone", map[string]any{"phone": "  "})
	if te.Kind != domain.KindValidation {
		t.Fatalf("blank phone: want validation error, got %s", te.Kind)
	}
}

func TestArgumentTypeMismatch(t *testing.T) {
	f := newFixture(t)
	te := f.invokeErr(t, "check_availability", map[string]any{
		"restaurant_id": "one", "datetime": "2026-09-12T19:00:00", "party_size": float64(2),
	})
	if te.Kind != domain.KindValidation {
		t.Fatalf("type mismatch: want validation error, got %s", te.Kind)
	}
}
