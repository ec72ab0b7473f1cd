package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goodfoods/concierge/src/domain"
)

func seedOne(t *testing.T, s Store) {
	t.Helper()
	err := s.SeedRestaurants(context.Background(), []domain.Restaurant{{
		ID: 1, Name: "Spice Villa", Area: "Bandra", City: "Mumbai",
		Cuisine: "North Indian", SeatingCapacity: 20,
		OpeningTime: "11:00", ClosingTime: "23:00",
	}})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestInMemoryRestaurantLookup(t *testing.T) {
	s := NewInMemoryStore()
	seedOne(t, s)
	ctx := context.Background()

	r, err := s.GetRestaurant(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r.Name != "Spice Villa" {
		t.Fatalf("wrong restaurant: %+v", r)
	}

	if _, err := s.GetRestaurant(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSeedIsNoopWhenPopulated(t *testing.T) {
	s := NewInMemoryStore()
	seedOne(t, s)
	ctx := context.Background()

	err := s.SeedRestaurants(ctx, []domain.Restaurant{{ID: 2, Name: "Other"}})
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	all, err := s.ListRestaurants(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].ID != 1 {
		t.Fatalf("reseed must not touch a populated catalog: %+v", all)
	}
}

func TestReservationLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	seedOne(t, s)
	ctx := context.Background()
	at := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)

	created, err := s.CreateReservation(ctx, domain.Reservation{
		RestaurantID: 1, CustomerName: "Asha", Phone: "+9198", PartySize: 4,
		At: at, Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("create must assign an id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("create must stamp timestamps")
	}

	created.Status = domain.StatusCancelled
	if err := s.UpdateReservation(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetReservation(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := s.UpdateReservation(ctx, domain.Reservation{ID: 99}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown update, got %v", err)
	}
}

func TestReservationsByPhoneMostRecentFirst(t *testing.T) {
	s := NewInMemoryStore()
	seedOne(t, s)
	ctx := context.Background()
	base := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{0, 48 * time.Hour, 24 * time.Hour} {
		_, err := s.CreateReservation(ctx, domain.Reservation{
			RestaurantID: 1, CustomerName: "Asha", Phone: "+9198",
			PartySize: 2, At: base.Add(offset), Status: domain.StatusActive,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	_, err := s.CreateReservation(ctx, domain.Reservation{
		RestaurantID: 1, CustomerName: "Ravi", Phone: "+9100",
		PartySize: 2, At: base, Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.ReservationsByPhone(ctx, "+9198")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 reservations, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].At.After(got[i-1].At) {
			t.Fatalf("not most-recent-first: %v before %v", got[i-1].At, got[i].At)
		}
	}

	none, err := s.ReservationsByPhone(ctx, "+0000")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("want empty list for unknown phone, got %d", len(none))
	}
}

func TestActivePartySumExactSlot(t *testing.T) {
	s := NewInMemoryStore()
	seedOne(t, s)
	ctx := context.Background()
	at := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)

	add := func(size int, slot time.Time, status domain.ReservationStatus) {
		t.Helper()
		_, err := s.CreateReservation(ctx, domain.Reservation{
			RestaurantID: 1, CustomerName: "X", Phone: "+91",
			PartySize: size, At: slot, Status: status,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	add(4, at, domain.StatusActive)
	add(3, at, domain.StatusActive)
	add(5, at, domain.StatusCancelled)     // released seats don't count
	add(2, at.Add(time.Hour), domain.StatusActive) // different slot

	sum, err := s.ActivePartySum(ctx, 1, at)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 7 {
		t.Fatalf("want 7 active seats at slot, got %d", sum)
	}
}
