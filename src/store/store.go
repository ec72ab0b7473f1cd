// Package store provides durable persistence for restaurants and reservations.
package store

import (
	"context"
	"time"

	"github.com/goodfoods/concierge/src/domain"
)

// Store is the contract every reservation backend implements. Reservation IDs
// are assigned by the store at creation time and never reused. Implementations
// do not enforce the capacity invariant themselves; the booking engine
// serializes check-then-write around these calls.
type Store interface {
	// GetRestaurant returns domain.ErrNotFound for unknown IDs.
	GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	// SeedRestaurants inserts the catalog if the store is empty. It is a
	// no-op when restaurants already exist.
	SeedRestaurants(ctx context.Context, restaurants []domain.Restaurant) error

	// CreateReservation persists r with a fresh ID and returns the stored record.
	CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	// GetReservation returns domain.ErrNotFound for unknown IDs.
	GetReservation(ctx context.Context, id int64) (domain.Reservation, error)
	// UpdateReservation replaces the stored record with r (matched by r.ID).
	UpdateReservation(ctx context.Context, r domain.Reservation) error
	// ReservationsByPhone returns active and cancelled reservations,
	// most recent slot first. An unknown phone yields an empty slice.
	ReservationsByPhone(ctx context.Context, phone string) ([]domain.Reservation, error)
	// ActivePartySum totals party sizes of active reservations for the
	// restaurant at the exact slot.
	ActivePartySum(ctx context.Context, restaurantID int64, at time.Time) (int, error)

	Close() error
}
