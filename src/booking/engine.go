// Package booking answers "can N more people be seated at restaurant R for
// slot T" and enforces the answer during writes. Capacity accounting is
// scoped to the exact requested datetime; there is no overlapping-window
// contention model.
package booking

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/goodfoods/concierge/src/domain"
	"github.com/goodfoods/concierge/src/store"
)

// Availability is the outcome of a capacity check.
type Availability struct {
	Available bool   `json:"available"`
	Remaining int    `json:"remaining_capacity"`
	Reason    string `json:"reason,omitempty"`
}

// Engine wraps a Store with exact-slot capacity accounting. The
// check-then-write sequence for every create/modify serializes on a striped
// mutex keyed by (restaurant, slot), so two concurrent bookings for the last
// seats cannot both observe "available". Modify and Cancel additionally
// serialize per reservation and re-read it under that lock, so a racing
// modify and cancel never write back a stale snapshot. Lock order is always
// reservation stripe first, then slot stripes.
type Engine struct {
	store store.Store

	slotLocks [lockStripes]sync.Mutex
	resLocks  [lockStripes]sync.Mutex
}

const lockStripes = 64

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

func slotStripe(restaurantID int64, at time.Time) int {
	h := fnv.New64a()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(restaurantID))
	binary.LittleEndian.PutUint64(buf[8:], uint64(at.UTC().Unix()))
	_, _ = h.Write(buf[:])
	return int(h.Sum64() % lockStripes)
}

func (e *Engine) lockSlot(restaurantID int64, at time.Time) func() {
	m := &e.slotLocks[slotStripe(restaurantID, at)]
	m.Lock()
	return m.Unlock
}

// lockSlots locks the stripes for two slots in index order, collapsing to a
// single lock when both hash to the same stripe.
func (e *Engine) lockSlots(restaurantID int64, a, b time.Time) func() {
	i, j := slotStripe(restaurantID, a), slotStripe(restaurantID, b)
	if i > j {
		i, j = j, i
	}
	e.slotLocks[i].Lock()
	if j != i {
		e.slotLocks[j].Lock()
	}
	return func() {
		if j != i {
			e.slotLocks[j].Unlock()
		}
		e.slotLocks[i].Unlock()
	}
}

func (e *Engine) lockReservation(id int64) func() {
	m := &e.resLocks[int(uint64(id)%lockStripes)]
	m.Lock()
	return m.Unlock
}

// CheckAvailability reports remaining capacity for the slot. It uses the
// identical accounting as Book, so "available" here means an immediate Book
// with the same arguments succeeds absent concurrent writers.
func (e *Engine) CheckAvailability(ctx context.Context, restaurantID int64, at time.Time, partySize int) (Availability, error) {
	r, err := e.store.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return Availability{}, wrapRestaurantErr(restaurantID, err)
	}
	return e.availability(ctx, r, at, partySize, 0)
}

// availability computes remaining seats with excludeSize already released.
// Modify passes the reservation's current allocation so it never counts
// against itself.
func (e *Engine) availability(ctx context.Context, r domain.Restaurant, at time.Time, partySize, excludeSize int) (Availability, error) {
	if !r.WithinHours(at) {
		return Availability{
			Available: false,
			Reason:    fmt.Sprintf("restaurant is closed at that time; hours are %s - %s", r.OpeningTime, r.ClosingTime),
		}, nil
	}
	sum, err := e.store.ActivePartySum(ctx, r.ID, at)
	if err != nil {
		return Availability{}, fmt.Errorf("sum active reservations: %w", err)
	}
	remaining := r.SeatingCapacity - (sum - excludeSize)
	if remaining < 0 {
		remaining = 0
	}
	if remaining < partySize {
		return Availability{
			Available: false,
			Remaining: remaining,
			Reason:    fmt.Sprintf("only %d seats remain for that slot", remaining),
		}, nil
	}
	return Availability{Available: true, Remaining: remaining}, nil
}

// BookingRequest carries the validated arguments for a new reservation.
type BookingRequest struct {
	RestaurantID    int64
	CustomerName    string
	Phone           string
	PartySize       int
	At              time.Time
	SpecialRequests string
}

// Book creates an active reservation, atomically with the capacity check.
// On a capacity or hours violation it returns a domain error and leaves the
// store untouched.
func (e *Engine) Book(ctx context.Context, req BookingRequest) (domain.Reservation, error) {
	r, err := e.store.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return domain.Reservation{}, wrapRestaurantErr(req.RestaurantID, err)
	}

	unlock := e.lockSlot(req.RestaurantID, req.At)
	defer unlock()

	avail, err := e.availability(ctx, r, req.At, req.PartySize, 0)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !avail.Available {
		return domain.Reservation{}, domain.CapacityConflictf("%s", avail.Reason)
	}

	return e.store.CreateReservation(ctx, domain.Reservation{
		RestaurantID:    req.RestaurantID,
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		PartySize:       req.PartySize,
		At:              req.At.UTC(),
		SpecialRequests: req.SpecialRequests,
		Status:          domain.StatusActive,
	})
}

// Modify re-times or re-sizes an active reservation. Capacity is re-checked
// as if the reservation's current allocation were released first, so a no-op
// modification of a full slot still succeeds.
func (e *Engine) Modify(ctx context.Context, reservationID int64, newAt *time.Time, newPartySize *int) (domain.Reservation, error) {
	unlockRes := e.lockReservation(reservationID)
	defer unlockRes()

	res, err := e.store.GetReservation(ctx, reservationID)
	if err != nil {
		return domain.Reservation{}, wrapReservationErr(reservationID, err)
	}
	if !res.Active() {
		return domain.Reservation{}, domain.Validationf("reservation %d is cancelled and cannot be modified", reservationID)
	}

	at := res.At
	if newAt != nil {
		at = newAt.UTC()
	}
	size := res.PartySize
	if newPartySize != nil {
		size = *newPartySize
	}

	r, err := e.store.GetRestaurant(ctx, res.RestaurantID)
	if err != nil {
		return domain.Reservation{}, wrapRestaurantErr(res.RestaurantID, err)
	}

	unlock := e.lockSlots(res.RestaurantID, res.At, at)
	defer unlock()

	exclude := 0
	if at.Equal(res.At) {
		exclude = res.PartySize
	}
	avail, err := e.availability(ctx, r, at, size, exclude)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !avail.Available {
		return domain.Reservation{}, domain.CapacityConflictf("%s", avail.Reason)
	}

	res.At = at
	res.PartySize = size
	if err := e.store.UpdateReservation(ctx, res); err != nil {
		return domain.Reservation{}, fmt.Errorf("update reservation: %w", err)
	}
	return e.store.GetReservation(ctx, reservationID)
}

// Cancel transitions a reservation to cancelled. Cancelling an already
// cancelled reservation is a successful no-op; the end state is identical.
func (e *Engine) Cancel(ctx context.Context, reservationID int64) (domain.Reservation, error) {
	unlockRes := e.lockReservation(reservationID)
	defer unlockRes()

	res, err := e.store.GetReservation(ctx, reservationID)
	if err != nil {
		return domain.Reservation{}, wrapReservationErr(reservationID, err)
	}
	if !res.Active() {
		return res, nil
	}

	unlock := e.lockSlot(res.RestaurantID, res.At)
	defer unlock()

	res.Status = domain.StatusCancelled
	if err := e.store.UpdateReservation(ctx, res); err != nil {
		return domain.Reservation{}, fmt.Errorf("update reservation: %w", err)
	}
	return res, nil
}

func wrapRestaurantErr(id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundf("restaurant %d does not exist", id)
	}
	return fmt.Errorf("load restaurant %d: %w", id, err)
}

func wrapReservationErr(id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundf("reservation %d does not exist", id)
	}
	return fmt.Errorf("load reservation %d: %w", id, err)
}
