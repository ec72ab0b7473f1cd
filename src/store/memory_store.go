package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goodfoods/concierge/src/domain"
)

// InMemoryStore keeps everything in process memory. It backs tests and the
// default zero-config mode of the chat REPL.
type InMemoryStore struct {
	mu           sync.RWMutex
	restaurants  map[int64]domain.Restaurant
	reservations map[int64]domain.Reservation
	nextID       int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		restaurants:  make(map[int64]domain.Restaurant),
		reservations: make(map[int64]domain.Reservation),
		nextID:       1,
	}
}

func (s *InMemoryStore) GetRestaurant(_ context.Context, id int64) (domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.restaurants[id]
	if !ok {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *InMemoryStore) ListRestaurants(_ context.Context) ([]domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) SeedRestaurants(_ context.Context, restaurants []domain.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.restaurants) > 0 {
		return nil
	}
	for _, r := range restaurants {
		s.restaurants[r.ID] = r
	}
	return nil
}

func (s *InMemoryStore) CreateReservation(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	s.reservations[r.ID] = r
	return r, nil
}

func (s *InMemoryStore) GetReservation(_ context.Context, id int64) (domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *InMemoryStore) UpdateReservation(_ context.Context, r domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.reservations[r.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.CreatedAt = stored.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	s.reservations[r.ID] = r
	return nil
}

func (s *InMemoryStore) ReservationsByPhone(_ context.Context, phone string) ([]domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.Phone == phone {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return out, nil
}

func (s *InMemoryStore) ActivePartySum(_ context.Context, restaurantID int64, at time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := 0
	for _, r := range s.reservations {
		if r.RestaurantID == restaurantID && r.Active() && r.At.Equal(at) {
			sum += r.PartySize
		}
	}
	return sum, nil
}

func (s *InMemoryStore) Close() error { return nil }

var _ Store = (*InMemoryStore)(nil)
