package domain

import "time"

// ReservationStatus is the lifecycle state of a booking. Reservations are
// never deleted, only transitioned, so disputed cancellations stay auditable.
type ReservationStatus string

const (
	StatusActive    ReservationStatus = "active"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation links a restaurant, a party size, a slot, and a customer.
type Reservation struct {
	ID              int64             `json:"id"`
	RestaurantID    int64             `json:"restaurant_id"`
	CustomerName    string            `json:"customer_name"`
	Phone           string            `json:"phone"`
	PartySize       int               `json:"party_size"`
	At              time.Time         `json:"at"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	Status          ReservationStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Active reports whether the reservation still holds seats.
func (r Reservation) Active() bool { return r.Status == StatusActive }
