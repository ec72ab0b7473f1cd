package domain

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 12, hour, min, 0, 0, time.UTC)
}

func TestWithinHours(t *testing.T) {
	r := Restaurant{OpeningTime: "11:00", ClosingTime: "23:00"}

	cases := []struct {
		when time.Time
		want bool
	}{
		{at(10, 59), false},
		{at(11, 0), true},
		{at(19, 30), true},
		{at(23, 0), true},
		{at(23, 1), false},
	}
	for _, tc := range cases {
		if got := r.WithinHours(tc.when); got != tc.want {
			t.Errorf("WithinHours(%v) = %v, want %v", tc.when.Format("15:04"), got, tc.want)
		}
	}
}

func TestWithinHoursMidnightClosing(t *testing.T) {
	r := Restaurant{OpeningTime: "12:00", ClosingTime: "00:00"}
	if !r.WithinHours(at(23, 45)) {
		t.Fatal("a 00:00 closing keeps the evening open")
	}
	if r.WithinHours(at(11, 0)) {
		t.Fatal("still closed before opening")
	}
}

func TestDescribe(t *testing.T) {
	r := Restaurant{
		Name: "Sea Breeze", Area: "Bandra", Cuisine: "Italian",
		Features: []string{"rooftop", "romantic"},
	}
	want := "Sea Breeze. Area: Bandra. Cuisine: Italian. Features: rooftop, romantic."
	if got := r.Describe(); got != want {
		t.Fatalf("Describe() = %q", got)
	}

	bare := Restaurant{Name: "X", Area: "A", Cuisine: "C"}
	if got := bare.Describe(); got != "X. Area: A. Cuisine: C. Features: none." {
		t.Fatalf("Describe() without features = %q", got)
	}
}

func TestReservationActive(t *testing.T) {
	if !(Reservation{Status: StatusActive}).Active() {
		t.Fatal("active reservation")
	}
	if (Reservation{Status: StatusCancelled}).Active() {
		t.Fatal("cancelled reservation must not be active")
	}
}
