package domain

import (
	"fmt"
	"strings"
	"time"
)

// Restaurant is a bookable catalog entry. Records are seeded at startup and
// read-only afterwards, so they can be shared freely between goroutines.
type Restaurant struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Area              string   `json:"area"`
	City              string   `json:"city"`
	Cuisine           string   `json:"cuisine"`
	Features          []string `json:"features"`
	AvgPricePerPerson int      `json:"avg_price_per_person"`
	SeatingCapacity   int      `json:"seating_capacity"`
	OpeningTime       string   `json:"opening_time"` // "HH:MM"
	ClosingTime       string   `json:"closing_time"` // "HH:MM"; "00:00" means open past midnight
}

// WithinHours reports whether t falls inside the restaurant's operating window.
// A closing time of "00:00" keeps the restaurant open for the rest of the day.
func (r Restaurant) WithinHours(t time.Time) bool {
	clock := t.Format("15:04")
	if clock < r.OpeningTime {
		return false
	}
	if r.ClosingTime == "00:00" {
		return true
	}
	return clock <= r.ClosingTime
}

// Describe renders the canonical descriptive string used for embedding.
func (r Restaurant) Describe() string {
	features := "none"
	if len(r.Features) > 0 {
		features = strings.Join(r.Features, ", ")
	}
	return fmt.Sprintf("%s. Area: %s. Cuisine: %s. Features: %s.", r.Name, r.Area, r.Cuisine, features)
}
