package store

import (
	"fmt"
	"math/rand"

	"github.com/goodfoods/concierge/src/domain"
)

const seedCity = "Mumbai"

var (
	seedAreas = []string{
		"Andheri", "Bandra", "Juhu", "Colaba", "Powai", "Lower Parel",
		"Worli", "Malad", "Goregaon", "Churchgate", "Fort", "Kurla",
		"Thane", "Vashi", "Panvel",
	}
	seedCuisines = []string{
		"North Indian", "South Indian", "Italian", "Chinese", "Japanese",
		"Thai", "Mexican", "Continental", "Multi-cuisine", "Mughlai",
		"Seafood", "Mediterranean", "Korean", "French", "American",
	}
	seedNamePrefixes = []string{
		"The", "Royal", "Golden", "Silver", "Blue", "Green", "Red",
		"Grand", "Little", "Big", "Urban", "Classic", "Modern", "Spice",
	}
	seedNameSuffixes = []string{
		"Kitchen", "Bistro", "Cafe", "Restaurant", "Diner", "Grill",
		"House", "Garden", "Terrace", "Lounge", "Table", "Plate",
		"Bites", "Corner", "Palace",
	}
	seedFeatures = []string{
		"rooftop", "family-friendly", "bar", "live-music", "outdoor-seating",
		"private-dining", "valet-parking", "wifi", "pet-friendly",
		"wheelchair-accessible", "romantic", "buffet",
	}
	seedOpeningTimes = []string{"10:00", "11:00", "11:30", "12:00"}
	seedClosingTimes = []string{"22:00", "22:30", "23:00", "23:30", "00:00"}
)

// GenerateSeedRestaurants produces n sample restaurants with stable IDs.
// A fixed seed keeps the catalog reproducible across runs and stores.
func GenerateSeedRestaurants(n int, seed int64) []domain.Restaurant {
	rng := rand.New(rand.NewSource(seed))
	used := make(map[string]bool, n)
	out := make([]domain.Restaurant, 0, n)

	for len(out) < n {
		prefix := seedNamePrefixes[rng.Intn(len(seedNamePrefixes))]
		suffix := seedNameSuffixes[rng.Intn(len(seedNameSuffixes))]
		cuisine := seedCuisines[rng.Intn(len(seedCuisines))]
		name := fmt.Sprintf("%s %s", prefix, suffix)
		if used[name] {
			name = fmt.Sprintf("%s %s %s", prefix, cuisine, suffix)
		}
		if used[name] {
			continue
		}
		used[name] = true

		features := make([]string, 0, 4)
		for _, idx := range rng.Perm(len(seedFeatures))[:2+rng.Intn(3)] {
			features = append(features, seedFeatures[idx])
		}

		out = append(out, domain.Restaurant{
			ID:                int64(len(out) + 1),
			Name:              name,
			Area:              seedAreas[rng.Intn(len(seedAreas))],
			City:              seedCity,
			Cuisine:           cuisine,
			Features:          features,
			AvgPricePerPerson: 300 + rng.Intn(901),
			SeatingCapacity:   20 + rng.Intn(101),
			OpeningTime:       seedOpeningTimes[rng.Intn(len(seedOpeningTimes))],
			ClosingTime:       seedClosingTimes[rng.Intn(len(seedClosingTimes))],
		})
	}
	return out
}
