// Package filter is the flight list filter and sort engine. It operates on
// already-fetched candidate flights only: no I/O, no errors, stable output.
package filter

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tripveda/flightdesk/internal/models"
	"github.com/tripveda/flightdesk/internal/numeric"
)

// Sort keys accepted by Criteria.SortBy. SortRecommended preserves the
// backend's ordering.
const (
	SortRecommended = "recommended"
	SortPriceLow    = "priceLow"
	SortPriceHigh   = "priceHigh"
	SortDuration    = "duration"
	SortDeparture   = "departure"
)

// Criteria is the user-selected filter and sort state for one candidate
// list. Empty slices mean "no constraint" for their dimension.
type Criteria struct {
	PriceMin float64  `json:"priceMin"`
	PriceMax float64  `json:"priceMax"`
	Stops    []string `json:"stops"`
	Airlines []string `json:"airlines"`
	Times    []string `json:"times"`
	SortBy   string   `json:"sortBy"`
}

// Unbounded returns criteria that pass every flight in recommended order.
func Unbounded() Criteria {
	return Criteria{PriceMax: math.Inf(1), SortBy: SortRecommended}
}

// StopLabel maps a trip's stop count to its display bucket.
func StopLabel(stops *int) string {
	switch {
	case stops == nil:
		return "Unknown"
	case *stops == 0:
		return "Non-stop"
	case *stops == 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", *stops)
	}
}

// Apply returns the ordered subset of flights passing every criterion. The
// input slice is never mutated; with SortRecommended the output preserves
// input order exactly.
func Apply(flights []models.Flight, c Criteria) []models.Flight {
	result := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if matches(f, c) {
			result = append(result, f)
		}
	}
	applySort(result, c.SortBy)
	return result
}

func matches(f models.Flight, c Criteria) bool {
	price := numeric.Price(f.TotalPrice, f.BasePrice)
	if price < c.PriceMin || price > c.PriceMax {
		return false
	}

	if len(c.Airlines) > 0 && !carriesAny(f, c.Airlines) {
		return false
	}

	// Only trip 0's stop count is checked, even for return-leg candidate
	// lists. This mirrors the shipped behavior.
	if len(c.Stops) > 0 {
		label := "Unknown"
		if len(f.Trips) > 0 {
			label = StopLabel(f.Trips[0].Stops)
		}
		if !containsString(c.Stops, label) {
			return false
		}
	}

	if len(c.Times) > 0 && !departsWithin(f, c.Times) {
		return false
	}

	return true
}

func carriesAny(f models.Flight, airlines []string) bool {
	for _, trip := range f.Trips {
		for _, leg := range trip.Legs {
			if containsString(airlines, leg.OperatingCarrierCode) {
				return true
			}
		}
	}
	return false
}

// Time-of-day buckets. Filter UIs decorate the labels with hour ranges
// ("Morning (6AM - 12PM)"), so matching is by substring.
var timeBuckets = []struct {
	name     string
	from, to int // [from, to) in hours
}{
	{"Night", 0, 6},
	{"Morning", 6, 12},
	{"Afternoon", 12, 18},
	{"Evening", 18, 24},
}

func departsWithin(f models.Flight, times []string) bool {
	if len(f.Trips) == 0 || len(f.Trips[0].Legs) == 0 {
		return false
	}
	dep, ok := numeric.Time(f.Trips[0].Legs[0].DepartureDateTime)
	if !ok {
		return false
	}
	hour := dep.Hour()
	for _, selected := range times {
		for _, b := range timeBuckets {
			if strings.Contains(selected, b.name) && hour >= b.from && hour < b.to {
				return true
			}
		}
	}
	return false
}

func applySort(flights []models.Flight, sortBy string) {
	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(flights, func(i, j int) bool {
			return numeric.FloatOrZero(flights[i].TotalPrice) < numeric.FloatOrZero(flights[j].TotalPrice)
		})
	case SortPriceHigh:
		sort.SliceStable(flights, func(i, j int) bool {
			return numeric.FloatOrZero(flights[i].TotalPrice) > numeric.FloatOrZero(flights[j].TotalPrice)
		})
	case SortDuration:
		sort.SliceStable(flights, func(i, j int) bool {
			return DurationMinutes(flights[i]) < DurationMinutes(flights[j])
		})
	case SortDeparture:
		sort.SliceStable(flights, func(i, j int) bool {
			return departureTime(flights[i]).Before(departureTime(flights[j]))
		})
	default:
		// recommended: keep backend order
	}
}

// DurationMinutes is the outbound trip's gate-to-gate time in whole
// minutes: last leg arrival minus first leg departure, floored. Missing or
// unparseable timestamps yield 0 so such flights sort first.
func DurationMinutes(f models.Flight) int {
	if len(f.Trips) == 0 || len(f.Trips[0].Legs) == 0 {
		return 0
	}
	legs := f.Trips[0].Legs
	dep, okDep := numeric.Time(legs[0].DepartureDateTime)
	arr, okArr := numeric.Time(legs[len(legs)-1].ArrivalDateTime)
	if !okDep || !okArr {
		return 0
	}
	return int(math.Floor(arr.Sub(dep).Minutes()))
}

// departureTime returns the outbound first-leg departure, or the zero time
// when missing or unparseable so such flights sort first ascending.
func departureTime(f models.Flight) time.Time {
	if len(f.Trips) == 0 || len(f.Trips[0].Legs) == 0 {
		return time.Time{}
	}
	t, _ := numeric.Time(f.Trips[0].Legs[0].DepartureDateTime)
	return t
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
