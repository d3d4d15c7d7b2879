package filter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tripveda/flightdesk/internal/models"
	"github.com/tripveda/flightdesk/internal/numeric"
)

// Price bounds advertised when a candidate set is empty, so a filter UI
// always has a usable slider range.
const (
	DefaultMinPrice = 200
	DefaultMaxPrice = 150000
)

// Stop-count buckets exposed for filter UI badges.
const (
	BucketNonStop   = "Non-stop"
	BucketOneStop   = "1 stop"
	BucketMultiStop = "2+ stops"
)

// Aggregates describes an unfiltered candidate set for building filter
// controls. It is derived data only; filtering itself never consults it.
type Aggregates struct {
	MinPrice          float64        `json:"minPrice"`
	MaxPrice          float64        `json:"maxPrice"`
	AvailableStops    []string       `json:"availableStops"`
	AvailableAirlines []string       `json:"availableAirlines"`
	StopCounts        map[string]int `json:"stopCounts"`
}

// Summarize computes the filter UI aggregates across the unfiltered set.
// Stop counts are per trip, not per flight: a round-trip fare contributes
// one count for each of its trips.
func Summarize(flights []models.Flight) Aggregates {
	agg := Aggregates{
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		StopCounts: map[string]int{
			BucketNonStop:   0,
			BucketOneStop:   0,
			BucketMultiStop: 0,
		},
	}

	stops := make(map[string]bool)
	airlines := make(map[string]bool)

	for i, f := range flights {
		price := numeric.Price(f.TotalPrice, f.BasePrice)
		if i == 0 || price < agg.MinPrice {
			agg.MinPrice = price
		}
		if i == 0 || price > agg.MaxPrice {
			agg.MaxPrice = price
		}

		for _, trip := range f.Trips {
			stops[StopLabel(trip.Stops)] = true
			if trip.Stops != nil {
				switch {
				case *trip.Stops == 0:
					agg.StopCounts[BucketNonStop]++
				case *trip.Stops == 1:
					agg.StopCounts[BucketOneStop]++
				default:
					agg.StopCounts[BucketMultiStop]++
				}
			}
			for _, leg := range trip.Legs {
				airlines[leg.OperatingCarrierCode] = true
			}
		}
	}

	agg.AvailableStops = sortedStopLabels(stops)
	agg.AvailableAirlines = sortedKeys(airlines)
	return agg
}

// sortedStopLabels orders labels Non-stop, 1 stop, then ascending by stop
// count, with Unknown last.
func sortedStopLabels(set map[string]bool) []string {
	labels := sortedKeys(set)
	sort.SliceStable(labels, func(i, j int) bool {
		return stopLabelRank(labels[i]) < stopLabelRank(labels[j])
	})
	return labels
}

func stopLabelRank(label string) int {
	switch label {
	case BucketNonStop:
		return 0
	case BucketOneStop:
		return 1
	case "Unknown":
		return 1 << 30
	default:
		n, err := strconv.Atoi(strings.SplitN(label, " ", 2)[0])
		if err != nil {
			return 1 << 29
		}
		return n
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
