// Package booking tracks a traveler's progress through flight selection:
// departure and return legs for a round trip, or one leg per segment for a
// multi-city itinerary. One-way searches skip the flow entirely and hand
// off on the first selection.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tripveda/flightdesk/internal/models"
	"github.com/tripveda/flightdesk/internal/numeric"
)

// Step is the flow's current position. Round trips walk
// departure -> return -> review; multi-city walks segment-0 .. segment-(N-1)
// -> review.
type Step string

const (
	StepDeparture Step = "departure"
	StepReturn    Step = "return"
	StepReview    Step = "review"
)

// SegmentStep names the selection step for multi-city segment i.
func SegmentStep(i int) Step {
	return Step(fmt.Sprintf("segment-%d", i))
}

// SegmentIndex extracts i from a "segment-i" step, or -1 for other steps.
func SegmentIndex(s Step) int {
	rest, ok := strings.CutPrefix(string(s), "segment-")
	if !ok {
		return -1
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return -1
	}
	return i
}

var (
	ErrWrongStep    = errors.New("action not valid at the current booking step")
	ErrWrongFlow    = errors.New("action not valid for this trip type")
	ErrBadSegment   = errors.New("segment index out of range")
	ErrIncomplete   = errors.New("a leg has no selected flight")
	ErrNoTrips      = errors.New("selected flight has no trips")
	ErrNoReturnTrip = errors.New("return selection has no return trip")
)

// Handoff is the terminal payload passed to the passenger-details
// collaborator.
type Handoff struct {
	Flight     models.Flight `json:"flight"`
	Passengers int           `json:"passengers"`
}

// Flow is one booking session's selection state machine. It is not safe
// for concurrent use; callers serialize access (the session store holds one
// lock per session).
type Flow struct {
	tripType models.TripType
	step     Step
	adults   int
	children int

	departure *models.Flight
	rtrn      *models.Flight

	// multi-city only, one slot per segment
	selected []*models.Flight
}

// NewFlow builds the flow for a validated search request.
func NewFlow(req models.SearchRequest) (*Flow, error) {
	f := &Flow{
		tripType: req.TripType,
		adults:   req.Adults,
		children: req.Children,
	}
	switch req.TripType {
	case models.TripOneWay, models.TripRoundTrip:
		f.step = StepDeparture
	case models.TripMultiCity:
		if len(req.Segments) < 2 {
			return nil, models.ErrInvalidMultiCity
		}
		f.selected = make([]*models.Flight, len(req.Segments))
		f.step = SegmentStep(0)
	default:
		return nil, models.ErrUnknownTripType
	}
	return f, nil
}

func (f *Flow) Step() Step                 { return f.step }
func (f *Flow) TripType() models.TripType  { return f.tripType }
func (f *Flow) Passengers() int            { return f.adults + f.children }
func (f *Flow) Departure() *models.Flight  { return f.departure }
func (f *Flow) Return() *models.Flight     { return f.rtrn }
func (f *Flow) Selected() []*models.Flight { return f.selected }
func (f *Flow) SegmentCount() int          { return len(f.selected) }

// SelectDeparture records the outbound selection. One-way flows hand off
// immediately with the fare trimmed to its outbound trip; round trips
// advance to the return step.
func (f *Flow) SelectDeparture(flight models.Flight) (*Handoff, error) {
	if f.tripType == models.TripMultiCity {
		return nil, ErrWrongFlow
	}
	if f.step != StepDeparture {
		return nil, ErrWrongStep
	}
	if len(flight.Trips) == 0 {
		return nil, ErrNoTrips
	}

	f.departure = &flight
	if f.tripType == models.TripOneWay {
		oneWay := flight
		oneWay.Trips = []models.Trip{flight.Trips[0]}
		return &Handoff{Flight: oneWay, Passengers: f.Passengers()}, nil
	}
	f.step = StepReturn
	return nil, nil
}

// SelectReturn records the inbound selection and advances to review.
func (f *Flow) SelectReturn(flight models.Flight) error {
	if f.tripType != models.TripRoundTrip {
		return ErrWrongFlow
	}
	if f.step != StepReturn {
		return ErrWrongStep
	}
	if len(flight.Trips) < 2 {
		return ErrNoReturnTrip
	}
	f.rtrn = &flight
	f.step = StepReview
	return nil
}

// SelectSegment records the selection for multi-city segment index and
// advances to the next segment, or to review after the last one.
func (f *Flow) SelectSegment(index int, flight models.Flight) error {
	if f.tripType != models.TripMultiCity {
		return ErrWrongFlow
	}
	if index < 0 || index >= len(f.selected) {
		return ErrBadSegment
	}
	if f.step != SegmentStep(index) {
		return ErrWrongStep
	}
	if len(flight.Trips) == 0 {
		return ErrNoTrips
	}

	f.selected[index] = &flight
	if index+1 < len(f.selected) {
		f.step = SegmentStep(index + 1)
	} else {
		f.step = StepReview
	}
	return nil
}

// ChangeDeparture rewinds to the departure step. The return selection is
// deliberately retained until overwritten; a traveler comparing departures
// should not lose a return they already picked.
func (f *Flow) ChangeDeparture() error {
	if f.tripType != models.TripRoundTrip {
		return ErrWrongFlow
	}
	f.step = StepDeparture
	return nil
}

// ChangeReturn rewinds to the return step.
func (f *Flow) ChangeReturn() error {
	if f.tripType != models.TripRoundTrip {
		return ErrWrongFlow
	}
	f.step = StepReturn
	return nil
}

// ChangeSegment rewinds to segment index. Selections for other segments,
// earlier and later, are retained.
func (f *Flow) ChangeSegment(index int) error {
	if f.tripType != models.TripMultiCity {
		return ErrWrongFlow
	}
	if index < 0 || index >= len(f.selected) {
		return ErrBadSegment
	}
	f.step = SegmentStep(index)
	return nil
}

// ChangeTo rewinds to an arbitrary earlier step by name.
func (f *Flow) ChangeTo(step Step) error {
	switch {
	case step == StepDeparture:
		return f.ChangeDeparture()
	case step == StepReturn:
		return f.ChangeReturn()
	case SegmentIndex(step) >= 0:
		return f.ChangeSegment(SegmentIndex(step))
	default:
		return ErrWrongStep
	}
}

// ConfirmReview packages the selections into one composite fare and hands
// off. Completeness is asserted here rather than assumed: review should be
// unreachable with a gap, but a rewound-and-abandoned flow must not pass a
// nil selection downstream.
func (f *Flow) ConfirmReview() (*Handoff, error) {
	if f.step != StepReview {
		return nil, ErrWrongStep
	}

	var composite models.Flight
	switch f.tripType {
	case models.TripRoundTrip:
		if f.departure == nil || f.rtrn == nil {
			return nil, ErrIncomplete
		}
		if len(f.departure.Trips) == 0 {
			return nil, ErrNoTrips
		}
		if len(f.rtrn.Trips) < 2 {
			return nil, ErrNoReturnTrip
		}
		composite = *f.departure
		composite.Trips = []models.Trip{f.departure.Trips[0], f.rtrn.Trips[1]}

	case models.TripMultiCity:
		for _, sel := range f.selected {
			if sel == nil {
				return nil, ErrIncomplete
			}
			if len(sel.Trips) == 0 {
				return nil, ErrNoTrips
			}
		}
		composite = *f.selected[0]
		composite.OneWay = false

		trips := make([]models.Trip, 0, len(f.selected))
		var totalPrice, basePrice float64
		seats := f.selected[0].SeatsAvailable
		for _, sel := range f.selected {
			trips = append(trips, sel.Trips[0])
			totalPrice += numeric.FloatOrZero(sel.TotalPrice)
			basePrice += numeric.FloatOrZero(sel.BasePrice)
			if sel.SeatsAvailable < seats {
				seats = sel.SeatsAvailable
			}
		}
		composite.Trips = trips
		composite.TotalPrice = numeric.FormatAmount(totalPrice)
		composite.BasePrice = numeric.FormatAmount(basePrice)
		// Seats on the composite are the tightest segment: the itinerary is
		// only bookable for as many travelers as every segment can seat.
		composite.SeatsAvailable = seats

	default:
		return nil, ErrWrongFlow
	}

	return &Handoff{Flight: composite, Passengers: f.Passengers()}, nil
}

// Complete reports whether every leg has a selection.
func (f *Flow) Complete() bool {
	switch f.tripType {
	case models.TripOneWay:
		return f.departure != nil
	case models.TripRoundTrip:
		return f.departure != nil && f.rtrn != nil
	default:
		for _, sel := range f.selected {
			if sel == nil {
				return false
			}
		}
		return true
	}
}
