package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInfersTripType(t *testing.T) {
	r := SearchRequest{From: "DEL", To: "BOM", DepartDate: "2025-09-01", Adults: 1}
	require.NoError(t, r.Validate())
	assert.Equal(t, TripOneWay, r.TripType)

	r = SearchRequest{From: "DEL", To: "BOM", DepartDate: "2025-09-01", ReturnDate: "2025-09-05", Adults: 1}
	require.NoError(t, r.Validate())
	assert.Equal(t, TripRoundTrip, r.TripType)

	r = SearchRequest{
		Segments: []Segment{
			{From: "DEL", To: "BOM", Date: "2025-09-01"},
			{From: "BOM", To: "BLR", Date: "2025-09-02"},
		},
		Adults: 1,
	}
	require.NoError(t, r.Validate())
	assert.Equal(t, TripMultiCity, r.TripType)
}

func TestValidateDefaultsCurrency(t *testing.T) {
	r := SearchRequest{From: "DEL", To: "BOM", DepartDate: "2025-09-01", Adults: 1}
	require.NoError(t, r.Validate())
	assert.Equal(t, "INR", r.CurrencyCode)

	r = SearchRequest{From: "DEL", To: "BOM", DepartDate: "2025-09-01", Adults: 1, CurrencyCode: "USD"}
	require.NoError(t, r.Validate())
	assert.Equal(t, "USD", r.CurrencyCode)
}

func TestValidateErrors(t *testing.T) {
	r := SearchRequest{From: "DEL", To: "BOM", DepartDate: "2025-09-01"}
	assert.ErrorIs(t, r.Validate(), ErrMissingPassengers)

	r = SearchRequest{TripType: TripOneWay, From: "DEL", Adults: 1}
	assert.ErrorIs(t, r.Validate(), ErrMissingParameters)

	r = SearchRequest{TripType: TripRoundTrip, From: "DEL", To: "BOM", DepartDate: "2025-09-01", Adults: 1}
	assert.ErrorIs(t, r.Validate(), ErrMissingParameters)

	r = SearchRequest{TripType: TripMultiCity, Segments: []Segment{{From: "DEL", To: "BOM", Date: "2025-09-01"}}, Adults: 1}
	assert.ErrorIs(t, r.Validate(), ErrInvalidMultiCity)

	r = SearchRequest{
		TripType: TripMultiCity,
		Segments: []Segment{
			{From: "DEL", To: "BOM", Date: "2025-09-01"},
			{From: "BOM", To: "", Date: "2025-09-02"},
		},
		Adults: 1,
	}
	assert.ErrorIs(t, r.Validate(), ErrIncompleteSegments)

	r = SearchRequest{TripType: "charter", From: "DEL", To: "BOM", DepartDate: "2025-09-01", Adults: 1}
	assert.ErrorIs(t, r.Validate(), ErrUnknownTripType)
}

func TestValidateChildrenOnly(t *testing.T) {
	r := SearchRequest{From: "DEL", To: "BOM", DepartDate: "2025-09-01", Children: 2}
	assert.NoError(t, r.Validate())
	assert.Equal(t, 2, r.Passengers())
}

func TestSegmentCount(t *testing.T) {
	r := SearchRequest{TripType: TripRoundTrip}
	assert.Equal(t, 1, r.SegmentCount())

	r = SearchRequest{TripType: TripMultiCity, Segments: make([]Segment, 3)}
	assert.Equal(t, 3, r.SegmentCount())
}

func TestTripConsistent(t *testing.T) {
	good := Trip{Legs: []Leg{
		{DepartureAirport: "DEL", ArrivalAirport: "DXB"},
		{DepartureAirport: "DXB", ArrivalAirport: "LHR"},
	}}
	assert.True(t, good.Consistent())

	broken := Trip{Legs: []Leg{
		{DepartureAirport: "DEL", ArrivalAirport: "DXB"},
		{DepartureAirport: "AUH", ArrivalAirport: "LHR"},
	}}
	assert.False(t, broken.Consistent())

	assert.True(t, Trip{}.Consistent())
}
