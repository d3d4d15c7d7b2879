package models

// Leg is one physical aircraft segment between two airports. Legs are
// immutable once received from the search backend; timestamps and durations
// stay in their wire form (strings) and are parsed leniently where needed.
type Leg struct {
	LegNo                string  `json:"legNo"`
	FlightNumber         string  `json:"flightNumber"`
	OperatingCarrierCode string  `json:"operatingCarrierCode"`
	AircraftCode         string  `json:"aircraftCode"`
	DepartureAirport     string  `json:"departureAirport"`
	DepartureTerminal    string  `json:"departureTerminal,omitempty"`
	DepartureDateTime    string  `json:"departureDateTime"`
	ArrivalAirport       string  `json:"arrivalAirport"`
	ArrivalTerminal      string  `json:"arrivalTerminal,omitempty"`
	ArrivalDateTime      string  `json:"arrivalDateTime"`
	Duration             string  `json:"duration"`
	LayoverAfter         *string `json:"layoverAfter"`
}

// Trip is one directional journey (outbound or return) composed of one or
// more legs in flight order. Stops is a pointer because some backends omit
// it; a missing stop count renders as "Unknown" rather than zero.
type Trip struct {
	From                 string `json:"from"`
	To                   string `json:"to"`
	Stops                *int   `json:"stops"`
	TotalFlightDuration  string `json:"totalFlightDuration"`
	TotalLayoverDuration string `json:"totalLayoverDuration"`
	Legs                 []Leg  `json:"legs"`
}

// Consistent reports whether consecutive legs chain: leg i must arrive at
// the airport leg i+1 departs from.
func (t Trip) Consistent() bool {
	for i := 0; i+1 < len(t.Legs); i++ {
		if t.Legs[i].ArrivalAirport != t.Legs[i+1].DepartureAirport {
			return false
		}
	}
	return true
}

// Flight is one priced, bookable fare offer. Trips holds the outbound trip
// at index 0 and, for round trips, the return trip at index 1.
// PricingAdditionalInfo is an opaque payload passed through unmodified to
// the downstream order API.
type Flight struct {
	OneWay                bool   `json:"oneWay"`
	SeatsAvailable        int    `json:"seatsAvailable"`
	CurrencyCode          string `json:"currencyCode"`
	BasePrice             string `json:"basePrice"`
	TotalPrice            string `json:"totalPrice"`
	Trips                 []Trip `json:"trips"`
	PricingAdditionalInfo string `json:"pricingAdditionalInfo,omitempty"`
}

// Segment is a user-specified multi-city leg request. It is a query, not a
// trip: each segment produces one search call against the backend.
type Segment struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
}
