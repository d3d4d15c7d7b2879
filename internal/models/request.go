package models

// TripType selects which booking flow a search feeds.
type TripType string

const (
	TripOneWay    TripType = "oneway"
	TripRoundTrip TripType = "roundtrip"
	TripMultiCity TripType = "multicity"
)

// SearchRequest carries one search session's parameters. For oneway and
// roundtrip the From/To/DepartDate fields are used; multicity uses Segments
// instead, one backend call per entry.
type SearchRequest struct {
	TripType     TripType  `json:"tripType"`
	From         string    `json:"from,omitempty"`
	To           string    `json:"to,omitempty"`
	DepartDate   string    `json:"departDate,omitempty"`
	ReturnDate   string    `json:"returnDate,omitempty"`
	Segments     []Segment `json:"segments,omitempty"`
	Adults       int       `json:"adults"`
	Children     int       `json:"children"`
	CurrencyCode string    `json:"currencyCode,omitempty"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingParameters  ValidationError = "Missing search parameters. Please try again."
	ErrInvalidMultiCity   ValidationError = "Invalid multi-city search parameters. Please try again."
	ErrMissingPassengers  ValidationError = "At least one adult or child passenger is required."
	ErrUnknownTripType    ValidationError = "Unknown trip type."
	ErrIncompleteSegments ValidationError = "Every segment needs an origin, destination and date."
)

func (r *SearchRequest) Validate() error {
	if r.CurrencyCode == "" {
		r.CurrencyCode = "INR"
	}
	if r.TripType == "" {
		if len(r.Segments) > 0 {
			r.TripType = TripMultiCity
		} else if r.ReturnDate != "" {
			r.TripType = TripRoundTrip
		} else {
			r.TripType = TripOneWay
		}
	}
	if r.Adults <= 0 && r.Children <= 0 {
		return ErrMissingPassengers
	}

	switch r.TripType {
	case TripOneWay:
		if r.From == "" || r.To == "" || r.DepartDate == "" {
			return ErrMissingParameters
		}
	case TripRoundTrip:
		if r.From == "" || r.To == "" || r.DepartDate == "" || r.ReturnDate == "" {
			return ErrMissingParameters
		}
	case TripMultiCity:
		if len(r.Segments) < 2 {
			return ErrInvalidMultiCity
		}
		for _, seg := range r.Segments {
			if seg.From == "" || seg.To == "" || seg.Date == "" {
				return ErrIncompleteSegments
			}
		}
	default:
		return ErrUnknownTripType
	}
	return nil
}

// Passengers is the headcount handed off to passenger details.
func (r *SearchRequest) Passengers() int {
	return r.Adults + r.Children
}

// SegmentCount is the number of leg selections the booking flow needs.
func (r *SearchRequest) SegmentCount() int {
	if r.TripType == TripMultiCity {
		return len(r.Segments)
	}
	return 1
}
