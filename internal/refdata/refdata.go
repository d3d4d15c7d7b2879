// Package refdata provides airline and airport reference data as an
// injected service. Components receive a *Service instead of each carrying
// their own copy of the lookup tables.
package refdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed airlines.json
var airlinesData []byte

//go:embed airports.json
var airportsData []byte

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type Airport struct {
	Code    string `json:"code"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Service struct {
	airlines map[string]Airline
	airports map[string]Airport
}

// NewService loads the embedded reference tables.
func NewService() (*Service, error) {
	var airlines []Airline
	if err := json.Unmarshal(airlinesData, &airlines); err != nil {
		return nil, fmt.Errorf("parsing airline data: %w", err)
	}
	var airports []Airport
	if err := json.Unmarshal(airportsData, &airports); err != nil {
		return nil, fmt.Errorf("parsing airport data: %w", err)
	}

	s := &Service{
		airlines: make(map[string]Airline, len(airlines)),
		airports: make(map[string]Airport, len(airports)),
	}
	for _, a := range airlines {
		s.airlines[strings.ToUpper(a.Code)] = a
	}
	for _, a := range airports {
		s.airports[strings.ToUpper(a.Code)] = a
	}
	return s, nil
}

// AirlineName resolves a carrier code to its display name, falling back to
// the code itself for carriers not in the table.
func (s *Service) AirlineName(code string) string {
	if a, ok := s.airlines[strings.ToUpper(code)]; ok {
		return a.Name
	}
	return code
}

// AirlineIcon resolves a carrier code to a logo URL. Unknown carriers get
// the generic logo-CDN pattern.
func (s *Service) AirlineIcon(code string) string {
	code = strings.ToUpper(code)
	if a, ok := s.airlines[code]; ok && a.Icon != "" {
		return a.Icon
	}
	return fmt.Sprintf("https://content.airhex.com/content/logos/airlines_%s_75_75_s.png", code)
}

// Airport resolves an airport code.
func (s *Service) Airport(code string) (Airport, bool) {
	a, ok := s.airports[strings.ToUpper(code)]
	return a, ok
}

// AirlineCount reports how many airlines are loaded.
func (s *Service) AirlineCount() int {
	return len(s.airlines)
}
