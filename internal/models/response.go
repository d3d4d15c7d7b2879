package models

// SearchMetadata describes how a search response was produced.
type SearchMetadata struct {
	TotalResults int    `json:"total_results"`
	SearchTimeMs int64  `json:"search_time_ms"`
	CacheHit     bool   `json:"cache_hit"`
	Error        string `json:"error,omitempty"`
}

// SearchResponse is the stateless search envelope. FlightsAvailable keeps
// the upstream field name so existing consumers keep working.
type SearchResponse struct {
	Criteria         SearchRequest  `json:"search_criteria"`
	Metadata         SearchMetadata `json:"metadata"`
	FlightsAvailable []Flight       `json:"flightsAvailable"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
