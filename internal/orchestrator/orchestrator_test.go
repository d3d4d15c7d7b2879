package orchestrator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripveda/flightdesk/internal/backend"
	"github.com/tripveda/flightdesk/internal/models"
)

type fakeSearcher struct {
	mu      sync.Mutex
	queries []backend.Query

	// per-origin canned responses; fall through to err
	flights map[string][]models.Flight
	errs    map[string]error
}

func (f *fakeSearcher) Search(ctx context.Context, q backend.Query) ([]models.Flight, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if err, ok := f.errs[q.Origin]; ok {
		return nil, err
	}
	return f.flights[q.Origin], nil
}

type fakeCache struct {
	stored  map[string][]models.Flight
	served  []models.Flight
	hasHit  bool
	setKeys int
}

func (f *fakeCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Flight, bool) {
	if f.hasHit {
		return f.served, true
	}
	return nil, false
}

func (f *fakeCache) Set(ctx context.Context, req models.SearchRequest, flights []models.Flight) error {
	f.setKeys++
	if f.stored == nil {
		f.stored = map[string][]models.Flight{}
	}
	f.stored[req.From+req.To] = flights
	return nil
}

func (f *fakeCache) Close() error { return nil }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func flightNamed(number string) models.Flight {
	return models.Flight{
		OneWay:     true,
		TotalPrice: "5000",
		Trips: []models.Trip{{
			Legs: []models.Leg{{FlightNumber: number}},
		}},
	}
}

func oneWayReq() models.SearchRequest {
	return models.SearchRequest{
		TripType:   models.TripOneWay,
		From:       "DEL",
		To:         "BOM",
		DepartDate: "2025-09-01",
		Adults:     1,
	}
}

func TestRunSingleSuccess(t *testing.T) {
	searcher := &fakeSearcher{
		flights: map[string][]models.Flight{"DEL": {flightNamed("101")}},
	}
	fc := &fakeCache{}
	orch := New(searcher, fc, quietLogger())

	result := orch.Run(context.Background(), oneWayReq())
	require.Len(t, result.Candidates, 1)
	require.Len(t, result.Candidates[0], 1)
	assert.Empty(t, result.ErrorMessage)
	assert.False(t, result.CacheHit)
	assert.Equal(t, 1, fc.setKeys)
}

func TestRunSingleCacheHitSkipsBackend(t *testing.T) {
	searcher := &fakeSearcher{}
	fc := &fakeCache{hasHit: true, served: []models.Flight{flightNamed("777")}}
	orch := New(searcher, fc, quietLogger())

	result := orch.Run(context.Background(), oneWayReq())
	assert.True(t, result.CacheHit)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "777", result.Candidates[0][0].Trips[0].Legs[0].FlightNumber)
	assert.Empty(t, searcher.queries)
}

func TestRunSingleBackendErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"bad request", &backend.HTTPError{StatusCode: 400}, "Invalid search parameters."},
		{"server error", &backend.HTTPError{StatusCode: 500}, "Server error. Please try again later."},
		{"other status", &backend.HTTPError{StatusCode: 503}, "HTTP error 503"},
		{"transport", errors.New("connection refused"), "Failed to fetch flights. Please try again."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			searcher := &fakeSearcher{errs: map[string]error{"DEL": tc.err}}
			orch := New(searcher, &fakeCache{}, quietLogger())

			result := orch.Run(context.Background(), oneWayReq())
			assert.Equal(t, tc.want, result.ErrorMessage)
			require.Len(t, result.Candidates, 1)
			assert.Empty(t, result.Candidates[0])
		})
	}
}

func TestRunSingleErrorNotCached(t *testing.T) {
	searcher := &fakeSearcher{errs: map[string]error{"DEL": errors.New("boom")}}
	fc := &fakeCache{}
	orch := New(searcher, fc, quietLogger())

	orch.Run(context.Background(), oneWayReq())
	assert.Zero(t, fc.setKeys)
}

func TestRunRoundTripPassesReturnDate(t *testing.T) {
	searcher := &fakeSearcher{}
	orch := New(searcher, &fakeCache{}, quietLogger())

	orch.Run(context.Background(), models.SearchRequest{
		TripType:   models.TripRoundTrip,
		From:       "DEL",
		To:         "BOM",
		DepartDate: "2025-09-01",
		ReturnDate: "2025-09-05",
		Adults:     2,
	})
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "2025-09-05", searcher.queries[0].ReturnDate)
	assert.Equal(t, 2, searcher.queries[0].Adults)
}

func TestRunMultiCityPartialFailure(t *testing.T) {
	searcher := &fakeSearcher{
		flights: map[string][]models.Flight{
			"DEL": {flightNamed("101")},
			"BLR": {flightNamed("303"), flightNamed("304")},
		},
		errs: map[string]error{
			"BOM": &backend.HTTPError{StatusCode: 500},
		},
	}
	orch := New(searcher, &fakeCache{}, quietLogger())

	result := orch.Run(context.Background(), models.SearchRequest{
		TripType: models.TripMultiCity,
		Segments: []models.Segment{
			{From: "DEL", To: "BOM", Date: "2025-09-01"},
			{From: "BOM", To: "BLR", Date: "2025-09-02"},
			{From: "BLR", To: "HYD", Date: "2025-09-03"},
		},
		Adults: 1,
	})

	require.Len(t, result.Candidates, 3)
	assert.Len(t, result.Candidates[0], 1)
	assert.Empty(t, result.Candidates[1])
	assert.Len(t, result.Candidates[2], 2)
	assert.Equal(t, "Segment 2: Server error. Please try again later.", result.ErrorMessage)
	assert.Len(t, searcher.queries, 3)
}

func TestRunMultiCityBadRequestMessage(t *testing.T) {
	searcher := &fakeSearcher{
		errs: map[string]error{
			"DEL": &backend.HTTPError{StatusCode: 400},
			"BOM": errors.New("dial tcp: lookup failed"),
		},
	}
	orch := New(searcher, &fakeCache{}, quietLogger())

	result := orch.Run(context.Background(), models.SearchRequest{
		TripType: models.TripMultiCity,
		Segments: []models.Segment{
			{From: "DEL", To: "BOM", Date: "2025-09-01"},
			{From: "BOM", To: "BLR", Date: "2025-09-02"},
		},
		Adults: 1,
	})

	assert.Equal(t,
		"Segment 1: Invalid parameters for segment DEL to BOM.; Segment 2: dial tcp: lookup failed",
		result.ErrorMessage)
	require.Len(t, result.Candidates, 2)
	assert.Empty(t, result.Candidates[0])
	assert.Empty(t, result.Candidates[1])
}

func TestRunMultiCityAllSucceed(t *testing.T) {
	searcher := &fakeSearcher{
		flights: map[string][]models.Flight{
			"DEL": {flightNamed("101")},
			"BOM": {flightNamed("202")},
		},
	}
	orch := New(searcher, &fakeCache{}, quietLogger())

	result := orch.Run(context.Background(), models.SearchRequest{
		TripType: models.TripMultiCity,
		Segments: []models.Segment{
			{From: "DEL", To: "BOM", Date: "2025-09-01"},
			{From: "BOM", To: "BLR", Date: "2025-09-02"},
		},
		Adults: 1,
	})

	assert.Empty(t, result.ErrorMessage)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "101", result.Candidates[0][0].Trips[0].Legs[0].FlightNumber)
	assert.Equal(t, "202", result.Candidates[1][0].Trips[0].Legs[0].FlightNumber)
}

func TestNewNilCacheFallsBackToNoOp(t *testing.T) {
	searcher := &fakeSearcher{flights: map[string][]models.Flight{"DEL": {flightNamed("101")}}}
	orch := New(searcher, nil, quietLogger())

	result := orch.Run(context.Background(), oneWayReq())
	assert.False(t, result.CacheHit)
	require.Len(t, result.Candidates, 1)
}
