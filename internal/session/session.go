// Package session owns the server-side state of one search-and-book
// interaction: the search request, the fetched candidate lists, and the
// booking flow walking over them. Sessions live in memory for the duration
// of one search session and expire on a sweep.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/tripveda/flightdesk/internal/booking"
	"github.com/tripveda/flightdesk/internal/models"
)

// Session is one live search-and-book interaction. All state transitions
// go through its methods, which serialize access with the session lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	request      models.SearchRequest
	flow         *booking.Flow
	candidates   [][]models.Flight
	searchError  string
	cacheHit     bool
	updatedAt    time.Time
	cancelSearch context.CancelFunc
}

func newSession(id string, req models.SearchRequest) (*Session, error) {
	flow, err := booking.NewFlow(req)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		request:   req,
		flow:      flow,
		updatedAt: now,
	}, nil
}

// BeginSearch hands out a context for a candidate fetch, canceling any
// fetch still in flight for this session so a stale result cannot land
// after a newer one.
func (s *Session) BeginSearch(parent context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelSearch != nil {
		s.cancelSearch()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancelSearch = cancel
	return ctx
}

// ApplyResult installs freshly fetched candidate lists and resets the flow:
// selections made against an older candidate set are no longer valid.
func (s *Session) ApplyResult(candidates [][]models.Flight, searchError string, cacheHit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := booking.NewFlow(s.request)
	if err != nil {
		return err
	}
	s.flow = flow
	s.candidates = candidates
	s.searchError = searchError
	s.cacheHit = cacheHit
	s.updatedAt = time.Now()
	return nil
}

// Request returns the session's search parameters.
func (s *Session) Request() models.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	ID          string
	Request     models.SearchRequest
	Step        booking.Step
	Departure   *models.Flight
	Return      *models.Flight
	Selected    []*models.Flight
	SearchError string
	CacheHit    bool
	Complete    bool
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:          s.ID,
		Request:     s.request,
		Step:        s.flow.Step(),
		Departure:   s.flow.Departure(),
		Return:      s.flow.Return(),
		Selected:    s.flow.Selected(),
		SearchError: s.searchError,
		CacheHit:    s.cacheHit,
		Complete:    s.flow.Complete(),
	}
}

// CurrentCandidates returns the unfiltered candidate list for the current
// step. Round trips share one list between the departure and return steps;
// multi-city uses its segment's list. At review there is nothing to pick.
func (s *Session) CurrentCandidates() ([]models.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentCandidatesLocked()
}

func (s *Session) currentCandidatesLocked() ([]models.Flight, bool) {
	step := s.flow.Step()
	switch {
	case step == booking.StepDeparture || step == booking.StepReturn:
		if len(s.candidates) == 0 {
			return nil, false
		}
		return s.candidates[0], true
	case booking.SegmentIndex(step) >= 0:
		i := booking.SegmentIndex(step)
		if i >= len(s.candidates) {
			return nil, false
		}
		return s.candidates[i], true
	default:
		return nil, false
	}
}

// Select picks the flight at index in the current step's unfiltered
// candidate list and advances the flow. The returned handoff is non-nil
// only for one-way sessions, which skip review.
func (s *Session) Select(index int) (*booking.Handoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.currentCandidatesLocked()
	if !ok {
		return nil, booking.ErrWrongStep
	}
	if index < 0 || index >= len(list) {
		return nil, ErrBadIndex
	}
	flight := list[index]

	step := s.flow.Step()
	s.updatedAt = time.Now()
	switch {
	case step == booking.StepDeparture:
		return s.flow.SelectDeparture(flight)
	case step == booking.StepReturn:
		return nil, s.flow.SelectReturn(flight)
	default:
		return nil, s.flow.SelectSegment(booking.SegmentIndex(step), flight)
	}
}

// Change rewinds the flow to an earlier step, retaining selections.
func (s *Session) Change(step booking.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	return s.flow.ChangeTo(step)
}

// Confirm finalizes the review step into the passenger-details handoff.
func (s *Session) Confirm() (*booking.Handoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	return s.flow.ConfirmReview()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}
