// Package orchestrator turns one validated search request into the backend
// call(s) it needs: a single fetch for one-way and round-trip searches, one
// fetch per segment fired concurrently for multi-city. Failures become
// user-facing messages here; they never propagate into the filter or
// booking core, which always receive usable (possibly empty) lists.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tripveda/flightdesk/internal/backend"
	"github.com/tripveda/flightdesk/internal/cache"
	"github.com/tripveda/flightdesk/internal/metrics"
	"github.com/tripveda/flightdesk/internal/models"
)

// Searcher is the slice of the backend client the orchestrator needs.
type Searcher interface {
	Search(ctx context.Context, q backend.Query) ([]models.Flight, error)
}

// Result is one completed orchestration. Candidates holds one list per
// booking leg: a single shared list for one-way and round-trip (round-trip
// fares carry both trips), one list per segment for multi-city. A failed
// fetch leaves its list empty and appends to ErrorMessage.
type Result struct {
	Candidates   [][]models.Flight
	ErrorMessage string
	CacheHit     bool
	Elapsed      time.Duration
}

type Orchestrator struct {
	searcher Searcher
	cache    cache.Cache
	log      *logrus.Logger
}

func New(searcher Searcher, c cache.Cache, log *logrus.Logger) *Orchestrator {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Orchestrator{searcher: searcher, cache: c, log: log}
}

// Run executes the request's fetches. It never returns an error: failures
// are folded into the result as empty lists plus a message, per segment for
// multi-city so one bad segment does not abort the others.
func (o *Orchestrator) Run(ctx context.Context, req models.SearchRequest) *Result {
	start := time.Now()

	var result *Result
	if req.TripType == models.TripMultiCity {
		result = o.runMultiCity(ctx, req)
	} else {
		result = o.runSingle(ctx, req)
	}

	result.Elapsed = time.Since(start)
	metrics.SearchDuration.Observe(result.Elapsed.Seconds())

	outcome := "ok"
	if result.ErrorMessage != "" {
		outcome = "error"
	}
	metrics.SearchesTotal.WithLabelValues(string(req.TripType), outcome).Inc()

	return result
}

func (o *Orchestrator) runSingle(ctx context.Context, req models.SearchRequest) *Result {
	if flights, found := o.cache.Get(ctx, req); found {
		metrics.CacheHits.Inc()
		return &Result{Candidates: [][]models.Flight{flights}, CacheHit: true}
	}

	q := backend.Query{
		Origin:        req.From,
		Destination:   req.To,
		DepartureDate: req.DepartDate,
		Adults:        req.Adults,
		Children:      req.Children,
		CurrencyCode:  req.CurrencyCode,
	}
	if req.TripType == models.TripRoundTrip {
		q.ReturnDate = req.ReturnDate
	}

	flights, err := o.searcher.Search(ctx, q)
	if err != nil {
		o.log.WithError(err).WithFields(logrus.Fields{
			"from": req.From,
			"to":   req.To,
		}).Error("flight search failed")
		return &Result{
			Candidates:   [][]models.Flight{{}},
			ErrorMessage: searchMessage(err),
		}
	}

	if err := o.cache.Set(ctx, req, flights); err != nil {
		o.log.WithError(err).Warn("caching search results failed")
	}
	return &Result{Candidates: [][]models.Flight{flights}}
}

func (o *Orchestrator) runMultiCity(ctx context.Context, req models.SearchRequest) *Result {
	lists := make([][]models.Flight, len(req.Segments))
	errs := make([]error, len(req.Segments))

	// Settle-all semantics: every segment fetch runs to completion (or its
	// own failure) regardless of the others, so no errgroup context here.
	var g errgroup.Group
	for i, seg := range req.Segments {
		i, seg := i, seg
		g.Go(func() error {
			flights, err := o.searcher.Search(ctx, backend.Query{
				Origin:        seg.From,
				Destination:   seg.To,
				DepartureDate: seg.Date,
				Adults:        req.Adults,
				Children:      req.Children,
				CurrencyCode:  req.CurrencyCode,
			})
			if err != nil {
				errs[i] = err
				lists[i] = []models.Flight{}
				return nil
			}
			lists[i] = flights
			return nil
		})
	}
	_ = g.Wait()

	var messages []string
	for i, err := range errs {
		if err == nil {
			continue
		}
		metrics.SegmentFailures.Inc()
		o.log.WithError(err).WithFields(logrus.Fields{
			"segment": i + 1,
			"from":    req.Segments[i].From,
			"to":      req.Segments[i].To,
		}).Error("segment search failed")
		messages = append(messages, fmt.Sprintf("Segment %d: %s", i+1, segmentMessage(req.Segments[i], err)))
	}

	return &Result{
		Candidates:   lists,
		ErrorMessage: strings.Join(messages, "; "),
	}
}

func searchMessage(err error) string {
	var httpErr *backend.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Error()
	}
	return "Failed to fetch flights. Please try again."
}

func segmentMessage(seg models.Segment, err error) string {
	var httpErr *backend.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 400 {
			return fmt.Sprintf("Invalid parameters for segment %s to %s.", seg.From, seg.To)
		}
		return httpErr.Error()
	}
	return err.Error()
}
