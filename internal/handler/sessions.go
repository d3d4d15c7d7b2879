package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tripveda/flightdesk/internal/booking"
	"github.com/tripveda/flightdesk/internal/filter"
	"github.com/tripveda/flightdesk/internal/metrics"
	"github.com/tripveda/flightdesk/internal/models"
	"github.com/tripveda/flightdesk/internal/orchestrator"
	"github.com/tripveda/flightdesk/internal/refdata"
	"github.com/tripveda/flightdesk/internal/session"
)

// SessionHandler serves the booking session lifecycle: create (runs the
// search), inspect, list filtered candidates, select, rewind, confirm.
type SessionHandler struct {
	store *session.Store
	orch  *orchestrator.Orchestrator
	ref   *refdata.Service
}

func NewSessionHandler(store *session.Store, orch *orchestrator.Orchestrator, ref *refdata.Service) *SessionHandler {
	return &SessionHandler{store: store, orch: orch, ref: ref}
}

type sessionView struct {
	ID                      string           `json:"id"`
	TripType                models.TripType  `json:"tripType"`
	Step                    booking.Step     `json:"step"`
	SelectedDepartureFlight *models.Flight   `json:"selectedDepartureFlight,omitempty"`
	SelectedReturnFlight    *models.Flight   `json:"selectedReturnFlight,omitempty"`
	SelectedFlights         []*models.Flight `json:"selectedFlights,omitempty"`
	Complete                bool             `json:"complete"`
	SearchError             string           `json:"searchError,omitempty"`
	CacheHit                bool             `json:"cacheHit"`
}

func viewOf(snap session.Snapshot) sessionView {
	return sessionView{
		ID:                      snap.ID,
		TripType:                snap.Request.TripType,
		Step:                    snap.Step,
		SelectedDepartureFlight: snap.Departure,
		SelectedReturnFlight:    snap.Return,
		SelectedFlights:         snap.Selected,
		Complete:                snap.Complete,
		SearchError:             snap.SearchError,
		CacheHit:                snap.CacheHit,
	}
}

// Create validates the search request, runs the orchestrator and stores a
// fresh session. Fetch failures do not fail the call: the session is
// created with empty candidate lists and a user-facing search error.
func (h *SessionHandler) Create(c echo.Context) error {
	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	sess, err := h.store.Create(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "session_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	ctx := sess.BeginSearch(c.Request().Context())
	result := h.orch.Run(ctx, req)
	if err := sess.ApplyResult(result.Candidates, result.ErrorMessage, result.CacheHit); err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "session_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusCreated, viewOf(sess.Snapshot()))
}

func (h *SessionHandler) Get(c echo.Context) error {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		return sessionNotFound(c)
	}
	return c.JSON(http.StatusOK, viewOf(sess.Snapshot()))
}

// Refresh re-runs the session's search with its original parameters,
// canceling any fetch still in flight and resetting the flow.
func (h *SessionHandler) Refresh(c echo.Context) error {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		return sessionNotFound(c)
	}

	ctx := sess.BeginSearch(c.Request().Context())
	result := h.orch.Run(ctx, sess.Request())
	if err := sess.ApplyResult(result.Candidates, result.ErrorMessage, result.CacheHit); err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "session_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
	return c.JSON(http.StatusOK, viewOf(sess.Snapshot()))
}

func (h *SessionHandler) Delete(c echo.Context) error {
	h.store.Delete(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

type airlineDetail struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type flightListResponse struct {
	Step            booking.Step      `json:"step"`
	Flights         []models.Flight   `json:"flights"`
	TotalResults    int               `json:"total_results"`
	UnfilteredTotal int               `json:"unfiltered_total"`
	Aggregates      filter.Aggregates `json:"aggregates"`
	AirlineDetails  []airlineDetail   `json:"airlineDetails"`
	SearchError     string            `json:"searchError,omitempty"`
}

// Flights returns the current step's candidates, filtered and sorted per
// the query parameters, plus the aggregates a filter UI needs. Aggregates
// always describe the unfiltered set.
func (h *SessionHandler) Flights(c echo.Context) error {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		return sessionNotFound(c)
	}

	candidates, ok := sess.CurrentCandidates()
	if !ok {
		return c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "wrong_step",
			Message: "No flights to choose at the current step.",
			Code:    http.StatusConflict,
		})
	}

	criteria := criteriaFromQuery(c)
	filtered := filter.Apply(candidates, criteria)
	agg := filter.Summarize(candidates)

	details := make([]airlineDetail, 0, len(agg.AvailableAirlines))
	for _, code := range agg.AvailableAirlines {
		details = append(details, airlineDetail{
			Code: code,
			Name: h.ref.AirlineName(code),
			Icon: h.ref.AirlineIcon(code),
		})
	}

	snap := sess.Snapshot()
	return c.JSON(http.StatusOK, flightListResponse{
		Step:            snap.Step,
		Flights:         filtered,
		TotalResults:    len(filtered),
		UnfilteredTotal: len(candidates),
		Aggregates:      agg,
		AirlineDetails:  details,
		SearchError:     snap.SearchError,
	})
}

type selectRequest struct {
	FlightIndex int `json:"flightIndex"`
}

// Select picks a flight by its index in the current step's unfiltered
// candidate list. One-way sessions respond with the handoff payload
// directly; other flows respond with the advanced session.
func (h *SessionHandler) Select(c echo.Context) error {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		return sessionNotFound(c)
	}

	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	handoff, err := sess.Select(req.FlightIndex)
	if err != nil {
		return bookingError(c, err)
	}
	metrics.FlowTransitions.WithLabelValues("select").Inc()

	if handoff != nil {
		return c.JSON(http.StatusOK, handoff)
	}
	return c.JSON(http.StatusOK, viewOf(sess.Snapshot()))
}

type changeRequest struct {
	Step booking.Step `json:"step"`
}

// Change rewinds the session to an earlier step. Later selections are
// retained until overwritten.
func (h *SessionHandler) Change(c echo.Context) error {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		return sessionNotFound(c)
	}

	var req changeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := sess.Change(req.Step); err != nil {
		return bookingError(c, err)
	}
	metrics.FlowTransitions.WithLabelValues("change").Inc()
	return c.JSON(http.StatusOK, viewOf(sess.Snapshot()))
}

// Confirm packages the review step's selections into the passenger-details
// handoff payload.
func (h *SessionHandler) Confirm(c echo.Context) error {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		return sessionNotFound(c)
	}

	handoff, err := sess.Confirm()
	if err != nil {
		return bookingError(c, err)
	}
	metrics.FlowTransitions.WithLabelValues("confirm").Inc()
	return c.JSON(http.StatusOK, handoff)
}

func criteriaFromQuery(c echo.Context) filter.Criteria {
	criteria := filter.Criteria{
		PriceMin: 0,
		PriceMax: math.Inf(1),
		SortBy:   filter.SortRecommended,
	}
	if v, err := strconv.ParseFloat(c.QueryParam("priceMin"), 64); err == nil {
		criteria.PriceMin = v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("priceMax"), 64); err == nil {
		criteria.PriceMax = v
	}
	if v := c.QueryParam("sortBy"); v != "" {
		criteria.SortBy = v
	}
	params := c.QueryParams()
	criteria.Stops = params["stops"]
	criteria.Airlines = params["airlines"]
	criteria.Times = params["times"]
	return criteria
}

func sessionNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: "Session not found or expired.",
		Code:    http.StatusNotFound,
	})
}

func bookingError(c echo.Context, err error) error {
	code := http.StatusConflict
	name := "wrong_step"
	switch {
	case errors.Is(err, session.ErrBadIndex), errors.Is(err, booking.ErrBadSegment):
		code = http.StatusBadRequest
		name = "bad_index"
	case errors.Is(err, booking.ErrIncomplete):
		name = "incomplete_selection"
	case errors.Is(err, booking.ErrWrongFlow):
		code = http.StatusBadRequest
		name = "wrong_flow"
	case errors.Is(err, booking.ErrNoTrips), errors.Is(err, booking.ErrNoReturnTrip):
		code = http.StatusUnprocessableEntity
		name = "malformed_selection"
	}
	return c.JSON(code, models.ErrorResponse{
		Error:   name,
		Message: err.Error(),
		Code:    code,
	})
}
