package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tripveda/flightdesk/internal/models"
	"github.com/tripveda/flightdesk/internal/orchestrator"
)

// SearchHandler serves the stateless search proxy: one backend fetch (or a
// cache hit), no session, the raw candidate list in the upstream's
// flightsAvailable envelope.
type SearchHandler struct {
	orch *orchestrator.Orchestrator
}

func NewSearchHandler(orch *orchestrator.Orchestrator) *SearchHandler {
	return &SearchHandler{orch: orch}
}

func (h *SearchHandler) Search(c echo.Context) error {
	req := models.SearchRequest{
		From:         c.QueryParam("originLocationCode"),
		To:           c.QueryParam("destinationLocationCode"),
		DepartDate:   c.QueryParam("departureDate"),
		ReturnDate:   c.QueryParam("returnDate"),
		CurrencyCode: c.QueryParam("currencyCode"),
		Adults:       intQueryParam(c, "adults"),
		Children:     intQueryParam(c, "children"),
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	result := h.orch.Run(c.Request().Context(), req)
	if result.ErrorMessage != "" {
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "search_error",
			Message: result.ErrorMessage,
			Code:    http.StatusBadGateway,
		})
	}

	flights := result.Candidates[0]
	return c.JSON(http.StatusOK, models.SearchResponse{
		Criteria: req,
		Metadata: models.SearchMetadata{
			TotalResults: len(flights),
			SearchTimeMs: result.Elapsed.Milliseconds(),
			CacheHit:     result.CacheHit,
		},
		FlightsAvailable: flights,
	})
}

func intQueryParam(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
