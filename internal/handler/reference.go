package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripveda/flightdesk/internal/models"
	"github.com/tripveda/flightdesk/internal/refdata"
)

// ReferenceHandler exposes the airline/airport lookup tables so display
// components resolve codes from one place instead of shipping their own
// copies.
type ReferenceHandler struct {
	ref *refdata.Service
}

func NewReferenceHandler(ref *refdata.Service) *ReferenceHandler {
	return &ReferenceHandler{ref: ref}
}

func (h *ReferenceHandler) Airline(c echo.Context) error {
	code := c.Param("code")
	return c.JSON(http.StatusOK, map[string]string{
		"code": code,
		"name": h.ref.AirlineName(code),
		"icon": h.ref.AirlineIcon(code),
	})
}

func (h *ReferenceHandler) Airport(c echo.Context) error {
	code := c.Param("code")
	airport, ok := h.ref.Airport(code)
	if !ok {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Unknown airport code.",
			Code:    http.StatusNotFound,
		})
	}
	return c.JSON(http.StatusOK, airport)
}
