package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/carwash-slot-booking/internal/model"
	"github.com/iliyamo/carwash-slot-booking/internal/repository"
)

// UpdateBookingStatus handles PATCH /v1/bookings/:id/status. Only the
// transitions in model.CanTransition are accepted; the update is
// guarded on the status that was read, so two operators racing on the
// same booking cannot both win. Payment status is never touched here.
func (h *OperatorHandler) UpdateBookingStatus(c echo.Context) error {
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	b, err := h.Ledger.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	if !model.CanTransition(b.Status, status) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "invalid status transition",
			"status": b.Status,
		})
	}
	if err := h.Ledger.UpdateBookingStatus(ctx, bookingID, b.Status, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrStatusConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking status changed, reload and retry"})
		default:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": bookingID,
		"status":     status,
	})
}

// DeleteBooking handles DELETE /v1/bookings/:id. Deleting a booking is
// an admin cleanup operation: it removes the ledger row only and never
// returns the slot to the service's pool.
func (h *OperatorHandler) DeleteBooking(c echo.Context) error {
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Ledger.DeleteBooking(c.Request().Context(), bookingID); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	return c.NoContent(http.StatusNoContent)
}
