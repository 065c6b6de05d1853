package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/carwash-slot-booking/internal/booking"
	"github.com/iliyamo/carwash-slot-booking/internal/queue"
	"github.com/iliyamo/carwash-slot-booking/internal/repository"
)

// ReservationHandler exposes the customer-facing reservation endpoint.
// It assumes JWT authentication has already run, so the user ID in the
// context is the identity established by the external auth service.
// The handler itself holds no reservation logic: it validates input,
// delegates to the retry driver and translates sentinel errors into
// HTTP responses.
type ReservationHandler struct {
	Driver *booking.RetryDriver
	Ledger repository.BookingLedger
	// Publish is called after a successful reservation. It may be nil,
	// and failures are ignored: the booking is already durable.
	Publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewReservationHandler constructs a ReservationHandler. Driver and
// ledger must be non-nil; publish may be nil to disable events.
func NewReservationHandler(driver *booking.RetryDriver, ledger repository.BookingLedger, publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error) *ReservationHandler {
	if driver == nil || ledger == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Driver: driver, Ledger: ledger, Publish: publish}
}

// Reserve handles POST /v1/services/:id/reservations. The body must
// contain a JSON object with "slot" (RFC3339 timestamp) and "address".
// On success it returns 201 with the new booking's ID. Slot conflicts
// map to 409 so the client can prompt for a different slot, while
// exhausted retries map to 503 with a retry hint.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	serviceID := c.Param("id")
	if serviceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	var body struct {
		Slot    string `json:"slot"`
		Address string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, err := time.Parse(time.RFC3339, body.Slot); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot must be an RFC3339 timestamp"})
	}
	address := strings.TrimSpace(body.Address)
	if address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "address is required"})
	}

	ctx := c.Request().Context()
	bookingID, err := h.Driver.ReserveWithRetry(ctx, serviceID, body.Slot, userID, address)
	if err != nil {
		return reservationError(c, err)
	}

	h.publishConfirmed(bookingID)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": bookingID,
	})
}

// publishConfirmed emits the booking.confirmed event in the background.
// The booking is re-read from the ledger so the event reflects exactly
// what was committed.
func (h *ReservationHandler) publishConfirmed(bookingID string) {
	if h.Publish == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		b, err := h.Ledger.GetBooking(ctx, bookingID)
		if err != nil {
			return
		}
		_ = h.Publish(ctx, queue.BookingConfirmedEvent{
			BookingID:   b.ID,
			UserID:      b.UserID,
			ServiceID:   b.ServiceID,
			ServiceName: b.ServiceName,
			Slot:        b.Slot,
			Address:     b.Address,
			ConfirmedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}()
}

// reservationError maps sentinel errors from the reservation core to
// HTTP responses. The hint field tells clients whether to re-pick the
// slot or simply retry later.
func reservationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrServiceNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	case errors.Is(err, repository.ErrSlotUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "slot unavailable",
			"hint":  "pick another slot",
		})
	case errors.Is(err, repository.ErrConflictExhausted):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error": "service is busy",
			"hint":  "try again",
		})
	case errors.Is(err, repository.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away; 499-style cut-off is not in net/http, use 503.
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request cancelled"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
	}
}
