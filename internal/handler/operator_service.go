package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/carwash-slot-booking/internal/booking"
	"github.com/iliyamo/carwash-slot-booking/internal/repository"
)

// OperatorHandler groups the operator-side endpoints: creating
// services with their slot pools, replacing slot pools, and the
// booking status workflow. All routes require the OPERATOR role.
// Slot edits run through the same version-checked commit path as
// reservations, so operators and customers racing on the same service
// are serialized by the store.
type OperatorHandler struct {
	Catalog repository.ServiceCatalog
	Ledger  repository.BookingLedger
	Driver  *booking.RetryDriver
}

// NewOperatorHandler constructs an OperatorHandler. All dependencies
// must be non-nil.
func NewOperatorHandler(catalog repository.ServiceCatalog, ledger repository.BookingLedger, driver *booking.RetryDriver) *OperatorHandler {
	if catalog == nil || ledger == nil || driver == nil {
		panic("nil dependency passed to NewOperatorHandler")
	}
	return &OperatorHandler{Catalog: catalog, Ledger: ledger, Driver: driver}
}

// CreateService handles POST /v1/services. The body carries the
// service name, price, duration and the initial slot pool. Slots are
// validated as RFC3339, normalized to UTC and must be unique.
func (h *OperatorHandler) CreateService(c echo.Context) error {
	var body struct {
		Name           string   `json:"name"`
		PriceCents     uint32   `json:"price_cents"`
		DurationMin    uint32   `json:"duration_min"`
		AvailableSlots []string `json:"available_slots"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	slots, err := normalizeSlots(body.AvailableSlots)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	snap := &repository.ServiceSnapshot{
		ID:             uuid.NewString(),
		Name:           name,
		PriceCents:     body.PriceCents,
		DurationMin:    body.DurationMin,
		AvailableSlots: slots,
	}
	if err := h.Catalog.CreateService(c.Request().Context(), snap); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create service"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":              snap.ID,
		"name":            snap.Name,
		"price_cents":     snap.PriceCents,
		"duration_min":    snap.DurationMin,
		"available_slots": snap.AvailableSlots,
	})
}

// ReplaceSlots handles PUT /v1/services/:id/slots. It swaps the full
// slot pool of a service; racing reservations are handled by the
// retry driver like any other optimistic conflict.
func (h *OperatorHandler) ReplaceSlots(c echo.Context) error {
	serviceID := c.Param("id")
	if serviceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	var body struct {
		AvailableSlots []string `json:"available_slots"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	slots, err := normalizeSlots(body.AvailableSlots)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Driver.ReplaceSlotsWithRetry(c.Request().Context(), serviceID, slots); err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"service_id":      serviceID,
		"available_slots": slots,
	})
}

// normalizeSlots validates every slot as an RFC3339 timestamp,
// normalizes it to UTC, and rejects duplicates. A service never
// offers the same timestamp twice; the reservation flow preserves
// that because it only ever removes entries.
func normalizeSlots(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
		if err != nil {
			return nil, errors.New("slots must be RFC3339 timestamps")
		}
		norm := t.UTC().Format(time.RFC3339)
		if _, dup := seen[norm]; dup {
			return nil, errors.New("duplicate slot: " + norm)
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out, nil
}
