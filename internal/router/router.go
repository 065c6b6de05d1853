// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/carwash-slot-booking/internal/handler"
	"github.com/iliyamo/carwash-slot-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check for load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterReservation registers the customer-facing reservation
// endpoint under /v1. The route requires a valid token from the
// external auth service with the CUSTOMER role, and is protected by
// the token-bucket rate limiter since it is the only write path
// customers can hit.
func RegisterReservation(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
		limiter,
	)
	g.POST("/services/:id/reservations", h.Reserve)
}

// RegisterOperator registers operator endpoints under /v1: catalog
// management and the booking status workflow. All routes require the
// OPERATOR role.
func RegisterOperator(e *echo.Echo, h *handler.OperatorHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OPERATOR"),
	)
	g.POST("/services", h.CreateService)
	g.PUT("/services/:id/slots", h.ReplaceSlots)
	g.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
	g.DELETE("/bookings/:id", h.DeleteBooking)
}
