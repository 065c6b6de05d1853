package model

import "time"

// Booking statuses. A booking is created as StatusConfirmed by the
// reservation flow; later transitions are performed by the operator
// workflow, never by the reservation coordinator.
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment statuses. Bookings start as PaymentPending; marking a
// booking paid belongs to an external payment workflow.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Booking records a confirmed reservation of one slot of a service.
// Rows are append-only from the reservation flow's point of view:
// after creation only Status may change, and only through the
// operator workflow.
//
// Fields:
//  ID            – globally unique identifier (UUID string).
//  UserID        – identity of the requesting customer; supplied by
//                  the external auth layer and stored verbatim.
//  ServiceID     – weak reference to the booked service.
//  ServiceName   – service name denormalized at booking time.
//  Slot          – the reserved instant (RFC3339 UTC, column `datetime`).
//  Address       – free-text delivery address, trimmed.
//  Status        – confirmed | pending | completed | cancelled.
//  PaymentStatus – pending | paid.
//  CreatedAt     – server-assigned creation timestamp.
type Booking struct {
	ID            string    // bookings.id
	UserID        string    // bookings.user_id
	ServiceID     string    // bookings.service_id
	ServiceName   string    // bookings.service_name
	Slot          string    // bookings.datetime
	Address       string    // bookings.address
	Status        string    // bookings.status
	PaymentStatus string    // bookings.payment_status
	CreatedAt     time.Time // bookings.created_at
}

// statusTransitions enumerates the transitions the operator workflow
// may perform. Completed and cancelled are terminal.
var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a booking status may move from one
// value to another.
func CanTransition(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
