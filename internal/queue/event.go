// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a reservation commits. It
// carries enough information for downstream consumers to build the
// audit trail without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   string `json:"booking_id"`
	UserID      string `json:"user_id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Slot        string `json:"slot"`
	Address     string `json:"address"`
	ConfirmedAt string `json:"confirmed_at"`
}
