// Package repository defines the persistence contracts for the slot
// store and the booking ledger together with the sentinel errors the
// rest of the application matches on. Higher layers use errors.Is
// against these values to decide between retrying, surfacing a
// conflict, or reporting an infrastructure failure.
package repository

import "errors"

// ErrServiceNotFound is returned when a referenced service does not
// exist. It is a terminal business failure and is never retried.
var ErrServiceNotFound = errors.New("service not found")

// ErrBookingNotFound is returned when a referenced booking does not
// exist in the ledger.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotUnavailable is returned when the requested slot is not part
// of the service's current slot pool, either because a racing
// reservation consumed it or a catalog edit removed it. Callers
// should prompt for a different slot rather than retry.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrConflict is returned when an optimistic commit detects that the
// service record changed between read and write. The slot may still
// be free; the operation can be retried against fresh state.
var ErrConflict = errors.New("version conflict")

// ErrConflictExhausted is returned by the retry driver when every
// allowed attempt ended in ErrConflict. It is distinguishable from
// ErrSlotUnavailable so callers can suggest "try again later" instead
// of "pick another slot".
var ErrConflictExhausted = errors.New("conflict retries exhausted")

// ErrStoreUnavailable wraps infrastructure-level failures of the
// underlying store (connection refused, timeout). It is surfaced to
// the caller unretried; the infra layer decides what to do.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrStatusConflict is returned when an operator status update loses
// a race: the booking's status changed after it was read. Handlers
// should translate this into an HTTP 409 response.
var ErrStatusConflict = errors.New("status conflict")
