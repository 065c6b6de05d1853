package model

import "time"

// Service represents a bookable carwash service as stored in the
// `services` table. A service owns the pool of time slots that may
// be reserved by customers. Slots are RFC3339 UTC strings and each
// timestamp appears at most once in AvailableSlots.
//
// Fields:
//  ID             – opaque unique identifier (UUID string).
//  Name           – display name of the service.
//  PriceCents     – price in cents.
//  DurationMin    – duration of one appointment in minutes.
//  AvailableSlots – ordered list of bookable instants (RFC3339 UTC).
//  Version        – optimistic locking token; bumped on every write
//                   to AvailableSlots so concurrent writers are
//                   detected at commit time.
//  CreatedAt      – timestamp when the record was created.
//  UpdatedAt      – timestamp of the last modification.
type Service struct {
	ID             string    // services.id
	Name           string    // services.name
	PriceCents     uint32    // services.price_cents
	DurationMin    uint32    // services.duration_min
	AvailableSlots []string  // services.available_slots (JSON array)
	Version        uint64    // services.version
	CreatedAt      time.Time // services.created_at
	UpdatedAt      time.Time // services.updated_at
}
