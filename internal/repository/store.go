package repository

import (
	"context"
	"time"
)

// ServiceSnapshot is the read-time view of a service handed to the
// reservation coordinator. It carries everything the coordinator
// needs to validate and build a booking; the accompanying version
// token travels separately so a later commit can prove the snapshot
// is still current.
type ServiceSnapshot struct {
	ID             string
	Name           string
	PriceCents     uint32
	DurationMin    uint32
	AvailableSlots []string
}

// BookingRecord mirrors the schema of the bookings table. It is the
// shape written into the ledger; business logic should use
// model.Booking for anything beyond persistence.
type BookingRecord struct {
	ID            string
	UserID        string
	ServiceID     string
	ServiceName   string
	Slot          string
	Address       string
	Status        string
	PaymentStatus string
	CreatedAt     time.Time
}

// SlotStore is the transactional contract the reservation coordinator
// depends on. Any store offering an atomic compare-and-swap over one
// service record plus one booking insert satisfies it.
//
// ReadServiceForUpdate returns the current snapshot of a service and
// its version token, or ErrServiceNotFound.
//
// CommitIfUnchanged atomically replaces the service's slot list and,
// when booking is non-nil, appends the booking to the ledger, but
// only if the service's version still equals the supplied token. On a
// stale token it returns ErrConflict and writes nothing. On success
// the booking's CreatedAt is populated with the commit time.
type SlotStore interface {
	ReadServiceForUpdate(ctx context.Context, serviceID string) (*ServiceSnapshot, uint64, error)
	CommitIfUnchanged(ctx context.Context, serviceID string, version uint64, newSlots []string, booking *BookingRecord) error
}

// ServiceCatalog covers the operator-side catalog writes: creating a
// service with its initial slot pool. Slot edits on an existing
// service go through SlotStore.CommitIfUnchanged so that every
// mutation of the slot pool is version-checked.
type ServiceCatalog interface {
	CreateService(ctx context.Context, snap *ServiceSnapshot) error
}

// BookingLedger covers the operator workflow on existing bookings.
// UpdateBookingStatus performs a guarded transition: the row is only
// updated while its status still equals from, otherwise
// ErrStatusConflict is returned.
type BookingLedger interface {
	GetBooking(ctx context.Context, bookingID string) (*BookingRecord, error)
	UpdateBookingStatus(ctx context.Context, bookingID, from, to string) error
	DeleteBooking(ctx context.Context, bookingID string) error
}
