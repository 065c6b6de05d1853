package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLStore binds the service and booking repositories into the
// SlotStore contract. It owns the transaction that makes the slot
// removal and the booking insert a single atomic unit: both are
// applied, or the transaction rolls back and neither is visible to
// any other reader.
type SQLStore struct {
	db       *sql.DB
	services *ServiceRepo
	bookings *BookingRepo
}

// NewSQLStore constructs a SQLStore over the given database handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:       db,
		services: NewServiceRepo(db),
		bookings: NewBookingRepo(db),
	}
}

// ReadServiceForUpdate implements SlotStore.
func (s *SQLStore) ReadServiceForUpdate(ctx context.Context, serviceID string) (*ServiceSnapshot, uint64, error) {
	return s.services.GetForUpdate(ctx, serviceID)
}

// CommitIfUnchanged implements SlotStore. The version-guarded slot
// update and the optional booking insert run in one transaction; a
// stale version token rolls everything back and surfaces ErrConflict.
func (s *SQLStore) CommitIfUnchanged(ctx context.Context, serviceID string, version uint64, newSlots []string, booking *BookingRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w (%v)", ErrStoreUnavailable, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.services.UpdateSlotsTx(ctx, tx, serviceID, version, newSlots); err != nil {
		return err
	}
	if booking != nil {
		if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w (%v)", ErrStoreUnavailable, err)
	}
	committed = true
	return nil
}

// CreateService implements ServiceCatalog.
func (s *SQLStore) CreateService(ctx context.Context, snap *ServiceSnapshot) error {
	return s.services.Create(ctx, snap)
}

// GetBooking implements BookingLedger.
func (s *SQLStore) GetBooking(ctx context.Context, bookingID string) (*BookingRecord, error) {
	return s.bookings.GetBooking(ctx, bookingID)
}

// UpdateBookingStatus implements BookingLedger.
func (s *SQLStore) UpdateBookingStatus(ctx context.Context, bookingID, from, to string) error {
	return s.bookings.UpdateBookingStatus(ctx, bookingID, from, to)
}

// DeleteBooking implements BookingLedger.
func (s *SQLStore) DeleteBooking(ctx context.Context, bookingID string) error {
	return s.bookings.DeleteBooking(ctx, bookingID)
}
