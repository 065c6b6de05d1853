package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// BookingRepo provides data access to the bookings table. Bookings
// are append-only: the reservation flow inserts them inside the slot
// commit transaction, and afterwards only the status column may
// change, through the guarded operator methods below. All timestamp
// columns are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a booking within the scope of an existing
// transaction and queries the row back to populate the server-assigned
// CreatedAt. The caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *BookingRecord) error {
	const q = `INSERT INTO bookings
	           (id, user_id, service_id, service_name, datetime, address, status, payment_status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		b.ID, b.UserID, b.ServiceID, b.ServiceName, b.Slot, b.Address, b.Status, b.PaymentStatus,
	)
	if err != nil {
		return fmt.Errorf("create booking: %w (%v)", ErrStoreUnavailable, err)
	}
	// Query back the created_at default so the caller sees the commit time.
	const sel = `SELECT created_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt); err != nil {
		return fmt.Errorf("create booking: %w (%v)", ErrStoreUnavailable, err)
	}
	return nil
}

// GetBooking returns a single booking by ID, or ErrBookingNotFound.
func (r *BookingRepo) GetBooking(ctx context.Context, bookingID string) (*BookingRecord, error) {
	const q = `SELECT id, user_id, service_id, service_name, datetime, address, status, payment_status, created_at
	           FROM bookings WHERE id = ?`
	var b BookingRecord
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &b.UserID, &b.ServiceID, &b.ServiceName, &b.Slot, &b.Address,
		&b.Status, &b.PaymentStatus, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("read booking: %w (%v)", ErrStoreUnavailable, err)
	}
	return &b, nil
}

// UpdateBookingStatus moves a booking from one status to another. The
// update is guarded on the current status so two racing operators
// cannot both apply a transition: the loser gets ErrStatusConflict.
func (r *BookingRepo) UpdateBookingStatus(ctx context.Context, bookingID, from, to string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, bookingID, from)
	if err != nil {
		return fmt.Errorf("update status: %w (%v)", ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: %w (%v)", ErrStoreUnavailable, err)
	}
	if n == 1 {
		return nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ?`, bookingID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("update status: %w (%v)", ErrStoreUnavailable, err)
	}
	return ErrStatusConflict
}

// DeleteBooking removes a booking from the ledger. This is an admin
// operation; it never touches the owning service's slot pool.
func (r *BookingRepo) DeleteBooking(ctx context.Context, bookingID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
	if err != nil {
		return fmt.Errorf("delete booking: %w (%v)", ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking: %w (%v)", ErrStoreUnavailable, err)
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
