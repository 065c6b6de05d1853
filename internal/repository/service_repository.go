package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ServiceRepo provides data access to the services table. The slot
// pool is stored as a JSON array of RFC3339 UTC strings in the
// available_slots column, and the version column carries the
// optimistic locking token: every write to available_slots must name
// the version it read and bumps it by one.
type ServiceRepo struct {
	db *sql.DB
}

// NewServiceRepo returns a new ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

// GetForUpdate reads the current snapshot of a service together with
// its version token. No row lock is taken; the version token is what
// makes a later commit safe. Returns ErrServiceNotFound when the
// service does not exist.
func (r *ServiceRepo) GetForUpdate(ctx context.Context, serviceID string) (*ServiceSnapshot, uint64, error) {
	const q = `SELECT id, name, price_cents, duration_min, available_slots, version
	           FROM services WHERE id = ?`
	var snap ServiceSnapshot
	var rawSlots []byte
	var version uint64
	err := r.db.QueryRowContext(ctx, q, serviceID).Scan(
		&snap.ID, &snap.Name, &snap.PriceCents, &snap.DurationMin, &rawSlots, &version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrServiceNotFound
		}
		return nil, 0, fmt.Errorf("read service: %w (%v)", ErrStoreUnavailable, err)
	}
	slots, err := decodeSlots(rawSlots)
	if err != nil {
		return nil, 0, fmt.Errorf("read service: %w", err)
	}
	snap.AvailableSlots = slots
	return &snap, version, nil
}

// UpdateSlotsTx replaces the slot pool of a service within the scope
// of an existing transaction, guarded by the version token obtained
// at read time. When the token is stale it returns ErrConflict; when
// the service has vanished it returns ErrServiceNotFound. The caller
// must commit or roll back the transaction.
func (r *ServiceRepo) UpdateSlotsTx(ctx context.Context, tx *sql.Tx, serviceID string, version uint64, slots []string) error {
	raw, err := encodeSlots(slots)
	if err != nil {
		return err
	}
	const q = `UPDATE services
	           SET available_slots = ?, version = version + 1
	           WHERE id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, q, raw, serviceID, version)
	if err != nil {
		return fmt.Errorf("update slots: %w (%v)", ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slots: %w (%v)", ErrStoreUnavailable, err)
	}
	if n == 1 {
		return nil
	}
	// Zero rows means either a concurrent writer bumped the version
	// or the service was deleted. Tell the two apart so the caller
	// can report the right failure.
	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM services WHERE id = ?`, serviceID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrServiceNotFound
	}
	if err != nil {
		return fmt.Errorf("update slots: %w (%v)", ErrStoreUnavailable, err)
	}
	return ErrConflict
}

// Create inserts a new service with its initial slot pool at version 1.
func (r *ServiceRepo) Create(ctx context.Context, snap *ServiceSnapshot) error {
	raw, err := encodeSlots(snap.AvailableSlots)
	if err != nil {
		return err
	}
	const q = `INSERT INTO services (id, name, price_cents, duration_min, available_slots, version)
	           VALUES (?, ?, ?, ?, ?, 1)`
	if _, err := r.db.ExecContext(ctx, q, snap.ID, snap.Name, snap.PriceCents, snap.DurationMin, raw); err != nil {
		return fmt.Errorf("create service: %w (%v)", ErrStoreUnavailable, err)
	}
	return nil
}

// encodeSlots serializes a slot list for the available_slots column.
// A nil slice is stored as an empty JSON array so readers never see
// SQL NULL.
func encodeSlots(slots []string) ([]byte, error) {
	if slots == nil {
		slots = []string{}
	}
	return json.Marshal(slots)
}

// decodeSlots parses the available_slots column. Empty or NULL
// columns decode as an empty list.
func decodeSlots(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}
