// Package booking implements the atomic slot-reservation core: a
// coordinator that removes one slot from a service and appends the
// matching booking to the ledger as a single all-or-nothing unit, and
// a retry driver that absorbs optimistic-concurrency conflicts.
package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/carwash-slot-booking/internal/model"
	"github.com/iliyamo/carwash-slot-booking/internal/repository"
)

// Coordinator executes the reservation transaction against a
// SlotStore. It validates preconditions inside the atomic unit rather
// than before it, so there is no window between check and commit: the
// version token read together with the slot list guards the write.
type Coordinator struct {
	store repository.SlotStore
}

// NewCoordinator constructs a Coordinator over the given store.
func NewCoordinator(store repository.SlotStore) *Coordinator {
	if store == nil {
		panic("nil store passed to NewCoordinator")
	}
	return &Coordinator{store: store}
}

// Reserve atomically removes slot from the service's pool and creates
// a confirmed booking for userID. It returns the new booking's ID.
//
// Failure modes, all leaving both stores untouched:
//   - repository.ErrServiceNotFound: the service does not exist.
//   - repository.ErrSlotUnavailable: the slot is not in the current pool.
//   - repository.ErrConflict: the service record changed between read
//     and commit; the caller may retry against fresh state.
//   - repository.ErrStoreUnavailable: the store could not be reached.
func (c *Coordinator) Reserve(ctx context.Context, serviceID, slot, userID, address string) (string, error) {
	snap, version, err := c.store.ReadServiceForUpdate(ctx, serviceID)
	if err != nil {
		return "", err
	}
	idx := -1
	for i, s := range snap.AvailableSlots {
		if s == slot {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", repository.ErrSlotUnavailable
	}
	// Remove the slot, preserving the order of the remaining pool.
	newSlots := make([]string, 0, len(snap.AvailableSlots)-1)
	newSlots = append(newSlots, snap.AvailableSlots[:idx]...)
	newSlots = append(newSlots, snap.AvailableSlots[idx+1:]...)

	rec := &repository.BookingRecord{
		ID:            uuid.NewString(),
		UserID:        userID,
		ServiceID:     serviceID,
		ServiceName:   snap.Name,
		Slot:          slot,
		Address:       strings.TrimSpace(address),
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentPending,
	}
	if err := c.store.CommitIfUnchanged(ctx, serviceID, version, newSlots, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ReplaceSlots swaps the full slot pool of a service through the same
// version-checked commit path the reservation flow uses. It backs the
// operator catalog edits so that no slot mutation bypasses the
// optimistic check. Returns the same failure modes as Reserve, minus
// ErrSlotUnavailable.
func (c *Coordinator) ReplaceSlots(ctx context.Context, serviceID string, slots []string) error {
	_, version, err := c.store.ReadServiceForUpdate(ctx, serviceID)
	if err != nil {
		return err
	}
	return c.store.CommitIfUnchanged(ctx, serviceID, version, slots, nil)
}
