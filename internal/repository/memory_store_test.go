package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func seed(t *testing.T, s *MemoryStore, id string, slots ...string) {
	t.Helper()
	err := s.CreateService(context.Background(), &ServiceSnapshot{
		ID:             id,
		Name:           "Basic Wash",
		PriceCents:     1500,
		DurationMin:    30,
		AvailableSlots: slots,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestMemoryStore_CommitBumpsVersion(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "s1", "2025-11-20T10:00:00Z")

	_, v1, err := s.ReadServiceForUpdate(context.Background(), "s1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v1 != 1 {
		t.Fatalf("expected initial version 1, got %d", v1)
	}
	if err := s.CommitIfUnchanged(context.Background(), "s1", v1, []string{}, nil); err != nil {
		t.Fatalf("commit: %v", err)
	}
	_, v2, _ := s.ReadServiceForUpdate(context.Background(), "s1")
	if v2 != v1+1 {
		t.Fatalf("expected version %d after commit, got %d", v1+1, v2)
	}
}

func TestMemoryStore_StaleVersionConflicts(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "s1", "2025-11-20T10:00:00Z")

	_, v, _ := s.ReadServiceForUpdate(context.Background(), "s1")
	if err := s.CommitIfUnchanged(context.Background(), "s1", v, []string{}, nil); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	b := &BookingRecord{ID: "b1", Status: "confirmed"}
	err := s.CommitIfUnchanged(context.Background(), "s1", v, []string{"x"}, b)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on stale token, got %v", err)
	}
	// The losing commit must not have written the booking.
	if _, err := s.GetBooking(context.Background(), "b1"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("conflicted commit leaked a booking")
	}
}

func TestMemoryStore_CommitUnknownService(t *testing.T) {
	s := NewMemoryStore()
	err := s.CommitIfUnchanged(context.Background(), "nope", 1, nil, nil)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "s1", "2025-11-20T10:00:00Z", "2025-11-20T11:00:00Z")

	snap, _, _ := s.ReadServiceForUpdate(context.Background(), "s1")
	snap.AvailableSlots[0] = "mutated"

	again, _, _ := s.ReadServiceForUpdate(context.Background(), "s1")
	if !reflect.DeepEqual(again.AvailableSlots, []string{"2025-11-20T10:00:00Z", "2025-11-20T11:00:00Z"}) {
		t.Fatalf("snapshot mutation leaked into store: %v", again.AvailableSlots)
	}
}

func TestMemoryStore_BookingLifecycle(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "s1", "2025-11-20T10:00:00Z")

	_, v, _ := s.ReadServiceForUpdate(context.Background(), "s1")
	b := &BookingRecord{
		ID: "b1", UserID: "u1", ServiceID: "s1", ServiceName: "Basic Wash",
		Slot: "2025-11-20T10:00:00Z", Address: "somewhere", Status: "confirmed", PaymentStatus: "pending",
	}
	if err := s.CommitIfUnchanged(context.Background(), "s1", v, []string{}, b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if b.CreatedAt.IsZero() {
		t.Fatalf("commit must assign CreatedAt")
	}

	got, err := s.GetBooking(context.Background(), "b1")
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if got.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}

	if err := s.UpdateBookingStatus(context.Background(), "b1", "confirmed", "completed"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := s.UpdateBookingStatus(context.Background(), "b1", "confirmed", "cancelled"); !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict on stale from-status, got %v", err)
	}

	if err := s.DeleteBooking(context.Background(), "b1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteBooking(context.Background(), "b1"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
