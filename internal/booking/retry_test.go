package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/carwash-slot-booking/internal/repository"
)

// conflictStore wraps a MemoryStore and fails the first n commits
// with ErrConflict, simulating racing writers that keep invalidating
// the read snapshot.
type conflictStore struct {
	*repository.MemoryStore
	remaining int
	commits   int
}

func (s *conflictStore) CommitIfUnchanged(ctx context.Context, serviceID string, version uint64, newSlots []string, booking *repository.BookingRecord) error {
	s.commits++
	if s.remaining > 0 {
		s.remaining--
		return repository.ErrConflict
	}
	return s.MemoryStore.CommitIfUnchanged(ctx, serviceID, version, newSlots, booking)
}

func newConflictStore(t *testing.T, conflicts int, slots ...string) *conflictStore {
	t.Helper()
	mem := repository.NewMemoryStore()
	seedService(t, mem, "s1", slots...)
	return &conflictStore{MemoryStore: mem, remaining: conflicts}
}

// noSleep replaces the driver's backoff wait and records each delay.
func noSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestReserveWithRetry_ConvergesAfterInjectedConflicts(t *testing.T) {
	store := newConflictStore(t, 3, slotTen)
	driver := NewRetryDriver(NewCoordinator(store), 5, 0, 0)
	var delays []time.Duration
	driver.sleep = noSleep(&delays)

	id, err := driver.ReserveWithRetry(context.Background(), "s1", slotTen, "user-1", "addr")
	if err != nil {
		t.Fatalf("expected convergence, got %v", err)
	}
	if id == "" {
		t.Fatalf("expected booking id")
	}
	if store.commits != 4 {
		t.Fatalf("expected 4 commit attempts, got %d", store.commits)
	}
	if len(delays) != 3 {
		t.Fatalf("expected 3 backoff waits, got %d", len(delays))
	}
}

func TestReserveWithRetry_Exhausted(t *testing.T) {
	store := newConflictStore(t, 1000, slotTen)
	driver := NewRetryDriver(NewCoordinator(store), 5, 0, 0)
	var delays []time.Duration
	driver.sleep = noSleep(&delays)

	_, err := driver.ReserveWithRetry(context.Background(), "s1", slotTen, "user-1", "addr")
	if !errors.Is(err, repository.ErrConflictExhausted) {
		t.Fatalf("expected ErrConflictExhausted, got %v", err)
	}
	if store.commits != 5 {
		t.Fatalf("expected exactly maxAttempts=5 commits, got %d", store.commits)
	}
	// The exhausted error must stay distinguishable from a consumed slot.
	if errors.Is(err, repository.ErrSlotUnavailable) {
		t.Fatalf("ErrConflictExhausted must not match ErrSlotUnavailable")
	}
	if n := len(store.Bookings()); n != 0 {
		t.Fatalf("expected no bookings after exhaustion, got %d", n)
	}
}

func TestReserveWithRetry_BusinessFailuresNotRetried(t *testing.T) {
	store := newConflictStore(t, 0, slotTen)
	driver := NewRetryDriver(NewCoordinator(store), 5, 0, 0)
	var delays []time.Duration
	driver.sleep = noSleep(&delays)

	_, err := driver.ReserveWithRetry(context.Background(), "s1", "2099-01-01T00:00:00Z", "u", "addr")
	if !errors.Is(err, repository.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if len(delays) != 0 {
		t.Fatalf("business failure must not back off, waited %d times", len(delays))
	}

	_, err = driver.ReserveWithRetry(context.Background(), "missing", slotTen, "u", "addr")
	if !errors.Is(err, repository.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestReserveWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	store := newConflictStore(t, 1000, slotTen)
	driver := NewRetryDriver(NewCoordinator(store), 5, 50*time.Millisecond, 200*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := driver.ReserveWithRetry(ctx, "s1", slotTen, "user-1", "addr")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackoff_DoublesAndCaps(t *testing.T) {
	driver := NewRetryDriver(NewCoordinator(repository.NewMemoryStore()), 10, 10*time.Millisecond, 200*time.Millisecond)

	expected := []time.Duration{
		10 * time.Millisecond,  // attempt 1
		20 * time.Millisecond,  // attempt 2
		40 * time.Millisecond,  // attempt 3
		80 * time.Millisecond,  // attempt 4
		160 * time.Millisecond, // attempt 5
		200 * time.Millisecond, // attempt 6, capped
		200 * time.Millisecond, // attempt 7, capped
	}
	for i, want := range expected {
		got := driver.backoff(i + 1)
		lo := time.Duration(float64(want) * (1 - jitterFrac))
		hi := time.Duration(float64(want) * (1 + jitterFrac))
		if got < lo || got > hi {
			t.Fatalf("attempt %d: backoff %s outside [%s, %s]", i+1, got, lo, hi)
		}
	}
}
