package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the SlotStore,
// ServiceCatalog and BookingLedger contracts. It mirrors the SQL
// store's optimistic semantics: reads hand out copies, and commits
// only apply while the version token is still current. It backs the
// test suite and local tooling that runs without a database.
type MemoryStore struct {
	mu       sync.Mutex
	services map[string]*memService
	bookings map[string]*BookingRecord
}

type memService struct {
	snap    ServiceSnapshot
	version uint64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		services: make(map[string]*memService),
		bookings: make(map[string]*BookingRecord),
	}
}

// ReadServiceForUpdate implements SlotStore. The returned snapshot is
// a copy; mutating it does not affect the store.
func (s *MemoryStore) ReadServiceForUpdate(_ context.Context, serviceID string) (*ServiceSnapshot, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[serviceID]
	if !ok {
		return nil, 0, ErrServiceNotFound
	}
	snap := svc.snap
	snap.AvailableSlots = append([]string(nil), svc.snap.AvailableSlots...)
	return &snap, svc.version, nil
}

// CommitIfUnchanged implements SlotStore. The version check, slot
// replacement and booking append happen under one lock, so no reader
// ever observes the slot removed without the booking present.
func (s *MemoryStore) CommitIfUnchanged(_ context.Context, serviceID string, version uint64, newSlots []string, booking *BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[serviceID]
	if !ok {
		return ErrServiceNotFound
	}
	if svc.version != version {
		return ErrConflict
	}
	svc.snap.AvailableSlots = append([]string(nil), newSlots...)
	svc.version++
	if booking != nil {
		booking.CreatedAt = time.Now().UTC()
		b := *booking
		s.bookings[b.ID] = &b
	}
	return nil
}

// CreateService implements ServiceCatalog. The service starts at
// version 1, matching the SQL schema default.
func (s *MemoryStore) CreateService(_ context.Context, snap *ServiceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *snap
	cp.AvailableSlots = append([]string(nil), snap.AvailableSlots...)
	s.services[snap.ID] = &memService{snap: cp, version: 1}
	return nil
}

// GetBooking implements BookingLedger.
func (s *MemoryStore) GetBooking(_ context.Context, bookingID string) (*BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

// UpdateBookingStatus implements BookingLedger with the same guarded
// transition semantics as the SQL repository.
func (s *MemoryStore) UpdateBookingStatus(_ context.Context, bookingID, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	if b.Status != from {
		return ErrStatusConflict
	}
	b.Status = to
	return nil
}

// DeleteBooking implements BookingLedger.
func (s *MemoryStore) DeleteBooking(_ context.Context, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[bookingID]; !ok {
		return ErrBookingNotFound
	}
	delete(s.bookings, bookingID)
	return nil
}

// Bookings returns a copy of every booking in the ledger. It exists
// for tests and tooling that assert ledger state.
func (s *MemoryStore) Bookings() []BookingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BookingRecord, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out
}
