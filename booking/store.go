package booking

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

const idPrefix = "RES"

// Store is the persistence contract used by the reservation service.
type Store interface {
	Insert(ctx context.Context, r Reservation) (Reservation, error)
	Get(ctx context.Context, id string) (Reservation, error)
	List(ctx context.Context, customerEmail string) ([]Reservation, error)
	HasConflict(ctx context.Context, restaurant, date, timeOfDay string) (bool, error)
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps reservations in process memory, in creation order.
// Records live until the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	seq     int
	records []Reservation
	bySlot  map[string]string
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bySlot: make(map[string]string),
		now:    time.Now,
	}
}

func slotKey(restaurant, date, timeOfDay string) string {
	return restaurant + "|" + date + "|" + timeOfDay
}

// Insert assigns the next identifier and appends the record. The conflict
// check and the append happen under one lock, so two reservations can never
// hold the same restaurant, date, and time.
func (s *MemoryStore) Insert(ctx context.Context, r Reservation) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey(r.RestaurantName, r.Date, r.Time)
	if held, ok := s.bySlot[key]; ok {
		return Reservation{}, fmt.Errorf("%w: %s on %s at %s is held by %s",
			ErrSlotConflict, r.RestaurantName, r.Date, r.Time, held)
	}

	s.seq++
	r.ID = idPrefix + strconv.Itoa(s.seq)
	r.CreatedAt = s.now().UTC()

	s.records = append(s.records, r)
	if r.Status == StatusConfirmed {
		s.bySlot[key] = r.ID
	}
	return r, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return Reservation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns reservations in creation order. A non-empty customerEmail
// keeps only records whose customer email matches it exactly.
func (s *MemoryStore) List(ctx context.Context, customerEmail string) ([]Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Reservation, 0, len(s.records))
	for _, r := range s.records {
		if customerEmail != "" && r.CustomerEmail != customerEmail {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// HasConflict reports whether a confirmed reservation already holds the slot.
func (s *MemoryStore) HasConflict(ctx context.Context, restaurant, date, timeOfDay string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.bySlot[slotKey(restaurant, date, timeOfDay)]
	return ok, nil
}
