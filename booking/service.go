package booking

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// NewReservation carries the caller-supplied fields of a booking request.
type NewReservation struct {
	RestaurantName    string
	RestaurantAddress string
	Date              string
	Time              string
	PartySize         int
	CustomerName      string
	CustomerEmail     string
	SpecialRequests   string
}

// Service owns the reservation workflows behind the tool surface. It is
// constructed once per process and shares one store across all calls.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// AvailableSlots lists the candidate slots for a restaurant and date.
func (s *Service) AvailableSlots(ctx context.Context, restaurant, date string, partySize int) ([]Slot, error) {
	return GenerateSlots(ctx, s.store, restaurant, date, partySize)
}

// MakeReservation validates the request and books the slot. Validation runs
// in a fixed order: required fields, date, time, party size, email. The
// store insert is atomic against concurrent bookings of the same slot.
func (s *Service) MakeReservation(ctx context.Context, req NewReservation) (Reservation, error) {
	required := []struct {
		name  string
		value string
	}{
		{"restaurant_name", req.RestaurantName},
		{"restaurant_address", req.RestaurantAddress},
		{"date", req.Date},
		{"time", req.Time},
		{"customer_name", req.CustomerName},
		{"customer_email", req.CustomerEmail},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return Reservation{}, fmt.Errorf("%w: %s is required", ErrValidation, field.name)
		}
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return Reservation{}, err
	}
	timeOfDay, err := ParseTime(req.Time)
	if err != nil {
		return Reservation{}, err
	}
	if req.PartySize <= 0 {
		return Reservation{}, fmt.Errorf("%w: party size must be at least 1, got %d", ErrInvalidPartySize, req.PartySize)
	}
	email, err := ParseEmail(req.CustomerEmail)
	if err != nil {
		return Reservation{}, err
	}

	return s.store.Insert(ctx, Reservation{
		RestaurantName:    strings.TrimSpace(req.RestaurantName),
		RestaurantAddress: strings.TrimSpace(req.RestaurantAddress),
		Date:              date,
		Time:              timeOfDay,
		PartySize:         req.PartySize,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerEmail:     email,
		SpecialRequests:   strings.TrimSpace(req.SpecialRequests),
		Status:            StatusConfirmed,
	})
}

// GetReservation looks up one reservation by identifier.
func (s *Service) GetReservation(ctx context.Context, id string) (Reservation, error) {
	return s.store.Get(ctx, id)
}

// ListReservations returns reservations in creation order, optionally
// filtered by exact customer email.
func (s *Service) ListReservations(ctx context.Context, customerEmail string) ([]Reservation, error) {
	return s.store.List(ctx, customerEmail)
}
