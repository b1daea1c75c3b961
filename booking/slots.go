package booking

import (
	"context"
	"fmt"
	"time"
)

// Slot policy. Candidate times are a fixed dinner window, never derived
// from real restaurant hours.
const (
	slotWindowOpen  = 17 * time.Hour
	slotWindowClose = 21 * time.Hour
	slotInterval    = 30 * time.Minute

	// SlotCapacity is the party ceiling reported with each candidate slot.
	SlotCapacity = 8

	// DefaultDurationMinutes is the assumed length of a reservation.
	DefaultDurationMinutes = 90
)

// AvailabilityReader is the read-only store view slot generation needs.
type AvailabilityReader interface {
	HasConflict(ctx context.Context, restaurant, date, timeOfDay string) (bool, error)
}

// GenerateSlots emits the candidate slots for one restaurant and date in
// ascending time order. A slot stays available unless a confirmed
// reservation already holds it; the outcome depends only on the inputs and
// the stored reservations.
func GenerateSlots(ctx context.Context, reader AvailabilityReader, restaurant, date string, partySize int) ([]Slot, error) {
	normalized, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	if partySize <= 0 {
		return nil, fmt.Errorf("%w: party size must be at least 1, got %d", ErrInvalidPartySize, partySize)
	}

	slots := make([]Slot, 0, int((slotWindowClose-slotWindowOpen)/slotInterval)+1)
	for offset := slotWindowOpen; offset <= slotWindowClose; offset += slotInterval {
		at := time.Time{}.Add(offset).Format(TimeLayout)
		taken, err := reader.HasConflict(ctx, restaurant, normalized, at)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{Time: at, Available: !taken, Capacity: SlotCapacity})
	}
	return slots, nil
}
