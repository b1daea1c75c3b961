package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func validRequest() NewReservation {
	return NewReservation{
		RestaurantName:    "Bella Italia",
		RestaurantAddress: "12 Main St",
		Date:              "2025-07-04",
		Time:              "19:00",
		PartySize:         4,
		CustomerName:      "Ada Lovelace",
		CustomerEmail:     "ada@example.com",
		SpecialRequests:   "window seat",
	}
}

func TestMakeReservationStoresConfirmedRecord(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore())
	res, err := svc.MakeReservation(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.ID != "RES1" {
		t.Fatalf("unexpected id: %s", res.ID)
	}
	if res.Status != StatusConfirmed {
		t.Fatalf("unexpected status: %s", res.Status)
	}
	if res.RestaurantName != "Bella Italia" || res.Date != "2025-07-04" || res.Time != "19:00" {
		t.Fatalf("request fields not echoed: %+v", res)
	}
	if res.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	stored, err := svc.GetReservation(context.Background(), "RES1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.CustomerEmail != "ada@example.com" {
		t.Fatalf("unexpected stored email: %s", stored.CustomerEmail)
	}
}

func TestMakeReservationNormalizesInput(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.RestaurantName = "  Bella Italia "
	req.Time = "9:05"

	svc := NewService(NewMemoryStore())
	res, err := svc.MakeReservation(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RestaurantName != "Bella Italia" {
		t.Fatalf("expected trimmed name, got %q", res.RestaurantName)
	}
	if res.Time != "09:05" {
		t.Fatalf("expected normalized time, got %q", res.Time)
	}
}

func TestMakeReservationMissingFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		field string
		mod   func(*NewReservation)
	}{
		{"restaurant_name", func(r *NewReservation) { r.RestaurantName = "" }},
		{"restaurant_address", func(r *NewReservation) { r.RestaurantAddress = "  " }},
		{"date", func(r *NewReservation) { r.Date = "" }},
		{"time", func(r *NewReservation) { r.Time = "" }},
		{"customer_name", func(r *NewReservation) { r.CustomerName = "" }},
		{"customer_email", func(r *NewReservation) { r.CustomerEmail = "" }},
	}

	for _, tc := range cases {
		req := validRequest()
		tc.mod(&req)

		svc := NewService(NewMemoryStore())
		_, err := svc.MakeReservation(context.Background(), req)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.field, err)
		}
		if !strings.Contains(err.Error(), tc.field) {
			t.Fatalf("%s: error does not name the field: %v", tc.field, err)
		}
	}
}

func TestMakeReservationInvalidInputs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		mod  func(*NewReservation)
		want error
	}{
		{"slash date", func(r *NewReservation) { r.Date = "07/04/2025" }, ErrInvalidDate},
		{"unpadded date", func(r *NewReservation) { r.Date = "2025-7-4" }, ErrInvalidDate},
		{"month overflow", func(r *NewReservation) { r.Date = "2025-13-01" }, ErrInvalidDate},
		{"hour overflow", func(r *NewReservation) { r.Time = "25:00" }, ErrInvalidTime},
		{"with seconds", func(r *NewReservation) { r.Time = "19:00:00" }, ErrInvalidTime},
		{"zero party", func(r *NewReservation) { r.PartySize = 0 }, ErrInvalidPartySize},
		{"negative party", func(r *NewReservation) { r.PartySize = -1 }, ErrInvalidPartySize},
		{"no at sign", func(r *NewReservation) { r.CustomerEmail = "ada.example.com" }, ErrInvalidEmail},
		{"no domain dot", func(r *NewReservation) { r.CustomerEmail = "ada@example" }, ErrInvalidEmail},
		{"display name", func(r *NewReservation) { r.CustomerEmail = "Ada <ada@example.com>" }, ErrInvalidEmail},
	}

	for _, tc := range cases {
		req := validRequest()
		tc.mod(&req)

		svc := NewService(NewMemoryStore())
		if _, err := svc.MakeReservation(context.Background(), req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestMakeReservationSlotConflict(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.MakeReservation(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := validRequest()
	second.CustomerName = "Grace Hopper"
	second.CustomerEmail = "grace@example.com"
	if _, err := svc.MakeReservation(ctx, second); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected slot conflict, got %v", err)
	}

	all, err := svc.ListReservations(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(all))
	}
}

func TestAvailableSlotsReflectBooking(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.MakeReservation(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots, err := svc.AvailableSlots(ctx, "Bella Italia", "2025-07-04", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, slot := range slots {
		if slot.Time == "19:00" && slot.Available {
			t.Fatal("expected 19:00 to be unavailable after booking")
		}
	}
}

func TestListReservationsFilter(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	first := validRequest()
	second := validRequest()
	second.Time = "20:00"
	second.CustomerName = "Grace Hopper"
	second.CustomerEmail = "grace@example.com"

	for _, req := range []NewReservation{first, second} {
		if _, err := svc.MakeReservation(ctx, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	mine, err := svc.ListReservations(ctx, "grace@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 || mine[0].CustomerName != "Grace Hopper" {
		t.Fatalf("unexpected filtered result: %+v", mine)
	}
}
