package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func inviteService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewMemoryStore())
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCalendarInviteDocument(t *testing.T) {
	t.Parallel()

	svc := inviteService(t)
	ctx := context.Background()
	if _, err := svc.MakeReservation(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invite, err := svc.CalendarInvite(ctx, "RES1", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if invite.EventTitle != "Dinner at Bella Italia" {
		t.Fatalf("unexpected title: %s", invite.EventTitle)
	}
	if invite.Filename != "reservation_RES1.ics" {
		t.Fatalf("unexpected filename: %s", invite.Filename)
	}
	if got := invite.EventEnd.Sub(invite.EventStart); got != 90*time.Minute {
		t.Fatalf("unexpected duration: %v", got)
	}

	// Unfold continuation lines before checking content.
	unfolded := strings.ReplaceAll(invite.ICS, "\r\n ", "")
	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0\r\n",
		"BEGIN:VEVENT\r\n",
		"DTSTAMP:20250601T120000Z\r\n",
		"DTSTART:20250704T190000\r\n",
		"DTEND:20250704T203000\r\n",
		"SUMMARY:Dinner at Bella Italia\r\n",
		"- Reservation ID: RES1",
		"- Special Requests: window seat",
		"Please arrive 5-10 minutes early.",
		"END:VEVENT\r\n",
	} {
		if !strings.Contains(unfolded, want) {
			t.Fatalf("document is missing %q:\n%s", want, invite.ICS)
		}
	}
	if !strings.HasSuffix(invite.ICS, "END:VCALENDAR\r\n") {
		t.Fatalf("document does not end the calendar:\n%s", invite.ICS)
	}
	if strings.Contains(strings.ReplaceAll(invite.ICS, "\r\n", ""), "\n") {
		t.Fatal("document contains bare newlines")
	}
}

func TestCalendarInviteDeterministic(t *testing.T) {
	t.Parallel()

	svc := inviteService(t)
	ctx := context.Background()
	if _, err := svc.MakeReservation(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.CalendarInvite(ctx, "RES1", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.CalendarInvite(ctx, "RES1", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ICS != second.ICS {
		t.Fatal("expected byte-identical documents for a fixed clock")
	}
}

func TestCalendarInviteRollsPastMidnight(t *testing.T) {
	t.Parallel()

	svc := inviteService(t)
	ctx := context.Background()

	req := validRequest()
	req.Time = "23:00"
	if _, err := svc.MakeReservation(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invite, err := svc.CalendarInvite(ctx, "RES1", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(invite.ICS, "DTEND:20250705T003000") {
		t.Fatalf("expected end on the next day:\n%s", invite.ICS)
	}
}

func TestCalendarInviteDefaultDuration(t *testing.T) {
	t.Parallel()

	svc := inviteService(t)
	ctx := context.Background()
	if _, err := svc.MakeReservation(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invite, err := svc.CalendarInvite(ctx, "RES1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := invite.EventEnd.Sub(invite.EventStart); got != DefaultDurationMinutes*time.Minute {
		t.Fatalf("unexpected default duration: %v", got)
	}
}

func TestCalendarInviteEscapesText(t *testing.T) {
	t.Parallel()

	svc := inviteService(t)
	ctx := context.Background()

	req := validRequest()
	req.RestaurantName = "Joe's Pizza, Downtown"
	req.RestaurantAddress = "1 First St; Suite 2"
	if _, err := svc.MakeReservation(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invite, err := svc.CalendarInvite(ctx, "RES1", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unfolded := strings.ReplaceAll(invite.ICS, "\r\n ", "")
	if !strings.Contains(unfolded, `SUMMARY:Dinner at Joe's Pizza\, Downtown`) {
		t.Fatalf("summary is not escaped:\n%s", invite.ICS)
	}
	if !strings.Contains(unfolded, `LOCATION:1 First St\; Suite 2`) {
		t.Fatalf("location is not escaped:\n%s", invite.ICS)
	}
	if !strings.Contains(unfolded, `\nPlease arrive 5-10 minutes early.`) {
		t.Fatalf("description newlines are not escaped:\n%s", invite.ICS)
	}
}

func TestCalendarInviteFoldsLongLines(t *testing.T) {
	t.Parallel()

	svc := inviteService(t)
	ctx := context.Background()

	req := validRequest()
	req.SpecialRequests = strings.Repeat("gluten free menu please ", 10)
	if _, err := svc.MakeReservation(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invite, err := svc.CalendarInvite(ctx, "RES1", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range strings.Split(invite.ICS, "\r\n") {
		if len(line) > 75 {
			t.Fatalf("line exceeds 75 octets: %q", line)
		}
	}
}

func TestCalendarInviteUnknownReservation(t *testing.T) {
	t.Parallel()

	svc := inviteService(t)
	if _, err := svc.CalendarInvite(context.Background(), "RES99", 90); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
