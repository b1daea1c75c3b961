package booking

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	icsProdID      = "-//ai-restaurant-reserve//reservation//EN"
	icsUIDDomain   = "ai-restaurant-reserve"
	icsTimeLayout  = "20060102T150405"
	icsStampLayout = "20060102T150405Z"
	icsFoldLimit   = 75
)

// Invite is a rendered calendar invite for one reservation.
type Invite struct {
	ReservationID string    `json:"reservation_id"`
	EventTitle    string    `json:"event_title"`
	EventStart    time.Time `json:"event_start"`
	EventEnd      time.Time `json:"event_end"`
	Location      string    `json:"location"`
	Filename      string    `json:"filename"`
	ICS           string    `json:"ics_content"`
}

// CalendarInvite renders an RFC 5545 document for a stored reservation.
// durationMinutes <= 0 falls back to DefaultDurationMinutes. Output is
// byte-identical for the same reservation, duration, and clock; DTSTAMP is
// the only field read from the clock.
func (s *Service) CalendarInvite(ctx context.Context, reservationID string, durationMinutes int) (Invite, error) {
	res, err := s.store.Get(ctx, reservationID)
	if err != nil {
		return Invite{}, err
	}
	if durationMinutes <= 0 {
		durationMinutes = DefaultDurationMinutes
	}

	start, err := res.StartsAt()
	if err != nil {
		return Invite{}, err
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	title := "Dinner at " + res.RestaurantName

	return Invite{
		ReservationID: res.ID,
		EventTitle:    title,
		EventStart:    start,
		EventEnd:      end,
		Location:      res.RestaurantAddress,
		Filename:      fmt.Sprintf("reservation_%s.ics", res.ID),
		ICS:           encodeICS(res, title, start, end, s.now().UTC()),
	}, nil
}

func encodeICS(res Reservation, title string, start, end, stamp time.Time) string {
	uid := uuid.NewSHA1(uuid.NameSpaceURL, []byte(icsUIDDomain+"/"+res.ID))

	var b strings.Builder
	writeICSLine(&b, "BEGIN:VCALENDAR")
	writeICSLine(&b, "VERSION:2.0")
	writeICSLine(&b, "PRODID:"+icsProdID)
	writeICSLine(&b, "BEGIN:VEVENT")
	writeICSLine(&b, "UID:"+uid.String()+"@"+icsUIDDomain)
	writeICSLine(&b, "DTSTAMP:"+stamp.Format(icsStampLayout))
	writeICSLine(&b, "DTSTART:"+start.Format(icsTimeLayout))
	writeICSLine(&b, "DTEND:"+end.Format(icsTimeLayout))
	writeICSLine(&b, "SUMMARY:"+escapeICSText(title))
	writeICSLine(&b, "LOCATION:"+escapeICSText(res.RestaurantAddress))
	writeICSLine(&b, "DESCRIPTION:"+escapeICSText(inviteDescription(res)))
	writeICSLine(&b, "END:VEVENT")
	writeICSLine(&b, "END:VCALENDAR")
	return b.String()
}

func inviteDescription(res Reservation) string {
	lines := []string{
		"Reservation Details:",
		"- Restaurant: " + res.RestaurantName,
		"- Address: " + res.RestaurantAddress,
		fmt.Sprintf("- Party Size: %d people", res.PartySize),
		"- Reservation ID: " + res.ID,
	}
	if res.SpecialRequests != "" {
		lines = append(lines, "- Special Requests: "+res.SpecialRequests)
	}
	lines = append(lines, "", "Please arrive 5-10 minutes early.")
	return strings.Join(lines, "\n")
}

var icsTextEscaper = strings.NewReplacer(
	"\\", "\\\\",
	";", "\\;",
	",", "\\,",
	"\r\n", "\\n",
	"\n", "\\n",
)

func escapeICSText(value string) string {
	return icsTextEscaper.Replace(value)
}

// writeICSLine terminates the content line with CRLF, folding it at 75
// octets on rune boundaries. Continuation lines carry a leading space that
// counts toward their own limit.
func writeICSLine(b *strings.Builder, line string) {
	limit := icsFoldLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = icsFoldLimit - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}
