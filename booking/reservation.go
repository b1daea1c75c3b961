package booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Reservation is one booking of a restaurant slot. Date and Time hold the
// canonical layouts above; identifier and creation timestamp are assigned
// by the store.
type Reservation struct {
	ID                string    `json:"reservation_id"`
	RestaurantName    string    `json:"restaurant_name"`
	RestaurantAddress string    `json:"restaurant_address"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	PartySize         int       `json:"party_size"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email"`
	SpecialRequests   string    `json:"special_requests,omitempty"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// StartsAt combines Date and Time for calendar math.
func (r Reservation) StartsAt() (time.Time, error) {
	at, err := time.Parse(DateLayout+" "+TimeLayout, r.Date+" "+r.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: reservation %s carries a malformed date/time: %v", ErrValidation, r.ID, err)
	}
	return at, nil
}

// Slot is a bookable candidate time on a given date.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Capacity  int    `json:"capacity"`
}

// ParseDate validates a calendar date and returns it in DateLayout.
func ParseDate(value string) (string, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDate, value)
	}
	return parsed.Format(DateLayout), nil
}

// ParseTime validates a time of day and returns it in TimeLayout.
func ParseTime(value string) (string, error) {
	parsed, err := time.Parse(TimeLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q is not an HH:MM time", ErrInvalidTime, value)
	}
	return parsed.Format(TimeLayout), nil
}

// ParseEmail validates a bare address with a dotted domain.
func ParseEmail(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, value)
	}
	domain := trimmed[strings.LastIndex(trimmed, "@")+1:]
	if !strings.Contains(domain, ".") {
		return "", fmt.Errorf("%w: %q has no domain", ErrInvalidEmail, value)
	}
	return trimmed, nil
}
