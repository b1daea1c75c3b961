package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abhi-srivathsa/ai-restaurant-reserve/booking"
	"github.com/abhi-srivathsa/ai-restaurant-reserve/pkg/places"
	"github.com/abhi-srivathsa/ai-restaurant-reserve/toolserver"
)

// ToolCaller is the slice of ToolClient the assistant needs.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args any, out any) error
}

// Assistant drives an interactive search-and-book loop on stdin/stdout.
type Assistant struct {
	tools     ToolCaller
	extractor Extractor
	in        *bufio.Scanner
	out       io.Writer
	saveDir   string
	today     func() time.Time
}

func New(tools ToolCaller, extractor Extractor, in io.Reader, out io.Writer) *Assistant {
	return &Assistant{
		tools:     tools,
		extractor: extractor,
		in:        bufio.NewScanner(in),
		out:       out,
		today:     time.Now,
	}
}

// Run loops until the user exits or input is exhausted.
func (a *Assistant) Run(ctx context.Context) error {
	a.printf("Restaurant Reservation Assistant")
	a.printf("Type 'exit' at any prompt to quit.")

	for {
		query, ok := a.prompt("Enter your restaurant search (e.g. 'Find a sushi place near me for 2 tonight'):")
		if !ok || query == "" || strings.EqualFold(query, "exit") {
			a.printf("Goodbye!")
			return nil
		}
		if err := a.bookOnce(ctx, query); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.printf("Error: %v", err)
		}
		a.printf("---")
	}
}

// bookOnce runs one search → choose → reserve → invite pass.
func (a *Assistant) bookOnce(ctx context.Context, query string) error {
	params := a.searchParams(ctx, query)

	a.printf("Searching for restaurants...")
	var found places.Result
	if err := a.tools.CallTool(ctx, toolserver.ToolSearchRestaurants, params, &found); err != nil {
		return err
	}
	if len(found.Restaurants) == 0 {
		a.printf("No restaurants found. Try a different search.")
		return nil
	}

	for i, r := range found.Restaurants {
		a.printf("%d. %s (Rating: %.1f) - %s", i+1, r.Name, r.Rating, r.Address)
		a.printf("   Phone: %s, Website: %s", valueOr(r.Phone, "-"), valueOr(r.Website, "-"))
		if len(r.OpeningHours) > 0 {
			a.printf("   Hours:")
			for _, h := range r.OpeningHours {
				a.printf("     %s", h)
			}
		}
		a.printf("")
	}

	choice, ok := a.promptChoice("Choose a restaurant to reserve", len(found.Restaurants))
	if !ok {
		return nil
	}
	chosen := found.Restaurants[choice-1]

	partySize := a.promptInt("How many people? (default 2):", 2)
	date, _ := a.prompt("Date for reservation (YYYY-MM-DD; default=today):")
	if date == "" {
		date = a.today().Format(booking.DateLayout)
	}

	var slots struct {
		Slots []booking.Slot `json:"available_slots"`
	}
	err := a.tools.CallTool(ctx, toolserver.ToolGetAvailableSlots, map[string]any{
		"restaurant_name": chosen.Name,
		"date":            date,
		"party_size":      partySize,
	}, &slots)
	if err != nil {
		return err
	}
	open := openSlots(slots.Slots)
	if len(open) == 0 {
		a.printf("No slots available. Try a different restaurant or date.")
		return nil
	}

	a.printf("Available reservation times:")
	for i, slot := range open {
		a.printf("%d. %s", i+1, slot.Time)
	}
	slotChoice, ok := a.promptChoice("Choose a time slot", len(open))
	if !ok {
		return nil
	}
	chosenTime := open[slotChoice-1].Time

	name := a.promptDefault("Your name:", "Guest")
	email := a.promptDefault("Your email:", "guest@example.com")
	special, _ := a.prompt("Any special requests? (optional):")

	var res struct {
		booking.Reservation
		Message string `json:"message"`
	}
	err = a.tools.CallTool(ctx, toolserver.ToolMakeReservation, map[string]any{
		"restaurant_name":    chosen.Name,
		"restaurant_address": chosen.Address,
		"date":               date,
		"time":               chosenTime,
		"party_size":         partySize,
		"customer_name":      name,
		"customer_email":     email,
		"special_requests":   special,
	}, &res)
	if err != nil {
		return err
	}

	a.printf("Reservation:")
	a.printf("  reservation_id: %s", res.ID)
	a.printf("  restaurant_name: %s", res.RestaurantName)
	a.printf("  date: %s", res.Date)
	a.printf("  time: %s", res.Time)
	a.printf("  party_size: %d", res.PartySize)
	a.printf("  status: %s", res.Status)
	if res.Message != "" {
		a.printf("%s", res.Message)
	}

	var invite booking.Invite
	err = a.tools.CallTool(ctx, toolserver.ToolGenerateCalendarInvite, map[string]any{
		"reservation_id": res.ID,
	}, &invite)
	if err != nil || invite.Filename == "" {
		a.printf("Could not create calendar invite.")
		return nil
	}
	if err := os.WriteFile(filepath.Join(a.saveDir, invite.Filename), []byte(invite.ICS), 0o644); err != nil {
		return fmt.Errorf("save calendar invite: %w", err)
	}
	a.printf("Calendar invite saved as: %s", invite.Filename)
	return nil
}

// searchParams extracts arguments from the query, falling back to manual
// entry when the extractor cannot parse it.
func (a *Assistant) searchParams(ctx context.Context, query string) SearchParams {
	params, err := a.extractor.ExtractSearchParams(ctx, query)
	if err == nil {
		return params
	}

	a.printf("Could not extract parameters automatically: %v", err)
	location, _ := a.prompt("Enter a city/area (e.g. New York, NY):")
	cuisine, _ := a.prompt("Cuisine type (e.g. italian, sushi, etc):")
	if location == "" {
		location = "New York, NY"
	}
	if cuisine == "" {
		cuisine = "restaurant"
	}
	return SearchParams{Location: location, CuisineType: cuisine}
}

func openSlots(slots []booking.Slot) []booking.Slot {
	open := make([]booking.Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Available {
			open = append(open, slot)
		}
	}
	return open
}

// prompt prints the question and reads one trimmed line. ok is false once
// input is exhausted.
func (a *Assistant) prompt(question string) (string, bool) {
	fmt.Fprintf(a.out, "%s\n> ", question)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// promptChoice reads a 1-based selection; 0 or anything unparsable skips.
func (a *Assistant) promptChoice(question string, n int) (int, bool) {
	raw, ok := a.prompt(fmt.Sprintf("%s (1-%d, or 0 to skip):", question, n))
	if !ok {
		return 0, false
	}
	choice, err := strconv.Atoi(raw)
	if err != nil || choice < 1 || choice > n {
		if err != nil || choice != 0 {
			a.printf("Invalid selection.")
		}
		return 0, false
	}
	return choice, true
}

func (a *Assistant) promptInt(question string, fallback int) int {
	raw, ok := a.prompt(question)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func (a *Assistant) promptDefault(question, fallback string) string {
	raw, ok := a.prompt(question)
	if !ok || raw == "" {
		return fallback
	}
	return raw
}

func (a *Assistant) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
