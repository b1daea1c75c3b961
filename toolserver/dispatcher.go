package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhi-srivathsa/ai-restaurant-reserve/booking"
	"github.com/abhi-srivathsa/ai-restaurant-reserve/pkg/places"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrInvalidArgs = errors.New("invalid tool arguments")
)

// Argument defaults documented in the tool catalog.
const (
	defaultCuisine   = "Italian"
	defaultMinRating = 4.0
	defaultPartySize = 2
)

// PlaceSearcher is the slice of the places client the dispatcher needs.
type PlaceSearcher interface {
	Search(ctx context.Context, q places.Query) (places.Result, error)
}

// Dispatcher routes tool calls to the reservation service and the place
// lookup provider. It owns no business logic: it decodes arguments, applies
// the documented defaults, and translates errors into wire kinds.
type Dispatcher struct {
	service *booking.Service
	places  PlaceSearcher
}

func NewDispatcher(service *booking.Service, searcher PlaceSearcher) *Dispatcher {
	return &Dispatcher{service: service, places: searcher}
}

// Dispatch runs one tool call. A non-nil error marks a protocol-level fault
// (unknown tool, undecodable arguments); tool execution failures come back
// in-band on the result with IsError set.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (CallResult, error) {
	start := time.Now()
	result, err := d.dispatch(ctx, name, args)
	if err != nil {
		log.Warn().Str("tool", name).Err(err).Msg("tool call rejected")
		return CallResult{}, err
	}

	evt := log.Info().Str("tool", name).Dur("elapsed", time.Since(start)).Bool("is_error", result.IsError)
	if result.ErrorKind != "" {
		evt = evt.Str("error_kind", result.ErrorKind)
	}
	evt.Msg("tool call")
	return result, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args json.RawMessage) (CallResult, error) {
	switch name {
	case ToolSearchRestaurants:
		return d.searchRestaurants(ctx, args)
	case ToolGetAvailableSlots:
		return d.getAvailableSlots(ctx, args)
	case ToolMakeReservation:
		return d.makeReservation(ctx, args)
	case ToolGenerateCalendarInvite:
		return d.generateCalendarInvite(ctx, args)
	case ToolListReservations:
		return d.listReservations(ctx, args)
	default:
		return CallResult{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

func (d *Dispatcher) searchRestaurants(ctx context.Context, args json.RawMessage) (CallResult, error) {
	var in struct {
		Location   string   `json:"location"`
		Cuisine    string   `json:"cuisine_type"`
		Radius     int      `json:"radius"`
		MinRating  *float64 `json:"min_rating"`
		MaxResults int      `json:"max_results"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return CallResult{}, err
	}

	if strings.TrimSpace(in.Cuisine) == "" {
		in.Cuisine = defaultCuisine
	}
	minRating := defaultMinRating
	if in.MinRating != nil {
		minRating = *in.MinRating
	}

	result, err := d.places.Search(ctx, places.Query{
		Location:   in.Location,
		Cuisine:    in.Cuisine,
		Radius:     in.Radius,
		MinRating:  minRating,
		MaxResults: in.MaxResults,
	})
	if err != nil {
		return errResult(err), nil
	}
	return okResult(result)
}

type slotsResponse struct {
	RestaurantName string         `json:"restaurant_name"`
	Date           string         `json:"date"`
	PartySize      int            `json:"party_size"`
	Slots          []booking.Slot `json:"available_slots"`
}

func (d *Dispatcher) getAvailableSlots(ctx context.Context, args json.RawMessage) (CallResult, error) {
	var in struct {
		RestaurantName string `json:"restaurant_name"`
		Date           string `json:"date"`
		PartySize      *int   `json:"party_size"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return CallResult{}, err
	}
	if strings.TrimSpace(in.RestaurantName) == "" {
		return errResult(fmt.Errorf("%w: restaurant_name is required", booking.ErrValidation)), nil
	}
	partySize := defaultPartySize
	if in.PartySize != nil {
		partySize = *in.PartySize
	}

	slots, err := d.service.AvailableSlots(ctx, in.RestaurantName, in.Date, partySize)
	if err != nil {
		return errResult(err), nil
	}
	return okResult(slotsResponse{
		RestaurantName: in.RestaurantName,
		Date:           strings.TrimSpace(in.Date),
		PartySize:      partySize,
		Slots:          slots,
	})
}

type reservationResponse struct {
	booking.Reservation
	Message string `json:"message"`
}

func (d *Dispatcher) makeReservation(ctx context.Context, args json.RawMessage) (CallResult, error) {
	var in struct {
		RestaurantName    string `json:"restaurant_name"`
		RestaurantAddress string `json:"restaurant_address"`
		Date              string `json:"date"`
		Time              string `json:"time"`
		PartySize         int    `json:"party_size"`
		CustomerName      string `json:"customer_name"`
		CustomerEmail     string `json:"customer_email"`
		SpecialRequests   string `json:"special_requests"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return CallResult{}, err
	}

	res, err := d.service.MakeReservation(ctx, booking.NewReservation{
		RestaurantName:    in.RestaurantName,
		RestaurantAddress: in.RestaurantAddress,
		Date:              in.Date,
		Time:              in.Time,
		PartySize:         in.PartySize,
		CustomerName:      in.CustomerName,
		CustomerEmail:     in.CustomerEmail,
		SpecialRequests:   in.SpecialRequests,
	})
	if err != nil {
		return errResult(err), nil
	}
	return okResult(reservationResponse{
		Reservation: res,
		Message: fmt.Sprintf("Reservation confirmed for %s at %s on %s at %s for %d people.",
			res.CustomerName, res.RestaurantName, res.Date, res.Time, res.PartySize),
	})
}

type inviteResponse struct {
	Status string `json:"status"`
	booking.Invite
	Message string `json:"message"`
}

func (d *Dispatcher) generateCalendarInvite(ctx context.Context, args json.RawMessage) (CallResult, error) {
	var in struct {
		ReservationID   string `json:"reservation_id"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return CallResult{}, err
	}
	id := strings.TrimSpace(in.ReservationID)
	if id == "" {
		return errResult(fmt.Errorf("%w: reservation_id is required", booking.ErrValidation)), nil
	}

	invite, err := d.service.CalendarInvite(ctx, id, in.DurationMinutes)
	if err != nil {
		return errResult(err), nil
	}
	return okResult(inviteResponse{
		Status:  "success",
		Invite:  invite,
		Message: "Calendar invite generated: " + invite.Filename,
	})
}

type listResponse struct {
	Reservations []booking.Reservation `json:"reservations"`
	TotalCount   int                   `json:"total_count"`
	FilterEmail  string                `json:"filter_email"`
}

func (d *Dispatcher) listReservations(ctx context.Context, args json.RawMessage) (CallResult, error) {
	var in struct {
		CustomerEmail string `json:"customer_email"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return CallResult{}, err
	}

	list, err := d.service.ListReservations(ctx, in.CustomerEmail)
	if err != nil {
		return errResult(err), nil
	}

	filter := in.CustomerEmail
	if filter == "" {
		filter = "none"
	}
	return okResult(listResponse{
		Reservations: list,
		TotalCount:   len(list),
		FilterEmail:  filter,
	})
}

func decodeArgs(args json.RawMessage, out any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}

func okResult(v any) (CallResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return CallResult{}, fmt.Errorf("encode tool result: %w", err)
	}
	return CallResult{Content: []ContentPart{{Type: "text", Text: string(body)}}}, nil
}

func errResult(err error) CallResult {
	return CallResult{
		Content:   []ContentPart{{Type: "text", Text: err.Error()}},
		IsError:   true,
		ErrorKind: errorKind(err),
	}
}

// errorKind maps domain errors onto the wire taxonomy.
func errorKind(err error) string {
	switch {
	case errors.Is(err, booking.ErrInvalidDate):
		return KindInvalidDate
	case errors.Is(err, booking.ErrInvalidTime):
		return KindInvalidTime
	case errors.Is(err, booking.ErrInvalidPartySize):
		return KindInvalidPartySize
	case errors.Is(err, booking.ErrInvalidEmail):
		return KindInvalidEmail
	case errors.Is(err, booking.ErrValidation), errors.Is(err, places.ErrInvalidQuery):
		return KindValidation
	case errors.Is(err, booking.ErrSlotConflict):
		return KindSlotConflict
	case errors.Is(err, booking.ErrNotFound):
		return KindNotFound
	case errors.Is(err, places.ErrUnavailable):
		return KindProviderUnavailable
	default:
		return KindInternal
	}
}
