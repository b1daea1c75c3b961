// Package places is a typed client for the Google Geocoding and Places web
// services, shaped for restaurant search.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

var (
	// ErrUnavailable covers transport failures, upstream error statuses,
	// and unusable upstream payloads.
	ErrUnavailable = errors.New("place lookup unavailable")

	// ErrInvalidQuery marks caller mistakes that no upstream call can fix.
	ErrInvalidQuery = errors.New("invalid search query")
)

const (
	defaultBaseURL       = "https://maps.googleapis.com/maps/api"
	defaultTimeout       = 10 * time.Second
	defaultRadiusMeters  = 5000
	defaultMaxResults    = 10
	maxRadiusMeters      = 50000
	maxResponseSizeBytes = 2 << 20

	// Only the leading results are worth a details round trip.
	detailsTopN        = 5
	detailsConcurrency = 3
)

type Config struct {
	APIKey  string        `envconfig:"GOOGLE_PLACES_API_KEY" required:"true"`
	BaseURL string        `envconfig:"GOOGLE_PLACES_BASE_URL" default:"https://maps.googleapis.com/maps/api"`
	Timeout time.Duration `envconfig:"GOOGLE_PLACES_TIMEOUT" default:"10s"`
}

// Query filters a restaurant search around a free-form location.
type Query struct {
	Location   string  `json:"location"`
	Cuisine    string  `json:"cuisine_type"`
	Radius     int     `json:"radius"`
	MinRating  float64 `json:"min_rating"`
	MaxResults int     `json:"max_results"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Place struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Rating       float64  `json:"rating"`
	PriceLevel   int      `json:"price_level"`
	Types        []string `json:"types"`
	OpenNow      *bool    `json:"open_now"`
	Phone        string   `json:"phone,omitempty"`
	Website      string   `json:"website,omitempty"`
	OpeningHours []string `json:"opening_hours,omitempty"`
}

// Result is one completed search.
type Result struct {
	Restaurants    []Place     `json:"restaurants"`
	TotalFound     int         `json:"total_found"`
	SearchLocation string      `json:"search_location"`
	Coordinates    Coordinates `json:"coordinates"`
}

// Option customizes Client.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("google places api key is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid places base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Search geocodes the location, lists nearby restaurants above the rating
// floor, and enriches the leading results with contact details.
func (c *Client) Search(ctx context.Context, q Query) (Result, error) {
	location := strings.TrimSpace(q.Location)
	if location == "" {
		return Result{}, fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}

	radius := q.Radius
	if radius == 0 {
		radius = defaultRadiusMeters
	}
	if radius < 0 || radius > maxRadiusMeters {
		return Result{}, fmt.Errorf("%w: radius must be between 1 and %d meters, got %d", ErrInvalidQuery, maxRadiusMeters, q.Radius)
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	coords, err := c.geocode(ctx, location)
	if err != nil {
		return Result{}, err
	}

	found, err := c.nearby(ctx, coords, radius, q.Cuisine)
	if err != nil {
		return Result{}, err
	}
	if len(found) > maxResults {
		found = found[:maxResults]
	}

	kept := make([]Place, 0, len(found))
	for _, p := range found {
		if p.Rating >= q.MinRating {
			kept = append(kept, p)
		}
	}

	c.enrich(ctx, kept)

	return Result{
		Restaurants:    kept,
		TotalFound:     len(kept),
		SearchLocation: location,
		Coordinates:    coords,
	}, nil
}

func (c *Client) geocode(ctx context.Context, location string) (Coordinates, error) {
	params := url.Values{}
	params.Set("address", location)
	params.Set("key", c.apiKey)

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location Coordinates `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, "/geocode/json", params, &payload); err != nil {
		return Coordinates{}, err
	}
	if err := checkUpstreamStatus("geocode", payload.Status); err != nil {
		return Coordinates{}, err
	}
	if len(payload.Results) == 0 {
		return Coordinates{}, fmt.Errorf("%w: no geocoding results for %q", ErrUnavailable, location)
	}
	return payload.Results[0].Geometry.Location, nil
}

func (c *Client) nearby(ctx context.Context, coords Coordinates, radius int, cuisine string) ([]Place, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", coords.Lat, coords.Lng))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("type", "restaurant")
	params.Set("key", c.apiKey)
	if keyword := strings.TrimSpace(cuisine); keyword != "" && !strings.EqualFold(keyword, "restaurant") {
		params.Set("keyword", keyword)
	}

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			PlaceID      string   `json:"place_id"`
			Name         string   `json:"name"`
			Vicinity     string   `json:"vicinity"`
			Rating       float64  `json:"rating"`
			PriceLevel   int      `json:"price_level"`
			Types        []string `json:"types"`
			OpeningHours *struct {
				OpenNow *bool `json:"open_now"`
			} `json:"opening_hours"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, "/place/nearbysearch/json", params, &payload); err != nil {
		return nil, err
	}
	if err := checkUpstreamStatus("nearby search", payload.Status); err != nil {
		return nil, err
	}

	found := make([]Place, 0, len(payload.Results))
	for _, r := range payload.Results {
		p := Place{
			PlaceID:    r.PlaceID,
			Name:       r.Name,
			Address:    r.Vicinity,
			Rating:     r.Rating,
			PriceLevel: r.PriceLevel,
			Types:      r.Types,
		}
		if p.Name == "" {
			p.Name = "Unknown"
		}
		if r.OpeningHours != nil {
			p.OpenNow = r.OpeningHours.OpenNow
		}
		found = append(found, p)
	}
	return found, nil
}

type placeDetails struct {
	Phone        string
	Website      string
	OpeningHours []string
}

func (c *Client) details(ctx context.Context, placeID string) (placeDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "formatted_phone_number,website,opening_hours")
	params.Set("key", c.apiKey)

	var payload struct {
		Status string `json:"status"`
		Result *struct {
			FormattedPhoneNumber string `json:"formatted_phone_number"`
			Website              string `json:"website"`
			OpeningHours         *struct {
				WeekdayText []string `json:"weekday_text"`
			} `json:"opening_hours"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, "/place/details/json", params, &payload); err != nil {
		return placeDetails{}, err
	}
	if err := checkUpstreamStatus("place details", payload.Status); err != nil {
		return placeDetails{}, err
	}
	if payload.Result == nil {
		return placeDetails{}, fmt.Errorf("%w: empty details for %s", ErrUnavailable, placeID)
	}

	d := placeDetails{
		Phone:   payload.Result.FormattedPhoneNumber,
		Website: payload.Result.Website,
	}
	if payload.Result.OpeningHours != nil {
		d.OpeningHours = payload.Result.OpeningHours.WeekdayText
	}
	return d, nil
}

// enrich merges contact details onto the leading results. A failed detail
// lookup leaves that place as found; the search itself still succeeds.
func (c *Client) enrich(ctx context.Context, found []Place) {
	top := found
	if len(top) > detailsTopN {
		top = top[:detailsTopN]
	}

	p := pool.New().WithMaxGoroutines(detailsConcurrency)
	for i := range top {
		if top[i].PlaceID == "" {
			continue
		}
		p.Go(func() {
			d, err := c.details(ctx, top[i].PlaceID)
			if err != nil {
				log.Debug().Err(err).Str("place_id", top[i].PlaceID).Msg("place details lookup failed")
				return
			}
			top[i].Phone = d.Phone
			top[i].Website = d.Website
			top[i].OpeningHours = d.OpeningHours
		})
	}
	p.Wait()
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: http status=%d body=%s", ErrUnavailable, resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

// checkUpstreamStatus folds the web service status field into the error
// contract. OK and ZERO_RESULTS both mean the call itself worked.
func checkUpstreamStatus(operation, status string) error {
	switch status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	default:
		return fmt.Errorf("%w: %s status=%s", ErrUnavailable, operation, status)
	}
}
