// Package geocode resolves free-text place names to coordinates using the
// Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"route_finder/pkg/geo"
)

// ErrNoMatch is returned when the service finds no result for the query.
// It is a user-facing outcome (bad spelling, obscure place), not a fault.
var ErrNoMatch = errors.New("no match for location")

// DefaultBaseURL is the public Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Result is a resolved location.
type Result struct {
	Coordinate  geo.LatLng
	DisplayName string
}

// Config configures a Client. UserAgent is mandatory: the public Nominatim
// instance rejects anonymous clients.
type Config struct {
	BaseURL      string
	UserAgent    string
	CountryCodes string // optional hint, e.g. "my"
	HTTPClient   *http.Client
}

// Client is a Nominatim search client. It performs no retries; a failed or
// empty lookup is reported to the caller as-is.
type Client struct {
	baseURL      string
	userAgent    string
	countryCodes string
	httpClient   *http.Client
}

// NewClient creates a geocoding client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, errors.New("geocode: UserAgent is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:      baseURL,
		userAgent:    cfg.UserAgent,
		countryCodes: cfg.CountryCodes,
		httpClient:   httpClient,
	}, nil
}

// nominatim's jsonv2 format carries coordinates as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text query to at most one location.
// Returns ErrNoMatch when the service has no result.
func (c *Client) Geocode(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: bad latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: bad longitude %q: %w", results[0].Lon, err)
	}

	p := geo.LatLng{Lat: lat, Lng: lng}
	if !p.Valid() {
		return nil, fmt.Errorf("geocode: coordinate out of range: %v", p)
	}

	return &Result{Coordinate: p, DisplayName: results[0].DisplayName}, nil
}
