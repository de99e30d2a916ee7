package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultGeoapifyURL is the Geoapify routing endpoint.
const DefaultGeoapifyURL = "https://api.geoapify.com/v1/routing"

// GeoapifyClient implements RouteProvider over the Geoapify routing API.
type GeoapifyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// GeoapifyOption configures a GeoapifyClient.
type GeoapifyOption func(*GeoapifyClient)

// WithBaseURL overrides the routing endpoint.
func WithBaseURL(u string) GeoapifyOption {
	return func(c *GeoapifyClient) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) GeoapifyOption {
	return func(c *GeoapifyClient) { c.httpClient = hc }
}

// NewGeoapifyClient creates a routing client authenticated with apiKey.
func NewGeoapifyClient(apiKey string, opts ...GeoapifyOption) *GeoapifyClient {
	c := &GeoapifyClient{
		apiKey:     apiKey,
		baseURL:    DefaultGeoapifyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geoapifyResponse struct {
	Features []struct {
		Geometry struct {
			Type        string         `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Route fetches a driving route. Points come back as [lng, lat] pairs; only
// the first leg of the first feature is used.
func (c *GeoapifyClient) Route(ctx context.Context, origin, destination Coordinate) (Route, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("waypoints", fmt.Sprintf("%f,%f|%f,%f", origin.Lat, origin.Lng, destination.Lat, destination.Lng))
	q.Set("mode", "drive")
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoapify: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoapify: unexpected status %d", resp.StatusCode)
	}

	var body geoapifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geoapify: decode response: %w", err)
	}

	if len(body.Features) == 0 || len(body.Features[0].Geometry.Coordinates) == 0 {
		return nil, ErrNoRoute
	}

	leg := body.Features[0].Geometry.Coordinates[0]
	route := make(Route, 0, len(leg))
	for _, p := range leg {
		route = append(route, Coordinate{Lat: p[1], Lng: p[0]})
	}
	if len(route) == 0 {
		return nil, ErrNoRoute
	}
	return route, nil
}
