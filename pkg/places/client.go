package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// ErrMissingAPIKey is returned when the client is constructed without a key.
var ErrMissingAPIKey = errors.New("places API key not configured")

// Client is a Google Places API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Place is a single nearby-search result.
type Place struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Vicinity string   `json:"vicinity"`
	Rating   float64  `json:"rating"`
	Types    []string `json:"types"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type nearbySearchResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []Place `json:"results"`
}

// ProviderError carries a non-OK status returned by the Places API.
type ProviderError struct {
	Status  string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("places API error: %s (%s)", e.Status, e.Message)
	}
	return fmt.Sprintf("places API error: %s", e.Status)
}

// NewClient creates a Places client. The key may be empty; calls will then
// fail with ErrMissingAPIKey so the HTTP layer can report a config problem.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NearbyRestaurants searches for restaurants around a coordinate.
// Radius is in meters; zero falls back to 5000.
func (c *Client) NearbyRestaurants(ctx context.Context, lat, lng float64, radius int) ([]Place, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if radius <= 0 {
		radius = 5000
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radius))
	params.Set("type", "restaurant")
	params.Set("key", c.apiKey)

	endpoint := fmt.Sprintf("%s/nearbysearch/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read places response: %w", err)
	}

	var parsed nearbySearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal places response: %w", err)
	}

	if parsed.Status != "OK" && parsed.Status != "ZERO_RESULTS" {
		return nil, &ProviderError{Status: parsed.Status, Message: parsed.ErrorMessage}
	}

	return parsed.Results, nil
}
