package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const defaultHTTPTimeout = 15 * time.Second

// GeocodeClient queries a Nominatim-compatible search endpoint.
//
// GET {base}/search?q=Belgium&format=json&limit=1
// → [{"lat": "50.64", "lon": "4.66", ...}]
type GeocodeClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGeocodeClient(baseURL string, timeout time.Duration, logger *zap.Logger) *GeocodeClient {
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	return &GeocodeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *GeocodeClient) Geocode(ctx context.Context, place string) (LatLng, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode()), nil)
	if err != nil {
		return LatLng{}, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LatLng{}, fmt.Errorf("failed to geocode %q: %w", place, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LatLng{}, fmt.Errorf("geocoder returned status %d for %q", resp.StatusCode, place)
	}

	// Nominatim returns lat/lon as strings.
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return LatLng{}, fmt.Errorf("failed to parse geocode response: %w", err)
	}
	if len(results) == 0 {
		return LatLng{}, fmt.Errorf("geocode %q: %w", place, ErrNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("geocode %q: bad latitude %q", place, results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("geocode %q: bad longitude %q", place, results[0].Lon)
	}

	c.logger.Debug("Geocoded place",
		zap.String("place", place),
		zap.Float64("lat", lat),
		zap.Float64("lng", lng))

	return LatLng{Lat: lat, Lng: lng}, nil
}

// TimezoneClient queries a coordinate-to-timezone endpoint.
//
// GET {base}/timezone?lat=50.64&lng=4.66
// → {"timezone": "Europe/Brussels"}
type TimezoneClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewTimezoneClient(baseURL string, timeout time.Duration, logger *zap.Logger) *TimezoneClient {
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	return &TimezoneClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *TimezoneClient) TimezoneAt(ctx context.Context, at LatLng) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(at.Lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/timezone?%s", c.baseURL, q.Encode()), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build timezone request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to look up timezone: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timezone lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to parse timezone response: %w", err)
	}
	if body.Timezone == "" {
		return "", ErrNotFound
	}
	return body.Timezone, nil
}
