package holidays

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

const (
	defaultHTTPTimeout = 20 * time.Second
	dateLayout         = "2006-01-02"
)

// Client talks to the holiday-calendar HTTP API.
//
// GET {base}/v1/holidays?country=BE&year=2026&language=nl&category=public
// → 200 {"holidays": [{"date": "2026-01-01", "name": "Nieuwjaar"}, ...]}
// → 4xx {"error": {"code": "categories_unsupported" | "language_unsupported" | ..., "message": "..."}}
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

type holidaysResponse struct {
	Holidays []struct {
		Date string `json:"date"`
		Name string `json:"name"`
	} `json:"holidays"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Holidays fetches the holiday set for one country, year and locale.
func (c *Client) Holidays(ctx context.Context, country string, year int, locale string, categories []Category) ([]Holiday, error) {
	q := url.Values{}
	q.Set("country", country)
	q.Set("year", strconv.Itoa(year))
	q.Set("language", locale)
	for _, cat := range categories {
		q.Add("category", string(cat))
	}

	reqURL := fmt.Sprintf("%s/v1/holidays?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build holidays request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapError(resp, country, year, locale)
	}

	var body holidaysResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse holidays response: %w", err)
	}

	out := make([]Holiday, 0, len(body.Holidays))
	for _, h := range body.Holidays {
		date, err := time.Parse(dateLayout, h.Date)
		if err != nil {
			c.logger.Warn("Skipping holiday with unparseable date",
				zap.String("country", country),
				zap.Int("year", year),
				zap.String("date", h.Date))
			continue
		}
		out = append(out, Holiday{Date: date, Name: h.Name})
	}

	c.logger.Debug("Fetched holidays",
		zap.String("country", country),
		zap.Int("year", year),
		zap.String("locale", locale),
		zap.Int("count", len(out)))

	return out, nil
}

// mapError turns the provider's structured error body into the sentinel
// errors the generation flow dispatches on.
func (c *Client) mapError(resp *http.Response, country string, year int, locale string) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		switch body.Error.Code {
		case "categories_unsupported":
			return fmt.Errorf("%s %d: %w", country, year, ErrCategoriesUnsupported)
		case "language_unsupported":
			return fmt.Errorf("%s %d locale %s: %w", country, year, locale, ErrLocaleUnsupported)
		}
		if body.Error.Message != "" {
			return fmt.Errorf("holiday provider returned status %d: %s", resp.StatusCode, body.Error.Message)
		}
	}
	return fmt.Errorf("holiday provider returned status %d", resp.StatusCode)
}
