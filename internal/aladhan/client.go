// Package aladhan is a thin client for the AlAdhan prayer-times API. It
// resolves prayer timings by free-form address and converts Gregorian dates
// to the Hijri calendar.
package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hshehabu/salah-times/config"
	"github.com/hshehabu/salah-times/internal/logger"
)

var (
	// ErrCityNotFound marks a lookup the API could not geocode. Callers show
	// the spelling hint rather than a generic failure.
	ErrCityNotFound = errors.New("city not found")
	// ErrUnavailable marks transport failures and upstream outages.
	ErrUnavailable = errors.New("prayer times service unavailable")
)

// Client calls the AlAdhan HTTP API.
type Client struct {
	baseURL string
	method  int
	iso8601 bool
	http    *http.Client
}

// NewClient builds a client from config with the shared retrying transport.
func NewClient(cfg config.PrayerAPIConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		method:  cfg.Method,
		iso8601: cfg.ISO8601,
		http:    buildHTTPClient(),
	}
}

// Timings looks up today's prayer times for a free-form city string.
func (c *Client) Timings(ctx context.Context, city string) (*TimingsResult, error) {
	q := url.Values{}
	q.Set("address", city)
	q.Set("method", strconv.Itoa(c.method))
	q.Set("iso8601", strconv.FormatBool(c.iso8601))
	endpoint := fmt.Sprintf("%s/timingsByAddress?%s", c.baseURL, q.Encode())

	start := time.Now()
	var parsed timingsResponse
	status, err := c.getJSON(ctx, endpoint, &parsed)
	took := time.Since(start)
	if err != nil {
		logger.Warn(ctx, "api", "api.timings",
			slog.String("city", logger.Sanitize(city)),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status == http.StatusNotFound || (status == http.StatusOK && parsed.Code != http.StatusOK) || status == http.StatusBadRequest {
		return nil, ErrCityNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d", ErrUnavailable, status)
	}

	logger.Debug(ctx, "api", "api.timings",
		slog.String("city", logger.Sanitize(city)),
		slog.String("timezone", parsed.Data.Meta.Timezone),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	return &TimingsResult{
		City:    city,
		Timings: parsed.Data.Timings,
		Meta:    parsed.Data.Meta,
		Date:    parsed.Data.Date,
	}, nil
}

// ToHijri converts a Gregorian date to its Hijri rendering.
func (c *Client) ToHijri(ctx context.Context, date time.Time) (*DualDate, error) {
	endpoint := fmt.Sprintf("%s/gToH/%02d-%02d-%04d", c.baseURL, date.Day(), int(date.Month()), date.Year())

	var parsed conversionResponse
	status, err := c.getJSON(ctx, endpoint, &parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status != http.StatusOK || parsed.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d", ErrUnavailable, status)
	}
	return &parsed.Data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && resp.StatusCode == http.StatusOK {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
