package googlemaps

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

// Config holds connection settings shared by the directions and places adapters.
type Config struct {
	APIKey  string
	BaseURL string // empty uses the public Google endpoint; tests point it at httptest
	Timeout time.Duration
	// RequestsPerSecond caps outgoing calls; 0 keeps the library default.
	RequestsPerSecond int
}

// NewClient builds a Google Maps web service client.
func NewClient(cfg Config) (*maps.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("google maps: api key is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, maps.WithRateLimit(cfg.RequestsPerSecond))
	}

	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("google maps: new client: %w", err)
	}
	return c, nil
}

// statusCode extracts the API status from a library error of the form
// "maps: STATUS - message". Transport and decoding errors return "".
func statusCode(err error) string {
	if err == nil {
		return ""
	}
	msg, ok := strings.CutPrefix(err.Error(), "maps: ")
	if !ok {
		return ""
	}
	code, _, ok := strings.Cut(msg, " - ")
	if !ok || code == "" {
		return ""
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && r != '_' {
			return ""
		}
	}
	return code
}
