package ors

import (
	"context"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/adapters/cache"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.openrouteservice.org"

// RouteProvider implements ports.RouteProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Geocoding and directions calls with retry/backoff
//
// The provider is safe for concurrent use.
type RouteProvider struct {
	session        *http.Client
	apiKey         string
	baseURL        string
	profile        string
	country        string
	geocodeCache   *cache.SQLGeocodeCache
	maxAttempts    int
	initialBackoff time.Duration
}

// Config configures the ORS adapter. Zero values take the defaults.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// Country restricts geocoding (boundary.country); empty disables the filter.
	Country string
}

func NewRouteProvider(cfg Config, geocodeCache *cache.SQLGeocodeCache) (*RouteProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	provider := &RouteProvider{
		session:        &http.Client{Timeout: timeout},
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		profile:        "driving-car",
		country:        cfg.Country,
		geocodeCache:   geocodeCache,
		maxAttempts:    4,
		initialBackoff: 200 * time.Millisecond,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (p *RouteProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetDirections geocodes both ends (cache first) and fetches the driving route.
func (p *RouteProvider) GetDirections(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.Directions, err error) {
	defer obs.Time(ctx, "ors.GetDirections")(&err)

	normOrigin := p.normalize(origin)
	normDestination := p.normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.Directions{}, fmt.Errorf("ors directions: origin and destination must be non-empty: %w", domain.ErrRouteUnavailable)
	}

	needed := []string{normOrigin, normDestination}

	geocodeHits := make(map[string]domain.Coordinates)
	// Resolve coordinates via cache before calling ORS geocoding.
	if p.geocodeCache != nil {
		hits, err := p.geocodeCache.GetMany(ctx, needed)
		if err != nil {
			zap.L().Warn("geocode cache read failed", zap.Error(err))
		} else {
			geocodeHits = hits
		}
	}

	misses := make([]string, 0, len(needed))
	for _, a := range needed {
		if _, ok := geocodeHits[a]; !ok {
			misses = append(misses, a)
		}
	}

	fresh := make(map[string]domain.Coordinates)
	if len(misses) > 0 {
		fresh, err = p.geocodeMany(ctx, misses)
		if err != nil {
			return ports.Directions{}, fmt.Errorf("ors directions: retrieving coordinates: %w", err)
		}
	}

	if p.geocodeCache != nil && len(fresh) > 0 {
		if err := p.geocodeCache.PutMany(ctx, fresh); err != nil {
			zap.L().Warn("geocode cache write failed", zap.Error(err))
		}
	}

	coords := make(map[string]domain.Coordinates, len(geocodeHits)+len(fresh))
	for k, v := range geocodeHits {
		coords[k] = v
	}
	for k, v := range fresh {
		coords[k] = v
	}

	d, err := p.fetchDirections(ctx, coords[normOrigin], coords[normDestination])
	if err != nil {
		return ports.Directions{}, fmt.Errorf("ors directions %q -> %q: %w", normOrigin, normDestination, err)
	}

	return d, nil
}

// classify maps a transport-level failure to the route error taxonomy.
// Client errors (bad request, unroutable point) mean ORS answered without a route.
func classify(err error) error {
	var he *httpStatusError
	if errors.As(err, &he) && he.Code >= 400 && he.Code < 500 && !he.retryable() {
		return fmt.Errorf("%w: %w", domain.ErrRouteUnavailable, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
}
