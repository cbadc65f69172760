package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	RouteProviderGoogle = "google"
	RouteProviderORS    = "ors"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port            string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	RouteProvider    string
	GoogleMapsAPIKey string
	GoogleMapsURL    string
	ORSAPIKey        string
	ORSBaseURL       string
	ProviderTimeout  time.Duration

	SearchRadiusMeters int

	// Optional caches; empty URLs disable them.
	DatabaseURL    string
	RouteCacheTTL  time.Duration
	RedisURL       string
	PlacesCacheTTL time.Duration

	RateLimitPerMinute int
}

var defaults = map[string]string{
	"PORT":                  "8080",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
	"SHUTDOWN_TIMEOUT":      "10s",
	"ROUTE_PROVIDER":        RouteProviderGoogle,
	"GOOGLE_MAPS_API_KEY":   "",
	"GOOGLE_MAPS_BASE_URL":  "",
	"ORS_API_KEY":           "",
	"ORS_BASE_URL":          "",
	"PROVIDER_TIMEOUT":      "10s",
	"SEARCH_RADIUS_METERS":  "8000",
	"DATABASE_URL":          "",
	"ROUTE_CACHE_TTL":       "168h",
	"REDIS_URL":             "",
	"PLACES_CACHE_TTL":      "24h",
	"RATE_LIMIT_PER_MINUTE": "30",
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, def := range defaults {
		_ = v.BindEnv(key)
		v.SetDefault(key, def)
	}
	return v
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	v := newViper()

	shutdownTimeout, err := positiveDuration(v, "SHUTDOWN_TIMEOUT")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := positiveDuration(v, "PROVIDER_TIMEOUT")
	if err != nil {
		return nil, err
	}
	routeCacheTTL, err := positiveDuration(v, "ROUTE_CACHE_TTL")
	if err != nil {
		return nil, err
	}
	placesCacheTTL, err := positiveDuration(v, "PLACES_CACHE_TTL")
	if err != nil {
		return nil, err
	}

	radius, err := intInRange(v, "SEARCH_RADIUS_METERS", 1, 50000)
	if err != nil {
		return nil, err
	}
	rateLimit, err := intInRange(v, "RATE_LIMIT_PER_MINUTE", 0, 100000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               strings.TrimSpace(v.GetString("PORT")),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogFormat:          strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
		ShutdownTimeout:    shutdownTimeout,
		RouteProvider:      strings.ToLower(strings.TrimSpace(v.GetString("ROUTE_PROVIDER"))),
		GoogleMapsAPIKey:   strings.TrimSpace(v.GetString("GOOGLE_MAPS_API_KEY")),
		GoogleMapsURL:      strings.TrimSpace(v.GetString("GOOGLE_MAPS_BASE_URL")),
		ORSAPIKey:          strings.TrimSpace(v.GetString("ORS_API_KEY")),
		ORSBaseURL:         strings.TrimSpace(v.GetString("ORS_BASE_URL")),
		ProviderTimeout:    providerTimeout,
		SearchRadiusMeters: radius,
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		RouteCacheTTL:      routeCacheTTL,
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		PlacesCacheTTL:     placesCacheTTL,
		RateLimitPerMinute: rateLimit,
	}

	switch cfg.RouteProvider {
	case RouteProviderGoogle:
	case RouteProviderORS:
		if cfg.ORSAPIKey == "" {
			return nil, fmt.Errorf("ORS_API_KEY is required when ROUTE_PROVIDER=%s", RouteProviderORS)
		}
	default:
		return nil, fmt.Errorf("invalid ROUTE_PROVIDER %q (want %s or %s)", cfg.RouteProvider, RouteProviderGoogle, RouteProviderORS)
	}

	// Station lookups always go through Google Places.
	if cfg.GoogleMapsAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want json or console)", cfg.LogFormat)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	s := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func intInRange(v *viper.Viper, key string, lo, hi int) (int, error) {
	s := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s %q (want %d..%d)", key, s, lo, hi)
	}
	return n, nil
}
