// Package app builds the trip planner and its provider chain from configuration.
// Both the HTTP server and the CLI use it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/adapters/cache"
	"fuel-stop-planner/internal/adapters/googlemaps"
	"fuel-stop-planner/internal/adapters/ors"
	"fuel-stop-planner/internal/config"
	"fuel-stop-planner/internal/platform/db"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"fuel-stop-planner/internal/services"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// BuildPlanner wires route and places providers, the optional Postgres and
// Redis caches, and returns a ready TripPlanner. The returned cleanup closes
// whatever connections were opened and is safe to call on any path.
func BuildPlanner(
	ctx context.Context,
	cfg *config.Config,
	metrics *obs.Metrics,
	logger *zap.Logger,
) (_ *services.TripPlanner, cleanup func(), err error) {
	var closers []func() error
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](); cerr != nil {
				logger.Warn("cleanup failed", zap.Error(cerr))
			}
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	client, err := googlemaps.NewClient(googlemaps.Config{
		APIKey:  cfg.GoogleMapsAPIKey,
		BaseURL: cfg.GoogleMapsURL,
		Timeout: cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("build planner: %w", err)
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("build planner: %w", err)
		}
		closers = append(closers, sqlDB.Close)
		logger.Info("route cache enabled", zap.Duration("ttl", cfg.RouteCacheTTL))
	}

	routes, err := routeProvider(cfg, client, sqlDB)
	if err != nil {
		return nil, cleanup, fmt.Errorf("build planner: %w", err)
	}
	if sqlDB != nil {
		routes = cache.NewCachedRouteProvider(routes, cache.NewSQLRouteCache(sqlDB, cfg.RouteCacheTTL), metrics, logger)
	}

	var places ports.PlacesProvider = googlemaps.NewPlacesProvider(client)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("build planner: %w", err)
		}
		closers = append(closers, rdb.Close)
		places = cache.NewRedisPlacesCache(places, rdb, cfg.PlacesCacheTTL, metrics, logger)
		logger.Info("places cache enabled", zap.Duration("ttl", cfg.PlacesCacheTTL))
	}

	logger.Info("providers ready",
		zap.String("route_provider", cfg.RouteProvider),
		zap.Int("search_radius_meters", cfg.SearchRadiusMeters),
	)

	planner := services.NewTripPlanner(routes, places,
		services.WithMetrics(metrics),
		services.WithLogger(logger),
		services.WithSearchRadius(cfg.SearchRadiusMeters),
	)
	return planner, cleanup, nil
}

func routeProvider(cfg *config.Config, client *maps.Client, sqlDB *sql.DB) (ports.RouteProvider, error) {
	switch cfg.RouteProvider {
	case config.RouteProviderGoogle:
		return googlemaps.NewRouteProvider(client), nil
	case config.RouteProviderORS:
		var geocodeCache *cache.SQLGeocodeCache
		if sqlDB != nil {
			geocodeCache = cache.NewSQLGeocodeCache(sqlDB)
		}
		p, err := ors.NewRouteProvider(ors.Config{
			APIKey:  cfg.ORSAPIKey,
			BaseURL: cfg.ORSBaseURL,
			Timeout: cfg.ProviderTimeout,
		}, geocodeCache)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, errors.New("unknown route provider " + cfg.RouteProvider)
	}
}
