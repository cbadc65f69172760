package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const placesKeyPrefix = "fuelplanner:places:"

// RedisPlacesCache decorates a PlacesProvider with a Redis-backed lookup cache.
// Only non-empty results are cached so that a miss is retried on the next plan.
type RedisPlacesCache struct {
	inner   ports.PlacesProvider
	rdb     *redis.Client
	ttl     time.Duration
	metrics *obs.Metrics
	logger  *zap.Logger
}

func NewRedisPlacesCache(
	inner ports.PlacesProvider,
	rdb *redis.Client,
	ttl time.Duration,
	metrics *obs.Metrics,
	logger *zap.Logger,
) *RedisPlacesCache {
	if logger == nil {
		logger = zap.L()
	}
	return &RedisPlacesCache{inner: inner, rdb: rdb, ttl: ttl, metrics: metrics, logger: logger}
}

// placesKey rounds the center to five decimals (about a meter) so nearby
// repeat plans share entries.
func placesKey(center domain.Coordinates, radiusMeters int) string {
	return fmt.Sprintf("%s%.5f,%.5f:%d", placesKeyPrefix, center.Lat, center.Lng, radiusMeters)
}

func (c *RedisPlacesCache) NearbyFuelStations(
	ctx context.Context,
	center domain.Coordinates,
	radiusMeters int,
) ([]ports.PlaceCandidate, error) {
	key := placesKey(center, radiusMeters)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.observe("miss")
	case err != nil:
		c.observe("error")
		c.logger.Warn("places cache read failed", zap.String("key", key), zap.Error(err))
	default:
		var cached []ports.PlaceCandidate
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.observe("hit")
			return cached, nil
		}
		c.observe("error")
		c.logger.Warn("places cache entry corrupt", zap.String("key", key))
	}

	candidates, err := c.inner.NearbyFuelStations(ctx, center, radiusMeters)
	if err != nil || len(candidates) == 0 {
		return candidates, err
	}

	payload, err := json.Marshal(candidates)
	if err != nil {
		return candidates, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("places cache write failed", zap.String("key", key), zap.Error(err))
	}

	return candidates, nil
}

func (c *RedisPlacesCache) observe(result string) {
	if c.metrics != nil {
		c.metrics.ProviderCache.WithLabelValues("places", result).Inc()
	}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}
