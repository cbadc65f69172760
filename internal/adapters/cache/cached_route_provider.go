package cache

import (
	"context"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"

	"go.uber.org/zap"
)

// CachedRouteProvider wraps a RouteProvider with a persistent route cache.
// Cache failures are logged and fall through to the provider.
type CachedRouteProvider struct {
	inner   ports.RouteProvider
	cache   ports.RouteCache
	metrics *obs.Metrics
	logger  *zap.Logger
}

func NewCachedRouteProvider(
	inner ports.RouteProvider,
	cache ports.RouteCache,
	metrics *obs.Metrics,
	logger *zap.Logger,
) *CachedRouteProvider {
	if logger == nil {
		logger = zap.L()
	}
	return &CachedRouteProvider{inner: inner, cache: cache, metrics: metrics, logger: logger}
}

func (c *CachedRouteProvider) GetDirections(ctx context.Context, origin, destination string) (ports.Directions, error) {
	d, ok, err := c.cache.Get(ctx, origin, destination)
	switch {
	case err != nil:
		c.observe("error")
		c.logger.Warn("route cache read failed", zap.Error(err))
	case ok:
		c.observe("hit")
		return d, nil
	default:
		c.observe("miss")
	}

	d, err = c.inner.GetDirections(ctx, origin, destination)
	if err != nil {
		return ports.Directions{}, err
	}

	if err := c.cache.Put(ctx, origin, destination, d); err != nil {
		c.logger.Warn("route cache write failed", zap.Error(err))
	}
	return d, nil
}

func (c *CachedRouteProvider) observe(result string) {
	if c.metrics != nil {
		c.metrics.ProviderCache.WithLabelValues("route", result).Inc()
	}
}
