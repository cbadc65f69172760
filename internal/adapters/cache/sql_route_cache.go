package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"strings"
	"time"
)

// SQLRouteCache stores fetched directions in Postgres keyed by the
// normalized origin/destination pair. Entries older than TTL are ignored.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl}
}

func routeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Get returns cached directions for origin -> destination.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.Directions, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.Directions{}, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT directions, fetched_at
    FROM route_cache
    WHERE origin = $1
        AND destination = $2;
	`

	var raw []byte
	var fetchedAt time.Time
	err = s.DB.QueryRowContext(ctx, q, routeKey(origin), routeKey(destination)).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Directions{}, false, nil
	}
	if err != nil {
		return ports.Directions{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if s.TTL > 0 && obs.Clock().Since(fetchedAt) > s.TTL {
		return ports.Directions{}, false, nil
	}

	var d ports.Directions
	if err := json.Unmarshal(raw, &d); err != nil {
		return ports.Directions{}, false, fmt.Errorf("get route cache: decode directions: %w", err)
	}

	return d, true, nil
}

// Put stores directions for origin -> destination, replacing any previous entry.
func (s *SQLRouteCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	d ports.Directions,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	o, dst := routeKey(origin), routeKey(destination)
	if o == "" || dst == "" {
		return errors.New("insert route cache: origin and destination must not be empty")
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("insert route cache: encode directions: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (origin, destination, directions, fetched_at)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET directions = EXCLUDED.directions,
		fetched_at = EXCLUDED.fetched_at;
	`, o, dst, raw, obs.Clock().Now().UTC())
	if err != nil {
		return fmt.Errorf("insert route cache %q -> %q: %w", o, dst, err)
	}

	return nil
}
