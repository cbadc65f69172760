package ports

import "context"

// Port: persistent storage for previously fetched directions.
type RouteCache interface {
	// Return cached directions and whether they were found.
	Get(ctx context.Context, origin string, destination string) (Directions, bool, error)
	Put(ctx context.Context, origin string, destination string, d Directions) error
}
