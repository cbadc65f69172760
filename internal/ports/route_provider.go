package ports

import (
	"context"
	"fuel-stop-planner/internal/domain"
)

// One provider step: a polyline approximated by its two endpoints.
type Step struct {
	DistanceMeters float64
	Start          domain.Coordinates
	End            domain.Coordinates
}

// One provider leg (origin to destination without waypoints yields a single leg).
type Leg struct {
	DistanceMeters float64
	Steps          []Step
}

// Directions is the provider's answer for a single driving route, in meters.
type Directions struct {
	Legs []Leg
}

// Contract for retrieving a driving route between two free-text locations.
//
// Implementations request driving mode without alternatives and report
// failures as domain.ErrRouteUnavailable (the provider answered with a
// non-success status or no route) or domain.ErrProviderFailure (transport).
type RouteProvider interface {
	GetDirections(ctx context.Context, origin string, destination string) (Directions, error)
}
