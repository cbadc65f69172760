package mock

import (
	"context"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/ports"
	"sync"
	"sync/atomic"
)

// RouteProvider returns canned directions (or an error) and counts calls.
type RouteProvider struct {
	Directions ports.Directions
	Err        error

	calls atomic.Int32
}

func (p *RouteProvider) GetDirections(ctx context.Context, origin, destination string) (ports.Directions, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return ports.Directions{}, err
	}
	if p.Err != nil {
		return ports.Directions{}, p.Err
	}
	return p.Directions, nil
}

func (p *RouteProvider) Calls() int { return int(p.calls.Load()) }

// LookupFunc answers a single nearby search.
type LookupFunc func(ctx context.Context, center domain.Coordinates) ([]ports.PlaceCandidate, error)

// PlacesProvider delegates to Lookup and records every searched center.
type PlacesProvider struct {
	Lookup LookupFunc

	mu      sync.Mutex
	centers []domain.Coordinates
	radii   []int
}

func (p *PlacesProvider) NearbyFuelStations(
	ctx context.Context,
	center domain.Coordinates,
	radiusMeters int,
) ([]ports.PlaceCandidate, error) {
	p.mu.Lock()
	p.centers = append(p.centers, center)
	p.radii = append(p.radii, radiusMeters)
	p.mu.Unlock()

	if p.Lookup == nil {
		return nil, nil
	}
	return p.Lookup(ctx, center)
}

func (p *PlacesProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.centers)
}

// Radii returns the search radius of every call in arrival order.
func (p *PlacesProvider) Radii() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.radii...)
}

// StraightDirections builds a single-leg route heading north from start,
// one step per length (in miles). Step lengths are reported in meters.
func StraightDirections(start domain.Coordinates, lengthsMiles ...float64) ports.Directions {
	leg := ports.Leg{}
	cur := start
	for _, miles := range lengthsMiles {
		next := domain.Coordinates{Lat: cur.Lat + miles/69.0, Lng: cur.Lng}
		meters := miles * domain.MetersPerMile
		leg.Steps = append(leg.Steps, ports.Step{DistanceMeters: meters, Start: cur, End: next})
		leg.DistanceMeters += meters
		cur = next
	}
	return ports.Directions{Legs: []ports.Leg{leg}}
}
