package services

import (
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/ports"
)

// RouteFromDirections flattens provider legs and steps into a planner route.
// This is the only place meters are converted to miles.
func RouteFromDirections(d ports.Directions) (domain.Route, error) {
	segments := make([]domain.Segment, 0)
	for _, leg := range d.Legs {
		for _, step := range leg.Steps {
			segments = append(segments, domain.Segment{
				LengthMiles: step.DistanceMeters / domain.MetersPerMile,
				Start:       step.Start,
				End:         step.End,
			})
		}
	}

	if len(segments) == 0 {
		return domain.Route{}, fmt.Errorf("route from directions: no steps in response: %w", domain.ErrRouteUnavailable)
	}

	return domain.Route{Segments: segments}, nil
}

// TotalDistance sums segment lengths in miles. An empty route has length 0.
func TotalDistance(route domain.Route) float64 {
	total := 0.0
	for _, s := range route.Segments {
		total += s.LengthMiles
	}
	return total
}
