package googlemaps

import (
	"context"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"

	"googlemaps.github.io/maps"
)

// RouteProvider implements ports.RouteProvider with the Directions API.
type RouteProvider struct {
	client *maps.Client
}

func NewRouteProvider(client *maps.Client) *RouteProvider {
	return &RouteProvider{client: client}
}

// GetDirections requests a single driving route (no alternatives) and
// returns its legs and steps.
func (p *RouteProvider) GetDirections(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.Directions, err error) {
	defer obs.Time(ctx, "google.GetDirections")(&err)

	routes, _, err := p.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         maps.TravelModeDriving,
		Alternatives: false,
	})
	if err != nil {
		if code := statusCode(err); code != "" {
			return ports.Directions{}, fmt.Errorf("google directions: status %s: %w", code, domain.ErrRouteUnavailable)
		}
		return ports.Directions{}, fmt.Errorf("google directions: %w: %w", domain.ErrProviderFailure, err)
	}

	if len(routes) == 0 {
		return ports.Directions{}, fmt.Errorf("google directions: no route from %q to %q: %w", origin, destination, domain.ErrRouteUnavailable)
	}

	return toDirections(routes[0]), nil
}

func toDirections(r maps.Route) ports.Directions {
	out := ports.Directions{Legs: make([]ports.Leg, 0, len(r.Legs))}
	for _, leg := range r.Legs {
		if leg == nil {
			continue
		}
		l := ports.Leg{
			DistanceMeters: float64(leg.Distance.Meters),
			Steps:          make([]ports.Step, 0, len(leg.Steps)),
		}
		for _, s := range leg.Steps {
			if s == nil {
				continue
			}
			l.Steps = append(l.Steps, ports.Step{
				DistanceMeters: float64(s.Distance.Meters),
				Start:          domain.Coordinates{Lat: s.StartLocation.Lat, Lng: s.StartLocation.Lng},
				End:            domain.Coordinates{Lat: s.EndLocation.Lat, Lng: s.EndLocation.Lng},
			})
		}
		out.Legs = append(out.Legs, l)
	}
	return out
}
