package googlemaps

import (
	"context"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"

	"googlemaps.github.io/maps"
)

// PlacesProvider implements ports.PlacesProvider with Places Nearby Search.
type PlacesProvider struct {
	client *maps.Client
}

func NewPlacesProvider(client *maps.Client) *PlacesProvider {
	return &PlacesProvider{client: client}
}

// NearbyFuelStations searches for gas stations within radiusMeters of center.
// ZERO_RESULTS is an empty slice; any other non-OK status wraps ports.ErrLookupStatus.
func (p *PlacesProvider) NearbyFuelStations(
	ctx context.Context,
	center domain.Coordinates,
	radiusMeters int,
) (_ []ports.PlaceCandidate, err error) {
	defer obs.Time(ctx, "google.NearbyFuelStations")(&err)

	if radiusMeters <= 0 {
		return nil, fmt.Errorf("google nearby search: radius must be positive, got %d", radiusMeters)
	}

	resp, err := p.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: center.Lat, Lng: center.Lng},
		Radius:   uint(radiusMeters),
		Type:     maps.PlaceTypeGasStation,
	})
	if err != nil {
		if code := statusCode(err); code != "" {
			return nil, fmt.Errorf("google nearby search: status %s: %w", code, ports.ErrLookupStatus)
		}
		return nil, fmt.Errorf("google nearby search: %w", err)
	}

	out := make([]ports.PlaceCandidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		c := ports.PlaceCandidate{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Location:         domain.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Vicinity:         r.Vicinity,
			FormattedAddress: r.FormattedAddress,
		}
		// The API omits rating for unrated places, which decodes as zero.
		if r.Rating > 0 {
			rating := float64(r.Rating)
			total := r.UserRatingsTotal
			c.Rating = &rating
			c.UserRatingsTotal = &total
		}
		out = append(out, c)
	}

	return out, nil
}
