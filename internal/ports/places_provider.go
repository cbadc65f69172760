package ports

import (
	"context"
	"errors"
	"fuel-stop-planner/internal/domain"
)

// ErrLookupStatus marks a places response with a non-success status.
// It is data for the caller (no station found), not an infrastructure failure.
var ErrLookupStatus = errors.New("places lookup returned non-success status")

// A ranked point of interest returned by a nearby search.
type PlaceCandidate struct {
	PlaceID          string
	Name             string
	Location         domain.Coordinates
	Vicinity         string
	FormattedAddress string
	Rating           *float64
	UserRatingsTotal *int
}

// Contract for finding fuel stations around a coordinate.
type PlacesProvider interface {
	// Return candidates ordered by the provider's ranking; empty when nothing matched.
	NearbyFuelStations(ctx context.Context, center domain.Coordinates, radiusMeters int) ([]PlaceCandidate, error)
}
