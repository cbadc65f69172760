package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StationResolver attaches a real fuel station to each planned stop.
type StationResolver struct {
	Places       ports.PlacesProvider
	RadiusMeters int
	Metrics      *obs.Metrics
	Logger       *zap.Logger
}

// Resolve issues one lookup per planned stop concurrently and waits for all
// of them. Output order matches input order regardless of completion order.
//
// A lookup with no candidates or a non-success status yields a placeholder
// record at the planned coordinate. Any other lookup error aborts the batch
// and is returned wrapped in domain.ErrProviderFailure.
func (r *StationResolver) Resolve(ctx context.Context, stops []domain.PlannedStop) (_ []domain.StopRecord, err error) {
	defer obs.Time(ctx, "stations.Resolve")(&err)

	records := make([]domain.StopRecord, len(stops))
	if len(stops) == 0 {
		return records, nil
	}

	radius := r.RadiusMeters
	if radius <= 0 {
		radius = domain.DefaultSearchRadiusMeters
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, stop := range stops {
		g.Go(func() error {
			candidates, err := r.Places.NearbyFuelStations(gctx, stop.Position, radius)
			switch {
			case errors.Is(err, ports.ErrLookupStatus):
				r.logger().Info("station lookup returned non-success status",
					zap.Int("stop", i+1), zap.Error(err))
				r.observe("empty")
				records[i] = domain.PlaceholderStop(i+1, stop)
				return nil
			case err != nil:
				r.observe("error")
				return fmt.Errorf("resolve stations: lookup for stop %d: %w: %w", i+1, domain.ErrProviderFailure, err)
			case len(candidates) == 0:
				r.observe("empty")
				records[i] = domain.PlaceholderStop(i+1, stop)
				return nil
			}

			r.observe("found")
			records[i] = recordFromCandidate(i+1, stop, candidates[0])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

// recordFromCandidate maps the provider's top-ranked candidate onto a stop.
func recordFromCandidate(index int, stop domain.PlannedStop, c ports.PlaceCandidate) domain.StopRecord {
	address := c.Vicinity
	if address == "" {
		address = c.FormattedAddress
	}

	position := c.Location
	if position == (domain.Coordinates{}) {
		position = stop.Position
	}

	rec := domain.StopRecord{
		Index:                  index,
		DistanceFromStartMiles: stop.DistanceFromStartMiles,
		Position:               position,
		Name:                   c.Name,
		Address:                address,
		StationFound:           true,
	}

	// Rating and review count travel together.
	if c.Rating != nil {
		rating := *c.Rating
		total := 0
		if c.UserRatingsTotal != nil {
			total = *c.UserRatingsTotal
		}
		rec.Rating = &rating
		rec.UserRatingsTotal = &total
	}

	return rec
}

func (r *StationResolver) observe(outcome string) {
	if r.Metrics != nil {
		r.Metrics.StationLookups.WithLabelValues(outcome).Inc()
	}
}

func (r *StationResolver) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.L()
}
