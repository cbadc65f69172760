package services

import (
	"fmt"
	"fuel-stop-planner/internal/domain"
	"iter"
	"math"
)

// PlanStops walks the route and yields a stop every usableRangeMiles of
// cumulative distance, positioned by linear interpolation inside the segment
// where the threshold is crossed.
//
// Preconditions are checked eagerly. The returned sequence is lazy and
// restartable: each iteration walks the route from the start with fresh
// counters, so ranging twice yields identical stops.
//
// When the remaining range exactly equals the rest of a segment, the stop is
// placed at the segment's end coordinate and the next segment starts with an
// empty counter. Zero-length segments contribute nothing and are skipped.
func PlanStops(route domain.Route, usableRangeMiles float64) (iter.Seq[domain.PlannedStop], error) {
	if math.IsNaN(usableRangeMiles) || math.IsInf(usableRangeMiles, 0) || usableRangeMiles <= 0 {
		return nil, fmt.Errorf("plan stops: usable range %v must be positive: %w", usableRangeMiles, domain.ErrInvalidRoute)
	}
	if len(route.Segments) == 0 {
		return nil, fmt.Errorf("plan stops: route has no segments: %w", domain.ErrInvalidRoute)
	}
	for i, s := range route.Segments {
		if math.IsNaN(s.LengthMiles) || math.IsInf(s.LengthMiles, 0) || s.LengthMiles < 0 {
			return nil, fmt.Errorf("plan stops: segment %d has invalid length %v: %w", i, s.LengthMiles, domain.ErrInvalidRoute)
		}
	}
	if TotalDistance(route) <= 0 {
		return nil, fmt.Errorf("plan stops: route has zero length: %w", domain.ErrInvalidRoute)
	}

	segments := route.Segments

	return func(yield func(domain.PlannedStop) bool) {
		sinceLastStop := 0.0
		cumulative := 0.0

		for _, seg := range segments {
			if seg.LengthMiles == 0 {
				continue
			}

			remaining := seg.LengthMiles
			offset := 0.0

			for remaining > 0 {
				toNext := usableRangeMiles - sinceLastStop
				if toNext > remaining {
					sinceLastStop += remaining
					cumulative += remaining
					break
				}

				cumulative += toNext
				offset += toNext
				remaining -= toNext
				sinceLastStop = 0

				pos := seg.End
				if remaining > 0 {
					pos = seg.Start.Interpolate(seg.End, offset/seg.LengthMiles)
				}

				if !yield(domain.PlannedStop{Position: pos, DistanceFromStartMiles: cumulative}) {
					return
				}
			}
		}
	}, nil
}

