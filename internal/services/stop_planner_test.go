package services

import (
	"errors"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/ports"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineRoute builds a route heading north from (0,0), one segment per length.
func lineRoute(lengths ...float64) domain.Route {
	segs := make([]domain.Segment, 0, len(lengths))
	cur := domain.Coordinates{}
	for _, l := range lengths {
		next := domain.Coordinates{Lat: cur.Lat + l/100, Lng: cur.Lng}
		segs = append(segs, domain.Segment{LengthMiles: l, Start: cur, End: next})
		cur = next
	}
	return domain.Route{Segments: segs}
}

func collect(t *testing.T, route domain.Route, usable float64) []domain.PlannedStop {
	t.Helper()
	seq, err := PlanStops(route, usable)
	require.NoError(t, err)
	return slices.Collect(seq)
}

func TestTotalDistance(t *testing.T) {
	assert.Equal(t, 0.0, TotalDistance(domain.Route{}))
	assert.InDelta(t, 620.0, TotalDistance(lineRoute(100, 220, 300)), 1e-9)
}

func TestRouteFromDirectionsConvertsMeters(t *testing.T) {
	d := ports.Directions{Legs: []ports.Leg{
		{Steps: []ports.Step{{DistanceMeters: 1609.344}, {DistanceMeters: 3218.688}}},
		{Steps: []ports.Step{{DistanceMeters: 0}}},
	}}

	route, err := RouteFromDirections(d)
	require.NoError(t, err)
	require.Len(t, route.Segments, 3)
	assert.InDelta(t, 1.0, route.Segments[0].LengthMiles, 1e-12)
	assert.InDelta(t, 2.0, route.Segments[1].LengthMiles, 1e-12)
	assert.InDelta(t, 3.0, TotalDistance(route), 1e-12)
}

func TestRouteFromDirectionsEmpty(t *testing.T) {
	_, err := RouteFromDirections(ports.Directions{Legs: []ports.Leg{{}}})
	require.ErrorIs(t, err, domain.ErrRouteUnavailable)
}

func TestPlanStopsPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		route  domain.Route
		usable float64
	}{
		{"empty route", domain.Route{}, 250},
		{"zero usable range", lineRoute(100), 0},
		{"negative usable range", lineRoute(100), -5},
		{"NaN usable range", lineRoute(100), math.NaN()},
		{"negative segment", lineRoute(100, -1), 250},
		{"infinite segment", lineRoute(math.Inf(1)), 250},
		{"all zero-length", lineRoute(0, 0), 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanStops(tt.route, tt.usable)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidRoute))
		})
	}
}

func TestPlanStopsNoStopNeeded(t *testing.T) {
	assert.Empty(t, collect(t, lineRoute(100, 50), 200))
	assert.Empty(t, collect(t, lineRoute(10, 10, 9.5), 30))
}

func TestPlanStopsTwoStopsOn620Miles(t *testing.T) {
	stops := collect(t, lineRoute(620), 250)

	require.Len(t, stops, 2)
	assert.InDelta(t, 250, stops[0].DistanceFromStartMiles, 1e-9)
	assert.InDelta(t, 500, stops[1].DistanceFromStartMiles, 1e-9)
	assert.InDelta(t, 2.5, stops[0].Position.Lat, 1e-9)
	assert.InDelta(t, 5.0, stops[1].Position.Lat, 1e-9)
}

func TestPlanStopsBoundaryExactness(t *testing.T) {
	route := lineRoute(300)

	stops := collect(t, route, 300)

	require.Len(t, stops, 1)
	assert.Equal(t, route.Segments[0].End, stops[0].Position)
	assert.Equal(t, 300.0, stops[0].DistanceFromStartMiles)
}

func TestPlanStopsBoundaryResetsCounter(t *testing.T) {
	route := lineRoute(150, 100, 240, 10)

	stops := collect(t, route, 250)

	// First stop lands on the end of segment two; the carry starts fresh from there.
	require.Len(t, stops, 2)
	assert.Equal(t, route.Segments[1].End, stops[0].Position)
	assert.Equal(t, 250.0, stops[0].DistanceFromStartMiles)
	assert.Equal(t, route.Segments[3].End, stops[1].Position)
	assert.Equal(t, 500.0, stops[1].DistanceFromStartMiles)
}

func TestPlanStopsMultipleStopsInOneSegment(t *testing.T) {
	route := domain.Route{Segments: []domain.Segment{{
		LengthMiles: 750,
		Start:       domain.Coordinates{Lat: 0, Lng: 0},
		End:         domain.Coordinates{Lat: 0, Lng: 30},
	}}}

	stops := collect(t, route, 250)

	require.Len(t, stops, 3)
	for i, s := range stops {
		assert.InDelta(t, float64(i+1)*250, s.DistanceFromStartMiles, 1e-9)
	}
	assert.InDelta(t, 10.0, stops[0].Position.Lng, 1e-9)
	assert.InDelta(t, 20.0, stops[1].Position.Lng, 1e-9)
	assert.Equal(t, route.Segments[0].End, stops[2].Position)

	// floor(L/R) stops for a segment that is not an exact multiple.
	assert.Len(t, collect(t, lineRoute(640), 250), 2)
	assert.Len(t, collect(t, lineRoute(1000.5), 100), 10)
}

func TestPlanStopsInterpolatesFromCarry(t *testing.T) {
	route := domain.Route{Segments: []domain.Segment{
		{LengthMiles: 200, Start: domain.Coordinates{Lat: 0, Lng: 0}, End: domain.Coordinates{Lat: 0, Lng: 2}},
		{LengthMiles: 400, Start: domain.Coordinates{Lat: 0, Lng: 2}, End: domain.Coordinates{Lat: 4, Lng: 2}},
	}}

	stops := collect(t, route, 250)

	// 50 miles into the second segment, then 250 further.
	require.Len(t, stops, 2)
	assert.InDelta(t, 0.5, stops[0].Position.Lat, 1e-9)
	assert.InDelta(t, 3.0, stops[1].Position.Lat, 1e-9)
	assert.InDelta(t, 2.0, stops[1].Position.Lng, 1e-9)
}

func TestPlanStopsSkipsZeroLengthSegments(t *testing.T) {
	with := collect(t, lineRoute(0, 300, 0, 0, 300, 0), 250)
	without := collect(t, lineRoute(300, 300), 250)

	require.Len(t, with, 2)
	for i := range with {
		assert.InDelta(t, without[i].DistanceFromStartMiles, with[i].DistanceFromStartMiles, 1e-9)
		assert.InDelta(t, without[i].Position.Lat, with[i].Position.Lat, 1e-9)
	}
}

func TestPlanStopsRestartable(t *testing.T) {
	seq, err := PlanStops(lineRoute(120, 333, 87, 410, 5), 180)
	require.NoError(t, err)

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestPlanStopsEarlyBreak(t *testing.T) {
	seq, err := PlanStops(lineRoute(2000), 100)
	require.NoError(t, err)

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestPlanStopsMonotonicAndCovering(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.IntN(40)
		lengths := make([]float64, n)
		for i := range lengths {
			if rng.IntN(10) == 0 {
				continue
			}
			lengths[i] = rng.Float64() * 120
		}
		route := lineRoute(lengths...)
		total := TotalDistance(route)
		if total == 0 {
			continue
		}
		usable := 30 + rng.Float64()*300

		stops := collect(t, route, usable)

		assert.Len(t, stops, int(math.Floor(total/usable+1e-9)), "trial %d", trial)
		prev := 0.0
		for i, s := range stops {
			assert.Greater(t, s.DistanceFromStartMiles, prev, "trial %d stop %d", trial, i)
			assert.InDelta(t, float64(i+1)*usable, s.DistanceFromStartMiles, 1e-6, "trial %d stop %d", trial, i)
			assert.LessOrEqual(t, s.DistanceFromStartMiles, total+1e-9)
			prev = s.DistanceFromStartMiles
		}
	}
}
