package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/adapters/mock"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func plannedStops(n int) []domain.PlannedStop {
	stops := make([]domain.PlannedStop, n)
	for i := range stops {
		stops[i] = domain.PlannedStop{
			Position:               domain.Coordinates{Lat: float64(i + 1), Lng: -100},
			DistanceFromStartMiles: float64(i+1) * 250,
		}
	}
	return stops
}

func TestResolvePreservesOrderUnderVariableLatency(t *testing.T) {
	places := &mock.PlacesProvider{
		Lookup: func(ctx context.Context, center domain.Coordinates) ([]ports.PlaceCandidate, error) {
			// Earlier stops answer last.
			time.Sleep(time.Duration(10-int(center.Lat)) * 5 * time.Millisecond)
			return []ports.PlaceCandidate{{
				Name:     fmt.Sprintf("Station %d", int(center.Lat)),
				Location: domain.Coordinates{Lat: center.Lat + 0.01, Lng: center.Lng},
				Vicinity: "Main St",
			}}, nil
		},
	}
	r := &StationResolver{Places: places, RadiusMeters: 8000}

	records, err := r.Resolve(context.Background(), plannedStops(6))
	require.NoError(t, err)

	require.Len(t, records, 6)
	for i, rec := range records {
		assert.Equal(t, i+1, rec.Index)
		assert.Equal(t, fmt.Sprintf("Station %d", i+1), rec.Name)
		assert.Equal(t, float64(i+1)*250, rec.DistanceFromStartMiles)
		assert.InDelta(t, float64(i+1)+0.01, rec.Position.Lat, 1e-9)
		assert.True(t, rec.StationFound)
	}
	assert.Equal(t, 6, places.Calls())
	for _, radius := range places.Radii() {
		assert.Equal(t, 8000, radius)
	}
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	places := &mock.PlacesProvider{
		Lookup: func(ctx context.Context, center domain.Coordinates) ([]ports.PlaceCandidate, error) {
			switch int(center.Lat) {
			case 1:
				return nil, nil
			case 2:
				return nil, fmt.Errorf("nearby search: %w: REQUEST_DENIED", ports.ErrLookupStatus)
			default:
				return []ports.PlaceCandidate{{Name: "Pilot", FormattedAddress: "1 Interstate Dr"}}, nil
			}
		},
	}
	metrics := obs.NewMetricsForTesting()
	r := &StationResolver{Places: places, Metrics: metrics}

	stops := plannedStops(3)
	records, err := r.Resolve(context.Background(), stops)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i := 0; i < 2; i++ {
		assert.Equal(t, domain.PlaceholderStationName, records[i].Name)
		assert.Equal(t, domain.PlaceholderStationAddress, records[i].Address)
		assert.Equal(t, stops[i].Position, records[i].Position)
		assert.Nil(t, records[i].Rating)
		assert.Nil(t, records[i].UserRatingsTotal)
		assert.False(t, records[i].StationFound)
	}

	// Missing geometry falls back to the planned coordinate.
	assert.Equal(t, "Pilot", records[2].Name)
	assert.Equal(t, "1 Interstate Dr", records[2].Address)
	assert.Equal(t, stops[2].Position, records[2].Position)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.StationLookups.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StationLookups.WithLabelValues("found")))
}

func TestResolveInfrastructureErrorAborts(t *testing.T) {
	boom := errors.New("connection reset")
	places := &mock.PlacesProvider{
		Lookup: func(ctx context.Context, center domain.Coordinates) ([]ports.PlaceCandidate, error) {
			if int(center.Lat) == 2 {
				return nil, boom
			}
			return []ports.PlaceCandidate{{Name: "ok"}}, nil
		},
	}
	r := &StationResolver{Places: places}

	records, err := r.Resolve(context.Background(), plannedStops(3))

	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
	assert.ErrorIs(t, err, boom)
}

func TestResolveEmptyInput(t *testing.T) {
	places := &mock.PlacesProvider{}
	r := &StationResolver{Places: places}

	records, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, places.Calls())
}

func TestRecordFromCandidate(t *testing.T) {
	stop := domain.PlannedStop{Position: domain.Coordinates{Lat: 1, Lng: 1}, DistanceFromStartMiles: 250}

	tests := []struct {
		name        string
		candidate   ports.PlaceCandidate
		wantAddress string
		wantRating  *float64
		wantTotal   *int
	}{
		{
			name:        "vicinity preferred",
			candidate:   ports.PlaceCandidate{Vicinity: "Exit 12", FormattedAddress: "12 Hwy, Town", Rating: ptr(4.2), UserRatingsTotal: ptr(321)},
			wantAddress: "Exit 12",
			wantRating:  ptr(4.2),
			wantTotal:   ptr(321),
		},
		{
			name:        "formatted address fallback",
			candidate:   ports.PlaceCandidate{FormattedAddress: "12 Hwy, Town"},
			wantAddress: "12 Hwy, Town",
		},
		{
			name:        "no address",
			candidate:   ports.PlaceCandidate{},
			wantAddress: "",
		},
		{
			name:        "rating without count",
			candidate:   ports.PlaceCandidate{Rating: ptr(3.9)},
			wantRating:  ptr(3.9),
			wantTotal:   ptr(0),
		},
		{
			name:      "count without rating",
			candidate: ports.PlaceCandidate{UserRatingsTotal: ptr(10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordFromCandidate(1, stop, tt.candidate)
			assert.Equal(t, tt.wantAddress, rec.Address)
			assert.Equal(t, tt.wantRating, rec.Rating)
			assert.Equal(t, tt.wantTotal, rec.UserRatingsTotal)
			assert.Equal(t, rec.Rating == nil, rec.UserRatingsTotal == nil)
		})
	}
}
