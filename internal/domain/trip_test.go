package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripParametersValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  TripParameters
		wantMsg string
	}{
		{
			name:   "valid",
			params: TripParameters{Origin: "Chicago, IL", Destination: "Denver, CO", RangeMiles: 300, ReserveMiles: 50},
		},
		{
			name:   "zero reserve",
			params: TripParameters{Origin: "A", Destination: "B", RangeMiles: 300},
		},
		{
			name:   "usable range exactly minimum",
			params: TripParameters{Origin: "A", Destination: "B", RangeMiles: 80, ReserveMiles: 50},
		},
		{
			name:    "missing origin",
			params:  TripParameters{Origin: "  ", Destination: "B", RangeMiles: 300},
			wantMsg: "Please fill in origin, destination, and a valid range.",
		},
		{
			name:    "missing destination",
			params:  TripParameters{Origin: "A", RangeMiles: 300},
			wantMsg: "Please fill in origin, destination, and a valid range.",
		},
		{
			name:    "zero range",
			params:  TripParameters{Origin: "A", Destination: "B"},
			wantMsg: "Please fill in origin, destination, and a valid range.",
		},
		{
			name:    "NaN range",
			params:  TripParameters{Origin: "A", Destination: "B", RangeMiles: math.NaN()},
			wantMsg: "Please fill in origin, destination, and a valid range.",
		},
		{
			name:    "negative reserve",
			params:  TripParameters{Origin: "A", Destination: "B", RangeMiles: 300, ReserveMiles: -1},
			wantMsg: "Reserve buffer must be zero or more.",
		},
		{
			name:    "reserve equals range",
			params:  TripParameters{Origin: "A", Destination: "B", RangeMiles: 300, ReserveMiles: 300},
			wantMsg: "Reserve buffer must be less than the range per tank.",
		},
		{
			name:    "usable range too small",
			params:  TripParameters{Origin: "A", Destination: "B", RangeMiles: 60, ReserveMiles: 40},
			wantMsg: "Usable range is too small. Increase range or decrease reserve.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, tt.wantMsg, UserMessage(err))
		})
	}
}

func TestUsableRangeMiles(t *testing.T) {
	p := TripParameters{RangeMiles: 300, ReserveMiles: 50}
	assert.Equal(t, 250.0, p.UsableRangeMiles())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Could not fetch route. Check locations and try again.",
		UserMessage(errors.Join(errors.New("directions"), ErrRouteUnavailable)))
	assert.Equal(t, "Failed to plan trip. Try again.", UserMessage(ErrProviderFailure))
}

func TestCoordinatesInterpolate(t *testing.T) {
	a := Coordinates{Lat: 0, Lng: 0}
	b := Coordinates{Lat: 10, Lng: -20}

	assert.Equal(t, a, a.Interpolate(b, 0))
	assert.Equal(t, b, a.Interpolate(b, 1))
	assert.Equal(t, b, a.Interpolate(b, 1.5))

	mid := a.Interpolate(b, 0.25)
	assert.InDelta(t, 2.5, mid.Lat, 1e-12)
	assert.InDelta(t, -5, mid.Lng, 1e-12)
}

func TestCoordinatesValid(t *testing.T) {
	assert.True(t, Coordinates{Lat: 41.88, Lng: -87.63}.Valid())
	assert.False(t, Coordinates{Lat: 91, Lng: 0}.Valid())
	assert.False(t, Coordinates{Lat: 0, Lng: math.Inf(1)}.Valid())
}

func TestPlaceholderStop(t *testing.T) {
	rec := PlaceholderStop(2, PlannedStop{Position: Coordinates{Lat: 1, Lng: 2}, DistanceFromStartMiles: 500})

	assert.Equal(t, 2, rec.Index)
	assert.Equal(t, PlaceholderStationName, rec.Name)
	assert.Equal(t, PlaceholderStationAddress, rec.Address)
	assert.Nil(t, rec.Rating)
	assert.Nil(t, rec.UserRatingsTotal)
	assert.False(t, rec.StationFound)
}
