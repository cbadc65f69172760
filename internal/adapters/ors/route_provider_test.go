package ors

import (
	"context"
	"encoding/json"
	"fuel-stop-planner/internal/domain"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directionsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "geometry": {"type": "LineString", "coordinates": [[-87.6, 41.8], [-87.7, 41.9], [-88.0, 42.0]]},
    "properties": {
      "segments": [{
        "distance": 30000.5,
        "duration": 1500,
        "steps": [
          {"distance": 10000.5, "duration": 500, "type": 11, "way_points": [0, 1]},
          {"distance": 20000, "duration": 1000, "type": 0, "way_points": [1, 2]},
          {"distance": 0, "duration": 0, "type": 10, "way_points": [2, 2]}
        ]
      }]
    }
  }]
}`

type fakeORS struct {
	geocode    map[string][]float64
	directions string
	dirStatus  int
	dirCalls   atomic.Int32
	lastBody   directionsRequest
}

func (f *fakeORS) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/geocode/search":
			c, ok := f.geocode[r.URL.Query().Get("text")]
			if !ok {
				_, _ = w.Write([]byte(`{"features": []}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"features": []any{map[string]any{"geometry": map[string]any{"coordinates": c}}},
			})
		case "/v2/directions/driving-car/geojson":
			f.dirCalls.Add(1)
			_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
			if f.dirStatus != 0 {
				w.WriteHeader(f.dirStatus)
				_, _ = w.Write([]byte(`{"error":{"code":2010,"message":"Could not find routable point"}}`))
				return
			}
			_, _ = w.Write([]byte(f.directions))
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestProvider(t *testing.T, f *fakeORS) *RouteProvider {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	p, err := NewRouteProvider(Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: time.Second}, nil)
	require.NoError(t, err)
	p.initialBackoff = time.Millisecond
	return p
}

func TestNewRouteProviderRequiresKey(t *testing.T) {
	_, err := NewRouteProvider(Config{}, nil)
	require.Error(t, err)
}

func TestGetDirections(t *testing.T) {
	f := &fakeORS{
		geocode: map[string][]float64{
			"Chicago, IL": {-87.6, 41.8},
			"Elgin, IL":   {-88.0, 42.0},
		},
		directions: directionsGeoJSON,
	}
	p := newTestProvider(t, f)

	d, err := p.GetDirections(context.Background(), "  Chicago,   IL ", "Elgin, IL")
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{-87.6, 41.8}, {-88.0, 42.0}}, f.lastBody.Coordinates)

	require.Len(t, d.Legs, 1)
	assert.Equal(t, 30000.5, d.Legs[0].DistanceMeters)
	require.Len(t, d.Legs[0].Steps, 3)
	assert.Equal(t, 10000.5, d.Legs[0].Steps[0].DistanceMeters)
	assert.Equal(t, domain.Coordinates{Lat: 41.8, Lng: -87.6}, d.Legs[0].Steps[0].Start)
	assert.Equal(t, domain.Coordinates{Lat: 41.9, Lng: -87.7}, d.Legs[0].Steps[0].End)
	assert.Equal(t, domain.Coordinates{Lat: 42.0, Lng: -88.0}, d.Legs[0].Steps[1].End)
	assert.Equal(t, 0.0, d.Legs[0].Steps[2].DistanceMeters)
}

func TestGetDirectionsUnknownAddress(t *testing.T) {
	f := &fakeORS{
		geocode:    map[string][]float64{"Chicago, IL": {-87.6, 41.8}},
		directions: directionsGeoJSON,
	}
	p := newTestProvider(t, f)

	_, err := p.GetDirections(context.Background(), "Chicago, IL", "Atlantis")
	require.ErrorIs(t, err, domain.ErrRouteUnavailable)
	assert.Zero(t, f.dirCalls.Load())
}

func TestGetDirectionsStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		wantCalls int32
	}{
		{"unroutable point", http.StatusNotFound, domain.ErrRouteUnavailable, 1},
		{"bad request", http.StatusBadRequest, domain.ErrRouteUnavailable, 1},
		{"upstream down retries then fails", http.StatusServiceUnavailable, domain.ErrProviderFailure, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeORS{
				geocode: map[string][]float64{
					"A": {-87.6, 41.8},
					"B": {-88.0, 42.0},
				},
				dirStatus: tt.status,
			}
			p := newTestProvider(t, f)

			_, err := p.GetDirections(context.Background(), "A", "B")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, f.dirCalls.Load())
		})
	}
}

func TestGetDirectionsEmptyInput(t *testing.T) {
	p := newTestProvider(t, &fakeORS{})

	_, err := p.GetDirections(context.Background(), "   ", "B")
	require.ErrorIs(t, err, domain.ErrRouteUnavailable)
}

func TestDoWithRetryRespectsContext(t *testing.T) {
	p := newTestProvider(t, &fakeORS{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodGet, p.baseURL+"/geocode/search", nil)
	})
	require.ErrorIs(t, err, context.Canceled)
}
