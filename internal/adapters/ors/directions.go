package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/ports"
	"net/http"
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Units        string      `json:"units"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
				Steps    []struct {
					Distance  float64 `json:"distance"`
					WayPoints []int   `json:"way_points"`
				} `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// fetchDirections calls /v2/directions/{profile}/geojson and maps ORS
// segments to legs and steps. Step endpoints come from the step's way_points
// indexes into the route geometry.
func (p *RouteProvider) fetchDirections(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.Directions, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", p.baseURL, p.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates:  [][]float64{origin.CoordsToList(), destination.CoordsToList()},
		Instructions: true,
		Units:        "m",
	})
	if err != nil {
		return ports.Directions{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.Directions{}, fmt.Errorf("directions request failed: %w", classify(err))
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.Directions{}, fmt.Errorf("decode directions response: %w: %w", domain.ErrProviderFailure, err)
	}

	if len(dr.Features) == 0 {
		return ports.Directions{}, fmt.Errorf("directions response has no route: %w", domain.ErrRouteUnavailable)
	}

	feature := dr.Features[0]
	geometry := feature.Geometry.Coordinates
	point := func(i int) (domain.Coordinates, error) {
		if i < 0 || i >= len(geometry) || len(geometry[i]) < 2 {
			return domain.Coordinates{}, fmt.Errorf("way point %d outside geometry of %d points: %w", i, len(geometry), domain.ErrProviderFailure)
		}
		return domain.Coordinates{Lng: geometry[i][0], Lat: geometry[i][1]}, nil
	}

	out := ports.Directions{Legs: make([]ports.Leg, 0, len(feature.Properties.Segments))}
	for _, seg := range feature.Properties.Segments {
		leg := ports.Leg{DistanceMeters: seg.Distance, Steps: make([]ports.Step, 0, len(seg.Steps))}
		for _, st := range seg.Steps {
			if len(st.WayPoints) != 2 {
				return ports.Directions{}, fmt.Errorf("step has %d way points: %w", len(st.WayPoints), domain.ErrProviderFailure)
			}
			start, err := point(st.WayPoints[0])
			if err != nil {
				return ports.Directions{}, err
			}
			end, err := point(st.WayPoints[1])
			if err != nil {
				return ports.Directions{}, err
			}
			leg.Steps = append(leg.Steps, ports.Step{DistanceMeters: st.Distance, Start: start, End: end})
		}
		out.Legs = append(out.Legs, leg)
	}

	return out, nil
}
