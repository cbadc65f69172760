package dto

import (
	"fuel-stop-planner/internal/domain"
	"time"
)

type TripRequest struct {
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	RangeMiles   float64 `json:"range_miles"`
	ReserveMiles float64 `json:"reserve_miles"`
}

func (r TripRequest) Params() domain.TripParameters {
	return domain.TripParameters{
		Origin:       r.Origin,
		Destination:  r.Destination,
		RangeMiles:   r.RangeMiles,
		ReserveMiles: r.ReserveMiles,
	}
}

type StopResponse struct {
	Index                  int      `json:"index"`
	DistanceFromStartMiles float64  `json:"distance_from_start_miles"`
	Lat                    float64  `json:"lat"`
	Lng                    float64  `json:"lng"`
	Name                   string   `json:"name"`
	Address                string   `json:"address"`
	Rating                 *float64 `json:"rating"`
	UserRatingsTotal       *int     `json:"user_ratings_total"`
	StationFound           bool     `json:"station_found"`
}

type TripResponse struct {
	ID                 string         `json:"id"`
	PlannedAt          time.Time      `json:"planned_at"`
	Origin             string         `json:"origin"`
	Destination        string         `json:"destination"`
	RangeMiles         float64        `json:"range_miles"`
	ReserveMiles       float64        `json:"reserve_miles"`
	UsableRangeMiles   float64        `json:"usable_range_miles"`
	TotalDistanceMiles float64        `json:"total_distance_miles"`
	NoStopsNeeded      bool           `json:"no_stops_needed"`
	Summary            string         `json:"summary"`
	Stops              []StopResponse `json:"stops"`
}
