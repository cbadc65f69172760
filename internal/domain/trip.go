package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MinUsableRangeMiles is the smallest range-minus-reserve a trip may be planned with.
	MinUsableRangeMiles = 30.0
	// DefaultSearchRadiusMeters bounds the station search around each planned stop.
	DefaultSearchRadiusMeters = 8000

	PlaceholderStationName    = "Gas station not found nearby"
	PlaceholderStationAddress = "Try expanding search radius or stopping earlier."
)

// TripParameters is the user input for a single planning run.
type TripParameters struct {
	Origin       string
	Destination  string
	RangeMiles   float64
	ReserveMiles float64
}

// Validate checks the parameters in the order the user would fix them.
// Every failure wraps ErrInvalidInput.
func (p TripParameters) Validate() error {
	if strings.TrimSpace(p.Origin) == "" || strings.TrimSpace(p.Destination) == "" ||
		!finite(p.RangeMiles) || p.RangeMiles <= 0 {
		return &ValidationError{Message: "Please fill in origin, destination, and a valid range."}
	}
	if !finite(p.ReserveMiles) || p.ReserveMiles < 0 {
		return &ValidationError{Message: "Reserve buffer must be zero or more."}
	}
	if p.ReserveMiles >= p.RangeMiles {
		return &ValidationError{Message: "Reserve buffer must be less than the range per tank."}
	}
	if p.UsableRangeMiles() < MinUsableRangeMiles {
		return &ValidationError{Message: "Usable range is too small. Increase range or decrease reserve."}
	}
	return nil
}

// UsableRangeMiles is the distance the vehicle may travel between stops.
func (p TripParameters) UsableRangeMiles() float64 {
	return p.RangeMiles - p.ReserveMiles
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// StopRecord is a planned stop after station resolution.
// Rating and UserRatingsTotal are either both set or both nil.
type StopRecord struct {
	Index                  int
	DistanceFromStartMiles float64
	Position               Coordinates
	Name                   string
	Address                string
	Rating                 *float64
	UserRatingsTotal       *int
	StationFound           bool
}

// PlaceholderStop is emitted when no station could be found near a planned stop.
func PlaceholderStop(index int, stop PlannedStop) StopRecord {
	return StopRecord{
		Index:                  index,
		DistanceFromStartMiles: stop.DistanceFromStartMiles,
		Position:               stop.Position,
		Name:                   PlaceholderStationName,
		Address:                PlaceholderStationAddress,
	}
}

// TripPlan is the result of one successful planning run.
type TripPlan struct {
	ID                 uuid.UUID
	PlannedAt          time.Time
	Params             TripParameters
	UsableRangeMiles   float64
	TotalDistanceMiles float64
	Stops              []StopRecord
}

// NoStopsNeeded reports whether the destination is reachable on one tank.
func (p *TripPlan) NoStopsNeeded() bool {
	return len(p.Stops) == 0
}
