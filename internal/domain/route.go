package domain

// MetersPerMile converts provider distances (meters) to planner distances (miles).
const MetersPerMile = 1609.344

// Segment is one step of a driving route: a straight-line approximation
// between two consecutive coordinates with the provider-reported length.
type Segment struct {
	LengthMiles float64
	Start       Coordinates
	End         Coordinates
}

// Route is the ordered, contiguous sequence of segments from origin to destination.
// Segment i's End is expected to coincide with segment i+1's Start.
type Route struct {
	Segments []Segment
}

// PlannedStop is a target refueling point along the route.
// It carries no station information; the Station Resolver attaches that later.
type PlannedStop struct {
	Position               Coordinates
	DistanceFromStartMiles float64
}
