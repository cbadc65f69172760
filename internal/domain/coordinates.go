package domain

import "math"

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether both components are finite and within geographic bounds.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Interpolate returns the point at fraction t of the way from c to to,
// linear in coordinate space. t is clamped to [0, 1].
func (c Coordinates) Interpolate(to Coordinates, t float64) Coordinates {
	switch {
	case t <= 0:
		return c
	case t >= 1:
		return to
	}
	return Coordinates{
		Lat: c.Lat + (to.Lat-c.Lat)*t,
		Lng: c.Lng + (to.Lng-c.Lng)*t,
	}
}

// Return coordinates as [lon, lat] for GeoJSON-style APIs.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }
