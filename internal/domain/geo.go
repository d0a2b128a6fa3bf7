package domain

import "math"

// KmPerDegree approximates the length of one degree of latitude. It is applied
// to longitude as well.
const KmPerDegree float32 = 111.0

// BoundingSquare is a degree-space square of AreaKm2 centered on Center.
type BoundingSquare struct {
	Center  Point
	AreaKm2 float32
}

// NewBoundingSquare returns the square of the given area around (lat, lon).
func NewBoundingSquare(lat, lon, areaKm2 float32) BoundingSquare {
	return BoundingSquare{Center: Point{Lat: lat, Lon: lon}, AreaKm2: areaKm2}
}

// HalfSideKm is half the side length of the square in kilometres.
func (s BoundingSquare) HalfSideKm() float32 {
	return float32(math.Sqrt(float64(s.AreaKm2))) / 2
}

// HalfSideDegrees is HalfSideKm converted to degrees.
func (s BoundingSquare) HalfSideDegrees() float32 {
	return s.HalfSideKm() / KmPerDegree
}

// Bounds returns the inclusive min and max corners of the square.
func (s BoundingSquare) Bounds() (minPt, maxPt Point) {
	d := s.HalfSideDegrees()
	minPt = Point{Lat: s.Center.Lat - d, Lon: s.Center.Lon - d}
	maxPt = Point{Lat: s.Center.Lat + d, Lon: s.Center.Lon + d}
	return minPt, maxPt
}

// Contains reports whether the event lies inside the square, edges included.
func (s BoundingSquare) Contains(e Event) bool {
	minPt, maxPt := s.Bounds()
	return e.Latitude >= minPt.Lat && e.Latitude <= maxPt.Lat &&
		e.Longitude >= minPt.Lon && e.Longitude <= maxPt.Lon
}

// Inside is the function form of BoundingSquare.Contains.
func Inside(square BoundingSquare, e Event) bool {
	return square.Contains(e)
}
