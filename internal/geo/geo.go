// Package geo provides planar point-to-polyline projection in
// geographic-degree space and the unit conversions used by the
// deviation engine.
//
// All math is flat-earth: degrees are treated as a planar coordinate
// system and converted to meters with a fixed per-degree constant.
// This is a defined approximation valid at small scale, not geodesy.
package geo

import (
	"fmt"
	"math"
)

// MetersPerDegree is the fixed flat-earth conversion from degrees to
// meters. Not geodesically exact; the approximation is part of the
// deviation definition.
const MetersPerDegree = 111000.0

// FeetPerMeter converts meters to feet.
const FeetPerMeter = 3.28084

// Point is a position in geographic-degree space. Axis order is
// (longitude, latitude) to match stored reference paths.
type Point struct {
	Lon float64
	Lat float64
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{Lon: p.Lon - other.Lon, Lat: p.Lat - other.Lat}
}

// Dot returns the planar dot product of two points treated as vectors.
func (p Point) Dot(other Point) float64 {
	return p.Lon*other.Lon + p.Lat*other.Lat
}

// DistanceTo returns the planar Euclidean distance between two points,
// in degrees.
func (p Point) DistanceTo(other Point) float64 {
	d := p.Sub(other)
	return math.Hypot(d.Lon, d.Lat)
}

// Polyline is an ordered sequence of at least two points forming a
// reference path in degree space.
type Polyline []Point

// NewPolyline validates and returns a polyline. Paths with fewer than
// two points cannot support projection and are rejected.
func NewPolyline(points []Point) (Polyline, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("polyline needs at least 2 points, got %d", len(points))
	}
	return Polyline(points), nil
}

// Nearest returns the point on the polyline closest to pt under planar
// distance. Each segment projection is clamped to the segment ends.
func (l Polyline) Nearest(pt Point) Point {
	best := l[0]
	bestDist := math.Inf(1)
	for i := 0; i < len(l)-1; i++ {
		candidate := nearestOnSegment(l[i], l[i+1], pt)
		if d := pt.DistanceTo(candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best
}

// DistanceDegrees returns the planar distance in degrees from pt to
// its nearest projection on the polyline.
func (l Polyline) DistanceDegrees(pt Point) float64 {
	return pt.DistanceTo(l.Nearest(pt))
}

// nearestOnSegment projects pt onto the segment a-b, clamping the
// projection parameter to [0, 1].
func nearestOnSegment(a, b, pt Point) Point {
	v := b.Sub(a)
	length := v.Dot(v)
	if length == 0 {
		return a
	}
	t := pt.Sub(a).Dot(v) / length
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{Lon: a.Lon + v.Lon*t, Lat: a.Lat + v.Lat*t}
}

// DegreesToFeet converts a planar degree distance to feet using the
// fixed approximation constants.
func DegreesToFeet(degrees float64) float64 {
	return degrees * MetersPerDegree * FeetPerMeter
}

// Round2 rounds to two decimal digits, the precision at which
// deviations and accumulator values are exposed.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
