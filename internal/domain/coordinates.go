package domain

import (
	"math"

	"github.com/cockroachdb/errors"
)

// ErrDegenerateLine is returned when a polyline has fewer than two coordinates.
var ErrDegenerateLine = errors.New("degenerate line: polyline needs at least 2 coordinates")

// ErrLatitudeOutOfRange is returned when a geographic vertex lies beyond a pole.
var ErrLatitudeOutOfRange = errors.New("latitude out of range [-90, 90]")

// Immutable 2D coordinate. X is longitude (or easting), Y is latitude (or northing).
type Coordinate struct {
	X float64
	Y float64
}

// Return coordinates as [x, y] for external API compatibility.
func (c Coordinate) CoordsToList() []float64 { return []float64{c.X, c.Y} }

// Distance returns the planar Euclidean distance to other.
func (c Coordinate) Distance(other Coordinate) float64 {
	return math.Hypot(other.X-c.X, other.Y-c.Y)
}

// Polyline is an ordered, immutable sequence of at least two coordinates.
// The order defines the traversal direction of the line.
type Polyline struct {
	coords []Coordinate
}

// NewPolyline copies coords into a Polyline.
func NewPolyline(coords []Coordinate) (Polyline, error) {
	if len(coords) < 2 {
		return Polyline{}, errors.Wrapf(ErrDegenerateLine, "new polyline: got %d coordinate(s)", len(coords))
	}
	for i, c := range coords {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
			return Polyline{}, errors.Newf("new polyline: coordinate %d is not finite: (%v, %v)", i, c.X, c.Y)
		}
	}

	owned := make([]Coordinate, len(coords))
	copy(owned, coords)
	return Polyline{coords: owned}, nil
}

// Len returns the number of vertices.
func (p Polyline) Len() int { return len(p.coords) }

// At returns vertex i.
func (p Polyline) At(i int) Coordinate { return p.coords[i] }

// Coords returns a copy of the vertices.
func (p Polyline) Coords() []Coordinate {
	out := make([]Coordinate, len(p.coords))
	copy(out, p.coords)
	return out
}

// CheckGeographic verifies that every vertex is a valid (longitude, latitude)
// pair. Longitudes only need to be finite; they wrap.
func (p Polyline) CheckGeographic() error {
	for i, c := range p.coords {
		if math.IsNaN(c.X) || math.IsInf(c.X, 0) {
			return errors.Newf("check geographic: vertex %d: longitude %v is not finite", i, c.X)
		}
		if !(c.Y >= -90 && c.Y <= 90) {
			return errors.Wrapf(ErrLatitudeOutOfRange, "check geographic: vertex %d: latitude %v", i, c.Y)
		}
	}
	return nil
}
