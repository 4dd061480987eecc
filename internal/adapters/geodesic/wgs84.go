package geodesic

import (
	"internal-angle-service/internal/domain"

	"github.com/tidwall/geodesic"
)

// EllipsoidModel implements ports.AzimuthModel by solving the inverse
// geodesic problem on an ellipsoid. It holds no mutable state and is safe for
// concurrent use.
type EllipsoidModel struct {
	ellipsoid *geodesic.Ellipsoid
}

// WGS84 returns the model used for all geographic calculations.
func WGS84() *EllipsoidModel {
	return &EllipsoidModel{ellipsoid: geodesic.WGS84}
}

// Azimuth returns the forward azimuth at from, in degrees within [-180, 180].
func (m *EllipsoidModel) Azimuth(from, to domain.Coordinate) float64 {
	var azi1 float64
	m.ellipsoid.Inverse(from.Y, from.X, to.Y, to.X, nil, &azi1, nil)
	return azi1
}

// Distance returns the geodesic distance in meters between two coordinates.
func (m *EllipsoidModel) Distance(from, to domain.Coordinate) float64 {
	var s12 float64
	m.ellipsoid.Inverse(from.Y, from.X, to.Y, to.X, &s12, nil, nil)
	return s12
}
