package services

import (
	"internal-angle-service/internal/domain"
	"internal-angle-service/internal/ports"
	"math"
)

// Mode is the angle formula chosen for a calculation: Geographic or Planar.
// The set is closed; no other package can add a variant.
type Mode interface {
	CoordinateMode() domain.CoordinateMode

	// angle returns the angle in degrees at vertex `at` between the directions
	// towards p1 and p2, or false when either direction has zero length or
	// cannot be measured.
	angle(at, p1, p2 domain.Coordinate) (float64, bool)
}

// Geographic measures angles from forward azimuths on an ellipsoid.
// Coordinates are (longitude, latitude) in degrees.
type Geographic struct {
	Model ports.AzimuthModel
}

// Planar measures angles with flat-plane vector trigonometry.
type Planar struct{}

// ModeFor selects Geographic exactly when the reference system is geographic.
func ModeFor(isGeographic bool, model ports.AzimuthModel) Mode {
	if isGeographic {
		return Geographic{Model: model}
	}
	return Planar{}
}

func (Geographic) CoordinateMode() domain.CoordinateMode { return domain.ModeGeographic }

func (g Geographic) angle(at, p1, p2 domain.Coordinate) (float64, bool) {
	if p1 == at || p2 == at {
		return 0, false
	}

	az1 := g.Model.Azimuth(at, p1)
	az2 := g.Model.Azimuth(at, p2)
	if math.IsNaN(az1) || math.IsNaN(az2) {
		return 0, false
	}

	// Azimuth differences wrap around; keep the interior angle.
	diff := math.Abs(az2 - az1)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff, true
}

func (Planar) CoordinateMode() domain.CoordinateMode { return domain.ModePlanar }

func (Planar) angle(at, p1, p2 domain.Coordinate) (float64, bool) {
	origin := toR2(at)
	v1 := toR2(p1).Sub(origin)
	v2 := toR2(p2).Sub(origin)

	norm1, norm2 := v1.Norm(), v2.Norm()
	if norm1 == 0 || norm2 == 0 {
		return 0, false
	}

	cos := v1.Dot(v2) / (norm1 * norm2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}
