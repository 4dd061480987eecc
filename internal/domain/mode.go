package domain

import "github.com/cockroachdb/errors"

// CoordinateMode selects how angles are measured. It is derived once from a
// coordinate reference system and fixed for the lifetime of a calculation.
type CoordinateMode int

const (
	// Projected coordinates (meters); flat-plane vector trigonometry.
	ModePlanar CoordinateMode = iota
	// Longitude/latitude in degrees; azimuths on the WGS84 ellipsoid.
	ModeGeographic
)

func (m CoordinateMode) String() string {
	switch m {
	case ModeGeographic:
		return "geographic"
	case ModePlanar:
		return "planar"
	default:
		return "unknown"
	}
}

// ParseCoordinateMode is the inverse of CoordinateMode.String.
func ParseCoordinateMode(s string) (CoordinateMode, error) {
	switch s {
	case "geographic":
		return ModeGeographic, nil
	case "planar":
		return ModePlanar, nil
	default:
		return 0, errors.Newf("parse coordinate mode: unknown mode %q", s)
	}
}
