package ports

import "internal-angle-service/internal/domain"

// Ellipsoidal model solving the inverse geodesic problem.
type AzimuthModel interface {
	// Return the forward azimuth in degrees, clockwise from north, at from
	// along the geodesic towards to. Coordinates are (longitude, latitude).
	Azimuth(from, to domain.Coordinate) float64
}
