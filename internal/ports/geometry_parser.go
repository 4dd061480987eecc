package ports

import "internal-angle-service/internal/domain"

// Contract for turning a textual line geometry into a Polyline.
type GeometryParser interface {
	// Parse a single line geometry. Implementations reject inputs that are not
	// a line or that have fewer than two coordinates.
	ParseLine(text string) (domain.Polyline, error)
}

// Optional extension of GeometryParser for formats that embed a spatial
// reference identifier (e.g. EWKT "SRID=4326;...").
type SRIDGeometryParser interface {
	GeometryParser
	// Parse a line and return its declared SRID, or 0 when none is given.
	ParseLineSRID(text string) (domain.Polyline, int, error)
}
