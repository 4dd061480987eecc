package services

import "internal-angle-service/internal/domain"

// Neighbor returns the vertex of line that defines its local direction at point.
//
// The vertex nearest to point is located first (ties go to the lowest index).
// At either end of the line the single adjacent vertex is returned; at an
// interior vertex the closer of the two flanking vertices wins, with the
// following vertex taking an exact tie. Distances are planar in every mode:
// the choice is positional, only the angle formula depends on the mode.
//
// When the crossing lies mid-segment the nearest vertex may sit on either side
// of it, so the sample only approximates the local direction.
func Neighbor(line domain.Polyline, point domain.Coordinate) domain.Coordinate {
	n := line.Len()

	nearest := 0
	best := point.Distance(line.At(0))
	for i := 1; i < n; i++ {
		if d := point.Distance(line.At(i)); d < best {
			best = d
			nearest = i
		}
	}

	switch nearest {
	case 0:
		return line.At(1)
	case n - 1:
		return line.At(n - 2)
	}

	prev := line.At(nearest - 1)
	next := line.At(nearest + 1)
	if point.Distance(prev) < point.Distance(next) {
		return prev
	}
	return next
}
