package domain

import "github.com/cockroachdb/errors"

// Outcome classifies an angle calculation.
// Only OutcomeDefined carries a meaningful angle.
type Outcome int

const (
	OutcomeDefined Outcome = iota
	// The lines are disjoint, overlap along a segment, or touch at several points.
	OutcomeNoIntersection
	// The lines cross but a direction sample coincides with the crossing point.
	OutcomeZeroLengthDirection
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDefined:
		return "defined"
	case OutcomeNoIntersection:
		return "no_intersection"
	case OutcomeZeroLengthDirection:
		return "zero_length_direction"
	default:
		return "unknown"
	}
}

// Represents the result of measuring the angle between two polylines.
// Intersection and the neighbors are populated whenever the lines meet at a
// single point, even if the angle itself is undefined.
type AngleResult struct {
	Degrees      float64
	Intersection Coordinate
	Neighbor1    Coordinate
	Neighbor2    Coordinate
	Outcome      Outcome
}

// Defined reports whether Degrees holds a valid angle in [0, 180].
func (r AngleResult) Defined() bool { return r.Outcome == OutcomeDefined }

// Represents a pair of line features stored for batch processing.
// Lines are kept in their textual (WKT) form until computation.
type LinePair struct {
	PairID   int64
	Line1WKT string
	Line2WKT string
	CRS      string
}

// Represents the persisted outcome of processing a LinePair.
// Err holds input problems (bad WKT, unknown CRS, degenerate line) that
// prevented any geometric evaluation.
type PairResult struct {
	PairID int64
	Mode   CoordinateMode
	Result AngleResult
	Err    error
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range []Outcome{OutcomeDefined, OutcomeNoIntersection, OutcomeZeroLengthDirection} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, errors.Newf("parse outcome: unknown outcome %q", s)
}
