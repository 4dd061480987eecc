package services

import (
	"internal-angle-service/internal/domain"
	"sync"

	"github.com/cockroachdb/errors"
)

// AngleCalculator measures the internal angle at the crossing of two polylines.
//
// Inputs are fixed at construction. The crossing and direction samples are
// derived on first use and reused afterwards; the calculator is safe for
// concurrent use.
type AngleCalculator struct {
	line1 domain.Polyline
	line2 domain.Polyline
	mode  Mode

	once   sync.Once
	result domain.AngleResult
}

// NewAngleCalculator validates both coordinate sequences and binds them to mode.
// A sequence with fewer than two coordinates fails with domain.ErrDegenerateLine.
func NewAngleCalculator(line1, line2 []domain.Coordinate, mode Mode) (*AngleCalculator, error) {
	l1, err := domain.NewPolyline(line1)
	if err != nil {
		return nil, errors.Wrap(err, "new angle calculator: line1")
	}
	l2, err := domain.NewPolyline(line2)
	if err != nil {
		return nil, errors.Wrap(err, "new angle calculator: line2")
	}
	return NewAngleCalculatorFromPolylines(l1, l2, mode)
}

// NewAngleCalculatorFromPolylines is NewAngleCalculator for already-built polylines.
// Geographic mode also requires every latitude within [-90, 90]
// (domain.ErrLatitudeOutOfRange).
func NewAngleCalculatorFromPolylines(line1, line2 domain.Polyline, mode Mode) (*AngleCalculator, error) {
	if line1.Len() < 2 || line2.Len() < 2 {
		return nil, errors.Wrap(domain.ErrDegenerateLine, "new angle calculator")
	}

	switch m := mode.(type) {
	case nil:
		return nil, errors.New("new angle calculator: mode must be non-nil")
	case Geographic:
		if m.Model == nil {
			return nil, errors.New("new angle calculator: geographic mode requires an azimuth model")
		}
		if err := line1.CheckGeographic(); err != nil {
			return nil, errors.Wrap(err, "new angle calculator: line1")
		}
		if err := line2.CheckGeographic(); err != nil {
			return nil, errors.Wrap(err, "new angle calculator: line2")
		}
	}

	return &AngleCalculator{line1: line1, line2: line2, mode: mode}, nil
}

// Mode reports the coordinate mode the calculator was built with.
func (c *AngleCalculator) Mode() domain.CoordinateMode { return c.mode.CoordinateMode() }

// AngleBetweenLines returns the angle in degrees, within [0, 180], or false
// when the angle is undefined. Use Evaluate to learn why.
func (c *AngleCalculator) AngleBetweenLines() (float64, bool) {
	res := c.Evaluate()
	if !res.Defined() {
		return 0, false
	}
	return res.Degrees, true
}

// IntersectionPoint returns the single crossing point of the two lines.
func (c *AngleCalculator) IntersectionPoint() (domain.Coordinate, bool) {
	res := c.Evaluate()
	if res.Outcome == domain.OutcomeNoIntersection {
		return domain.Coordinate{}, false
	}
	return res.Intersection, true
}

// Evaluate runs the full pipeline: intersection, one direction sample per
// line, then the mode's angle formula.
func (c *AngleCalculator) Evaluate() domain.AngleResult {
	c.once.Do(func() {
		c.result = c.evaluate()
	})
	return c.result
}

func (c *AngleCalculator) evaluate() domain.AngleResult {
	at, ok := FindIntersection(c.line1, c.line2)
	if !ok {
		return domain.AngleResult{Outcome: domain.OutcomeNoIntersection}
	}

	res := domain.AngleResult{
		Intersection: at,
		Neighbor1:    Neighbor(c.line1, at),
		Neighbor2:    Neighbor(c.line2, at),
	}

	deg, ok := c.mode.angle(at, res.Neighbor1, res.Neighbor2)
	if !ok {
		res.Outcome = domain.OutcomeZeroLengthDirection
		return res
	}

	res.Degrees = deg
	res.Outcome = domain.OutcomeDefined
	return res
}
