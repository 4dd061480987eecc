package services

import (
	"internal-angle-service/internal/adapters/geodesic"
	"internal-angle-service/internal/domain"
	"math"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// fixedAzimuths returns preset azimuths keyed by destination.
type fixedAzimuths map[domain.Coordinate]float64

func (f fixedAzimuths) Azimuth(_, to domain.Coordinate) float64 { return f[to] }

func coords(flat ...float64) []domain.Coordinate {
	out := make([]domain.Coordinate, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		out = append(out, domain.Coordinate{X: flat[i], Y: flat[i+1]})
	}
	return out
}

func TestAngleBetweenLinesPlanar(t *testing.T) {
	testCases := []struct {
		desc     string
		line1    []domain.Coordinate
		line2    []domain.Coordinate
		expected float64
		outcome  domain.Outcome
	}{
		{
			desc:     "axes cross at a right angle",
			line1:    coords(-1, 0, 1, 0),
			line2:    coords(0, -1, 0, 1),
			expected: 90,
			outcome:  domain.OutcomeDefined,
		},
		{
			desc:     "unit vectors from a shared endpoint",
			line1:    coords(0, 0, 1, 0),
			line2:    coords(0, 0, 0, 1),
			expected: 90,
			outcome:  domain.OutcomeDefined,
		},
		{
			desc:     "diagonals of a square",
			line1:    coords(0, 0, 2, 2),
			line2:    coords(0, 2, 2, 0),
			expected: 90,
			outcome:  domain.OutcomeDefined,
		},
		{
			desc:     "45 degree V junction",
			line1:    coords(0, 0, 3, 0),
			line2:    coords(0, 0, 3, 3),
			expected: 45,
			outcome:  domain.OutcomeDefined,
		},
		{
			desc:     "collinear lines touching end to end run straight through",
			line1:    coords(0, 0, 1, 0),
			line2:    coords(1, 0, 2, 0),
			expected: 180,
			outcome:  domain.OutcomeDefined,
		},
		{
			desc:     "crossing mid-segment uses nearest real vertices",
			line1:    coords(0, 0, 10, 0),
			line2:    coords(3, -1, 3, 5),
			expected: 90,
			outcome:  domain.OutcomeDefined,
		},
		{
			desc:     "samples on the same side double back to zero",
			line1:    coords(-1, 0, 10, 0),
			line2:    coords(20, 0, 0, -1, 0, 30),
			expected: 0,
			outcome:  domain.OutcomeDefined,
		},
		{
			desc:    "collinear overlap has no single crossing",
			line1:   coords(0, 0, 2, 0),
			line2:   coords(1, 0, 3, 0),
			outcome: domain.OutcomeNoIntersection,
		},
		{
			desc:    "disjoint lines",
			line1:   coords(0, 0, 1, 0),
			line2:   coords(0, 1, 1, 1),
			outcome: domain.OutcomeNoIntersection,
		},
		{
			desc:    "two crossings",
			line1:   coords(0, 0, 4, 0),
			line2:   coords(1, -1, 1, 1, 3, 1, 3, -1),
			outcome: domain.OutcomeNoIntersection,
		},
		{
			desc:    "duplicate vertex at the crossing",
			line1:   coords(-1, 0, 0, 0, 0, 0),
			line2:   coords(0, -1, 0, 1),
			outcome: domain.OutcomeZeroLengthDirection,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			calc, err := NewAngleCalculator(tc.line1, tc.line2, Planar{})
			require.NoError(t, err)

			res := calc.Evaluate()
			require.Equal(t, tc.outcome, res.Outcome, "got %s", res.Outcome)

			deg, ok := calc.AngleBetweenLines()
			require.Equal(t, tc.outcome == domain.OutcomeDefined, ok)
			if ok {
				require.InDelta(t, tc.expected, deg, 1e-9)
				require.GreaterOrEqual(t, deg, 0.0)
				require.LessOrEqual(t, deg, 180.0)
			}

			_, hasPoint := calc.IntersectionPoint()
			require.Equal(t, tc.outcome != domain.OutcomeNoIntersection, hasPoint)
		})
	}
}

func TestAngleBetweenLinesGeographic(t *testing.T) {
	model := geodesic.WGS84()

	testCases := []struct {
		desc     string
		line1    []domain.Coordinate
		line2    []domain.Coordinate
		expected float64
	}{
		{
			desc:     "due north and due east",
			line1:    coords(0, 0, 0, 1),
			line2:    coords(0, 0, 1, 0),
			expected: 90,
		},
		{
			desc:     "due west and due east run straight through",
			line1:    coords(-1, 0, 0, 0),
			line2:    coords(0, 0, 1, 0),
			expected: 180,
		},
		{
			desc:     "crossing on the equator",
			line1:    coords(-1, 0, 1, 0),
			line2:    coords(0, -1, 0, 1),
			expected: 90,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			calc, err := NewAngleCalculator(tc.line1, tc.line2, Geographic{Model: model})
			require.NoError(t, err)
			require.Equal(t, domain.ModeGeographic, calc.Mode())

			deg, ok := calc.AngleBetweenLines()
			require.True(t, ok)
			require.InDelta(t, tc.expected, deg, 1e-6)
		})
	}
}

func TestGeographicAzimuthWraparound(t *testing.T) {
	p1 := domain.Coordinate{X: -0.1, Y: 1}
	p2 := domain.Coordinate{X: 0.1, Y: 1}

	testCases := []struct {
		desc     string
		az1, az2 float64
		expected float64
	}{
		{desc: "either side of north", az1: -10, az2: 10, expected: 20},
		{desc: "either side of south", az1: 170, az2: -170, expected: 20},
		{desc: "wrapped representation", az1: 350, az2: 10, expected: 20},
		{desc: "exactly opposite", az1: -90, az2: 90, expected: 180},
		{desc: "same direction", az1: 45, az2: 45, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			g := Geographic{Model: fixedAzimuths{p1: tc.az1, p2: tc.az2}}
			deg, ok := g.angle(domain.Coordinate{}, p1, p2)
			require.True(t, ok)
			require.InDelta(t, tc.expected, deg, 1e-12)
		})
	}
}

func TestZeroLengthDirectionIsDistinct(t *testing.T) {
	line1 := coords(-1, 0, 0, 0, 0, 0)
	line2 := coords(0, -1, 0, 1)

	for _, mode := range []Mode{Planar{}, Geographic{Model: geodesic.WGS84()}} {
		calc, err := NewAngleCalculator(line1, line2, mode)
		require.NoError(t, err)

		res := calc.Evaluate()
		require.Equal(t, domain.OutcomeZeroLengthDirection, res.Outcome)

		_, ok := calc.AngleBetweenLines()
		require.False(t, ok)

		p, ok := calc.IntersectionPoint()
		require.True(t, ok)
		require.Equal(t, domain.Coordinate{X: 0, Y: 0}, p)
	}
}

func TestPlanarClampsCosineDrift(t *testing.T) {
	// Nearly parallel vectors whose computed cosine can exceed 1.
	deg, ok := Planar{}.angle(
		domain.Coordinate{X: 0, Y: 0},
		domain.Coordinate{X: 0.1, Y: 0.2},
		domain.Coordinate{X: 0.30000000000000004, Y: 0.6000000000000001},
	)
	require.True(t, ok)
	require.False(t, math.IsNaN(deg), "angle must not be NaN")
	require.InDelta(t, 0, deg, 1e-5)
}

func TestAngleIsSymmetric(t *testing.T) {
	cases := [][2][]domain.Coordinate{
		{coords(0, 0, 2, 1, 5, 5), coords(0, 4, 4, 0)},
		{coords(0, 0, 3, 0), coords(0, 0, 3, 3)},
		{coords(-3, 1, 4, -2), coords(-1, -5, 0, 0, 2, 6)},
	}

	for _, mode := range []Mode{Planar{}, Geographic{Model: geodesic.WGS84()}} {
		for _, c := range cases {
			ab, err := NewAngleCalculator(c[0], c[1], mode)
			require.NoError(t, err)
			ba, err := NewAngleCalculator(c[1], c[0], mode)
			require.NoError(t, err)

			d1, ok1 := ab.AngleBetweenLines()
			d2, ok2 := ba.AngleBetweenLines()
			require.True(t, ok1)
			require.True(t, ok2)
			require.InDelta(t, d1, d2, 1e-9)
		}
	}
}

func TestNewAngleCalculatorRejectsDegenerateLines(t *testing.T) {
	_, err := NewAngleCalculator(coords(0, 0), coords(0, 0, 1, 1), Planar{})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrDegenerateLine), "got %v", err)

	_, err = NewAngleCalculator(coords(0, 0, 1, 1), nil, Planar{})
	require.True(t, errors.Is(err, domain.ErrDegenerateLine), "got %v", err)

	_, err = NewAngleCalculatorFromPolylines(domain.Polyline{}, domain.Polyline{}, Planar{})
	require.True(t, errors.Is(err, domain.ErrDegenerateLine), "got %v", err)
}

func TestNewAngleCalculatorValidatesMode(t *testing.T) {
	_, err := NewAngleCalculator(coords(0, 0, 1, 1), coords(0, 1, 1, 0), nil)
	require.Error(t, err)

	_, err = NewAngleCalculator(coords(0, 0, 1, 1), coords(0, 1, 1, 0), Geographic{})
	require.Error(t, err)
}

func TestModeFor(t *testing.T) {
	model := geodesic.WGS84()
	require.Equal(t, domain.ModeGeographic, ModeFor(true, model).CoordinateMode())
	require.Equal(t, domain.ModePlanar, ModeFor(false, model).CoordinateMode())
}

func TestEvaluateIsSafeForConcurrentUse(t *testing.T) {
	calc, err := NewAngleCalculator(coords(0, 0, 2, 2), coords(0, 2, 2, 0), Planar{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.AngleResult, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = calc.Evaluate()
		}()
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, results[0], r)
	}
	require.Equal(t, domain.Coordinate{X: 1, Y: 1}, results[0].Intersection)
}

func TestGeographicRejectsLatitudeBeyondPole(t *testing.T) {
	testCases := []struct {
		desc  string
		line1 []domain.Coordinate
		line2 []domain.Coordinate
	}{
		{desc: "both lines north of the pole", line1: coords(-1, 95, 1, 95), line2: coords(0, 94, 0, 96)},
		{desc: "one vertex south of the pole", line1: coords(-1, 0, 1, 0), line2: coords(0, -91, 0, 1)},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := NewAngleCalculator(tc.line1, tc.line2, Geographic{Model: geodesic.WGS84()})
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrLatitudeOutOfRange), "got %v", err)

			// The same numbers are fine as planar coordinates.
			calc, err := NewAngleCalculator(tc.line1, tc.line2, Planar{})
			require.NoError(t, err)
			deg, ok := calc.AngleBetweenLines()
			require.True(t, ok)
			require.InDelta(t, 90, deg, 1e-9)
		})
	}
}

func TestGeographicNaNAzimuthIsUndefined(t *testing.T) {
	p1 := domain.Coordinate{X: 1, Y: 0}
	p2 := domain.Coordinate{X: 0, Y: 1}

	g := Geographic{Model: fixedAzimuths{p1: math.NaN(), p2: 0}}
	_, ok := g.angle(domain.Coordinate{}, p1, p2)
	require.False(t, ok)

	calc, err := NewAngleCalculator(coords(-1, 0, 1, 0), coords(0, -1, 0, 1), g)
	require.NoError(t, err)
	deg, ok := calc.AngleBetweenLines()
	require.False(t, ok, "got %v", deg)
	require.NotEqual(t, domain.OutcomeDefined, calc.Evaluate().Outcome)
}
