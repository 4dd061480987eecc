package services

import (
	"internal-angle-service/internal/domain"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/r2"
)

// ShapeKind tags the geometry produced by intersecting two polylines.
type ShapeKind int

const (
	ShapeEmpty ShapeKind = iota
	ShapePoint
	ShapeMultiPoint
	// At least one collinear overlap of positive length.
	ShapeLine
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeEmpty:
		return "empty"
	case ShapePoint:
		return "point"
	case ShapeMultiPoint:
		return "multipoint"
	case ShapeLine:
		return "line"
	default:
		return "unknown"
	}
}

// IntersectionResult is the shape-tagged output of Intersect.
// Points lists the distinct crossing points found; it is not meaningful for ShapeLine.
type IntersectionResult struct {
	Kind   ShapeKind
	Points []domain.Coordinate
}

const (
	// Hits closer than mergeTolerance times the coordinate magnitude (at
	// least 1) are the same crossing seen from adjacent segments. This only
	// absorbs rounding; distinct crossings farther apart stay separate.
	mergeTolerance = 1e-12
	// Relative padding of R-tree search rects.
	searchPad = 1e-9
)

// FindIntersection returns the crossing point of two polylines when they meet
// at exactly one point. Disjoint lines, collinear overlaps and multiple
// crossings all report false.
func FindIntersection(line1, line2 domain.Polyline) (domain.Coordinate, bool) {
	res := Intersect(line1, line2)
	if res.Kind != ShapePoint {
		return domain.Coordinate{}, false
	}
	return res.Points[0], true
}

type indexedSegment struct {
	a, b r2.Point
	rect rtreego.Rect
}

func (s *indexedSegment) Bounds() rtreego.Rect { return s.rect }

// Intersect computes the planar intersection of two polylines.
//
// Crossings are compared with a tolerance relative to coordinate magnitude
// (1e-12), so two real crossings only merge when they differ by rounding.
//
// Segments of line2 are indexed in an R-tree; each segment of line1 is then
// tested only against candidates whose bounding boxes overlap its own.
func Intersect(line1, line2 domain.Polyline) IntersectionResult {
	if line1.Len() < 2 || line2.Len() < 2 {
		return IntersectionResult{Kind: ShapeEmpty}
	}

	tree := rtreego.NewTree(2, 4, 16)
	for i := 0; i+1 < line2.Len(); i++ {
		a, b := toR2(line2.At(i)), toR2(line2.At(i+1))
		tree.Insert(&indexedSegment{a: a, b: b, rect: segmentRect(a, b)})
	}

	var points []domain.Coordinate
	overlap := false

	for i := 0; i+1 < line1.Len(); i++ {
		p1, p2 := toR2(line1.At(i)), toR2(line1.At(i+1))

		for _, sp := range tree.SearchIntersect(segmentRect(p1, p2)) {
			seg := sp.(*indexedSegment)

			hit, isOverlap, ok := intersectSegments(p1, p2, seg.a, seg.b)
			if !ok {
				continue
			}
			if isOverlap {
				overlap = true
				continue
			}
			points = appendDistinct(points, fromR2(hit))
		}
	}

	switch {
	case overlap:
		return IntersectionResult{Kind: ShapeLine, Points: points}
	case len(points) == 0:
		return IntersectionResult{Kind: ShapeEmpty}
	case len(points) == 1:
		return IntersectionResult{Kind: ShapePoint, Points: points}
	default:
		return IntersectionResult{Kind: ShapeMultiPoint, Points: points}
	}
}

// intersectSegments tests segment p1-p2 against q1-q2.
//
// A segment endpoint lying on the other segment is returned as-is so that
// shared vertices compare equal across segment pairs. isOverlap is set when
// the segments are collinear and share a stretch of positive length.
func intersectSegments(p1, p2, q1, q2 r2.Point) (hit r2.Point, isOverlap bool, ok bool) {
	if p1 == p2 {
		if onSegment(p1, q1, q2) {
			return p1, false, true
		}
		return r2.Point{}, false, false
	}
	if q1 == q2 {
		if onSegment(q1, p1, p2) {
			return q1, false, true
		}
		return r2.Point{}, false, false
	}

	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)

	if d1 == 0 && d2 == 0 && d3 == 0 && d4 == 0 {
		return collinearOverlap(p1, p2, q1, q2)
	}
	if sameSide(d1, d2) || sameSide(d3, d4) {
		return r2.Point{}, false, false
	}

	switch {
	case d3 == 0:
		return q1, false, true
	case d4 == 0:
		return q2, false, true
	case d1 == 0:
		return p1, false, true
	case d2 == 0:
		return p2, false, true
	}

	// Proper crossing: solve p1 + t*r = q1 + u*s for t.
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	t := q1.Sub(p1).Cross(s) / r.Cross(s)
	return p1.Add(r.Mul(t)), false, true
}

// collinearOverlap intersects two segments known to lie on one line by
// projecting them onto the axis along which they extend the most.
func collinearOverlap(p1, p2, q1, q2 r2.Point) (r2.Point, bool, bool) {
	axis := func(p r2.Point) float64 { return p.X }
	if d := p2.Sub(p1); math.Abs(d.Y) > math.Abs(d.X) {
		axis = func(p r2.Point) float64 { return p.Y }
	}

	lo := math.Max(math.Min(axis(p1), axis(p2)), math.Min(axis(q1), axis(q2)))
	hi := math.Min(math.Max(axis(p1), axis(p2)), math.Max(axis(q1), axis(q2)))

	switch {
	case lo > hi:
		return r2.Point{}, false, false
	case lo < hi:
		return r2.Point{}, true, true
	}

	for _, p := range []r2.Point{p1, p2, q1, q2} {
		if axis(p) == lo {
			return p, false, true
		}
	}
	return r2.Point{}, false, false
}

// orient is twice the signed area of triangle abc: positive when c lies to
// the left of a->b, zero when the three points are collinear.
func orient(a, b, c r2.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func sameSide(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func onSegment(p, a, b r2.Point) bool {
	if orient(a, b, p) != 0 {
		return false
	}
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

func appendDistinct(points []domain.Coordinate, c domain.Coordinate) []domain.Coordinate {
	for _, p := range points {
		scale := math.Max(1, math.Max(
			math.Max(math.Abs(p.X), math.Abs(p.Y)),
			math.Max(math.Abs(c.X), math.Abs(c.Y)),
		))
		if p.Distance(c) <= mergeTolerance*scale {
			return points
		}
	}
	return append(points, c)
}

// segmentRect returns the bounding box of a-b padded slightly, so that
// segments merely touching at a vertex are still reported as candidates.
func segmentRect(a, b r2.Point) rtreego.Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)

	pad := searchPad * math.Max(1, math.Max(
		math.Max(math.Abs(minX), math.Abs(maxX)),
		math.Max(math.Abs(minY), math.Abs(maxY)),
	))

	rect, err := rtreego.NewRect(
		rtreego.Point{minX - pad, minY - pad},
		[]float64{maxX - minX + 2*pad, maxY - minY + 2*pad},
	)
	if err != nil {
		// Lengths are always positive; only non-finite input ends up here.
		panic(err)
	}
	return rect
}

func toR2(c domain.Coordinate) r2.Point { return r2.Point{X: c.X, Y: c.Y} }

func fromR2(p r2.Point) domain.Coordinate { return domain.Coordinate{X: p.X, Y: p.Y} }
