package wkt

import (
	"internal-angle-service/internal/domain"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

const sridPrefix = "SRID="

// Parser implements ports.GeometryParser for WKT and EWKT line geometries.
// A MultiLineString with a single part is accepted as that part.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// ParseLine parses text into a Polyline, ignoring any SRID prefix.
func (p *Parser) ParseLine(text string) (domain.Polyline, error) {
	line, _, err := p.ParseLineSRID(text)
	return line, err
}

// ParseLineSRID parses text into a Polyline and returns the SRID declared by
// an EWKT "SRID=n;" prefix, or 0 when there is none.
func (p *Parser) ParseLineSRID(text string) (domain.Polyline, int, error) {
	str := strings.TrimSpace(text)
	if str == "" {
		return domain.Polyline{}, 0, errors.New("parse line: empty geometry text")
	}

	srid := 0
	if len(str) >= len(sridPrefix) && strings.EqualFold(str[:len(sridPrefix)], sridPrefix) {
		end := strings.Index(str, ";")
		if end == -1 {
			return domain.Polyline{}, 0, errors.Newf("parse line: missing ';' after SRID declaration in %q", text)
		}
		n, err := strconv.Atoi(strings.TrimSpace(str[len(sridPrefix):end]))
		if err != nil {
			return domain.Polyline{}, 0, errors.Wrapf(err, "parse line: invalid SRID in %q", text)
		}
		srid = n
		str = strings.TrimSpace(str[end+1:])
	}

	t, err := wkt.Unmarshal(str)
	if err != nil {
		return domain.Polyline{}, 0, errors.Wrap(err, "parse line: decode wkt")
	}

	var coords []geom.Coord
	switch g := t.(type) {
	case *geom.LineString:
		coords = g.Coords()
	case *geom.MultiLineString:
		if g.NumLineStrings() != 1 {
			return domain.Polyline{}, 0, errors.Newf("parse line: multilinestring must have exactly 1 part, got %d", g.NumLineStrings())
		}
		coords = g.LineString(0).Coords()
	default:
		return domain.Polyline{}, 0, errors.Newf("parse line: expected a LineString, got %T", t)
	}

	out := make([]domain.Coordinate, 0, len(coords))
	for _, c := range coords {
		out = append(out, domain.Coordinate{X: c.X(), Y: c.Y()})
	}

	line, err := domain.NewPolyline(out)
	if err != nil {
		return domain.Polyline{}, 0, errors.Wrap(err, "parse line")
	}
	return line, srid, nil
}

// FormatPoint renders a coordinate as a WKT POINT.
func FormatPoint(c domain.Coordinate) (string, error) {
	s, err := wkt.Marshal(geom.NewPointFlat(geom.XY, []float64{c.X, c.Y}))
	if err != nil {
		return "", errors.Wrap(err, "format point")
	}
	return s, nil
}
