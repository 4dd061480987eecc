package crs

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownCRS is returned for identifiers the classifier cannot place.
var ErrUnknownCRS = errors.New("unknown coordinate reference system")

// geographicEPSG lists geographic 2D and 3D systems in common use.
var geographicEPSG = map[int]struct{}{
	4019: {}, // GRS 1980
	4148: {}, // Hartebeesthoek94
	4152: {}, // NAD83(HARN)
	4167: {}, // NZGD2000
	4171: {}, // RGF93
	4230: {}, // ED50
	4258: {}, // ETRS89
	4267: {}, // NAD27
	4269: {}, // NAD83
	4283: {}, // GDA94
	4326: {}, // WGS 84
	4490: {}, // CGCS2000
	4612: {}, // JGD2000
	4617: {}, // NAD83(CSRS)
	4618: {}, // SAD69
	4674: {}, // SIRGAS 2000
	4686: {}, // MAGNA-SIRGAS
	4737: {}, // Korea 2000
	4755: {}, // DGN95
	4759: {}, // NAD83(NSRS2007)
	4760: {}, // WGS 66
	4937: {}, // ETRS89 3D
	4979: {}, // WGS 84 3D
	6318: {}, // NAD83(2011)
	6668: {}, // JGD2011
	7844: {}, // GDA2020
}

// projectedEPSG lists projected systems that are not covered by a range below.
var projectedEPSG = map[int]struct{}{
	2056:   {}, // CH1903+ / LV95
	2154:   {}, // RGF93 / Lambert-93
	3035:   {}, // ETRS89 / LAEA Europe
	3395:   {}, // WGS 84 / World Mercator
	3857:   {}, // WGS 84 / Pseudo-Mercator
	3577:   {}, // GDA94 / Australian Albers
	5070:   {}, // NAD83 / Conus Albers
	27700:  {}, // OSGB36 / British National Grid
	28992:  {}, // Amersfoort / RD New
	31370:  {}, // Belgian Lambert 72
	900913: {}, // legacy Google Mercator
}

// Classifier implements ports.CRSClassifier against a fixed table of EPSG
// codes. It recognises "EPSG:4326", "epsg:4326", "4326",
// "urn:ogc:def:crs:EPSG::4326", "OGC:CRS84", "CRS:84" and "WGS84".
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

// IsGeographic reports whether crs is a geographic (angular) system.
func (c *Classifier) IsGeographic(crs string) (bool, error) {
	id := strings.ToUpper(strings.TrimSpace(crs))
	if id == "" {
		return false, errors.Wrap(ErrUnknownCRS, "classify crs: identifier is empty")
	}

	switch id {
	case "OGC:CRS84", "CRS:84", "CRS84", "WGS84", "URN:OGC:DEF:CRS:OGC:1.3:CRS84":
		return true, nil
	}

	code, err := epsgCode(id)
	if err != nil {
		return false, errors.Wrapf(ErrUnknownCRS, "classify crs %q: %v", crs, err)
	}

	if _, ok := geographicEPSG[code]; ok {
		return true, nil
	}
	if isProjectedCode(code) {
		return false, nil
	}
	return false, errors.Wrapf(ErrUnknownCRS, "classify crs %q: EPSG:%d is not in the classification table", crs, code)
}

// epsgCode extracts the numeric EPSG code from an upper-cased identifier.
func epsgCode(id string) (int, error) {
	switch {
	case strings.HasPrefix(id, "URN:OGC:DEF:CRS:EPSG:"):
		id = id[strings.LastIndex(id, ":")+1:]
	case strings.HasPrefix(id, "EPSG:"):
		id = strings.TrimPrefix(id, "EPSG:")
	case strings.HasPrefix(id, "SRID="):
		id = strings.TrimPrefix(id, "SRID=")
	}

	code, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return 0, errors.New("not an EPSG identifier")
	}
	if code <= 0 {
		return 0, errors.Newf("EPSG code must be positive, got %d", code)
	}
	return code, nil
}

func isProjectedCode(code int) bool {
	if _, ok := projectedEPSG[code]; ok {
		return true
	}
	switch {
	case code >= 32601 && code <= 32660: // WGS 84 / UTM north
		return true
	case code >= 32701 && code <= 32760: // WGS 84 / UTM south
		return true
	case code >= 25828 && code <= 25838: // ETRS89 / UTM
		return true
	case code >= 26901 && code <= 26923: // NAD83 / UTM
		return true
	}
	return false
}
