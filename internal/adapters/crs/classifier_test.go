package crs

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestClassifierIsGeographic(t *testing.T) {
	testCases := []struct {
		desc     string
		crs      string
		expected bool
		unknown  bool
	}{
		{desc: "EPSG prefix", crs: "EPSG:4326", expected: true},
		{desc: "lower case prefix", crs: "epsg:4326", expected: true},
		{desc: "bare code", crs: "4326", expected: true},
		{desc: "surrounding space", crs: "  EPSG:4269 ", expected: true},
		{desc: "urn form", crs: "urn:ogc:def:crs:EPSG::4258", expected: true},
		{desc: "CRS84", crs: "OGC:CRS84", expected: true},
		{desc: "CRS:84", crs: "CRS:84", expected: true},
		{desc: "web mercator", crs: "EPSG:3857", expected: false},
		{desc: "utm north", crs: "EPSG:32633", expected: false},
		{desc: "utm south", crs: "32723", expected: false},
		{desc: "british national grid", crs: "EPSG:27700", expected: false},
		{desc: "empty", crs: "", unknown: true},
		{desc: "garbage", crs: "not-a-crs", unknown: true},
		{desc: "negative", crs: "EPSG:-1", unknown: true},
		{desc: "unlisted code", crs: "EPSG:99999", unknown: true},
	}

	c := NewClassifier()
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := c.IsGeographic(tc.crs)
			if tc.unknown {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrUnknownCRS), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}
