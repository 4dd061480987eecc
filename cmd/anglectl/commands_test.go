package main

import (
	"bytes"
	"context"
	"internal-angle-service/internal/config"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cfg config.Settings, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAngleCommand(t *testing.T) {
	cfg := config.Settings{DefaultCRS: "EPSG:4326"}

	testCases := []struct {
		desc     string
		args     []string
		expected string
		wantErr  bool
	}{
		{
			desc:     "planar crossing",
			args:     []string{"angle", "LINESTRING (-1 0, 1 0)", "LINESTRING (0 -1, 0 1)", "--crs", "EPSG:3857"},
			expected: "90.000000 degrees at POINT (0 0) (planar)\n",
		},
		{
			desc:     "geographic default",
			args:     []string{"angle", "LINESTRING (-1 0, 0 0)", "LINESTRING (0 0, 1 0)"},
			expected: "180.000000 degrees at POINT (0 0) (geographic)\n",
		},
		{
			desc:     "disjoint",
			args:     []string{"angle", "LINESTRING (0 0, 1 0)", "LINESTRING (0 1, 1 1)", "--crs", "EPSG:3857"},
			expected: "no single intersection (planar)\n",
		},
		{
			desc:     "zero length direction",
			args:     []string{"angle", "LINESTRING (-1 0, 0 0, 0 0)", "LINESTRING (0 -1, 0 1)", "--crs", "EPSG:3857"},
			expected: "angle undefined: zero-length direction at POINT (0 0) (planar)\n",
		},
		{
			desc:    "malformed wkt",
			args:    []string{"angle", "LINESTRING (0 0", "LINESTRING (0 1, 1 1)"},
			wantErr: true,
		},
		{
			desc:    "wrong arity",
			args:    []string{"angle", "LINESTRING (0 0, 1 1)"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			out, err := run(t, cfg, tc.args...)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestDatabaseCommandsRequireURL(t *testing.T) {
	for _, name := range []string{"batch", "init-db"} {
		_, err := run(t, config.Settings{BatchSize: 10, BatchConcurrency: 1}, name)
		require.Error(t, err)
		require.Contains(t, err.Error(), "DATABASE_URL")
	}
}
