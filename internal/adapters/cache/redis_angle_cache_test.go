package cache

import (
	"context"
	"internal-angle-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisAngleCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAngleCache(client, time.Minute), mr
}

func TestRedisAngleCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	want := domain.PairResult{
		PairID: 7,
		Mode:   domain.ModeGeographic,
		Result: domain.AngleResult{
			Degrees:      90,
			Intersection: domain.Coordinate{X: 1, Y: 2},
			Neighbor1:    domain.Coordinate{X: 1, Y: 3},
			Neighbor2:    domain.Coordinate{X: 2, Y: 2},
			Outcome:      domain.OutcomeDefined,
		},
	}
	require.NoError(t, c.Put(ctx, "k", want))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestRedisAngleCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", domain.PairResult{Result: domain.AngleResult{Outcome: domain.OutcomeNoIntersection}}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisAngleCacheRejectsInputErrors(t *testing.T) {
	c, _ := newTestCache(t)
	err := c.Put(context.Background(), "k", domain.PairResult{Err: errors.New("bad wkt")})
	require.Error(t, err)
}

func TestRedisAngleCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(keyPrefix+"k", "{not json"))

	_, _, err := c.Get(context.Background(), "k")
	require.Error(t, err)
}
