package cache

import (
	"context"
	"encoding/json"
	"internal-angle-service/internal/domain"
	"internal-angle-service/internal/platform/obs"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "angle:v1:"

// RedisAngleCache is a Redis-backed cache of computed angle results.
// Only evaluated results are cached; input errors are never stored.
type RedisAngleCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisAngleCache(client *redis.Client, ttl time.Duration) *RedisAngleCache {
	return &RedisAngleCache{Client: client, TTL: ttl}
}

type cachedCoordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type cachedResult struct {
	PairID       int64            `json:"pair_id"`
	Mode         string           `json:"mode"`
	Outcome      string           `json:"outcome"`
	Degrees      float64          `json:"degrees"`
	Intersection cachedCoordinate `json:"intersection"`
	Neighbor1    cachedCoordinate `json:"neighbor1"`
	Neighbor2    cachedCoordinate `json:"neighbor2"`
}

// Fetch a cached result. A missing key is reported as (zero, false, nil).
func (c *RedisAngleCache) Get(ctx context.Context, key string) (_ domain.PairResult, _ bool, err error) {
	defer obs.Time(ctx, "angle.cache.Get")(&err)

	if c.Client == nil {
		return domain.PairResult{}, false, errors.New("angle cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PairResult{}, false, nil
	}
	if err != nil {
		return domain.PairResult{}, false, errors.Wrapf(err, "get angle cache: key=%q", key)
	}

	var cr cachedResult
	if err := json.Unmarshal(raw, &cr); err != nil {
		return domain.PairResult{}, false, errors.Wrapf(err, "get angle cache: decode key=%q", key)
	}

	res, err := cr.toDomain()
	if err != nil {
		return domain.PairResult{}, false, errors.Wrapf(err, "get angle cache: key=%q", key)
	}
	return res, true, nil
}

// Store a result under key with the configured TTL.
func (c *RedisAngleCache) Put(ctx context.Context, key string, result domain.PairResult) error {
	if c.Client == nil {
		return errors.New("angle cache: client is nil")
	}
	if result.Err != nil {
		return errors.New("put angle cache: refusing to cache an input error")
	}

	raw, err := json.Marshal(fromDomain(result))
	if err != nil {
		return errors.Wrap(err, "put angle cache: encode")
	}

	if err := c.Client.Set(ctx, keyPrefix+key, raw, c.TTL).Err(); err != nil {
		return errors.Wrapf(err, "put angle cache: key=%q", key)
	}
	return nil
}

func fromDomain(r domain.PairResult) cachedResult {
	return cachedResult{
		PairID:       r.PairID,
		Mode:         r.Mode.String(),
		Outcome:      r.Result.Outcome.String(),
		Degrees:      r.Result.Degrees,
		Intersection: cachedCoordinate{X: r.Result.Intersection.X, Y: r.Result.Intersection.Y},
		Neighbor1:    cachedCoordinate{X: r.Result.Neighbor1.X, Y: r.Result.Neighbor1.Y},
		Neighbor2:    cachedCoordinate{X: r.Result.Neighbor2.X, Y: r.Result.Neighbor2.Y},
	}
}

func (cr cachedResult) toDomain() (domain.PairResult, error) {
	mode, err := domain.ParseCoordinateMode(cr.Mode)
	if err != nil {
		return domain.PairResult{}, err
	}
	outcome, err := domain.ParseOutcome(cr.Outcome)
	if err != nil {
		return domain.PairResult{}, err
	}

	return domain.PairResult{
		PairID: cr.PairID,
		Mode:   mode,
		Result: domain.AngleResult{
			Degrees:      cr.Degrees,
			Intersection: domain.Coordinate{X: cr.Intersection.X, Y: cr.Intersection.Y},
			Neighbor1:    domain.Coordinate{X: cr.Neighbor1.X, Y: cr.Neighbor1.Y},
			Neighbor2:    domain.Coordinate{X: cr.Neighbor2.X, Y: cr.Neighbor2.Y},
			Outcome:      outcome,
		},
	}, nil
}
