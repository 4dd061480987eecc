package services

import (
	"context"
	"fmt"
	"internal-angle-service/internal/domain"
	"internal-angle-service/internal/platform/metrics"
	"internal-angle-service/internal/platform/obs"
	"internal-angle-service/internal/ports"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// PairProcessor turns textual line pairs into angle results.
//
// Input problems (unparseable geometry, unknown CRS, degenerate line) are
// reported on the PairResult, never as an error, so that one bad pair does
// not abort a batch. The processor is safe for concurrent use.
type PairProcessor struct {
	Parser     ports.GeometryParser
	Classifier ports.CRSClassifier
	Model      ports.AzimuthModel
	// Optional. Cache failures are logged and otherwise ignored.
	Cache   ports.AngleCache
	Metrics *metrics.Metrics
	// Used when a pair names no CRS and its geometries declare no SRID.
	// Empty means planar.
	DefaultCRS string
}

// Process computes the angle for a single pair.
func (p *PairProcessor) Process(ctx context.Context, pair domain.LinePair) domain.PairResult {
	line1, line2, crs, err := p.parse(pair)
	if err != nil {
		p.Metrics.ObserveInputError()
		return domain.PairResult{PairID: pair.PairID, Err: err}
	}

	mode, err := p.modeFor(crs)
	if err != nil {
		p.Metrics.ObserveInputError()
		return domain.PairResult{PairID: pair.PairID, Err: err}
	}

	// Construction validates the input; evaluation is deferred until a cache miss.
	calc, err := NewAngleCalculatorFromPolylines(line1, line2, mode)
	if err != nil {
		p.Metrics.ObserveInputError()
		return domain.PairResult{PairID: pair.PairID, Err: err}
	}

	key := CacheKey(crs, pair.Line1WKT, pair.Line2WKT)
	if cached, ok := p.cacheGet(ctx, key); ok {
		cached.PairID = pair.PairID
		p.Metrics.ObserveResult(cached.Mode, cached.Result.Outcome)
		return cached
	}

	res := domain.PairResult{
		PairID: pair.PairID,
		Mode:   calc.Mode(),
		Result: calc.Evaluate(),
	}
	p.Metrics.ObserveResult(res.Mode, res.Result.Outcome)
	p.cachePut(ctx, key, res)

	return res
}

// ProcessAll computes every pair with at most concurrency workers.
// Results keep the order of pairs. Only context cancellation fails the call.
func (p *PairProcessor) ProcessAll(ctx context.Context, pairs []domain.LinePair, concurrency int) ([]domain.PairResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]domain.PairResult, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, pair := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.Process(gctx, pair)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "process pairs")
	}
	return results, nil
}

// RunBatch drains pending pairs from repo in chunks of batchSize, storing
// each chunk's results before fetching the next. It returns the number of
// pairs processed.
func (p *PairProcessor) RunBatch(
	ctx context.Context,
	repo ports.LinePairRepository,
	batchSize int,
	concurrency int,
) (processed int, err error) {
	defer obs.Time(ctx, "angles.RunBatch")(&err)

	if repo == nil {
		return 0, errors.New("run batch: repository must be non-nil")
	}
	if batchSize < 1 {
		return 0, errors.Newf("run batch: batch size must be positive, got %d", batchSize)
	}

	for {
		start := time.Now()

		pairs, err := repo.ListPendingPairs(ctx, batchSize)
		if err != nil {
			return processed, errors.Wrap(err, "run batch: list pending pairs")
		}
		if len(pairs) == 0 {
			return processed, nil
		}

		results, err := p.ProcessAll(ctx, pairs, concurrency)
		if err != nil {
			return processed, errors.Wrap(err, "run batch")
		}

		if err := repo.SaveResults(ctx, results); err != nil {
			return processed, errors.Wrap(err, "run batch: save results")
		}

		processed += len(results)
		p.Metrics.ObserveBatch(time.Since(start))
		obs.Logger(ctx).WithField("pairs", len(results)).WithField("total", processed).Info("batch stored")

		// A short page means nothing is left.
		if len(pairs) < batchSize {
			return processed, nil
		}
	}
}

// CacheKey identifies a computation by its resolved CRS and raw geometry text.
func CacheKey(crs, line1, line2 string) string {
	h := xxhash.New()
	_, _ = h.WriteString(crs)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(line1)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(line2)
	return strconv.FormatUint(h.Sum64(), 16)
}

// parse decodes both lines and resolves the CRS: the pair's own CRS first,
// then an SRID embedded in the geometries, then DefaultCRS.
func (p *PairProcessor) parse(pair domain.LinePair) (domain.Polyline, domain.Polyline, string, error) {
	if p.Parser == nil {
		return domain.Polyline{}, domain.Polyline{}, "", errors.New("process pair: parser is nil")
	}

	var (
		line1, line2 domain.Polyline
		srid1, srid2 int
		err          error
	)

	if sp, ok := p.Parser.(ports.SRIDGeometryParser); ok {
		if line1, srid1, err = sp.ParseLineSRID(pair.Line1WKT); err != nil {
			return line1, line2, "", errors.Wrap(err, "line1")
		}
		if line2, srid2, err = sp.ParseLineSRID(pair.Line2WKT); err != nil {
			return line1, line2, "", errors.Wrap(err, "line2")
		}
	} else {
		if line1, err = p.Parser.ParseLine(pair.Line1WKT); err != nil {
			return line1, line2, "", errors.Wrap(err, "line1")
		}
		if line2, err = p.Parser.ParseLine(pair.Line2WKT); err != nil {
			return line1, line2, "", errors.Wrap(err, "line2")
		}
	}

	if pair.CRS != "" {
		return line1, line2, pair.CRS, nil
	}

	switch {
	case srid1 != 0 && srid2 != 0 && srid1 != srid2:
		return line1, line2, "", errors.Newf("lines declare different SRIDs: %d and %d", srid1, srid2)
	case srid1 != 0:
		return line1, line2, fmt.Sprintf("EPSG:%d", srid1), nil
	case srid2 != 0:
		return line1, line2, fmt.Sprintf("EPSG:%d", srid2), nil
	}
	return line1, line2, p.DefaultCRS, nil
}

func (p *PairProcessor) modeFor(crs string) (Mode, error) {
	// No reference system configured anywhere: planar is the only behavior.
	if crs == "" {
		return Planar{}, nil
	}
	if p.Classifier == nil {
		return nil, errors.New("process pair: crs classifier is nil")
	}

	isGeographic, err := p.Classifier.IsGeographic(crs)
	if err != nil {
		return nil, err
	}
	return ModeFor(isGeographic, p.Model), nil
}

func (p *PairProcessor) cacheGet(ctx context.Context, key string) (domain.PairResult, bool) {
	if p.Cache == nil {
		return domain.PairResult{}, false
	}

	res, ok, err := p.Cache.Get(ctx, key)
	switch {
	case err != nil:
		p.Metrics.ObserveCache("error")
		obs.Logger(ctx).WithError(err).Warn("angle cache lookup failed")
		return domain.PairResult{}, false
	case !ok:
		p.Metrics.ObserveCache("miss")
		return domain.PairResult{}, false
	}
	p.Metrics.ObserveCache("hit")
	return res, true
}

func (p *PairProcessor) cachePut(ctx context.Context, key string, res domain.PairResult) {
	if p.Cache == nil {
		return
	}
	if err := p.Cache.Put(ctx, key, res); err != nil {
		obs.Logger(ctx).WithError(err).Warn("angle cache store failed")
	}
}
