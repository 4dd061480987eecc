package repositories

import (
	"context"
	"database/sql"
	"internal-angle-service/internal/adapters/wkt"
	"internal-angle-service/internal/domain"
	"internal-angle-service/internal/platform/obs"

	"github.com/cockroachdb/errors"
)

// PostgreSQL-backed implementation of the LinePairRepository port.
type PostgresLinePairRepository struct{ DB *sql.DB }

func NewPostgresLinePairRepository(db *sql.DB) *PostgresLinePairRepository {
	return &PostgresLinePairRepository{DB: db}
}

// Return up to limit line pairs without a stored result, oldest id first.
func (r *PostgresLinePairRepository) ListPendingPairs(ctx context.Context, limit int) (_ []domain.LinePair, err error) {
	defer obs.Time(ctx, "line_pairs.ListPending")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres line pair repository: DB is nil")
	}
	if limit <= 0 {
		return nil, errors.Newf("list pending pairs: limit must be positive, got %d", limit)
	}

	query := `
	SELECT lp.pair_id, lp.line1_wkt, lp.line2_wkt, lp.crs
	FROM line_pairs lp
	LEFT JOIN angle_results ar ON ar.pair_id = lp.pair_id
	WHERE ar.pair_id IS NULL
	ORDER BY lp.pair_id
	LIMIT $1;
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list pending pairs: query line_pairs table")
	}
	defer rows.Close()

	pairs := make([]domain.LinePair, 0, limit)
	for rows.Next() {
		var p domain.LinePair
		if err := rows.Scan(&p.PairID, &p.Line1WKT, &p.Line2WKT, &p.CRS); err != nil {
			return nil, errors.Wrap(err, "list pending pairs: scan row")
		}
		pairs = append(pairs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list pending pairs: row iteration")
	}

	return pairs, nil
}

// Store results in a single transaction, replacing earlier rows.
func (r *PostgresLinePairRepository) SaveResults(ctx context.Context, results []domain.PairResult) (err error) {
	defer obs.Time(ctx, "angle_results.Save")(&err)

	if r.DB == nil {
		return errors.New("postgres line pair repository: DB is nil")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "save results: db begin")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO angle_results (pair_id, mode, outcome, angle_degrees, intersection_wkt, error, computed_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (pair_id) DO UPDATE
	SET mode = EXCLUDED.mode,
		outcome = EXCLUDED.outcome,
		angle_degrees = EXCLUDED.angle_degrees,
		intersection_wkt = EXCLUDED.intersection_wkt,
		error = EXCLUDED.error,
		computed_at = EXCLUDED.computed_at;
	`)
	if err != nil {
		return errors.Wrap(err, "save results: db prepare")
	}
	defer stmt.Close()

	for _, res := range results {
		row, err := toResultRow(res)
		if err != nil {
			return errors.Wrapf(err, "save results: pair_id=%d", res.PairID)
		}

		if _, err := stmt.ExecContext(ctx, res.PairID, row.mode, row.outcome, row.degrees, row.intersection, row.errText); err != nil {
			return errors.Wrapf(err, "save results: insert pair_id=%d", res.PairID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "save results: commit")
	}

	return nil
}

type resultRow struct {
	mode         string
	outcome      string
	degrees      sql.NullFloat64
	intersection sql.NullString
	errText      sql.NullString
}

// toResultRow maps a result onto nullable columns. Input errors are stored
// with outcome "input_error" and no geometry.
func toResultRow(res domain.PairResult) (resultRow, error) {
	row := resultRow{mode: res.Mode.String()}

	if res.Err != nil {
		row.outcome = "input_error"
		row.errText = sql.NullString{String: res.Err.Error(), Valid: true}
		return row, nil
	}

	row.outcome = res.Result.Outcome.String()
	if res.Result.Defined() {
		row.degrees = sql.NullFloat64{Float64: res.Result.Degrees, Valid: true}
	}
	if res.Result.Outcome != domain.OutcomeNoIntersection {
		s, err := wkt.FormatPoint(res.Result.Intersection)
		if err != nil {
			return resultRow{}, err
		}
		row.intersection = sql.NullString{String: s, Valid: true}
	}
	return row, nil
}
