package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Initialize the PostgreSQL schema for line pairs and their results.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "init schema: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	createLinePairsQuery := `
	CREATE TABLE IF NOT EXISTS line_pairs (
		pair_id BIGINT PRIMARY KEY,
		line1_wkt TEXT NOT NULL,
		line2_wkt TEXT NOT NULL,
		crs TEXT NOT NULL DEFAULT ''
	);
	`

	createAngleResultsQuery := `
	CREATE TABLE IF NOT EXISTS angle_results (
		pair_id BIGINT PRIMARY KEY REFERENCES line_pairs(pair_id) ON DELETE CASCADE,
		mode TEXT NOT NULL,
		outcome TEXT NOT NULL,
		angle_degrees DOUBLE PRECISION,
		intersection_wkt TEXT,
		error TEXT,
		computed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_angle_results_outcome
	ON angle_results(outcome);
	`

	statements := []string{
		createLinePairsQuery,
		createAngleResultsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "init schema: exec statement #%d", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "init schema: commit tx")
	}

	return nil
}

type LinePairSeed struct {
	PairID int64  `json:"pair_id"`
	Line1  string `json:"line1"`
	Line2  string `json:"line2"`
	CRS    string `json:"crs"`
}

// LoadSeeds reads and validates line pairs from a JSON file.
func LoadSeeds(jsonPath string) ([]LinePairSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, errors.Wrapf(err, "seed line pairs: read %q", jsonPath)
	}

	var data []LinePairSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, errors.Wrap(err, "seed line pairs: parse json")
	}

	rows := make([]LinePairSeed, 0, len(data))
	for i, item := range data {
		if item.PairID <= 0 {
			return nil, errors.Newf("seed line pairs: invalid pair_id at index %d: %d", i+1, item.PairID)
		}

		l1 := strings.TrimSpace(item.Line1)
		l2 := strings.TrimSpace(item.Line2)
		if l1 == "" || l2 == "" {
			return nil, errors.Newf("seed line pairs: item at index %d: both lines are required", i+1)
		}
		rows = append(rows, LinePairSeed{PairID: item.PairID, Line1: l1, Line2: l2, CRS: strings.TrimSpace(item.CRS)})
	}

	return rows, nil
}

// Populate the database with line pairs from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	rows, err := LoadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "seed line pairs: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO line_pairs (pair_id, line1_wkt, line2_wkt, crs)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (pair_id) DO UPDATE
	SET line1_wkt = EXCLUDED.line1_wkt,
		line2_wkt = EXCLUDED.line2_wkt,
		crs = EXCLUDED.crs;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return errors.Wrap(err, "seed line pairs: prepare insert")
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.ExecContext(ctx, p.PairID, p.Line1, p.Line2, p.CRS); err != nil {
			return errors.Wrapf(err, "seed line pairs: insert pair_id=%d", p.PairID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "seed line pairs: commit tx")
	}

	return nil
}
