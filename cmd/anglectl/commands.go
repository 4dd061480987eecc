package main

import (
	"fmt"
	"internal-angle-service/internal/adapters/crs"
	"internal-angle-service/internal/adapters/geodesic"
	"internal-angle-service/internal/adapters/repositories"
	"internal-angle-service/internal/adapters/wkt"
	"internal-angle-service/internal/config"
	"internal-angle-service/internal/domain"
	"internal-angle-service/internal/platform/db"
	"internal-angle-service/internal/services"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd(cfg config.Settings) *cobra.Command {
	root := &cobra.Command{
		Use:           "anglectl",
		Short:         "Compute angles between intersecting polylines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAngleCmd(cfg), newBatchCmd(cfg), newInitDBCmd(cfg))
	return root
}

func newProcessor(cfg config.Settings, crsOverride string) *services.PairProcessor {
	defaultCRS := cfg.DefaultCRS
	if crsOverride != "" {
		defaultCRS = crsOverride
	}
	return &services.PairProcessor{
		Parser:     wkt.NewParser(),
		Classifier: crs.NewClassifier(),
		Model:      geodesic.WGS84(),
		DefaultCRS: defaultCRS,
	}
}

func newAngleCmd(cfg config.Settings) *cobra.Command {
	var crsFlag string

	cmd := &cobra.Command{
		Use:   "angle <line1-wkt> <line2-wkt>",
		Short: "Print the angle at the crossing of two WKT linestrings",
		Example: `  anglectl angle 'LINESTRING (-1 0, 1 0)' 'LINESTRING (0 -1, 0 1)' --crs EPSG:3857
  anglectl angle 'SRID=4326;LINESTRING (0 0, 0 1)' 'LINESTRING (0 0, 1 0)'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc := newProcessor(cfg, "")
			res := proc.Process(cmd.Context(), domain.LinePair{
				Line1WKT: args[0],
				Line2WKT: args[1],
				CRS:      strings.TrimSpace(crsFlag),
			})
			if res.Err != nil {
				return res.Err
			}
			return printResult(cmd, res)
		},
	}
	cmd.Flags().StringVar(&crsFlag, "crs", "", "reference system of both lines (default: SRID prefix, then DEFAULT_CRS)")
	return cmd
}

func printResult(cmd *cobra.Command, res domain.PairResult) error {
	out := cmd.OutOrStdout()
	r := res.Result

	switch r.Outcome {
	case domain.OutcomeNoIntersection:
		_, err := fmt.Fprintf(out, "no single intersection (%s)\n", res.Mode)
		return err
	case domain.OutcomeZeroLengthDirection:
		at, err := wkt.FormatPoint(r.Intersection)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "angle undefined: zero-length direction at %s (%s)\n", at, res.Mode)
		return err
	}

	at, err := wkt.FormatPoint(r.Intersection)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%.6f degrees at %s (%s)\n", r.Degrees, at, res.Mode)
	return err
}

func newBatchCmd(cfg config.Settings) *cobra.Command {
	var (
		batchSize   int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compute results for every pending line pair in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			conn, err := db.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			repo := repositories.NewPostgresLinePairRepository(conn)
			n, err := newProcessor(cfg, "").RunBatch(cmd.Context(), repo, batchSize, concurrency)
			if err != nil {
				return err
			}

			logrus.WithField("pairs", n).Info("batch complete")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "processed %d pairs\n", n)
			return err
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", cfg.BatchSize, "pairs fetched and stored per round trip")
	cmd.Flags().IntVar(&concurrency, "concurrency", cfg.BatchConcurrency, "pairs computed in parallel")
	return cmd
}

func newInitDBCmd(cfg config.Settings) *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the schema and optionally load line pairs from a JSON seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			conn, err := db.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			logrus.Info("Initializing database schema...")
			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return errors.Wrap(err, "schema initialization failed")
			}
			logrus.Info("Schema ready.")

			if seedPath == "" {
				return nil
			}

			logrus.WithField("path", seedPath).Info("Seeding database...")
			if err := repositories.SeedFromJSON(cmd.Context(), conn, seedPath); err != nil {
				return errors.Wrap(err, "seeding failed")
			}
			logrus.Info("Seeding complete.")
			return nil
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", cfg.SeedPath, "JSON file of line pairs to upsert")
	return cmd
}
