package ports

import (
	"context"
	"internal-angle-service/internal/domain"
)

// Port: a boundary for reading line pairs and storing computed angles.
type LinePairRepository interface {
	// Retrieve up to limit pairs that have no stored result yet.
	ListPendingPairs(ctx context.Context, limit int) ([]domain.LinePair, error)
	// Store results, replacing earlier results for the same pairs.
	SaveResults(ctx context.Context, results []domain.PairResult) error
}
