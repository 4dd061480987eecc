package ports

import (
	"context"
	"internal-angle-service/internal/domain"
)

// Optional cache of computed angle results keyed by their inputs.
type AngleCache interface {
	// Return the cached result and true, or false on a miss.
	Get(ctx context.Context, key string) (domain.PairResult, bool, error)
	Put(ctx context.Context, key string, result domain.PairResult) error
}
