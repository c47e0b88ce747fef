package contracts

import "context"

// Ranker produces top-N rankings (Ranking Engine)
// ⭐ SSOT: ranking interface used by the session controller
type Ranker interface {
	Top(ctx context.Context, metric Metric, n int) (*Ranking, error)

	// Invalidate drops any cached rankings after a write
	Invalidate(ctx context.Context) error
}
