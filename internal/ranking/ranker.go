// Package ranking serves top-N company rankings by a metric.
package ranking

import (
	"context"
	"time"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/pkg/logger"
	"github.com/wonny/investor/pkg/redis"
)

// DefaultLimit is used when neither the caller nor the config gives a limit
const DefaultLimit = 10

// Config holds ranker settings
type Config struct {
	DefaultLimit int
	CacheTTL     time.Duration
}

// Ranker ranks companies through the store and caches results in Redis
// ⭐ SSOT: top-N ranking rules (limit, caching, invalidation) live here only
type Ranker struct {
	repo   contracts.CompanyRepository
	cache  *redis.Cache // nil or disabled means no caching
	config Config
	logger *logger.Logger
}

var _ contracts.Ranker = (*Ranker)(nil)

// NewRanker creates a new ranker. cache may be nil.
func NewRanker(repo contracts.CompanyRepository, cache *redis.Cache, config Config, log *logger.Logger) *Ranker {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = DefaultLimit
	}

	return &Ranker{
		repo:   repo,
		cache:  cache,
		config: config,
		logger: log,
	}
}

// Top returns at most n companies ordered by metric, best first.
// n <= 0 uses the configured default limit.
func (r *Ranker) Top(ctx context.Context, metric contracts.Metric, n int) (*contracts.Ranking, error) {
	if _, _, err := metric.Fields(); err != nil {
		return nil, err
	}

	if n <= 0 {
		n = r.config.DefaultLimit
	}

	// The generation is read before computing so a ranking computed from
	// pre-write data lands under a key that Invalidate has already retired.
	gen, err := r.generation(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("Ranking cache generation read failed")
		return r.compute(ctx, metric, n)
	}
	key := redis.RankingKey(gen, metric.Slug(), n)

	var cached contracts.Ranking
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("Ranking cache read failed")
	}
	if found {
		return &cached, nil
	}

	ranking, err := r.compute(ctx, metric, n)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, ranking, r.config.CacheTTL); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("Ranking cache write failed")
	}

	return ranking, nil
}

// Invalidate retires the current ranking generation and drops every cached
// ranking. Called after each store write.
func (r *Ranker) Invalidate(ctx context.Context) error {
	if _, err := r.cache.Incr(ctx, redis.RankingGenerationKey()); err != nil {
		return err
	}

	n, err := r.cache.DeletePattern(ctx, redis.RankingPattern())
	if err != nil {
		return err
	}

	if n > 0 {
		r.logger.WithField("keys", n).Debug("Ranking cache invalidated")
	}
	return nil
}

// Refresh recomputes every metric at the default limit and stores the results
func (r *Ranker) Refresh(ctx context.Context) (int, error) {
	if !r.cache.Enabled() {
		return 0, nil
	}

	if err := r.Invalidate(ctx); err != nil {
		return 0, err
	}

	gen, err := r.generation(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, metric := range contracts.Metrics {
		ranking, err := r.compute(ctx, metric, r.config.DefaultLimit)
		if err != nil {
			return refreshed, err
		}

		key := redis.RankingKey(gen, metric.Slug(), r.config.DefaultLimit)
		if err := r.cache.Set(ctx, key, ranking, r.config.CacheTTL); err != nil {
			return refreshed, err
		}
		refreshed++
	}

	r.logger.WithFields(map[string]interface{}{
		"metrics": refreshed,
		"limit":   r.config.DefaultLimit,
	}).Info("Ranking cache refreshed")

	return refreshed, nil
}

// generation returns the current ranking cache generation, 0 before the first write
func (r *Ranker) generation(ctx context.Context) (int64, error) {
	var gen int64
	if _, err := r.cache.Get(ctx, redis.RankingGenerationKey(), &gen); err != nil {
		return 0, err
	}
	return gen, nil
}

func (r *Ranker) compute(ctx context.Context, metric contracts.Metric, n int) (*contracts.Ranking, error) {
	items, err := r.repo.TopByMetric(ctx, metric, n)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"metric": string(metric),
		"limit":  n,
		"count":  len(items),
	}
	if len(items) > 0 {
		fields["top_ticker"] = items[0].Ticker
		fields["top_value"] = items[0].Value
	}
	r.logger.WithFields(fields).Debug("Ranking completed")

	return &contracts.Ranking{
		Metric: metric,
		Limit:  n,
		Items:  items,
	}, nil
}
