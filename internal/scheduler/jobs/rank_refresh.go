package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/investor/pkg/logger"
)

// RankRefresher recomputes and caches every ranking
type RankRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// RankRefreshJob keeps the ranking cache warm
type RankRefreshJob struct {
	ranker   RankRefresher
	schedule string
	logger   *logger.Logger
}

// NewRankRefreshJob creates a new rank refresh job
func NewRankRefreshJob(ranker RankRefresher, schedule string, log *logger.Logger) *RankRefreshJob {
	return &RankRefreshJob{
		ranker:   ranker,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RankRefreshJob) Name() string {
	return "rank_refresh"
}

// Schedule returns the configured cron schedule (RANK_REFRESH_SCHEDULE)
func (j *RankRefreshJob) Schedule() string {
	return j.schedule
}

// Run executes the refresh
func (j *RankRefreshJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled ranking refresh")

	n, err := j.ranker.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh rankings: %w", err)
	}

	j.logger.WithField("metrics", n).Debug("Ranking refresh completed")
	return nil
}
