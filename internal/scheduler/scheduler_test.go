package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investor/pkg/logger"
)

// fakeJob fails the first failures runs, then succeeds
type fakeJob struct {
	name     string
	schedule string
	failures int

	mu   sync.Mutex
	runs int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.runs++
	if j.runs <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func newTestScheduler(maxRetries int) *Scheduler {
	return New(logger.NewNop(), Options{MaxRetries: maxRetries, RetryDelay: time.Millisecond})
}

func TestScheduler_AddJob(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 */10 * * * *"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@every 1h"}))

	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}), "duplicate name")
	assert.Error(t, s.AddJob(&fakeJob{name: "c", schedule: "not a schedule"}))

	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestScheduler_RunJob_Retries(t *testing.T) {
	s := newTestScheduler(3)
	job := &fakeJob{name: "flaky", schedule: "@hourly", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "flaky")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)

	stats := s.GetJobStats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestScheduler_RunJob_GivesUp(t *testing.T) {
	s := newTestScheduler(1)
	require.NoError(t, s.AddJob(&fakeJob{name: "broken", schedule: "@hourly", failures: 10}))

	result, err := s.RunJob(context.Background(), "broken")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "transient", result.Error)

	stats := s.GetJobStats()["broken"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestScheduler_RunJob_Unknown(t *testing.T) {
	s := newTestScheduler(0)

	_, err := s.RunJob(context.Background(), "missing")
	assert.Error(t, err)
	assert.Empty(t, s.GetJobStats())
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(0)
	job := &fakeJob{name: "tick", schedule: "@every 10ms"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	assert.Eventually(t, func() bool {
		job.mu.Lock()
		defer job.mu.Unlock()
		return job.runs > 0
	}, 3*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestJobHistory_Limit(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+5; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)

	stats := h.Stats("job", "@hourly")
	assert.Equal(t, historyLimit, stats.TotalRuns)
	assert.Equal(t, stats.TotalRuns, stats.SuccessCount+stats.FailureCount)
	assert.InDelta(t, 0.5, stats.SuccessRate, 0.01)
}
