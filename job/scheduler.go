package job

import (
	"context"
	"sync"
	"time"

	"thumbcache/utils/logger"
)

// Job is a named function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero means the run is bounded only by the
	// scheduler context.
	Timeout time.Duration
	Fn      func(ctx context.Context) error
}

// JobScheduler runs registered jobs until its context is cancelled.
type JobScheduler struct {
	jobs []Job
	wg   sync.WaitGroup
}

func NewJobScheduler() *JobScheduler {
	return &JobScheduler{}
}

// Add registers a job. Jobs with a non-positive interval are ignored.
func (s *JobScheduler) Add(j Job) {
	if j.Interval <= 0 {
		logger.Logger.Debug("job disabled", "job", j.Name)
		return
	}
	s.jobs = append(s.jobs, j)
}

// Len is the number of scheduled jobs.
func (s *JobScheduler) Len() int {
	return len(s.jobs)
}

// Start launches every job in its own goroutine. A job runs once right away,
// then on every tick.
func (s *JobScheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, j)
	}
}

func (s *JobScheduler) runJob(ctx context.Context, j Job) {
	defer s.wg.Done()

	s.executeJob(ctx, j)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Logger.InfoContext(ctx, "job stopping", "job", j.Name)
			return
		case <-ticker.C:
			s.executeJob(ctx, j)
		}
	}
}

func (s *JobScheduler) executeJob(ctx context.Context, j Job) {
	if ctx.Err() != nil {
		return
	}

	jobCtx := logger.WithOperation(ctx, j.Name)
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(jobCtx, j.Timeout)
		defer cancel()
	}

	if err := j.Fn(jobCtx); err != nil {
		logger.Logger.ErrorContext(ctx, "job failed", "job", j.Name, "error", err)
	}
}

// Shutdown blocks until all running jobs return.
func (s *JobScheduler) Shutdown() {
	s.wg.Wait()
}
