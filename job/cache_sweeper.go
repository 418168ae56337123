package job

import (
	"context"
	"time"
)

// ExpiredEntrySweeper is implemented by the thumbnail usecase.
type ExpiredEntrySweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// CacheSweeperJob removes expired cache entries every interval, so entries
// nobody requests again do not linger until the next lookup.
func CacheSweeperJob(sweeper ExpiredEntrySweeper, interval time.Duration) Job {
	return Job{
		Name:     "cache_sweeper",
		Interval: interval,
		Timeout:  interval,
		Fn: func(ctx context.Context) error {
			_, err := sweeper.SweepExpired(ctx)
			return err
		},
	}
}
