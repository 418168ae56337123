package thumbnail_usecase

import (
	"context"

	"thumbcache/domain"
	"thumbcache/utils/metrics"
)

// lookup returns the cached entry at relPath, or nil on a miss. An entry
// older than the expiry window is deleted and reported as a miss.
func (u *ThumbnailUsecase) lookup(ctx context.Context, relPath string) (*domain.CacheEntry, error) {
	entry, err := u.storage.Stat(ctx, relPath)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		metrics.RecordLookup(metrics.LookupMiss)
		return nil, nil
	}

	if entry.Expired(u.now(), u.cfg.Expire) {
		if err := u.storage.Remove(ctx, relPath); err != nil {
			return nil, err
		}
		metrics.RecordLookup(metrics.LookupExpired)
		u.log.WithContext(ctx).Debug("expired thumbnail removed",
			"path", entry.Path,
			"mod_time", entry.ModTime,
		)
		return nil, nil
	}

	metrics.RecordLookup(metrics.LookupHit)
	return entry, nil
}
