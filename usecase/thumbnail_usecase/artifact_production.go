package thumbnail_usecase

import (
	"context"
	"time"

	"thumbcache/domain"
	"thumbcache/utils/metrics"
)

// produce reads the source, resizes and encodes it, and writes the result
// at the derived path, replacing anything already there.
func (u *ThumbnailUsecase) produce(ctx context.Context, req domain.ThumbnailRequest, derived *derivedKey) (*domain.CacheEntry, error) {
	start := time.Now()

	data, err := u.sourceBytes(ctx, derived)
	if err != nil {
		return nil, err
	}

	processed, err := u.processor.Thumbnail(ctx, data, domain.ResizeSpec{
		Width:   req.Width,
		Height:  req.Height,
		Mode:    req.Options.Mode,
		Format:  domain.FormatOf(derived.Extension),
		Quality: req.Options.ResolvedQuality(),
	})
	if err != nil {
		return nil, err
	}

	entry, err := u.storage.Save(ctx, derived.RelativePath, processed.Data)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordProduction(string(req.Options.Mode), elapsed.Seconds())
	u.log.WithContext(ctx).Info("thumbnail produced",
		"source", req.Source,
		"path", entry.Path,
		"width", processed.Width,
		"height", processed.Height,
		"bytes", len(processed.Data),
		"duration_ms", elapsed.Milliseconds(),
	)
	return entry, nil
}

func (u *ThumbnailUsecase) sourceBytes(ctx context.Context, derived *derivedKey) ([]byte, error) {
	if !derived.Source.IsRemote {
		return u.local.Read(ctx, derived.Source.Path)
	}
	if derived.Body != nil {
		return derived.Body, nil
	}
	content, err := u.remote.FetchContent(ctx, derived.Source.Raw)
	if err != nil {
		return nil, err
	}
	return content.Data, nil
}
