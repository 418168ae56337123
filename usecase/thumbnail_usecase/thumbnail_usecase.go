package thumbnail_usecase

import (
	"context"
	"image"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"thumbcache/domain"
	"thumbcache/port/source_port"
	"thumbcache/port/thumbnail_port"
	apperrors "thumbcache/utils/errors"
	"thumbcache/utils/logger"
	"thumbcache/utils/metrics"
)

const component = "ThumbnailUsecase"

// Config is fixed at construction and shared by every request.
type Config struct {
	// Expire is the global expiry window. Zero means entries never expire.
	Expire time.Duration
	// PublicRoot is the URL prefix the cache root is served under.
	PublicRoot string
	// SingleFlight collapses concurrent production of the same entry.
	SingleFlight bool
	// Defaults fill the options a request leaves unset.
	Defaults domain.ThumbnailOptions
}

// ThumbnailUsecase resolves thumbnail requests to cached files, producing
// them on a miss.
type ThumbnailUsecase struct {
	local     source_port.LocalSourcePort
	remote    source_port.RemoteSourcePort
	processor thumbnail_port.ImageProcessingPort
	storage   thumbnail_port.CacheStoragePort
	cfg       Config
	now       func() time.Time
	flight    singleflight.Group
	log       *logger.ContextLogger
}

func NewThumbnailUsecase(
	local source_port.LocalSourcePort,
	remote source_port.RemoteSourcePort,
	processor thumbnail_port.ImageProcessingPort,
	storage thumbnail_port.CacheStoragePort,
	cfg Config,
) *ThumbnailUsecase {
	return &ThumbnailUsecase{
		local:     local,
		remote:    remote,
		processor: processor,
		storage:   storage,
		cfg:       cfg,
		now:       time.Now,
		log:       logger.NewContextLogger(logger.Logger),
	}
}

// Resolve returns the absolute path of the thumbnail for source at w x h,
// producing it if there is no valid cache entry.
func (u *ThumbnailUsecase) Resolve(ctx context.Context, source string, width, height int, opts domain.ThumbnailOptions) (string, error) {
	entry, err := u.resolveEntry(ctx, source, width, height, opts)
	if err != nil {
		return "", err
	}
	return entry.Path, nil
}

// ResolveURL is Resolve followed by PublicURL.
func (u *ThumbnailUsecase) ResolveURL(ctx context.Context, source string, width, height int, opts domain.ThumbnailOptions) (string, error) {
	path, err := u.Resolve(ctx, source, width, height, opts)
	if err != nil {
		return "", err
	}
	return u.PublicURL(path)
}

// Thumbnail resolves the entry and decodes it.
func (u *ThumbnailUsecase) Thumbnail(ctx context.Context, source string, width, height int, opts domain.ThumbnailOptions) (image.Image, error) {
	entry, err := u.resolveEntry(ctx, source, width, height, opts)
	if err != nil {
		return nil, err
	}
	data, err := u.storage.Read(ctx, entry.RelativePath)
	if err != nil {
		return nil, err
	}
	return u.processor.Decode(ctx, data)
}

// ClearAll removes every cache entry and recreates an empty cache root.
func (u *ThumbnailUsecase) ClearAll(ctx context.Context) error {
	ctx = logger.WithOperation(ctx, "clear_all")
	if err := u.storage.Clear(ctx); err != nil {
		u.log.LogError(ctx, "clear_all", err)
		metrics.RecordError("clear_all", apperrors.CodeOf(err))
		return err
	}
	u.log.WithContext(ctx).Info("thumbnail cache cleared", "root", u.storage.Root())
	return nil
}

// SweepExpired deletes every entry older than the expiry window. It is a
// no-op when expiry is disabled.
func (u *ThumbnailUsecase) SweepExpired(ctx context.Context) (int, error) {
	if u.cfg.Expire <= 0 {
		return 0, nil
	}
	ctx = logger.WithOperation(ctx, "sweep_expired")
	removed, err := u.storage.RemoveExpired(ctx, u.now(), u.cfg.Expire)
	metrics.RecordSwept(removed)
	if err != nil {
		u.log.LogError(ctx, "sweep_expired", err)
		metrics.RecordError("sweep_expired", apperrors.CodeOf(err))
		return removed, err
	}
	if removed > 0 {
		u.log.WithContext(ctx).Info("expired thumbnails removed", "count", removed)
	}
	return removed, nil
}

func (u *ThumbnailUsecase) resolveEntry(ctx context.Context, source string, width, height int, opts domain.ThumbnailOptions) (*domain.CacheEntry, error) {
	ctx = logger.WithOperation(ctx, "resolve")
	req := domain.ThumbnailRequest{
		Source:  source,
		Width:   width,
		Height:  height,
		Options: u.applyDefaults(opts),
	}
	entry, err := u.resolve(ctx, req)
	if err != nil {
		metrics.RecordError("resolve", apperrors.CodeOf(err))
		u.logFailure(ctx, req, err)
		return nil, err
	}
	return entry, nil
}

func (u *ThumbnailUsecase) resolve(ctx context.Context, req domain.ThumbnailRequest) (*domain.CacheEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppContextError(apperrors.CodeInvalidOption, err.Error(),
			"usecase", component, "validate", err, map[string]interface{}{"source": req.Source})
	}

	derived, err := u.deriveKey(ctx, req)
	if err != nil {
		return nil, err
	}

	entry, err := u.lookup(ctx, derived.RelativePath)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}

	if !u.cfg.SingleFlight {
		return u.produce(ctx, req, derived)
	}

	v, err, shared := u.flight.Do(derived.RelativePath, func() (interface{}, error) {
		// another caller may have finished while this one waited for the key
		if entry, err := u.lookup(ctx, derived.RelativePath); err != nil || entry != nil {
			return entry, err
		}
		return u.produce(ctx, req, derived)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		u.log.WithContext(ctx).Debug("thumbnail production shared", "path", derived.RelativePath)
	}
	return v.(*domain.CacheEntry), nil
}

func (u *ThumbnailUsecase) applyDefaults(opts domain.ThumbnailOptions) domain.ThumbnailOptions {
	d := u.cfg.Defaults
	if opts.Mode == "" {
		opts.Mode = d.Mode
	}
	if opts.CacheMode == 0 {
		opts.CacheMode = d.CacheMode
	}
	if opts.Quality == nil && d.Quality != nil {
		opts.Quality = domain.Quality(*d.Quality)
	}
	return opts.WithDefaults()
}

// logFailure keeps not-found quiet since callers routinely probe for sources.
func (u *ThumbnailUsecase) logFailure(ctx context.Context, req domain.ThumbnailRequest, err error) {
	level := slog.LevelError
	switch {
	case apperrors.IsSourceNotFound(err), apperrors.IsInvalidOption(err):
		level = slog.LevelDebug
	}
	u.log.WithContext(ctx).Log(ctx, level, "thumbnail resolve failed",
		"source", req.Source,
		"width", req.Width,
		"height", req.Height,
		"mode", req.Options.Mode,
		"error", err,
	)
}
