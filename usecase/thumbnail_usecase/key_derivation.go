package thumbnail_usecase

import (
	"context"
	"fmt"

	"thumbcache/domain"
	"thumbcache/utils/cache_key"
	apperrors "thumbcache/utils/errors"
)

// derivedKey is the outcome of key derivation for one request.
type derivedKey struct {
	Key          domain.CacheKey
	Source       domain.SourceReference
	Extension    string
	RelativePath string
	// Body is the remote content already fetched by the checksum policy.
	Body []byte
}

// deriveKey computes the cache key and layout path for req. Remote sources
// may cost a HEAD (header policy) or a GET (checksum policy); local sources
// cost a stat.
func (u *ThumbnailUsecase) deriveKey(ctx context.Context, req domain.ThumbnailRequest) (*derivedKey, error) {
	var (
		ref   domain.SourceReference
		token string
		body  []byte
	)

	if domain.IsRemoteSource(req.Source) {
		ref = domain.SourceReference{Raw: req.Source, IsRemote: true}

		switch req.Options.CacheMode {
		case domain.StalenessNone:
		case domain.StalenessChecksum:
			content, err := u.remote.FetchContent(ctx, req.Source)
			if err != nil {
				return nil, err
			}
			body = content.Data
			token = cache_key.Checksum(body)
		case domain.StalenessHeader:
			headers, err := u.remote.FetchHeaders(ctx, req.Source)
			if err != nil {
				return nil, err
			}
			token = headers.LastModified
		default:
			return nil, apperrors.NewInvalidOptionError(
				fmt.Sprintf("unknown cache mode %s", req.Options.CacheMode),
				"usecase", component, "derive_key", map[string]interface{}{"source": req.Source})
		}
	} else {
		info, err := u.local.Stat(ctx, req.Source)
		if err != nil {
			return nil, err
		}
		ref = domain.SourceReference{Raw: req.Source, Path: info.Path, ModTime: info.ModTime}
		token = cache_key.ModTimeToken(info.ModTime.Unix())
	}

	ext, err := domain.ResolveExtension(req.Options.Format, ref.Identity())
	if err != nil {
		return nil, apperrors.NewAppContextError(apperrors.CodeInvalidOption, err.Error(),
			"usecase", component, "derive_key", err, map[string]interface{}{"source": req.Source})
	}

	key := cache_key.Derive(cache_key.Input{
		Identity: ref.Identity(),
		Width:    req.Width,
		Height:   req.Height,
		Mode:     req.Options.Mode,
		Token:    token,
	})

	return &derivedKey{
		Key:          key,
		Source:       ref,
		Extension:    ext,
		RelativePath: key.RelativePath(ext),
		Body:         body,
	}, nil
}
