package di

import (
	"net/http"

	"thumbcache/adapter/html_adapter"
	"thumbcache/config"
	"thumbcache/domain"
	"thumbcache/driver/filesystem"
	"thumbcache/gateway/cache_storage_gateway"
	"thumbcache/gateway/image_processing_gateway"
	"thumbcache/gateway/local_source_gateway"
	"thumbcache/gateway/remote_source_gateway"
	"thumbcache/usecase/thumbnail_usecase"
	"thumbcache/utils/rate_limiter"
)

type ApplicationComponents struct {
	ThumbnailUsecase *thumbnail_usecase.ThumbnailUsecase
	HTMLAdapter      *html_adapter.HTMLAdapter
	CacheStorage     *cache_storage_gateway.CacheStorageGateway
}

func NewApplicationComponents(cfg *config.Config) (*ApplicationComponents, error) {
	fs := filesystem.NewDriver(domain.CacheDirMode)

	// Create the concrete gateway implementations
	cacheStorageGatewayImpl, err := cache_storage_gateway.NewCacheStorageGateway(cfg.Cache.Root, fs)
	if err != nil {
		return nil, err
	}
	localSourceGatewayImpl := local_source_gateway.NewLocalSourceGateway(cfg.Source.Root, fs)
	remoteSourceGatewayImpl := remote_source_gateway.NewRemoteSourceGateway(
		&http.Client{Timeout: cfg.HTTP.ClientTimeout},
		rate_limiter.NewHostRateLimiter(cfg.HTTP.HostInterval),
		remote_source_gateway.Options{
			UserAgent:    cfg.HTTP.UserAgent,
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		},
	)
	imageProcessingGatewayImpl := image_processing_gateway.NewImageProcessingGateway()

	thumbnailUsecase := thumbnail_usecase.NewThumbnailUsecase(
		localSourceGatewayImpl,
		remoteSourceGatewayImpl,
		imageProcessingGatewayImpl,
		cacheStorageGatewayImpl,
		thumbnail_usecase.Config{
			Expire:       cfg.Cache.Expire,
			PublicRoot:   cfg.Public.Root,
			SingleFlight: cfg.Cache.SingleFlight,
			Defaults:     cfg.ThumbnailDefaults(),
		},
	)

	return &ApplicationComponents{
		ThumbnailUsecase: thumbnailUsecase,
		HTMLAdapter:      html_adapter.NewHTMLAdapter(thumbnailUsecase, cfg.Image.PictureFormat),
		CacheStorage:     cacheStorageGatewayImpl,
	}, nil
}
