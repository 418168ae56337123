package thumbnail_port

import (
	"context"
	"image"
	"thumbcache/domain"
	"time"
)

// ImageProcessingPort defines the interface for decode, resize and encode.
type ImageProcessingPort interface {
	Thumbnail(ctx context.Context, data []byte, spec domain.ResizeSpec) (*domain.ProcessedImage, error)
	Decode(ctx context.Context, data []byte) (image.Image, error)
}

// CacheStoragePort defines the persisted cache layout. Paths passed in are
// relative to the cache root ("<shard>/<key><ext>").
type CacheStoragePort interface {
	// Root is the absolute cache root.
	Root() string
	// Stat returns the entry at relPath, or nil when it does not exist.
	Stat(ctx context.Context, relPath string) (*domain.CacheEntry, error)
	// Read returns the encoded bytes of an entry.
	Read(ctx context.Context, relPath string) ([]byte, error)
	// Save creates the shard directory if needed and replaces relPath with data.
	Save(ctx context.Context, relPath string, data []byte) (*domain.CacheEntry, error)
	// Remove deletes a single entry. Missing entries are not an error.
	Remove(ctx context.Context, relPath string) error
	// Clear deletes the whole cache root and recreates it empty.
	Clear(ctx context.Context) error
	// RemoveExpired deletes every entry older than expiry and returns the count.
	RemoveExpired(ctx context.Context, now time.Time, expiry time.Duration) (int, error)
}
