package domain

import (
	"net/http"
	"path"
	"time"
)

// CacheKey is the 32 hex char digest that names a cache entry.
type CacheKey string

// Shard is the two character prefix directory the entry lives under.
func (k CacheKey) Shard() string {
	if len(k) < 2 {
		return string(k)
	}
	return string(k[:2])
}

// FileName is the entry's base name for the given extension (".png").
func (k CacheKey) FileName(ext string) string {
	return string(k) + ext
}

// RelativePath is "<shard>/<key><ext>", always slash separated.
func (k CacheKey) RelativePath(ext string) string {
	return path.Join(k.Shard(), k.FileName(ext))
}

// CacheEntry is a thumbnail file on disk.
type CacheEntry struct {
	Key          CacheKey
	Path         string // absolute filesystem path
	RelativePath string
	ModTime      time.Time
}

// Expired reports whether the entry is older than the expiry window.
// A zero window never expires.
func (e CacheEntry) Expired(now time.Time, expiry time.Duration) bool {
	if expiry <= 0 {
		return false
	}
	return now.Sub(e.ModTime) > expiry
}

// RemoteHeaders is the result of a HEAD request.
type RemoteHeaders struct {
	URL          string
	StatusCode   int
	LastModified string
	Header       http.Header
}

// RemoteContent is the result of a GET request.
type RemoteContent struct {
	URL         string
	StatusCode  int
	ContentType string
	Data        []byte
	FetchedAt   time.Time
}

// ResizeSpec is what the image processor needs to produce one thumbnail.
type ResizeSpec struct {
	Width   int
	Height  int
	Mode    ResizeMode
	Format  string
	Quality int
}

// ProcessedImage is an encoded thumbnail ready to be persisted.
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}
