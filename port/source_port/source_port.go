package source_port

import (
	"context"
	"thumbcache/domain"
	"time"
)

// RemoteSourcePort defines the HTTP operations used for remote sources.
// Any non-success status must surface as a RemoteUnavailable error.
type RemoteSourcePort interface {
	// FetchHeaders issues a HEAD request.
	FetchHeaders(ctx context.Context, rawURL string) (*domain.RemoteHeaders, error)
	// FetchContent issues a GET request and returns the full body.
	FetchContent(ctx context.Context, rawURL string) (*domain.RemoteContent, error)
}

// LocalFileInfo is what key derivation needs to know about a local source.
type LocalFileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// LocalSourcePort defines the filesystem operations used for local sources.
type LocalSourcePort interface {
	// Stat resolves source to a normalized absolute path and stats it.
	// Missing files and directories are SourceNotFound.
	Stat(ctx context.Context, source string) (*LocalFileInfo, error)
	// Read returns the file contents.
	Read(ctx context.Context, path string) ([]byte, error)
}
