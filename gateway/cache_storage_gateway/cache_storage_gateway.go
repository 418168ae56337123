package cache_storage_gateway

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"thumbcache/domain"
	"thumbcache/driver/filesystem"
	apperrors "thumbcache/utils/errors"
)

const component = "CacheStorageGateway"

// CacheStorageGateway implements CacheStoragePort on the local filesystem.
type CacheStorageGateway struct {
	root string
	fs   *filesystem.Driver
}

// NewCacheStorageGateway creates a gateway rooted at root. The root is made
// absolute so returned paths are stable regardless of later chdir calls.
func NewCacheStorageGateway(root string, driver *filesystem.Driver) (*CacheStorageGateway, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot resolve cache root", "gateway", component, "new", err,
			map[string]interface{}{"root": root})
	}
	return &CacheStorageGateway{root: filepath.Clean(abs), fs: driver}, nil
}

func (g *CacheStorageGateway) Root() string {
	return g.root
}

func (g *CacheStorageGateway) abs(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", apperrors.NewInvalidOptionError(fmt.Sprintf("cache path %q escapes the cache root", relPath),
			"gateway", component, "resolve_path", nil)
	}
	return filepath.Join(g.root, clean), nil
}

func (g *CacheStorageGateway) entry(relPath, absPath string, info fs.FileInfo) *domain.CacheEntry {
	base := filepath.Base(absPath)
	return &domain.CacheEntry{
		Key:          domain.CacheKey(strings.TrimSuffix(base, filepath.Ext(base))),
		Path:         absPath,
		RelativePath: filepath.ToSlash(relPath),
		ModTime:      info.ModTime(),
	}
}

func (g *CacheStorageGateway) Stat(ctx context.Context, relPath string) (*domain.CacheEntry, error) {
	absPath, err := g.abs(relPath)
	if err != nil {
		return nil, err
	}

	info, err := g.fs.Stat(absPath)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot stat cache entry", "gateway", component, "stat", err,
			map[string]interface{}{"path": absPath})
	}
	if info == nil || !info.Mode().IsRegular() {
		return nil, nil
	}
	return g.entry(relPath, absPath, info), nil
}

func (g *CacheStorageGateway) Read(ctx context.Context, relPath string) ([]byte, error) {
	absPath, err := g.abs(relPath)
	if err != nil {
		return nil, err
	}
	data, err := g.fs.ReadFile(absPath)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot read cache entry", "gateway", component, "read", err,
			map[string]interface{}{"path": absPath})
	}
	return data, nil
}

func (g *CacheStorageGateway) Save(ctx context.Context, relPath string, data []byte) (*domain.CacheEntry, error) {
	absPath, err := g.abs(relPath)
	if err != nil {
		return nil, err
	}

	if err := g.fs.EnsureDir(filepath.Dir(absPath)); err != nil {
		return nil, apperrors.NewStorageError("cannot create shard directory", "gateway", component, "save", err,
			map[string]interface{}{"dir": filepath.Dir(absPath)})
	}
	if err := g.fs.ReplaceFile(absPath, data); err != nil {
		return nil, apperrors.NewStorageError("cannot write cache entry", "gateway", component, "save", err,
			map[string]interface{}{"path": absPath})
	}

	info, err := g.fs.Stat(absPath)
	if err != nil || info == nil {
		return nil, apperrors.NewStorageError("cache entry vanished after write", "gateway", component, "save", err,
			map[string]interface{}{"path": absPath})
	}
	return g.entry(relPath, absPath, info), nil
}

func (g *CacheStorageGateway) Remove(ctx context.Context, relPath string) error {
	absPath, err := g.abs(relPath)
	if err != nil {
		return err
	}
	if err := g.fs.Remove(absPath); err != nil {
		return apperrors.NewStorageError("cannot remove cache entry", "gateway", component, "remove", err,
			map[string]interface{}{"path": absPath})
	}
	return nil
}

func (g *CacheStorageGateway) Clear(ctx context.Context) error {
	if err := g.fs.RemoveAll(g.root); err != nil {
		return apperrors.NewStorageError("cannot remove cache root", "gateway", component, "clear", err,
			map[string]interface{}{"root": g.root})
	}
	if err := g.fs.EnsureDir(g.root); err != nil {
		return apperrors.NewStorageError("cannot recreate cache root", "gateway", component, "clear", err,
			map[string]interface{}{"root": g.root})
	}
	return nil
}

func (g *CacheStorageGateway) RemoveExpired(ctx context.Context, now time.Time, expiry time.Duration) (int, error) {
	if expiry <= 0 {
		return 0, nil
	}

	removed := 0
	err := g.fs.WalkFiles(g.root, func(path string, info fs.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := domain.CacheEntry{ModTime: info.ModTime()}
		if !entry.Expired(now, expiry) {
			return nil
		}
		if err := g.fs.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, apperrors.NewStorageError("expiry sweep failed", "gateway", component, "remove_expired", err,
			map[string]interface{}{"root": g.root, "removed": removed})
	}
	return removed, nil
}
