package thumbnail_usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "thumbcache/utils/errors"
)

// PublicURL maps an absolute cache path to its public URL:
// "<public root>/<shard>/<file>". It does no I/O.
func (u *ThumbnailUsecase) PublicURL(path string) (string, error) {
	rel, err := filepath.Rel(u.storage.Root(), filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", apperrors.NewInvalidOptionError(fmt.Sprintf("path %s is outside the cache root", path),
			"usecase", component, "public_url", map[string]interface{}{"root": u.storage.Root()})
	}

	file := filepath.Base(rel)
	if len(file) < 2 || filepath.Dir(rel) != file[:2] {
		return "", apperrors.NewInvalidOptionError(fmt.Sprintf("path %s is not a cache entry", path),
			"usecase", component, "public_url", nil)
	}

	return strings.TrimRight(u.cfg.PublicRoot, "/") + "/" + file[:2] + "/" + file, nil
}
