// Package filesystem wraps the os calls used by the cache and local-source
// gateways. It knows nothing about keys or shards.
package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Driver performs filesystem operations with a fixed directory mode.
type Driver struct {
	dirMode fs.FileMode
}

// NewDriver creates a Driver that creates directories with dirMode.
func NewDriver(dirMode fs.FileMode) *Driver {
	return &Driver{dirMode: dirMode}
}

// Stat returns file info, or (nil, nil) when the path does not exist.
func (d *Driver) Stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ReadFile reads the whole file.
func (d *Driver) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// EnsureDir creates dir and its parents. Existing directories are fine.
func (d *Driver) EnsureDir(dir string) error {
	return os.MkdirAll(dir, d.dirMode)
}

// ReplaceFile writes data to a temp file next to path and renames it into
// place, so readers never see a partially written file.
func (d *Driver) ReplaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Remove deletes a file. A missing file is not an error.
func (d *Driver) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveAll deletes dir recursively.
func (d *Driver) RemoveAll(dir string) error {
	return os.RemoveAll(dir)
}

// WalkFiles calls fn for every regular file below root.
func (d *Driver) WalkFiles(root string, fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		return fn(path, info)
	})
}
