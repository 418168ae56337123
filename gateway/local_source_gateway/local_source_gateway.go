package local_source_gateway

import (
	"context"
	"fmt"
	"path/filepath"

	"thumbcache/driver/filesystem"
	"thumbcache/port/source_port"
	apperrors "thumbcache/utils/errors"
)

const component = "LocalSourceGateway"

// LocalSourceGateway implements LocalSourcePort. Relative sources resolve
// against baseDir (the process working directory when empty).
type LocalSourceGateway struct {
	baseDir string
	fs      *filesystem.Driver
}

func NewLocalSourceGateway(baseDir string, driver *filesystem.Driver) *LocalSourceGateway {
	return &LocalSourceGateway{baseDir: baseDir, fs: driver}
}

// NormalizePath returns the cleaned absolute path for source.
func (g *LocalSourceGateway) NormalizePath(source string) (string, error) {
	p := filepath.FromSlash(source)
	if !filepath.IsAbs(p) && g.baseDir != "" {
		p = filepath.Join(g.baseDir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

func (g *LocalSourceGateway) Stat(ctx context.Context, source string) (*source_port.LocalFileInfo, error) {
	path, err := g.NormalizePath(source)
	if err != nil {
		return nil, apperrors.NewSourceNotFoundError(fmt.Sprintf("File %s doesn't exist", source),
			"gateway", component, "stat", map[string]interface{}{"source": source, "cause": err.Error()})
	}

	info, err := g.fs.Stat(path)
	if err != nil || info == nil || !info.Mode().IsRegular() {
		ctxMap := map[string]interface{}{"path": path}
		if err != nil {
			ctxMap["cause"] = err.Error()
		}
		return nil, apperrors.NewSourceNotFoundError(fmt.Sprintf("File %s doesn't exist", path),
			"gateway", component, "stat", ctxMap)
	}

	return &source_port.LocalFileInfo{
		Path:    path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}

func (g *LocalSourceGateway) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := g.fs.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewSourceNotFoundError(fmt.Sprintf("File %s cannot be read", path),
			"gateway", component, "read", map[string]interface{}{"path": path, "cause": err.Error()})
	}
	return data, nil
}
