package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thumbcache/domain"
)

// chdirTemp keeps a stray .thumbcache.yaml in the package dir from leaking in.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "web/assets/thumbnails", cfg.Cache.Root)
	assert.Zero(t, cfg.Cache.Expire)
	assert.False(t, cfg.Cache.SingleFlight)
	assert.Zero(t, cfg.Cache.SweepInterval)
	assert.Equal(t, "/assets/thumbnails", cfg.Public.Root)
	assert.Empty(t, cfg.Source.Root)
	assert.Equal(t, 60, cfg.Image.Quality)
	assert.Equal(t, "outbound", cfg.Image.Mode)
	assert.Equal(t, "none", cfg.Image.CacheMode)
	assert.Equal(t, "png", cfg.Image.PictureFormat)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ClientTimeout)
	assert.Equal(t, int64(20*1024*1024), cfg.HTTP.MaxBodyBytes)
	assert.Zero(t, cfg.HTTP.HostInterval)
	assert.Equal(t, "thumbcache/1.0", cfg.HTTP.UserAgent)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.PublicRootIsURL())
}

func TestLoad_Environment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("THUMBCACHE_CACHE_ROOT", "/srv/thumbs")
	t.Setenv("THUMBCACHE_CACHE_EXPIRE", "3600")
	t.Setenv("THUMBCACHE_CACHE_SINGLE_FLIGHT", "true")
	t.Setenv("THUMBCACHE_HTTP_HOST_INTERVAL", "250ms")
	t.Setenv("THUMBCACHE_IMAGE_CACHE_MODE", "header")
	t.Setenv("THUMBCACHE_PUBLIC_ROOT", "https://cdn.example.com/thumbs")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/thumbs", cfg.Cache.Root)
	assert.Equal(t, time.Hour, cfg.Cache.Expire)
	assert.True(t, cfg.Cache.SingleFlight)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.HostInterval)
	assert.Equal(t, domain.StalenessHeader, cfg.ThumbnailDefaults().CacheMode)
	assert.True(t, cfg.PublicRootIsURL())
}

func TestLoad_File(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "thumbcache.yaml")
	content := `
cache:
  root: /data/thumbs
  expire: 90
image:
  quality: 85
  mode: inset-with-padding
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/thumbs", cfg.Cache.Root)
	assert.Equal(t, 90*time.Second, cfg.Cache.Expire)
	assert.Equal(t, "debug", cfg.Logging.Level)

	defaults := cfg.ThumbnailDefaults()
	assert.Equal(t, domain.ModeInsetBox, defaults.Mode)
	require.NotNil(t, defaults.Quality)
	assert.Equal(t, 85, *defaults.Quality)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"quality out of range", map[string]string{"THUMBCACHE_IMAGE_QUALITY": "101"}},
		{"unknown mode", map[string]string{"THUMBCACHE_IMAGE_MODE": "stretch"}},
		{"unknown cache mode", map[string]string{"THUMBCACHE_IMAGE_CACHE_MODE": "etag"}},
		{"unknown picture format", map[string]string{"THUMBCACHE_IMAGE_PICTURE_FORMAT": "tga"}},
		{"negative expire", map[string]string{"THUMBCACHE_CACHE_EXPIRE": "-5s"}},
		{"empty cache root", map[string]string{"THUMBCACHE_CACHE_ROOT": " "}},
		{"bad port", map[string]string{"THUMBCACHE_SERVER_PORT": "70000"}},
		{"bad log level", map[string]string{"THUMBCACHE_LOGGING_LEVEL": "trace"}},
		{"bad log format", map[string]string{"THUMBCACHE_LOGGING_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
