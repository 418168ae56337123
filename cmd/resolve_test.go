package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "thumbcache/utils/errors"
)

func TestResolve(t *testing.T) {
	env := setupCLI(t, "0")
	env.writePNG(t, "cat.png", 400, 300)

	path, _, err := env.run("resolve", "cat.png", "100", "100")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, env.cacheRoot), path)
	assert.Equal(t, ".png", filepath.Ext(path))
	assert.FileExists(t, path)

	t.Run("same request resolves to the same file", func(t *testing.T) {
		again, _, err := env.run("resolve", "cat.png", "100", "100")
		require.NoError(t, err)
		assert.Equal(t, path, again)
	})

	t.Run("different options use a different file", func(t *testing.T) {
		other, _, err := env.run("resolve", "cat.png", "100", "100", "--mode", "inset", "--format", "jpg")
		require.NoError(t, err)
		assert.NotEqual(t, path, other)
		assert.Equal(t, ".jpg", filepath.Ext(other))
	})

	t.Run("url", func(t *testing.T) {
		url, _, err := env.run("resolve", "cat.png", "100", "100", "--url")
		require.NoError(t, err)
		assert.Equal(t, "/assets/thumbnails/"+filepath.Base(filepath.Dir(path))+"/"+filepath.Base(path), url)
	})
}

func TestResolve_LocalSourceChange(t *testing.T) {
	env := setupCLI(t, "0")
	env.writePNG(t, "cat.png", 40, 30)

	first, _, err := env.run("resolve", "cat.png", "20", "20")
	require.NoError(t, err)

	later := time.Now().Add(10 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(env.srcDir, "cat.png"), later, later))

	second, _, err := env.run("resolve", "cat.png", "20", "20")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestResolve_HTML(t *testing.T) {
	env := setupCLI(t, "0")
	env.writePNG(t, "cat.png", 40, 30)

	t.Run("img", func(t *testing.T) {
		out, _, err := env.run("resolve", "cat.png", "20", "20", "--html", "img")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, `<img alt="" src="/assets/thumbnails/`), out)
	})

	t.Run("source uses the picture format", func(t *testing.T) {
		out, _, err := env.run("resolve", "cat.png", "20", "20", "--html", "source")
		require.NoError(t, err)
		assert.Contains(t, out, `type="image/png"`)
	})

	t.Run("picture", func(t *testing.T) {
		out, _, err := env.run("resolve", "cat.png", "20", "20", "--html", "picture", "--format", "jpg")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, `<picture data-cache="hit">`))
		assert.Contains(t, out, "<source ")
		assert.Contains(t, out, ".jpg\">")
		assert.True(t, strings.HasSuffix(out, "</picture>"))
	})

	t.Run("missing source renders inline", func(t *testing.T) {
		out, _, err := env.run("resolve", "missing.png", "20", "20", "--html", "img")
		require.NoError(t, err)
		assert.NotContains(t, out, "<img")
		assert.Contains(t, out, "doesn&#39;t exist")
	})
}

func TestResolve_Errors(t *testing.T) {
	env := setupCLI(t, "0")
	env.writePNG(t, "cat.png", 40, 30)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad width", []string{"cat.png", "wide", "10"}, "invalid width"},
		{"zero height", []string{"cat.png", "10", "0"}, "invalid height"},
		{"bad html kind", []string{"cat.png", "10", "10", "--html", "table"}, "invalid --html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(append([]string{"resolve"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	t.Run("wrong arg count", func(t *testing.T) {
		_, _, err := env.run("resolve", "cat.png", "10")
		assert.Error(t, err)
	})

	t.Run("bad mode", func(t *testing.T) {
		_, _, err := env.run("resolve", "cat.png", "10", "10", "--mode", "stretch")
		assert.True(t, apperrors.IsInvalidOption(err), err)
	})

	t.Run("missing source", func(t *testing.T) {
		_, _, err := env.run("resolve", "missing.png", "10", "10")
		assert.True(t, apperrors.IsSourceNotFound(err), err)
	})
}
