package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	configPath string
	srcDir     string
	cacheRoot  string
}

func setupCLI(t *testing.T, expire string) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := &cliEnv{
		configPath: filepath.Join(dir, "thumbcache.yaml"),
		srcDir:     filepath.Join(dir, "images"),
		cacheRoot:  filepath.Join(dir, "thumbs"),
	}
	require.NoError(t, os.MkdirAll(env.srcDir, 0o755))

	yaml := fmt.Sprintf(`cache:
  root: %q
  expire: %s
source:
  root: %q
public:
  root: /assets/thumbnails
logging:
  level: error
`, env.cacheRoot, expire, env.srcDir)
	require.NoError(t, os.WriteFile(env.configPath, []byte(yaml), 0o644))
	return env
}

func (env *cliEnv) writePNG(t *testing.T, name string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(env.srcDir, name), buf.Bytes(), 0o644))
}

// run executes the CLI with the env's config and colors off.
func (env *cliEnv) run(args ...string) (string, string, error) {
	return execute(append([]string{"--config", env.configPath, "--color", "never"}, args...)...)
}

func execute(args ...string) (string, string, error) {
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return strings.TrimSpace(out.String()), errOut.String(), err
}

// resetFlags undoes flag values left over from a previous Execute.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
