package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColors(t *testing.T) {
	assert.True(t, ResolveColors(ColorAlways))
	assert.False(t, ResolveColors(ColorNever))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ResolveColors(ColorAuto))
}

func TestPrinter_Plain(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, ColorNever, false)

	p.Result("/tmp/thumbs/ab/abc.png")
	p.Success("cleared %s", "/tmp/thumbs")
	p.Warning("slow")
	p.Error("boom")
	p.KeyValue("path", "x")

	assert.Equal(t, "/tmp/thumbs/ab/abc.png\n  path:        x\n", out.String())
	assert.Equal(t, "[OK] cleared /tmp/thumbs\n[WARN] slow\n[ERROR] boom\n", errOut.String())
}

func TestPrinter_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, ColorNever, true)

	p.Info("hidden")
	p.Success("hidden")
	p.KeyValue("k", "v")
	p.Result("shown")
	p.Error("shown")

	assert.Equal(t, "shown\n", out.String())
	assert.Equal(t, "[ERROR] shown\n", errOut.String())
}

func TestPrinter_Colors(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, ColorAlways, false)

	p.Error("boom")
	assert.Contains(t, errOut.String(), "\x1b[31m")
	assert.Contains(t, errOut.String(), "[ERROR] boom")
}
