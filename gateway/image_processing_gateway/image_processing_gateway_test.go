package image_processing_gateway

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"thumbcache/domain"
	apperrors "thumbcache/utils/errors"
)

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func createTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}))
	return buf.Bytes()
}

func decodeConfig(t *testing.T, data []byte) (image.Config, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg, format
}

func TestThumbnail_Geometry(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		w, h         int
		mode         domain.ResizeMode
		wantW, wantH int
	}{
		{"outbound crops landscape to square", 400, 300, 100, 100, domain.ModeOutbound, 100, 100},
		{"outbound crops portrait", 300, 600, 120, 80, domain.ModeOutbound, 120, 80},
		{"outbound upscales small sources", 50, 40, 100, 100, domain.ModeOutbound, 100, 100},
		{"inset keeps aspect ratio", 400, 300, 100, 100, domain.ModeInset, 100, 75},
		{"inset never upscales", 50, 40, 100, 100, domain.ModeInset, 50, 40},
		{"inset_box pads to the box", 400, 300, 100, 100, domain.ModeInsetBox, 100, 100},
		{"inset_box pads small sources", 50, 40, 100, 100, domain.ModeInsetBox, 100, 100},
	}

	gw := NewImageProcessingGateway()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := gw.Thumbnail(context.Background(), createTestPNG(t, tt.srcW, tt.srcH), domain.ResizeSpec{
				Width: tt.w, Height: tt.h, Mode: tt.mode, Format: "png", Quality: 60,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, result.Width)
			assert.Equal(t, tt.wantH, result.Height)
			assert.Equal(t, "image/png", result.ContentType)

			cfg, format := decodeConfig(t, result.Data)
			assert.Equal(t, "png", format)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}
}

func TestThumbnail_InsetBoxPadding(t *testing.T) {
	gw := NewImageProcessingGateway()

	t.Run("transparent for png", func(t *testing.T) {
		result, err := gw.Thumbnail(context.Background(), createTestPNG(t, 200, 100), domain.ResizeSpec{
			Width: 100, Height: 100, Mode: domain.ModeInsetBox, Format: "png", Quality: 60,
		})
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(result.Data))
		require.NoError(t, err)

		_, _, _, a := img.At(50, 2).RGBA()
		assert.Equal(t, uint32(0), a, "padding row should be transparent")
		_, _, _, a = img.At(50, 50).RGBA()
		assert.Equal(t, uint32(0xffff), a, "image area should be opaque")
	})

	t.Run("white for jpeg", func(t *testing.T) {
		result, err := gw.Thumbnail(context.Background(), createTestPNG(t, 200, 100), domain.ResizeSpec{
			Width: 100, Height: 100, Mode: domain.ModeInsetBox, Format: "jpg", Quality: 90,
		})
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", result.ContentType)
		img, err := jpeg.Decode(bytes.NewReader(result.Data))
		require.NoError(t, err)

		r, g, b, _ := img.At(50, 2).RGBA()
		assert.Greater(t, r, uint32(0xf000))
		assert.Greater(t, g, uint32(0xf000))
		assert.Greater(t, b, uint32(0xf000))
	})
}

func TestThumbnail_Formats(t *testing.T) {
	gw := NewImageProcessingGateway()
	src := createTestJPEG(t, 64, 48)

	for _, format := range []string{"jpeg", "jpg", "png", "gif", "bmp", ".PNG"} {
		t.Run(format, func(t *testing.T) {
			result, err := gw.Thumbnail(context.Background(), src, domain.ResizeSpec{
				Width: 32, Height: 32, Mode: domain.ModeOutbound, Format: format, Quality: 60,
			})
			require.NoError(t, err)
			cfg, _ := decodeConfig(t, result.Data)
			assert.Equal(t, 32, cfg.Width)
		})
	}
}

func TestThumbnail_DecodesBMPSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))

	result, err := NewImageProcessingGateway().Thumbnail(context.Background(), buf.Bytes(), domain.ResizeSpec{
		Width: 10, Height: 10, Mode: domain.ModeInset, Format: "png", Quality: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, result.Width)
	assert.Equal(t, 5, result.Height)
}

func TestThumbnail_Errors(t *testing.T) {
	gw := NewImageProcessingGateway()
	ctx := context.Background()
	valid := createTestPNG(t, 10, 10)

	t.Run("corrupt data", func(t *testing.T) {
		_, err := gw.Thumbnail(ctx, []byte("not an image"), domain.ResizeSpec{Width: 5, Height: 5, Mode: domain.ModeOutbound, Format: "png"})
		assert.True(t, apperrors.IsImageProcessingError(err))
	})

	t.Run("empty data", func(t *testing.T) {
		_, err := gw.Thumbnail(ctx, nil, domain.ResizeSpec{Width: 5, Height: 5, Mode: domain.ModeOutbound, Format: "png"})
		assert.True(t, apperrors.IsImageProcessingError(err))
	})

	for _, format := range []string{"webp", "wbmp", "xbm"} {
		t.Run("no encoder for "+format, func(t *testing.T) {
			_, err := gw.Thumbnail(ctx, valid, domain.ResizeSpec{Width: 5, Height: 5, Mode: domain.ModeOutbound, Format: format})
			assert.True(t, apperrors.IsImageProcessingError(err))
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		_, err := gw.Thumbnail(ctx, valid, domain.ResizeSpec{Width: 5, Height: 5, Mode: domain.ModeOutbound, Format: "tga"})
		assert.True(t, apperrors.IsInvalidOption(err))
	})
}

func TestPNGCompression(t *testing.T) {
	assert.Equal(t, png.NoCompression, pngCompression(100))
	assert.Equal(t, png.DefaultCompression, pngCompression(60))
	assert.Equal(t, png.BestCompression, pngCompression(0))
}
