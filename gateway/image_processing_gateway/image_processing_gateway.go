package image_processing_gateway

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"thumbcache/domain"
	apperrors "thumbcache/utils/errors"
)

const component = "ImageProcessingGateway"

// ImageProcessingGateway implements ImageProcessingPort with pure Go codecs
// so the binary builds with CGO_ENABLED=0.
type ImageProcessingGateway struct {
	scaler draw.Scaler
}

func NewImageProcessingGateway() *ImageProcessingGateway {
	return &ImageProcessingGateway{scaler: draw.CatmullRom}
}

// Decode sniffs the format and decodes data. jpeg, png, gif, bmp, webp and
// tiff are registered.
func (g *ImageProcessingGateway) Decode(ctx context.Context, data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperrors.NewImageProcessingError("empty image data",
			"gateway", component, "decode", nil, nil)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewImageProcessingError("failed to decode image",
			"gateway", component, "decode", err, map[string]interface{}{"size": len(data)})
	}
	return img, nil
}

// Thumbnail decodes data, resizes it according to spec.Mode and encodes it
// into spec.Format.
func (g *ImageProcessingGateway) Thumbnail(ctx context.Context, data []byte, spec domain.ResizeSpec) (*domain.ProcessedImage, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, apperrors.NewImageProcessingError(
			fmt.Sprintf("invalid thumbnail size %dx%d", spec.Width, spec.Height),
			"gateway", component, "resize", nil, nil)
	}
	format := domain.FormatOf(spec.Format)
	contentType, err := domain.MimeType(format)
	if err != nil {
		return nil, err
	}
	if !canEncode(format) {
		return nil, apperrors.NewImageProcessingError(
			fmt.Sprintf("encoding to %s is not supported", format),
			"gateway", component, "encode", nil, map[string]interface{}{"format": format})
	}

	src, err := g.Decode(ctx, data)
	if err != nil {
		return nil, err
	}

	var out image.Image
	switch spec.Mode {
	case domain.ModeOutbound:
		out = g.outbound(src, spec.Width, spec.Height)
	case domain.ModeInset:
		out = g.inset(src, spec.Width, spec.Height)
	case domain.ModeInsetBox:
		out = box(g.inset(src, spec.Width, spec.Height), spec.Width, spec.Height, background(format))
	default:
		return nil, apperrors.NewInvalidOptionError(
			fmt.Sprintf("unknown resize mode %q", spec.Mode),
			"gateway", component, "resize", nil)
	}
	if !hasAlpha(format) {
		out = flatten(out, color.White)
	}

	encoded, err := encode(out, format, spec.Quality)
	if err != nil {
		return nil, apperrors.NewImageProcessingError("failed to encode image",
			"gateway", component, "encode", err, map[string]interface{}{"format": format})
	}

	b := out.Bounds()
	return &domain.ProcessedImage{
		Data:        encoded,
		ContentType: contentType,
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}

// outbound crops the centered w:h region of src and scales it to exactly w x h.
func (g *ImageProcessingGateway) outbound(src image.Image, w, h int) image.Image {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()

	cropW, cropH := sw, sh
	if sw*h > sh*w {
		cropW = max(1, int(math.Round(float64(sh)*float64(w)/float64(h))))
	} else {
		cropH = max(1, int(math.Round(float64(sw)*float64(h)/float64(w))))
	}
	x0 := sb.Min.X + (sw-cropW)/2
	y0 := sb.Min.Y + (sh-cropH)/2
	crop := image.Rect(x0, y0, x0+cropW, y0+cropH)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	g.scaler.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

// inset fits src inside w x h keeping the aspect ratio. Never upscales.
func (g *ImageProcessingGateway) inset(src image.Image, w, h int) image.Image {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw <= w && sh <= h {
		return src
	}

	ratio := math.Min(float64(w)/float64(sw), float64(h)/float64(sh))
	nw := min(w, max(1, int(math.Round(float64(sw)*ratio))))
	nh := min(h, max(1, int(math.Round(float64(sh)*ratio))))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	g.scaler.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}

// box centers img on a w x h canvas filled with bg.
func box(img image.Image, w, h int, bg color.Color) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	ib := img.Bounds()
	off := image.Pt((w-ib.Dx())/2, (h-ib.Dy())/2)
	draw.Draw(dst, image.Rectangle{Min: off, Max: off.Add(ib.Size())}, img, ib.Min, draw.Over)
	return dst
}

// flatten composites img over bg for formats that drop the alpha channel.
func flatten(img image.Image, bg color.Color) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func background(format string) color.Color {
	if hasAlpha(format) {
		return color.Transparent
	}
	return color.White
}

func hasAlpha(format string) bool {
	return format == "png" || format == "gif"
}

func canEncode(format string) bool {
	switch format {
	case "jpeg", "jpg", "png", "gif", "bmp":
		return true
	}
	return false
}

func encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg", "jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: clampQuality(quality)})
	case "png":
		enc := &png.Encoder{CompressionLevel: pngCompression(quality)}
		err = enc.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, &gif.Options{NumColors: 256})
	case "bmp":
		err = bmp.Encode(&buf, img)
	default:
		err = fmt.Errorf("no encoder for %s", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// pngCompression maps a 0-100 quality onto the zlib levels png exposes.
// Higher quality means less compression effort.
func pngCompression(quality int) png.CompressionLevel {
	level := int(math.Round(math.Abs(float64(quality-100)) / 11.111))
	switch {
	case level == 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
