// Package imageio converts between decoded image.Image values and the
// float sample arrays used by the transform engine.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	apperrors "go-image-editor/internal/errors"
	"go-image-editor/internal/transform"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// JPEGQuality is used when encoding FormatJPEG.
const JPEGQuality = 95

// SupportedFormats lists the encodable formats.
var SupportedFormats = []Format{FormatPNG, FormatJPEG, FormatBMP, FormatTIFF}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unsupported output format %q", name), nil)
}

// ContentType returns the MIME type for f.
func ContentType(f Format) string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Decode reads any registered format: PNG, JPEG, GIF, BMP, TIFF or WebP.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeLimited reads the image header first and rejects sources whose
// width×height exceeds maxPixels before any pixel buffer is allocated.
// A maxPixels of zero or less disables the check.
func DecodeLimited(r io.Reader, maxPixels int64) (image.Image, string, error) {
	var header bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, format, apperrors.NewValidationError(
			fmt.Sprintf("source image is %dx%d, more than %d pixels", cfg.Width, cfg.Height, maxPixels), nil)
	}
	return Decode(io.MultiReader(&header, r))
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unsupported output format %q", f), nil)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

// FromImage samples src into a transform.Image with values in [0, 1].
// channels selects luma (1), RGB (3) or RGBA (4); color samples are taken
// non-premultiplied at 16-bit precision.
func FromImage(src image.Image, channels int) (*transform.Image, error) {
	if src == nil {
		return nil, apperrors.NewValidationError("source image is nil", nil)
	}
	if err := validateChannels(channels); err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, apperrors.NewValidationError("source image is empty", nil)
	}

	out := transform.NewImage(w, h, channels)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := src.At(b.Min.X+x, b.Min.Y+y)
			if channels == 1 {
				g := color.Gray16Model.Convert(c).(color.Gray16)
				out.Set(x, y, 0, float64(g.Y)/0xffff)
				continue
			}
			n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
			out.Set(x, y, 0, float64(n.R)/0xffff)
			out.Set(x, y, 1, float64(n.G)/0xffff)
			out.Set(x, y, 2, float64(n.B)/0xffff)
			if channels == 4 {
				out.Set(x, y, 3, float64(n.A)/0xffff)
			}
		}
	}
	return out, nil
}

// ToImage renders img as an 8-bit image. Samples are clipped to [0, 1].
// One channel yields *image.Gray; three or four yield *image.NRGBA with
// opaque alpha for three.
func ToImage(img *transform.Image) (image.Image, error) {
	if img == nil || img.IsEmpty() {
		return nil, apperrors.NewValidationError("image is empty", nil)
	}
	w, h, channels := img.Shape()
	if err := validateChannels(channels); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, w, h)
	if channels == 1 {
		gray := image.NewGray(rect)
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				gray.SetGray(x, y, color.Gray{Y: to8(img.At(x, y, 0))})
			}
		}
		return gray, nil
	}

	rgba := image.NewNRGBA(rect)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			a := uint8(0xff)
			if channels == 4 {
				a = to8(img.At(x, y, 3))
			}
			rgba.SetNRGBA(x, y, color.NRGBA{
				R: to8(img.At(x, y, 0)),
				G: to8(img.At(x, y, 1)),
				B: to8(img.At(x, y, 2)),
				A: a,
			})
		}
	}
	return rgba, nil
}

// Fit downscales src with Catmull-Rom resampling so neither side exceeds
// maxDim, keeping the aspect ratio. Images that already fit, and a
// non-positive maxDim, return src unchanged.
func Fit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return src
	}

	scale := float64(maxDim) / float64(max(w, h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Rect, src, b, draw.Src, nil)
	return dst
}

func validateChannels(channels int) error {
	switch channels {
	case 1, 3, 4:
		return nil
	}
	return apperrors.NewValidationError(
		fmt.Sprintf("channels must be 1, 3 or 4, got %d", channels), nil)
}

func to8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 0xff))
}
