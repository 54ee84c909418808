package transform

import (
	"fmt"

	apperrors "go-image-editor/internal/errors"
)

// Image is a width × height × channels array of real-valued samples.
// Sample (x, y, c) is stored at (x*height+y)*channels+c, so the x axis is
// the outermost dimension.
type Image struct {
	width    int
	height   int
	channels int
	pix      []float64
}

// NewImage allocates a zero-filled image. Any non-positive dimension
// yields an empty 0x0x0 image.
func NewImage(width, height, channels int) *Image {
	if width <= 0 || height <= 0 || channels <= 0 {
		return &Image{}
	}
	return &Image{
		width:    width,
		height:   height,
		channels: channels,
		pix:      make([]float64, width*height*channels),
	}
}

// FromSlice builds an image from samples laid out in (x, y, c) order.
// The slice is copied.
func FromSlice(width, height, channels int, data []float64) (*Image, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("image dimensions must be positive, got %dx%dx%d", width, height, channels), nil)
	}
	if len(data) != width*height*channels {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("expected %d samples for %dx%dx%d image, got %d",
				width*height*channels, width, height, channels, len(data)), nil)
	}
	img := NewImage(width, height, channels)
	copy(img.pix, data)
	return img, nil
}

// newLike allocates an output buffer with the same shape as img.
func newLike(img *Image) *Image {
	return NewImage(img.width, img.height, img.channels)
}

// Width returns the number of samples along the x axis.
func (img *Image) Width() int { return img.width }

// Height returns the number of samples along the y axis.
func (img *Image) Height() int { return img.height }

// Channels returns the number of samples per pixel.
func (img *Image) Channels() int { return img.channels }

// Shape returns (width, height, channels).
func (img *Image) Shape() (int, int, int) {
	return img.width, img.height, img.channels
}

// Len returns the total number of samples.
func (img *Image) Len() int { return len(img.pix) }

// IsEmpty reports whether the image holds no samples.
func (img *Image) IsEmpty() bool { return len(img.pix) == 0 }

func (img *Image) index(x, y, c int) int {
	return (x*img.height+y)*img.channels + c
}

// At returns the sample at (x, y, c). Out-of-range coordinates return 0.
func (img *Image) At(x, y, c int) float64 {
	if !img.inBounds(x, y, c) {
		return 0
	}
	return img.pix[img.index(x, y, c)]
}

// Set writes the sample at (x, y, c). Out-of-range coordinates are ignored.
func (img *Image) Set(x, y, c int, v float64) {
	if !img.inBounds(x, y, c) {
		return
	}
	img.pix[img.index(x, y, c)] = v
}

func (img *Image) inBounds(x, y, c int) bool {
	return x >= 0 && x < img.width &&
		y >= 0 && y < img.height &&
		c >= 0 && c < img.channels
}

// Data returns a copy of the samples in (x, y, c) order.
func (img *Image) Data() []float64 {
	out := make([]float64, len(img.pix))
	copy(out, img.pix)
	return out
}

// Clone creates a deep copy of the image.
func (img *Image) Clone() *Image {
	clone := newLike(img)
	copy(clone.pix, img.pix)
	return clone
}

// SameShape reports whether both images have identical dimensions.
func (img *Image) SameShape(other *Image) bool {
	return img.width == other.width &&
		img.height == other.height &&
		img.channels == other.channels
}

// String describes the image shape.
func (img *Image) String() string {
	return fmt.Sprintf("%dx%dx%d", img.width, img.height, img.channels)
}
