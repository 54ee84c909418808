package transform

import (
	"fmt"
	"math"

	apperrors "go-image-editor/internal/errors"
)

// CombineImages computes the per-sample Euclidean magnitude sqrt(a²+b²).
// Both images must have the same width, height and channel count.
func (e *Engine) CombineImages(a, b *Image) (*Image, error) {
	if a == nil || b == nil {
		return nil, apperrors.NewValidationError("combine images: image is nil", nil)
	}
	if !a.SameShape(b) {
		return nil, apperrors.NewShapeMismatchError(
			fmt.Sprintf("cannot combine %s image with %s image", a, b))
	}

	out := newLike(a)
	e.forStrips(a, func(x0, x1 int) {
		start, end := a.index(x0, 0, 0), a.index(x1, 0, 0)
		for i := start; i < end; i++ {
			va, vb := a.pix[i], b.pix[i]
			out.pix[i] = math.Sqrt(va*va + vb*vb)
		}
	})
	return out, nil
}

// DetectEdges applies kx and ky to img and combines both responses into a
// gradient magnitude image.
func (e *Engine) DetectEdges(img *Image, kx, ky *Kernel) (*Image, error) {
	gx, err := e.ApplyKernel(img, kx)
	if err != nil {
		return nil, fmt.Errorf("x gradient: %w", err)
	}
	gy, err := e.ApplyKernel(img, ky)
	if err != nil {
		return nil, fmt.Errorf("y gradient: %w", err)
	}
	return e.CombineImages(gx, gy)
}

// SobelEdges runs DetectEdges with SobelX and SobelY.
func (e *Engine) SobelEdges(img *Image) (*Image, error) {
	return e.DetectEdges(img, SobelX(), SobelY())
}
