package transform

import (
	"fmt"

	apperrors "go-image-editor/internal/errors"
)

// Blur applies a box blur of side kernelSize, which must be a positive odd
// integer. Each output sample is the sum of the clipped neighborhood
// divided by kernelSize², so border samples come out darker than the
// interior. With Options.NormalizeBorders the divisor is the number of
// in-bounds neighbors instead.
func (e *Engine) Blur(img *Image, kernelSize int) (*Image, error) {
	if img == nil {
		return nil, apperrors.NewValidationError("blur: image is nil", nil)
	}
	if kernelSize <= 0 || kernelSize%2 == 0 {
		return nil, apperrors.NewInvalidKernelSizeError(
			fmt.Sprintf("blur kernel size must be a positive odd integer, got %d", kernelSize))
	}

	reduce := nominalArea(kernelSize)
	if e.opts.NormalizeBorders {
		reduce = inBoundsMean
	}
	return e.neighborhood(img, kernelSize/2, nil, reduce), nil
}

func nominalArea(kernelSize int) reduceFunc {
	area := float64(kernelSize) * float64(kernelSize)
	return func(sum float64, _ int) float64 {
		return sum / area
	}
}

func inBoundsMean(sum float64, count int) float64 {
	return sum / float64(count)
}
