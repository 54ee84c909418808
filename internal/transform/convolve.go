package transform

import apperrors "go-image-editor/internal/errors"

// ApplyKernel correlates img with kernel. Neighbors outside the image are
// skipped rather than zero-padded, and kernel indices follow the unclipped
// offset, so a corner sample only sees the lower-right part of the kernel.
// Output values are raw weighted sums.
func (e *Engine) ApplyKernel(img *Image, kernel *Kernel) (*Image, error) {
	if img == nil {
		return nil, apperrors.NewValidationError("apply kernel: image is nil", nil)
	}
	if !kernel.valid() {
		return nil, apperrors.NewInvalidKernelShapeError("kernel must be square with an odd side length")
	}
	return e.neighborhood(img, kernel.Radius(), kernel.At, rawSum), nil
}

func rawSum(sum float64, _ int) float64 {
	return sum
}
