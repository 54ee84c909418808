package validation

import (
	"fmt"
	"math"

	apperrors "go-image-editor/internal/errors"
)

// ParameterLimits bounds the numeric parameters accepted from requests
type ParameterLimits struct {
	// MaxKernelSize caps blur sizes and kernel side lengths
	MaxKernelSize int

	// MaxAbsFactor caps |factor| for brighten and contrast
	MaxAbsFactor float64
}

// DefaultParameterLimits returns the default parameter limits
func DefaultParameterLimits() ParameterLimits {
	return ParameterLimits{
		MaxKernelSize: 31,
		MaxAbsFactor:  100.0,
	}
}

// ParameterValidator rejects operation parameters before any image is fetched
type ParameterValidator struct {
	limits ParameterLimits
}

// NewParameterValidator creates a validator with default limits
func NewParameterValidator() *ParameterValidator {
	return &ParameterValidator{limits: DefaultParameterLimits()}
}

// NewParameterValidatorWithLimits creates a validator with custom limits.
// Non-positive limits are replaced by the defaults.
func NewParameterValidatorWithLimits(limits ParameterLimits) *ParameterValidator {
	defaults := DefaultParameterLimits()
	if limits.MaxKernelSize <= 0 {
		limits.MaxKernelSize = defaults.MaxKernelSize
	}
	if limits.MaxAbsFactor <= 0 {
		limits.MaxAbsFactor = defaults.MaxAbsFactor
	}
	return &ParameterValidator{limits: limits}
}

// Limits returns the active limits
func (v *ParameterValidator) Limits() ParameterLimits {
	return v.limits
}

// ValidateFactor checks a brighten or contrast factor
func (v *ParameterValidator) ValidateFactor(factor float64) error {
	if !isFinite(factor) {
		return apperrors.NewValidationError("factor must be a finite number", nil)
	}
	if math.Abs(factor) > v.limits.MaxAbsFactor {
		return apperrors.NewValidationError(
			fmt.Sprintf("factor %g exceeds the limit of %g", factor, v.limits.MaxAbsFactor), nil)
	}
	return nil
}

// ValidateMid checks a contrast midpoint
func (v *ParameterValidator) ValidateMid(mid float64) error {
	if !isFinite(mid) {
		return apperrors.NewValidationError("mid must be a finite number", nil)
	}
	return nil
}

// ValidateKernelSize checks a blur size
func (v *ParameterValidator) ValidateKernelSize(size int) error {
	if size <= 0 || size%2 == 0 {
		return apperrors.NewInvalidKernelSizeError(
			fmt.Sprintf("kernel size must be a positive odd integer, got %d", size))
	}
	if size > v.limits.MaxKernelSize {
		return apperrors.NewInvalidKernelSizeError(
			fmt.Sprintf("kernel size %d exceeds the limit of %d", size, v.limits.MaxKernelSize))
	}
	return nil
}

// ValidateKernel checks the side length and values of a kernel matrix.
// Shape rules beyond the size limit are enforced by the kernel constructor.
func (v *ParameterValidator) ValidateKernel(rows [][]float64) error {
	if len(rows) > v.limits.MaxKernelSize {
		return apperrors.NewInvalidKernelShapeError(
			fmt.Sprintf("kernel side %d exceeds the limit of %d", len(rows), v.limits.MaxKernelSize))
	}
	for i, row := range rows {
		for j, w := range row {
			if !isFinite(w) {
				return apperrors.NewValidationError(
					fmt.Sprintf("kernel weight at (%d,%d) must be a finite number", i, j), nil)
			}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
