package operation

import (
	"fmt"

	apperrors "go-image-editor/internal/errors"
	"go-image-editor/internal/transform"
	"go-image-editor/pkg/models"
	"go-image-editor/pkg/validation"
)

const (
	// DefaultContrastMid is the midpoint used when a contrast step omits mid
	DefaultContrastMid = 0.5

	// DefaultBlurSize is used when a blur step omits kernel_size
	DefaultBlurSize = 3
)

// Builder turns request specs into validated operations
type Builder struct {
	validator  *validation.ParameterValidator
	defaultMid float64
}

// NewBuilder creates a builder. A nil validator uses the default limits.
func NewBuilder(validator *validation.ParameterValidator, defaultMid float64) *Builder {
	if validator == nil {
		validator = validation.NewParameterValidator()
	}
	return &Builder{validator: validator, defaultMid: defaultMid}
}

// FromSpec builds a single operation with the default limits and midpoint
func FromSpec(spec models.OperationSpec) (Operation, error) {
	return NewBuilder(nil, DefaultContrastMid).FromSpec(spec)
}

// Build maps every spec to an operation. The first invalid spec aborts
// the build with its position in the error.
func (b *Builder) Build(specs []models.OperationSpec) (*Pipeline, error) {
	p := NewPipeline()
	for i, spec := range specs {
		op, err := b.FromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("operations[%d]: %w", i, err)
		}
		p.Add(op)
	}
	return p, nil
}

// FromSpec validates spec and builds the matching operation
func (b *Builder) FromSpec(spec models.OperationSpec) (Operation, error) {
	name, ok := Canonical(spec.Name)
	if !ok {
		return nil, unknownOperation(spec.Name)
	}

	switch name {
	case NameBrighten:
		factor, err := b.requiredFactor(name, spec.Factor)
		if err != nil {
			return nil, err
		}
		return NewBrightenOperation(factor), nil

	case NameContrast:
		factor, err := b.requiredFactor(name, spec.Factor)
		if err != nil {
			return nil, err
		}
		mid := b.defaultMid
		if spec.Mid != nil {
			mid = *spec.Mid
		}
		if err := b.validator.ValidateMid(mid); err != nil {
			return nil, err
		}
		return NewContrastOperation(factor, mid), nil

	case NameBlur:
		size := spec.KernelSize
		if size == 0 {
			size = DefaultBlurSize
		}
		if err := b.validator.ValidateKernelSize(size); err != nil {
			return nil, err
		}
		return NewBlurOperation(size), nil

	case NameKernel:
		if len(spec.Kernel) == 0 {
			return nil, apperrors.NewValidationError("kernel operation requires a kernel", nil)
		}
		k, err := b.kernel(spec.Kernel)
		if err != nil {
			return nil, err
		}
		return NewKernelOperation(k), nil

	case NameSobelX:
		return &KernelOperation{Kernel: transform.SobelX(), name: NameSobelX}, nil

	case NameSobelY:
		return &KernelOperation{Kernel: transform.SobelY(), name: NameSobelY}, nil

	case NameEdges:
		var kx, ky *transform.Kernel
		var err error
		if len(spec.Kernel) > 0 {
			if kx, err = b.kernel(spec.Kernel); err != nil {
				return nil, err
			}
		}
		if len(spec.KernelY) > 0 {
			if ky, err = b.kernel(spec.KernelY); err != nil {
				return nil, err
			}
		}
		return NewEdgeOperation(kx, ky), nil
	}

	return nil, unknownOperation(spec.Name)
}

func (b *Builder) requiredFactor(name string, factor *float64) (float64, error) {
	if factor == nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s requires a factor", name), nil)
	}
	if err := b.validator.ValidateFactor(*factor); err != nil {
		return 0, err
	}
	return *factor, nil
}

func (b *Builder) kernel(rows [][]float64) (*transform.Kernel, error) {
	if err := b.validator.ValidateKernel(rows); err != nil {
		return nil, err
	}
	return transform.NewKernel(rows)
}

func unknownOperation(name string) error {
	err := apperrors.NewValidationError(fmt.Sprintf("unknown operation %q", name), nil)
	if suggestion := Suggest(name); suggestion != "" {
		return err.WithDetails("did you mean %q?", suggestion)
	}
	return err
}
