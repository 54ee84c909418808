package operation

import (
	"context"
	"fmt"

	"go-image-editor/internal/transform"
)

// Operation is one named step of a transform pipeline
type Operation interface {
	Apply(ctx context.Context, t transform.Transformer, img *transform.Image) (*transform.Image, error)
	GetOperationName() string
}

// BrightenOperation scales every sample by Factor
type BrightenOperation struct {
	Factor float64
}

// NewBrightenOperation creates a new brighten operation
func NewBrightenOperation(factor float64) Operation {
	return &BrightenOperation{Factor: factor}
}

// Apply runs Brighten
func (o *BrightenOperation) Apply(_ context.Context, t transform.Transformer, img *transform.Image) (*transform.Image, error) {
	return t.Brighten(img, o.Factor), nil
}

// GetOperationName returns the operation name
func (o *BrightenOperation) GetOperationName() string {
	return NameBrighten
}

// ContrastOperation stretches samples away from Mid by Factor
type ContrastOperation struct {
	Factor float64
	Mid    float64
}

// NewContrastOperation creates a new contrast operation
func NewContrastOperation(factor, mid float64) Operation {
	return &ContrastOperation{Factor: factor, Mid: mid}
}

// Apply runs AdjustContrast
func (o *ContrastOperation) Apply(_ context.Context, t transform.Transformer, img *transform.Image) (*transform.Image, error) {
	return t.AdjustContrast(img, o.Factor, o.Mid), nil
}

// GetOperationName returns the operation name
func (o *ContrastOperation) GetOperationName() string {
	return NameContrast
}

// BlurOperation applies a box blur
type BlurOperation struct {
	KernelSize int
}

// NewBlurOperation creates a new blur operation
func NewBlurOperation(kernelSize int) Operation {
	return &BlurOperation{KernelSize: kernelSize}
}

// Apply runs Blur
func (o *BlurOperation) Apply(_ context.Context, t transform.Transformer, img *transform.Image) (*transform.Image, error) {
	return t.Blur(img, o.KernelSize)
}

// GetOperationName returns the operation name
func (o *BlurOperation) GetOperationName() string {
	return NameBlur
}

// KernelOperation correlates the image with a caller-supplied kernel
type KernelOperation struct {
	Kernel *transform.Kernel
	name   string
}

// NewKernelOperation creates a new kernel operation
func NewKernelOperation(kernel *transform.Kernel) Operation {
	return &KernelOperation{Kernel: kernel, name: NameKernel}
}

// Apply runs ApplyKernel
func (o *KernelOperation) Apply(_ context.Context, t transform.Transformer, img *transform.Image) (*transform.Image, error) {
	return t.ApplyKernel(img, o.Kernel)
}

// GetOperationName returns the operation name
func (o *KernelOperation) GetOperationName() string {
	if o.name == "" {
		return NameKernel
	}
	return o.name
}

// EdgeOperation computes the gradient magnitude of two kernel responses
type EdgeOperation struct {
	KernelX *transform.Kernel
	KernelY *transform.Kernel
}

// NewEdgeOperation creates an edge operation. Nil kernels default to Sobel.
func NewEdgeOperation(kx, ky *transform.Kernel) Operation {
	if kx == nil {
		kx = transform.SobelX()
	}
	if ky == nil {
		ky = transform.SobelY()
	}
	return &EdgeOperation{KernelX: kx, KernelY: ky}
}

// Apply runs DetectEdges
func (o *EdgeOperation) Apply(_ context.Context, t transform.Transformer, img *transform.Image) (*transform.Image, error) {
	return t.DetectEdges(img, o.KernelX, o.KernelY)
}

// GetOperationName returns the operation name
func (o *EdgeOperation) GetOperationName() string {
	return NameEdges
}

// Pipeline runs operations in order, feeding each output into the next
type Pipeline struct {
	operations []Operation
}

// NewPipeline creates a pipeline from ops
func NewPipeline(ops ...Operation) *Pipeline {
	return &Pipeline{operations: ops}
}

// Add appends an operation
func (p *Pipeline) Add(op Operation) *Pipeline {
	p.operations = append(p.operations, op)
	return p
}

// Len returns the number of operations
func (p *Pipeline) Len() int {
	return len(p.operations)
}

// Names returns the operation names in execution order
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.operations))
	for i, op := range p.operations {
		names[i] = op.GetOperationName()
	}
	return names
}

// Execute applies every operation to img. The context is checked before
// each step; a running transform is not interrupted. An empty pipeline
// returns a copy of img.
func (p *Pipeline) Execute(ctx context.Context, t transform.Transformer, img *transform.Image) (*transform.Image, error) {
	current := img
	if len(p.operations) == 0 && img != nil {
		return img.Clone(), nil
	}

	for i, op := range p.operations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline stopped before step %d (%s): %w", i+1, op.GetOperationName(), err)
		}
		next, err := op.Apply(ctx, t, current)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, op.GetOperationName(), err)
		}
		current = next
	}
	return current, nil
}
