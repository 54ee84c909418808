package transform

import (
	"fmt"

	apperrors "go-image-editor/internal/errors"

	"gonum.org/v1/gonum/mat"
)

// Kernel is a square weight matrix with an odd side length.
// Element (i, j) weights the neighbor at offset (i-r, j-r) along (x, y).
type Kernel struct {
	weights *mat.Dense
	size    int
}

// NewKernel validates rows and copies them into a kernel.
func NewKernel(rows [][]float64) (*Kernel, error) {
	size := len(rows)
	if size == 0 {
		return nil, apperrors.NewInvalidKernelShapeError("kernel must not be empty")
	}
	data := make([]float64, 0, size*size)
	for i, row := range rows {
		if len(row) != size {
			return nil, apperrors.NewInvalidKernelShapeError(
				fmt.Sprintf("kernel must be square: row %d has %d values, want %d", i, len(row), size))
		}
		data = append(data, row...)
	}
	if size%2 == 0 {
		return nil, apperrors.NewInvalidKernelShapeError(
			fmt.Sprintf("kernel side length must be odd, got %d", size))
	}
	return &Kernel{weights: mat.NewDense(size, size, data), size: size}, nil
}

// MustKernel is like NewKernel but panics on invalid input. Intended for
// package-level kernel literals.
func MustKernel(rows [][]float64) *Kernel {
	k, err := NewKernel(rows)
	if err != nil {
		panic(err)
	}
	return k
}

// Size returns the side length of the kernel.
func (k *Kernel) Size() int { return k.size }

// Radius returns the neighbor radius (size-1)/2.
func (k *Kernel) Radius() int { return k.size / 2 }

// At returns the weight at (i, j).
func (k *Kernel) At(i, j int) float64 { return k.weights.At(i, j) }

// Rows returns the weights as a fresh [][]float64.
func (k *Kernel) Rows() [][]float64 {
	rows := make([][]float64, k.size)
	for i := range rows {
		rows[i] = mat.Row(nil, i, k.weights)
	}
	return rows
}

// Sum returns the total of all weights.
func (k *Kernel) Sum() float64 {
	return mat.Sum(k.weights)
}

func (k *Kernel) valid() bool {
	return k != nil && k.weights != nil && k.size > 0 && k.size%2 == 1
}

// SobelX responds to intensity changes along the x axis.
func SobelX() *Kernel {
	return MustKernel([][]float64{
		{1, 2, 1},
		{0, 0, 0},
		{-1, -2, -1},
	})
}

// SobelY responds to intensity changes along the y axis.
func SobelY() *Kernel {
	return MustKernel([][]float64{
		{1, 0, -1},
		{2, 0, -2},
		{1, 0, -1},
	})
}

// IdentityKernel returns a size×size kernel that is 1 at the center and 0 elsewhere.
func IdentityKernel(size int) (*Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return nil, apperrors.NewInvalidKernelShapeError(
			fmt.Sprintf("kernel side length must be a positive odd integer, got %d", size))
	}
	rows := make([][]float64, size)
	for i := range rows {
		rows[i] = make([]float64, size)
	}
	rows[size/2][size/2] = 1
	return NewKernel(rows)
}

// BoxKernel returns a size×size kernel whose weights all equal 1/size².
func BoxKernel(size int) (*Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return nil, apperrors.NewInvalidKernelShapeError(
			fmt.Sprintf("kernel side length must be a positive odd integer, got %d", size))
	}
	w := 1 / float64(size*size)
	rows := make([][]float64, size)
	for i := range rows {
		rows[i] = make([]float64, size)
		for j := range rows[i] {
			rows[i][j] = w
		}
	}
	return NewKernel(rows)
}
