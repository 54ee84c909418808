package transform

import (
	"errors"
	"math"
	"testing"

	apperrors "go-image-editor/internal/errors"
)

func TestNewKernel_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		rows [][]float64
	}{
		{"Empty", nil},
		{"Ragged", [][]float64{{1, 2, 3}, {1, 2}, {1, 2, 3}}},
		{"Non-square", [][]float64{{1, 2, 3}, {4, 5, 6}}},
		{"Even side", [][]float64{{1, 2}, {3, 4}}},
		{"Wide single row", [][]float64{{1, 2, 3}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, err := NewKernel(tc.rows)
			if err == nil {
				t.Fatalf("Expected error, got kernel of size %d", k.Size())
			}
			if !errors.Is(err, apperrors.ErrInvalidKernelShape) {
				t.Errorf("Expected InvalidKernelShape, got %v", err)
			}
		})
	}
}

func TestNewKernel_Valid(t *testing.T) {
	rows := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	k, err := NewKernel(rows)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	if k.Size() != 3 || k.Radius() != 1 {
		t.Errorf("Expected size 3 radius 1, got %d/%d", k.Size(), k.Radius())
	}
	if k.At(1, 2) != 6 {
		t.Errorf("Expected At(1,2) = 6, got %v", k.At(1, 2))
	}
	if k.Sum() != 45 {
		t.Errorf("Expected sum 45, got %v", k.Sum())
	}

	rows[0][0] = 100
	if k.At(0, 0) != 1 {
		t.Error("Kernel must copy its input rows")
	}

	back := k.Rows()
	if len(back) != 3 || back[2][0] != 7 {
		t.Errorf("Unexpected Rows(): %v", back)
	}
}

func TestSobelKernels(t *testing.T) {
	x := SobelX()
	if x.At(0, 1) != 2 || x.At(2, 1) != -2 || x.At(1, 1) != 0 {
		t.Errorf("Unexpected SobelX: %v", x.Rows())
	}
	y := SobelY()
	if y.At(1, 0) != 2 || y.At(1, 2) != -2 {
		t.Errorf("Unexpected SobelY: %v", y.Rows())
	}
	if x.Sum() != 0 || y.Sum() != 0 {
		t.Error("Sobel kernels must sum to zero")
	}
}

func TestIdentityAndBoxKernels(t *testing.T) {
	id, err := IdentityKernel(5)
	if err != nil {
		t.Fatalf("IdentityKernel: %v", err)
	}
	if id.At(2, 2) != 1 || id.Sum() != 1 {
		t.Errorf("Unexpected identity kernel: %v", id.Rows())
	}

	box, err := BoxKernel(3)
	if err != nil {
		t.Fatalf("BoxKernel: %v", err)
	}
	if math.Abs(box.Sum()-1) > tolerance {
		t.Errorf("Expected box kernel to sum to 1, got %v", box.Sum())
	}

	for _, size := range []int{0, -3, 4} {
		if _, err := IdentityKernel(size); !errors.Is(err, apperrors.ErrInvalidKernelShape) {
			t.Errorf("IdentityKernel(%d): expected InvalidKernelShape, got %v", size, err)
		}
		if _, err := BoxKernel(size); !errors.Is(err, apperrors.ErrInvalidKernelShape) {
			t.Errorf("BoxKernel(%d): expected InvalidKernelShape, got %v", size, err)
		}
	}
}

func TestMustKernel_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected MustKernel to panic on an even kernel")
		}
	}()
	MustKernel([][]float64{{1, 2}, {3, 4}})
}
