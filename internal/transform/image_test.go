package transform

import (
	"errors"
	"math"
	"testing"

	apperrors "go-image-editor/internal/errors"
)

const tolerance = 1e-9

// createTestImage creates an image whose samples all equal value
func createTestImage(width, height, channels int, value float64) *Image {
	img := NewImage(width, height, channels)
	for i := range img.pix {
		img.pix[i] = value
	}
	return img
}

// createGradientImage creates an image with distinct samples everywhere
func createGradientImage(width, height, channels int) *Image {
	img := NewImage(width, height, channels)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			for c := 0; c < channels; c++ {
				img.Set(x, y, c, float64(x*7+y*3+c)/10)
			}
		}
	}
	return img
}

func mustFromSlice(t *testing.T, width, height, channels int, data []float64) *Image {
	t.Helper()
	img, err := FromSlice(width, height, channels, data)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return img
}

func assertImagesClose(t *testing.T, want, got *Image, tol float64) {
	t.Helper()
	if !want.SameShape(got) {
		t.Fatalf("Expected shape %s, got %s", want, got)
	}
	for x := 0; x < want.Width(); x++ {
		for y := 0; y < want.Height(); y++ {
			for c := 0; c < want.Channels(); c++ {
				w, g := want.At(x, y, c), got.At(x, y, c)
				if math.Abs(w-g) > tol {
					t.Fatalf("Sample (%d,%d,%d): expected %v, got %v", x, y, c, w, g)
				}
			}
		}
	}
}

func TestNewImage(t *testing.T) {
	img := NewImage(4, 3, 2)

	w, h, c := img.Shape()
	if w != 4 || h != 3 || c != 2 {
		t.Errorf("Expected shape 4x3x2, got %dx%dx%d", w, h, c)
	}
	if img.Len() != 24 {
		t.Errorf("Expected 24 samples, got %d", img.Len())
	}
	for _, v := range img.Data() {
		if v != 0 {
			t.Fatal("Expected zero-initialized samples")
		}
	}
}

func TestNewImage_NonPositiveDimensions(t *testing.T) {
	testCases := []struct {
		name             string
		width, height, c int
	}{
		{"Zero width", 0, 3, 1},
		{"Negative height", 3, -1, 1},
		{"Zero channels", 3, 3, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := NewImage(tc.width, tc.height, tc.c)
			if !img.IsEmpty() {
				t.Error("Expected empty image")
			}
			if w, h, c := img.Shape(); w != 0 || h != 0 || c != 0 {
				t.Errorf("Expected 0x0x0, got %dx%dx%d", w, h, c)
			}
		})
	}
}

func TestFromSlice_Layout(t *testing.T) {
	img := mustFromSlice(t, 3, 3, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	// x is the outer axis
	if img.At(0, 1, 0) != 2 {
		t.Errorf("Expected (0,1) = 2, got %v", img.At(0, 1, 0))
	}
	if img.At(1, 0, 0) != 4 {
		t.Errorf("Expected (1,0) = 4, got %v", img.At(1, 0, 0))
	}
	if img.At(2, 2, 0) != 9 {
		t.Errorf("Expected (2,2) = 9, got %v", img.At(2, 2, 0))
	}
}

func TestFromSlice_Errors(t *testing.T) {
	if _, err := FromSlice(2, 2, 1, []float64{1, 2, 3}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("Expected validation error for short slice, got %v", err)
	}
	if _, err := FromSlice(0, 2, 1, nil); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("Expected validation error for zero width, got %v", err)
	}
}

func TestFromSlice_Copies(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	img := mustFromSlice(t, 2, 2, 1, data)
	data[0] = 100

	if img.At(0, 0, 0) != 1 {
		t.Error("Expected FromSlice to copy its input")
	}
}

func TestAtSet_OutOfRange(t *testing.T) {
	img := NewImage(2, 2, 1)
	img.Set(5, 0, 0, 1)
	img.Set(0, -1, 0, 1)
	img.Set(0, 0, 3, 1)

	for _, v := range img.Data() {
		if v != 0 {
			t.Fatal("Out-of-range Set must be ignored")
		}
	}
	if img.At(-1, 0, 0) != 0 {
		t.Error("Out-of-range At must return 0")
	}
}

func TestClone(t *testing.T) {
	img := createGradientImage(3, 4, 2)
	clone := img.Clone()
	assertImagesClose(t, img, clone, 0)

	clone.Set(0, 0, 0, 42)
	if img.At(0, 0, 0) == 42 {
		t.Error("Clone must not share storage with the original")
	}
}

func TestSameShape(t *testing.T) {
	a := NewImage(3, 3, 1)
	if !a.SameShape(NewImage(3, 3, 1)) {
		t.Error("Expected equal shapes to match")
	}
	if a.SameShape(NewImage(3, 3, 3)) {
		t.Error("Expected channel mismatch to be detected")
	}
	if a.SameShape(NewImage(3, 2, 1)) {
		t.Error("Expected height mismatch to be detected")
	}
}
