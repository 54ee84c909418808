package transform

import (
	"sync"
	"testing"
)

func newParallelEngine(t *testing.T, workers int) *Engine {
	t.Helper()
	e := NewEngine(DefaultOptions().WithWorkers(workers).WithParallelThreshold(0))
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	seq := NewEngine(SequentialOptions())
	k := MustKernel([][]float64{
		{0.5, -1, 2},
		{3, 0.25, -0.75},
		{1, 1, -2},
	})

	for _, workers := range []int{2, 3, 4, 7} {
		par := newParallelEngine(t, workers)

		for _, width := range []int{1, 5, 9, 13} {
			img := createGradientImage(width, 6, 3)

			wantBlur, _ := seq.Blur(img, 3)
			gotBlur, err := par.Blur(img, 3)
			if err != nil {
				t.Fatalf("Blur: %v", err)
			}
			assertImagesClose(t, wantBlur, gotBlur, 0)

			wantConv, _ := seq.ApplyKernel(img, k)
			gotConv, err := par.ApplyKernel(img, k)
			if err != nil {
				t.Fatalf("ApplyKernel: %v", err)
			}
			assertImagesClose(t, wantConv, gotConv, 0)

			wantEdges, _ := seq.SobelEdges(img)
			gotEdges, err := par.SobelEdges(img)
			if err != nil {
				t.Fatalf("SobelEdges: %v", err)
			}
			assertImagesClose(t, wantEdges, gotEdges, 0)
		}
	}
}

func TestEngine_UsesPoolAboveThreshold(t *testing.T) {
	e := newParallelEngine(t, 4)
	img := createGradientImage(8, 4, 1)

	if _, err := e.Blur(img, 3); err != nil {
		t.Fatalf("Blur: %v", err)
	}

	stats := e.PoolStats()
	if stats.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", stats.Workers)
	}
	if stats.TotalJobs != 4 {
		t.Errorf("Expected 4 strips, got %d jobs", stats.TotalJobs)
	}
}

func TestEngine_BelowThresholdRunsInline(t *testing.T) {
	e := NewEngine(DefaultOptions().WithWorkers(4))
	defer e.Close()

	if _, err := e.Blur(createGradientImage(8, 8, 1), 3); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if stats := e.PoolStats(); stats.TotalJobs != 0 {
		t.Errorf("Expected no pool jobs for a small image, got %d", stats.TotalJobs)
	}
}

func TestEngine_SequentialStats(t *testing.T) {
	e := NewEngine(SequentialOptions())
	if stats := e.PoolStats(); stats.Workers != 1 || stats.TotalJobs != 0 {
		t.Errorf("Unexpected sequential stats: %+v", stats)
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	var zero Engine
	if out := zero.Brighten(createTestImage(2, 2, 1, 1), 3); out.At(0, 0, 0) != 3 {
		t.Error("Zero-value engine must be usable")
	}
}

func TestEngine_WorksAfterClose(t *testing.T) {
	e := NewEngine(DefaultOptions().WithWorkers(3).WithParallelThreshold(0))
	img := createGradientImage(7, 5, 2)
	want, _ := Blur(img, 3)

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, err := e.Blur(img, 3)
	if err != nil {
		t.Fatalf("Blur after Close: %v", err)
	}
	assertImagesClose(t, want, got, 0)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newParallelEngine(t, 4)
	img := createGradientImage(16, 16, 3)
	want, _ := SobelEdges(img)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.SobelEdges(img)
			if err != nil {
				errs <- err
				return
			}
			for j, v := range got.Data() {
				if v != want.pix[j] {
					t.Errorf("Concurrent result differs at sample %d", j)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("SobelEdges: %v", err)
	}
}

func TestEngine_OptionsRoundTrip(t *testing.T) {
	opts := DefaultOptions().WithWorkers(2).WithNormalizedBorders()
	e := NewEngine(opts)
	defer e.Close()

	if e.Options() != opts {
		t.Errorf("Expected %+v, got %+v", opts, e.Options())
	}
}
