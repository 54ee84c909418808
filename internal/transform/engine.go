package transform

import "sync"

// Engine implements Transformer. The zero value runs every operation
// sequentially on the calling goroutine.
type Engine struct {
	opts Options
	pool *WorkerPool
}

var _ Transformer = (*Engine)(nil)

// NewEngine creates an engine. A worker pool is started when more than one
// worker is configured; release it with Close.
func NewEngine(opts Options) *Engine {
	e := &Engine{opts: opts}
	if workers := opts.workerCount(); workers > 1 {
		e.pool = NewWorkerPool(workers)
		e.pool.Start()
	}
	return e
}

// Options returns the configuration the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Close stops the worker pool.
func (e *Engine) Close() error {
	if e.pool != nil {
		e.pool.Close()
	}
	return nil
}

// PoolStats reports worker pool counters. A sequential engine reports a
// single worker and no jobs.
func (e *Engine) PoolStats() PoolStats {
	if e.pool == nil {
		return PoolStats{Workers: 1}
	}
	return e.pool.GetStats()
}

// forStrips calls fn over contiguous [x0, x1) strips covering [0, width).
// Strips run on the worker pool for images of at least ParallelThreshold
// samples; fn must only write output columns inside its strip.
func (e *Engine) forStrips(img *Image, fn func(x0, x1 int)) {
	width := img.width
	if width == 0 {
		return
	}
	if e.pool == nil || img.Len() < e.opts.ParallelThreshold {
		fn(0, width)
		return
	}

	numWorkers := e.pool.Workers()
	if width < numWorkers {
		numWorkers = width
	}
	colsPerWorker := (width + numWorkers - 1) / numWorkers // ceil division

	var wg sync.WaitGroup
	for x0 := 0; x0 < width; x0 += colsPerWorker {
		x0 := x0 // per-iteration copy (go 1.21 loop semantics)
		x1 := min(x0+colsPerWorker, width)
		wg.Add(1)
		job := func() {
			defer wg.Done()
			fn(x0, x1)
		}
		if !e.pool.Submit(job) {
			job() // pool closed
		}
	}
	wg.Wait()
}

// sequential returns an engine that runs on the calling goroutine. Used by
// the package-level functions.
func sequential() *Engine {
	return &Engine{opts: SequentialOptions()}
}

// Brighten multiplies every sample by factor.
func Brighten(img *Image, factor float64) *Image {
	return sequential().Brighten(img, factor)
}

// AdjustContrast computes (v-mid)*factor+mid for every sample v.
func AdjustContrast(img *Image, factor, mid float64) *Image {
	return sequential().AdjustContrast(img, factor, mid)
}

// Blur applies a box blur with the nominal kernelSize² divisor.
func Blur(img *Image, kernelSize int) (*Image, error) {
	return sequential().Blur(img, kernelSize)
}

// ApplyKernel correlates img with kernel over the clipped neighborhood.
func ApplyKernel(img *Image, kernel *Kernel) (*Image, error) {
	return sequential().ApplyKernel(img, kernel)
}

// CombineImages computes sqrt(a²+b²) per sample.
func CombineImages(a, b *Image) (*Image, error) {
	return sequential().CombineImages(a, b)
}

// DetectEdges combines the responses of img to kx and ky.
func DetectEdges(img *Image, kx, ky *Kernel) (*Image, error) {
	return sequential().DetectEdges(img, kx, ky)
}

// SobelEdges runs DetectEdges with the Sobel kernels.
func SobelEdges(img *Image) (*Image, error) {
	return sequential().SobelEdges(img)
}
