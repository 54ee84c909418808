package transform

import "runtime"

// Options configures an Engine.
type Options struct {
	// Workers is the number of goroutines used for neighborhood operations.
	// Zero or negative means runtime.NumCPU(); 1 runs everything inline.
	Workers int

	// ParallelThreshold is the minimum number of samples before work is
	// split across workers.
	ParallelThreshold int

	// NormalizeBorders makes Blur divide by the number of in-bounds
	// neighbors instead of kernelSize².
	NormalizeBorders bool
}

// DefaultOptions returns default engine options
func DefaultOptions() Options {
	return Options{
		Workers:           0, // Use default CPU count
		ParallelThreshold: 100000,
		NormalizeBorders:  false,
	}
}

// SequentialOptions returns options that never fan out
func SequentialOptions() Options {
	opts := DefaultOptions()
	opts.Workers = 1
	return opts
}

// WithWorkers sets the worker count
func (opts Options) WithWorkers(workers int) Options {
	opts.Workers = workers
	return opts
}

// WithParallelThreshold sets the fan-out threshold in samples
func (opts Options) WithParallelThreshold(samples int) Options {
	opts.ParallelThreshold = samples
	return opts
}

// WithNormalizedBorders enables the in-bounds divisor for Blur
func (opts Options) WithNormalizedBorders() Options {
	opts.NormalizeBorders = true
	return opts
}

func (opts Options) workerCount() int {
	if opts.Workers <= 0 {
		return runtime.NumCPU()
	}
	return opts.Workers
}
