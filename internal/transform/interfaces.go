package transform

// Transformer is the set of image transformations offered by the engine.
// Every method returns a new image and leaves its inputs untouched.
type Transformer interface {
	Brighten(img *Image, factor float64) *Image
	AdjustContrast(img *Image, factor, mid float64) *Image
	Blur(img *Image, kernelSize int) (*Image, error)
	ApplyKernel(img *Image, kernel *Kernel) (*Image, error)
	CombineImages(a, b *Image) (*Image, error)
	DetectEdges(img *Image, kx, ky *Kernel) (*Image, error)

	// Lifecycle management
	Close() error
}

// StatisticsCalculator summarizes image samples
type StatisticsCalculator interface {
	Statistics(img *Image) []ChannelStatistics
}
