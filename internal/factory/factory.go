package factory

import (
	"fmt"

	"go-image-editor/internal/config"
	"go-image-editor/internal/imageio"
	"go-image-editor/internal/operation"
	"go-image-editor/internal/service"
	"go-image-editor/internal/storage"
	"go-image-editor/internal/transform"
	"go-image-editor/pkg/validation"
)

// StorageType represents different types of result storage backends
type StorageType string

const (
	// NoStorage disables result storage; sources are fetched over HTTP only
	NoStorage StorageType = "none"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// EngineFactory creates transform engines
type EngineFactory interface {
	CreateEngine() *transform.Engine
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateFetcher() storage.ImageFetcher
	CreateStorage(storageType StorageType) (storage.BlobStorage, error)
}

// engineFactory implements EngineFactory
type engineFactory struct {
	cfg *config.Config
}

// NewEngineFactory creates a new engine factory
func NewEngineFactory(cfg *config.Config) EngineFactory {
	return &engineFactory{cfg: cfg}
}

// CreateEngine creates an engine from the configured worker settings
func (f *engineFactory) CreateEngine() *transform.Engine {
	opts := transform.DefaultOptions().
		WithWorkers(f.cfg.Workers).
		WithParallelThreshold(f.cfg.ParallelThreshold)
	if f.cfg.NormalizeBlurBorders {
		opts = opts.WithNormalizedBorders()
	}
	return transform.NewEngine(opts)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateFetcher creates the HTTP source fetcher
func (f *storageFactory) CreateFetcher() storage.ImageFetcher {
	opts := storage.DefaultFetcherOptions()
	opts.Timeout = f.cfg.ImageFetchTimeout
	opts.MaxPixels = f.cfg.MaxSourcePixels
	return storage.NewHTTPImageFetcherWithOptions(opts)
}

// CreateStorage creates a blob storage implementation based on the specified
// type. NoStorage yields a nil BlobStorage.
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.BlobStorage, error) {
	switch storageType {
	case NoStorage, "":
		return nil, nil
	case AzureStorage:
		s := f.cfg.Storage
		return storage.NewAzureStorage(s.AzureAccountName, s.AzureAccountKey, s.AzureContainer,
			storage.DefaultFetcherOptions().MaxBytes, f.cfg.MaxSourcePixels)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories with the service-level builders
type ComponentFactory struct {
	EngineFactory  EngineFactory
	StorageFactory StorageFactory

	cfg *config.Config
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		EngineFactory:  NewEngineFactory(cfg),
		StorageFactory: NewStorageFactory(cfg),
		cfg:            cfg,
	}
}

// CreateURLValidator restricts sources to http(s) and the configured hosts
func (f *ComponentFactory) CreateURLValidator() *validation.URLValidator {
	return validation.NewURLValidatorWithOptions([]string{"http", "https"}, f.cfg.AllowedHosts)
}

// CreateBuilder creates an operation builder with the configured limits
func (f *ComponentFactory) CreateBuilder() *operation.Builder {
	validator := validation.NewParameterValidatorWithLimits(validation.ParameterLimits{
		MaxKernelSize: f.cfg.MaxKernelSize,
		MaxAbsFactor:  f.cfg.MaxAbsFactor,
	})
	return operation.NewBuilder(validator, f.cfg.DefaultContrastMid)
}

// ServiceOptions maps the configuration onto service options
func (f *ComponentFactory) ServiceOptions() (service.Options, error) {
	format, err := imageio.ParseFormat(f.cfg.OutputFormat)
	if err != nil {
		return service.Options{}, err
	}
	return service.Options{
		MaxImageDimension: f.cfg.MaxImageDimension,
		DefaultChannels:   f.cfg.DefaultChannels,
		OutputFormat:      format,
		FetchTimeout:      f.cfg.ImageFetchTimeout,
		TransformTimeout:  f.cfg.TransformTimeout,
	}, nil
}
