package container

import (
	"fmt"
	"net/http"

	"go-image-editor/internal/config"
	"go-image-editor/internal/factory"
	"go-image-editor/internal/logger"
	"go-image-editor/internal/observer"
	"go-image-editor/internal/repository"
	"go-image-editor/internal/service"
	"go-image-editor/internal/transform"
	"go-image-editor/internal/transport"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	engine           *transform.Engine
	registry         *prometheus.Registry
	events           *observer.EventPublisher
	imageRepository  repository.ImageRepository
	imageEditService service.ImageEditService
	handler          http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	blobs, err := components.StorageFactory.CreateStorage(factory.StorageType(cfg.Storage.Type))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	serviceOpts, err := components.ServiceOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid service options: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observer.NewMetricsObserver(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	// Build dependency graph
	engine := components.EngineFactory.CreateEngine()
	imageRepository := repository.NewImageRepository(
		components.StorageFactory.CreateFetcher(),
		components.CreateURLValidator(),
		blobs,
	)
	imageEditService := service.NewImageEditService(
		imageRepository,
		engine,
		components.CreateBuilder(),
		events,
		serviceOpts,
	)
	handler := transport.NewHandler(imageEditService, cfg, registry, engine)

	return &Container{
		config:           cfg,
		engine:           engine,
		registry:         registry,
		events:           events,
		imageRepository:  imageRepository,
		imageEditService: imageEditService,
		handler:          handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the image edit service
func (c *Container) Service() service.ImageEditService {
	return c.imageEditService
}

// Close releases the engine's worker pool
func (c *Container) Close() error {
	return c.engine.Close()
}
