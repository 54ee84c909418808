package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "go-image-editor/internal/errors"
	"go-image-editor/internal/imageio"
	"go-image-editor/internal/observer"
	"go-image-editor/internal/operation"
	"go-image-editor/internal/repository"
	"go-image-editor/internal/storage"
	"go-image-editor/internal/transform"
	"go-image-editor/pkg/models"
)

// ImageEditService defines the image transformation use cases
type ImageEditService interface {
	// Transform fetches the source image, runs the pipeline and encodes the result
	Transform(ctx context.Context, req models.TransformRequest) (*TransformResult, error)

	// Statistics reports per-channel statistics, optionally after a pipeline
	Statistics(ctx context.Context, req models.StatisticsRequest) (*models.StatisticsResponse, error)

	// Operations lists the supported operations and output formats
	Operations() models.OperationsResponse

	ValidateImageURL(imageURL string) error
}

// Engine is the transform engine as used by the service
type Engine interface {
	transform.Transformer
	transform.StatisticsCalculator
}

// TransformResult is an encoded image plus its description
type TransformResult struct {
	Data     []byte
	Response *models.TransformResponse
}

// Options configures an image edit service
type Options struct {
	MaxImageDimension int
	DefaultChannels   int
	OutputFormat      imageio.Format
	FetchTimeout      time.Duration
	TransformTimeout  time.Duration
}

// DefaultOptions returns the service defaults
func DefaultOptions() Options {
	return Options{
		MaxImageDimension: 2048,
		DefaultChannels:   3,
		OutputFormat:      imageio.FormatPNG,
		FetchTimeout:      15 * time.Second,
		TransformTimeout:  20 * time.Second,
	}
}

type imageEditService struct {
	repo    repository.ImageRepository
	engine  Engine
	builder *operation.Builder
	events  observer.Subject
	opts    Options
}

// NewImageEditService creates a new image edit service. A nil builder
// uses the default parameter limits; a nil events publishes nothing.
func NewImageEditService(
	repo repository.ImageRepository,
	engine Engine,
	builder *operation.Builder,
	events observer.Subject,
	opts Options,
) ImageEditService {
	if builder == nil {
		builder = operation.NewBuilder(nil, operation.DefaultContrastMid)
	}
	if events == nil {
		events = observer.NewEventPublisher()
	}
	if opts.DefaultChannels == 0 {
		opts.DefaultChannels = DefaultOptions().DefaultChannels
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = imageio.FormatPNG
	}
	return &imageEditService{
		repo:    repo,
		engine:  engine,
		builder: builder,
		events:  events,
		opts:    opts,
	}
}

func (s *imageEditService) Transform(ctx context.Context, req models.TransformRequest) (result *TransformResult, err error) {
	start := time.Now()
	names := specNames(req.Operations)
	s.events.NotifyObservers(ctx, observer.TransformEvent{
		EventType:  observer.TransformStarted,
		ImageURL:   req.URL,
		Operations: names,
	})
	defer func() {
		event := observer.TransformEvent{
			EventType:      observer.TransformCompleted,
			ImageURL:       req.URL,
			Operations:     names,
			ProcessingTime: time.Since(start),
			Success:        err == nil,
		}
		if err != nil {
			event.EventType = observer.TransformFailed
			event.ErrorMessage = err.Error()
		}
		s.events.NotifyObservers(ctx, event)
	}()

	format := s.opts.OutputFormat
	if req.Format != "" {
		if format, err = imageio.ParseFormat(req.Format); err != nil {
			return nil, err
		}
	}

	if req.Store && !s.repo.CanStore() {
		return nil, apperrors.NewValidationError("result storage is not configured", repository.ErrStorageDisabled)
	}

	pipeline, err := s.builder.Build(req.Operations)
	if err != nil {
		return nil, err
	}
	names = pipeline.Names()

	img, err := s.load(ctx, req.URL, req.Channels)
	if err != nil {
		return nil, err
	}

	out, err := s.execute(ctx, pipeline, img)
	if err != nil {
		return nil, err
	}

	rendered, err := imageio.ToImage(out)
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to render image", err)
	}
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, rendered, format); err != nil {
		return nil, apperrors.NewProcessingError("failed to encode image", err)
	}

	w, h, c := out.Shape()
	response := &models.TransformResponse{
		ImageURL:    req.URL,
		Format:      string(format),
		ContentType: imageio.ContentType(format),
		Width:       w,
		Height:      h,
		Channels:    c,
		Operations:  names,
		Statistics:  toModelStatistics(s.engine.Statistics(out)),
	}

	if req.Store {
		name := resultName(buf.Bytes(), format)
		storedURL, err := s.repo.StoreImage(ctx, name, buf.Bytes(), response.ContentType)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to store transformed image", err)
		}
		response.StoredURL = storedURL
		s.events.NotifyObservers(ctx, observer.TransformEvent{
			EventType: observer.ImageStored,
			ImageURL:  req.URL,
			Success:   true,
			Metadata:  map[string]interface{}{"stored_url": storedURL},
		})
	}

	response.ProcessingTimeSec = time.Since(start).Seconds()
	response.Timestamp = time.Now().UTC()
	return &TransformResult{Data: buf.Bytes(), Response: response}, nil
}

func (s *imageEditService) Statistics(ctx context.Context, req models.StatisticsRequest) (*models.StatisticsResponse, error) {
	start := time.Now()

	pipeline, err := s.builder.Build(req.Operations)
	if err != nil {
		return nil, err
	}

	img, err := s.load(ctx, req.URL, req.Channels)
	if err != nil {
		return nil, err
	}

	out, err := s.execute(ctx, pipeline, img)
	if err != nil {
		return nil, err
	}

	w, h, c := out.Shape()
	return &models.StatisticsResponse{
		ImageURL:          req.URL,
		Width:             w,
		Height:            h,
		Channels:          c,
		Operations:        pipeline.Names(),
		Statistics:        toModelStatistics(s.engine.Statistics(out)),
		ProcessingTimeSec: time.Since(start).Seconds(),
		Timestamp:         time.Now().UTC(),
	}, nil
}

func (s *imageEditService) Operations() models.OperationsResponse {
	formats := make([]string, len(imageio.SupportedFormats))
	for i, f := range imageio.SupportedFormats {
		formats[i] = string(f)
	}
	return models.OperationsResponse{
		Operations: operation.Catalog(),
		Formats:    formats,
	}
}

// ValidateImageURL validates the image URL
func (s *imageEditService) ValidateImageURL(imageURL string) error {
	return s.repo.ValidateImageURL(imageURL)
}

// load validates, fetches, downsizes and converts the source image
func (s *imageEditService) load(ctx context.Context, imageURL string, channels int) (*transform.Image, error) {
	if err := s.ValidateImageURL(imageURL); err != nil {
		return nil, apperrors.NewValidationError("invalid image URL", err)
	}
	if channels == 0 {
		channels = s.opts.DefaultChannels
	}

	fetchCtx, cancel := withTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	src, err := s.repo.FetchImage(fetchCtx, imageURL)
	if err != nil {
		s.events.NotifyObservers(ctx, observer.TransformEvent{
			EventType:    observer.ImageFetchFailed,
			ImageURL:     imageURL,
			ErrorMessage: err.Error(),
		})
		return nil, fetchError(err)
	}
	s.events.NotifyObservers(ctx, observer.TransformEvent{
		EventType: observer.ImageFetched,
		ImageURL:  imageURL,
		Success:   true,
	})

	img, err := imageio.FromImage(imageio.Fit(src, s.opts.MaxImageDimension), channels)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *imageEditService) execute(ctx context.Context, pipeline *operation.Pipeline, img *transform.Image) (*transform.Image, error) {
	runCtx, cancel := withTimeout(ctx, s.opts.TransformTimeout)
	defer cancel()

	out, err := pipeline.Execute(runCtx, s.engine, img)
	if err == nil {
		return out, nil
	}

	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.NewTimeoutError("transform timed out", err)
	case errors.As(err, &appErr):
		return nil, err
	default:
		return nil, apperrors.NewProcessingError("transform failed", err)
	}
}

func fetchError(err error) error {
	var statusErr *storage.StatusError
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("image fetch timeout", err)
	case errors.As(err, &appErr):
		return err
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("source image not found", err)
	default:
		return apperrors.NewNetworkError("failed to fetch image", err)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// resultName derives a content-addressed blob name
func resultName(data []byte, format imageio.Format) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("transformed/%s.%s", hex.EncodeToString(sum[:12]), format)
}

func specNames(specs []models.OperationSpec) []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

func toModelStatistics(stats []transform.ChannelStatistics) []models.ChannelStatistics {
	out := make([]models.ChannelStatistics, len(stats))
	for i, st := range stats {
		out[i] = models.ChannelStatistics{
			Channel: st.Channel,
			Mean:    st.Mean,
			StdDev:  st.StdDev,
			Min:     st.Min,
			Max:     st.Max,
		}
	}
	return out
}
