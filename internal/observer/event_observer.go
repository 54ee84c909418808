package observer

import (
	"context"
	"sync"
	"time"

	"go-image-editor/internal/logger"

	"github.com/sirupsen/logrus"
)

// TransformEvent represents a transform lifecycle event
type TransformEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	ImageURL       string                 `json:"image_url"`
	Operations     []string               `json:"operations,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of transform event
type EventType string

const (
	// TransformStarted when a request begins
	TransformStarted EventType = "transform_started"
	// TransformCompleted when every operation has been applied
	TransformCompleted EventType = "transform_completed"
	// TransformFailed when validation, fetching or an operation fails
	TransformFailed EventType = "transform_failed"
	// ImageFetched when the source image is successfully fetched
	ImageFetched EventType = "image_fetched"
	// ImageFetchFailed when the source image fetch fails
	ImageFetchFailed EventType = "image_fetch_failed"
	// ImageStored when a result is uploaded to blob storage
	ImageStored EventType = "image_stored"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event TransformEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event TransformEvent)
}

// LoggingObserver logs transform events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(log *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: log,
	}
}

// OnEvent handles transform events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event TransformEvent) {
	fields := logrus.Fields{
		"event_type":         event.EventType,
		"image_url":          event.ImageURL,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	}

	if len(event.Operations) > 0 {
		fields["operations"] = event.Operations
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case TransformStarted:
		entry.Info("Image transform started")
	case TransformCompleted:
		entry.Info("Image transform completed")
	case TransformFailed:
		entry.Error("Image transform failed")
	case ImageFetched:
		entry.Debug("Image fetched successfully")
	case ImageFetchFailed:
		entry.Error("Image fetch failed")
	case ImageStored:
		entry.Info("Transformed image stored")
	default:
		entry.Info("Transform event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event. Each observer runs on
// its own goroutine, so delivery order across events is not guaranteed.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event TransformEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// Observers must not hold up the request
	ctx = context.WithoutCancel(ctx)
	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logger.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
