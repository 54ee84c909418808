package observer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "image_editor"

// MetricsObserver exports transform events as Prometheus metrics
type MetricsObserver struct {
	transforms *prometheus.CounterVec
	operations *prometheus.CounterVec
	fetches    *prometheus.CounterVec
	stored     prometheus.Counter
	inFlight   prometheus.Gauge
	duration   prometheus.Histogram
}

// NewMetricsObserver creates a metrics observer and registers its
// collectors with reg
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	o := &MetricsObserver{
		transforms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_total",
			Help:      "Transform requests by outcome.",
		}, []string{"status"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operations applied by successful transforms.",
		}, []string{"operation"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Source image fetches by outcome.",
		}, []string{"status"}),
		stored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_images_total",
			Help:      "Results uploaded to blob storage.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transforms_in_flight",
			Help:      "Transforms currently being processed.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "End-to-end duration of successful transforms.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{o.transforms, o.operations, o.fetches, o.stored, o.inFlight, o.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// OnEvent handles transform events by updating metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event TransformEvent) {
	switch event.EventType {
	case TransformStarted:
		o.inFlight.Inc()
	case TransformCompleted:
		o.inFlight.Dec()
		o.transforms.WithLabelValues("success").Inc()
		o.duration.Observe(event.ProcessingTime.Seconds())
		for _, name := range event.Operations {
			o.operations.WithLabelValues(name).Inc()
		}
	case TransformFailed:
		o.inFlight.Dec()
		o.transforms.WithLabelValues("failure").Inc()
	case ImageFetched:
		o.fetches.WithLabelValues("success").Inc()
	case ImageFetchFailed:
		o.fetches.WithLabelValues("failure").Inc()
	case ImageStored:
		o.stored.Inc()
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}
