package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for inbound HTTP traffic and the
// prediction pipeline. A nil *Collector is safe to call; observations are
// dropped.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	predictionTotal *prometheus.CounterVec
	modelLatency    *prometheus.HistogramVec
}

// NewCollector constructs a collector with default histograms/counters.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wastewatch",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wastewatch",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	predictionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wastewatch",
		Subsystem: "predictions",
		Name:      "total",
		Help:      "Total number of served predictions by mode and risk label.",
	}, []string{"mode", "risk"})

	modelLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wastewatch",
		Subsystem: "predictions",
		Name:      "model_latency_seconds",
		Help:      "Latency distribution for model inference calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"model"})

	for _, c := range []prometheus.Collector{requestDuration, requestTotal, predictionTotal, modelLatency} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	collector := &Collector{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		predictionTotal: predictionTotal,
		modelLatency:    modelLatency,
	}

	return collector, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObservePrediction records one served prediction.
func (c *Collector) ObservePrediction(mode, risk string) {
	if c == nil {
		return
	}
	c.predictionTotal.WithLabelValues(mode, risk).Inc()
}

// ObserveModelLatency records the duration of one model inference call.
func (c *Collector) ObserveModelLatency(model string, d time.Duration) {
	if c == nil {
		return
	}
	c.modelLatency.WithLabelValues(model).Observe(d.Seconds())
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
