package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in tests.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	reqTotal    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
	likeChanges *prometheus.CounterVec
	listings    *prometheus.CounterVec
	storeUp     prometheus.Gauge
	stored      prometheus.Gauge
	lastProbeTS prometheus.Gauge
}

// New creates and registers the service's collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.reqTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events_api",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
	m.reqDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "events_api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	m.likeChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events",
		Name:      "like_changes_total",
		Help:      "Like and unlike operations by direction and result",
	}, []string{"direction", "result"})
	m.listings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events",
		Name:      "listings_total",
		Help:      "Listings served by source (store, empty, error)",
	}, []string{"source"})
	m.storeUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "events",
		Name:      "store_up",
		Help:      "1 if the last store probe succeeded",
	})
	m.stored = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "events",
		Name:      "stored",
		Help:      "Number of events in the collection at the last probe",
	})
	m.lastProbeTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "events",
		Name:      "last_probe_timestamp_seconds",
		Help:      "Unix timestamp of the last store probe",
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.reqTotal, m.reqDuration, m.likeChanges, m.listings,
		m.storeUp, m.stored, m.lastProbeTS,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.reqTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// LikeChanged records one like (delta > 0) or unlike.
func (m *Metrics) LikeChanged(delta int64, err error) {
	if m == nil {
		return
	}
	direction := "like"
	if delta < 0 {
		direction = "unlike"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.likeChanges.WithLabelValues(direction, result).Inc()
}

func (m *Metrics) ListingServed(source string) {
	if m == nil {
		return
	}
	m.listings.WithLabelValues(source).Inc()
}

// StoreProbed records the outcome of a store probe.
func (m *Metrics) StoreProbed(up bool, count int64, at time.Time) {
	if m == nil {
		return
	}
	if up {
		m.storeUp.Set(1)
		m.stored.Set(float64(count))
	} else {
		m.storeUp.Set(0)
	}
	m.lastProbeTS.Set(float64(at.Unix()))
}
