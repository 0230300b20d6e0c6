package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector holds the prometheus collectors of the web front end.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	apiRequests    *prometheus.CounterVec
	apiDuration    *prometheus.HistogramVec
	viewFetches    *prometheus.CounterVec
	viewDuration   *prometheus.HistogramVec
	staleResponses *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	activeViews    prometheus.Gauge
	guardDecisions *prometheus.CounterVec
}

// New creates a collector registered on its own registry, along with the
// go runtime and process collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobportal",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Requests sent to the portal API.",
		}, []string{"endpoint", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jobportal",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of portal API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		viewFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobportal",
			Subsystem: "listing",
			Name:      "fetches_total",
			Help:      "List view fetches by outcome.",
		}, []string{"view", "outcome"}),
		viewDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jobportal",
			Subsystem: "listing",
			Name:      "fetch_duration_seconds",
			Help:      "Latency of list view fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		staleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobportal",
			Subsystem: "listing",
			Name:      "stale_responses_total",
			Help:      "Fetch results discarded because a newer request superseded them.",
		}, []string{"view"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobportal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Pages and endpoints served.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jobportal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of served requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		activeViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jobportal",
			Subsystem: "views",
			Name:      "active",
			Help:      "List views and delete flows currently held for sessions.",
		}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobportal",
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard outcomes.",
		}, []string{"decision"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.apiRequests,
		c.apiDuration,
		c.viewFetches,
		c.viewDuration,
		c.staleResponses,
		c.httpRequests,
		c.httpDuration,
		c.activeViews,
		c.guardDecisions,
	)

	return c
}

var (
	defaultCollector *Collector
	defaultOnce      sync.Once
)

// Default returns the process-wide collector
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultCollector = New()
	})
	return defaultCollector
}

// Registry returns the registry to expose on /metrics
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveAPICall records one portal API request. status is the HTTP status
// code, or 0 for transport failures.
func (c *Collector) ObserveAPICall(endpoint string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.apiRequests.WithLabelValues(endpoint, label).Inc()
	c.apiDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveFetch records a list view fetch with outcome "success", "error" or "cancelled"
func (c *Collector) ObserveFetch(view, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.viewFetches.WithLabelValues(view, outcome).Inc()
	c.viewDuration.WithLabelValues(view).Observe(duration.Seconds())
}

// StaleDiscarded counts a fetch result dropped because it was superseded
func (c *Collector) StaleDiscarded(view string) {
	if c == nil {
		return
	}
	c.staleResponses.WithLabelValues(view).Inc()
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, code int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetActiveViews reports the size of the view registry
func (c *Collector) SetActiveViews(n int) {
	if c == nil {
		return
	}
	c.activeViews.Set(float64(n))
}

// GuardDecision counts one route guard outcome
func (c *Collector) GuardDecision(decision string) {
	if c == nil {
		return
	}
	c.guardDecisions.WithLabelValues(decision).Inc()
}
