// Package metrics provides Prometheus instrumentation for the banner service.
//
// Metrics exposed:
//
//	orion_http_requests_total            counter: requests by method/route/status
//	orion_http_request_duration_seconds  histogram: latency by method/route
//	orion_banners_total                  counter: compositions by orientation/model/result
//	orion_banner_duration_seconds        histogram: composition latency
//	orion_image_fetch_total              counter: remote fetches by result
//	orion_image_cache_total              counter: image cache lookups by result
//	orion_fallback_total                 counter: fallbacks taken by step/source
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	banners        *prometheus.CounterVec
	bannerDuration prometheus.Histogram
	fetches        *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	fallbacks      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// It panics on duplicate registration, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orion_http_requests_total",
			Help: "Total HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orion_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		banners: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orion_banners_total",
			Help: "Banner compositions by orientation, model and result.",
		}, []string{"orientation", "model", "result"}),
		bannerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orion_banner_duration_seconds",
			Help:    "Time to compose one banner.",
			Buckets: []float64{.1, .25, .5, 1, 2, 4, 8, 15, 30},
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orion_image_fetch_total",
			Help: "Remote image fetches by result.",
		}, []string{"result"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orion_image_cache_total",
			Help: "Image cache lookups by result.",
		}, []string{"result"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orion_fallback_total",
			Help: "Fallbacks taken by pipeline step and resulting source.",
		}, []string{"step", "source"}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.banners,
		m.bannerDuration,
		m.fetches,
		m.cacheLookups,
		m.fallbacks,
	)
	return m
}

// ObserveHTTP records one handled request. route should be the route
// template, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveBanner records one composition attempt.
func (m *Metrics) ObserveBanner(orientation, model string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	if model == "" {
		model = "default"
	}
	m.banners.WithLabelValues(orientation, model, result(ok)).Inc()
	if ok {
		m.bannerDuration.Observe(d.Seconds())
	}
}

// ObserveFetch records one network fetch.
func (m *Metrics) ObserveFetch(ok bool) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(result(ok)).Inc()
}

// ObserveCache records one image cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveFallback records that step resolved to source.
func (m *Metrics) ObserveFallback(step, source string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(step, source).Inc()
}

// Handler returns the scrape handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
