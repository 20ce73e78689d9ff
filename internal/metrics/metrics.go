package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Craft outcomes
const (
	OutcomeCrafted      = "crafted"
	OutcomeInsufficient = "insufficient"
	OutcomeError        = "error"
)

// Collector handles metrics collection and reporting
type Collector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

// NewCollector creates a collector on its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fresh_http_request_duration_seconds",
			Help:    "Time taken to serve API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	crafts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fresh_meal_plan_crafts_total",
			Help: "Weekly plan craft attempts by outcome",
		},
		[]string{"outcome"},
	)

	matched := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fresh_ai_menu_matched_recipes",
			Help: "Recipes matched by the pantry in the latest AI menu computation",
		},
	)

	mutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fresh_meal_plan_mutations_total",
			Help: "Meal plan mutations by operation",
		},
		[]string{"operation"},
	)

	sessions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fresh_meal_plan_sessions",
			Help: "Meal plan sessions held in memory",
		},
	)

	metrics := map[string]prometheus.Collector{
		"request_duration": requestDuration,
		"crafts":           crafts,
		"matched":          matched,
		"mutations":        mutations,
		"sessions":         sessions,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &Collector{
		registry: registry,
		metrics:  metrics,
	}
}

// Registry exposes the underlying registry
func (mc *Collector) Registry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the registry in the Prometheus exposition format
func (mc *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}

// Middleware records the duration of every request by matched route
func (mc *Collector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		mc.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// RecordRequest records one served request
func (mc *Collector) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if histogram, ok := mc.metrics["request_duration"].(*prometheus.HistogramVec); ok {
		histogram.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
	}
}

// RecordCraft counts a craft attempt
func (mc *Collector) RecordCraft(outcome string) {
	if counter, ok := mc.metrics["crafts"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(outcome).Inc()
	}
}

// RecordMatched sets the size of the latest AI menu
func (mc *Collector) RecordMatched(n int) {
	if gauge, ok := mc.metrics["matched"].(prometheus.Gauge); ok {
		gauge.Set(float64(n))
	}
}

// RecordMutation counts a plan mutation
func (mc *Collector) RecordMutation(operation string) {
	if counter, ok := mc.metrics["mutations"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(operation).Inc()
	}
}

// RecordSessions sets the number of live plan sessions
func (mc *Collector) RecordSessions(n int) {
	if gauge, ok := mc.metrics["sessions"].(prometheus.Gauge); ok {
		gauge.Set(float64(n))
	}
}
