package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "courtside"

// Collector holds the pipeline collectors.
type Collector struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	lastRunTotal   prometheus.Gauge
	lastRunUnix    prometheus.Gauge
	staleDeleted   prometheus.Counter
	records        *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	sourceSkipped  *prometheus.CounterVec
}

// New creates a collector on its own registry, with Go and process collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	auto := promauto.With(reg)

	return &Collector{
		registry: reg,
		runs: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by trigger",
		}, []string{"trigger"}),
		runDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Wall time of pipeline runs",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		lastRunTotal: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "last_run_matches",
			Help:      "Matches created or updated by the last run",
		}),
		lastRunUnix: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		staleDeleted: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stale_matches_deleted_total",
			Help:      "Matches removed by the stale sweep",
		}),
		records: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "matches_total",
			Help:      "Matches ingested per source and outcome",
		}, []string{"source", "outcome"}),
		sourceFailures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "failures_total",
			Help:      "Source runs that failed",
		}, []string{"source"}),
		sourceSkipped: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "records_skipped_total",
			Help:      "Records skipped because they could not be ingested",
		}, []string{"source"}),
	}
}

// ObserveRun records the outcome of a whole run.
func (c *Collector) ObserveRun(trigger string, stale, total int, elapsed time.Duration) {
	c.runs.WithLabelValues(trigger).Inc()
	c.runDuration.Observe(elapsed.Seconds())
	c.lastRunTotal.Set(float64(total))
	c.lastRunUnix.SetToCurrentTime()
	c.staleDeleted.Add(float64(stale))
}

// ObserveSource records the counts of one source within a run.
func (c *Collector) ObserveSource(source string, created, updated, skipped int, failed bool) {
	c.records.WithLabelValues(source, "created").Add(float64(created))
	c.records.WithLabelValues(source, "updated").Add(float64(updated))
	c.sourceSkipped.WithLabelValues(source).Add(float64(skipped))
	if failed {
		c.sourceFailures.WithLabelValues(source).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
