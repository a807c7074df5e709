package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arkroute"

// Collector holds the process metrics of arkroute. It implements
// artifact.Observer.
type Collector struct {
	registry *prometheus.Registry

	filesScanned     prometheus.Counter
	pagesMatched     prometheus.Counter
	scanErrors       prometheus.Counter
	artifactsWritten *prometheus.CounterVec
	artifactsDeleted *prometheus.CounterVec
	runDuration      prometheus.Histogram
	runsTotal        *prometheus.CounterVec
}

// New creates a collector registered on its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		filesScanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_scanned_total",
			Help:      "Total number of source files scanned",
		}),

		pagesMatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_matched_total",
			Help:      "Total number of routed pages found",
		}),

		scanErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_errors_total",
			Help:      "Total number of source files that failed to scan",
		}),

		artifactsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Total number of artifacts written, by kind",
		}, []string{"kind"}),

		artifactsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_deleted_total",
			Help:      "Total number of artifacts deleted, by kind",
		}, []string{"kind"}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of generation runs in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),

		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of generation runs, by status",
		}, []string{"status"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) FileScanned(pages int) {
	c.filesScanned.Inc()
	c.pagesMatched.Add(float64(pages))
}

func (c *Collector) ScanFailed() {
	c.scanErrors.Inc()
}

func (c *Collector) ArtifactWritten(kind string) {
	c.artifactsWritten.WithLabelValues(kind).Inc()
}

func (c *Collector) ArtifactDeleted(kind string) {
	c.artifactsDeleted.WithLabelValues(kind).Inc()
}

// RunFinished records one run. A non-nil err counts it as failed.
func (c *Collector) RunFinished(d time.Duration, err error) {
	c.runDuration.Observe(d.Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	c.runsTotal.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// WriteTextfile writes all metrics to path for the node exporter textfile
// collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
