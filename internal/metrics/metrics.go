package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "unit_service_"

	ResultSuccess    = "success"
	ResultValidation = "validation_error"
	ResultUpstream   = "upstream_error"
	ResultInternal   = "internal_error"
)

var (
	registerOnce sync.Once

	importsTotal  *prometheus.CounterVec
	importLatency *prometheus.HistogramVec

	rowsTotal        prometheus.Counter
	rowsSkipped      prometheus.Counter
	unitsCreated     prometheus.Counter
	instancesCreated prometheus.Counter
	readingsUpserted prometheus.Counter
)

// Init registers the import pipeline metrics.
func Init() {
	registerOnce.Do(func() {
		importsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "imports_total",
				Help: "Total import requests by result",
			},
			[]string{"result"},
		)
		importLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "import_latency_seconds",
				Help:    "Import pipeline latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		rowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "import_rows_total",
			Help: "Total validated rows received by the import pipeline",
		})
		rowsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "import_rows_skipped_total",
			Help: "Rows dropped from operational-data creation",
		})
		unitsCreated = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "units_created_total",
			Help: "Reference units created by imports",
		})
		instancesCreated = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "unit_instances_created_total",
			Help: "Unit instances created by imports",
		})
		readingsUpserted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "operational_data_upserted_total",
			Help: "Operational-data records upserted by imports",
		})

		prometheus.MustRegister(
			importsTotal, importLatency,
			rowsTotal, rowsSkipped,
			unitsCreated, instancesCreated, readingsUpserted,
		)
	})
}

// ObserveImport records the outcome and duration of one import request.
func ObserveImport(result string, duration time.Duration) {
	if importsTotal == nil {
		return
	}
	importsTotal.WithLabelValues(result).Inc()
	importLatency.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveRecords records the per-record outcomes of a committed import.
func ObserveRecords(rows, skipped, newUnits, newInstances, readings int) {
	if rowsTotal == nil {
		return
	}
	rowsTotal.Add(float64(rows))
	rowsSkipped.Add(float64(skipped))
	unitsCreated.Add(float64(newUnits))
	instancesCreated.Add(float64(newInstances))
	readingsUpserted.Add(float64(readings))
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
