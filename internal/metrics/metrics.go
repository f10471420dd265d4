package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	namespace = "paleteria"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBConnectionsOpen        prometheus.Gauge
	DBConnectionsInUse       prometheus.Gauge
	DBConnectionsIdle        prometheus.Gauge
	DBConnectionsMax         prometheus.Gauge
	DBConnectionWaitTotal    prometheus.Counter
	DBConnectionWaitDuration prometheus.Counter
	DBQueryDuration          *prometheus.HistogramVec
	DBQueryErrors            *prometheus.CounterVec

	// Object storage metrics
	StorageRequestDuration *prometheus.HistogramVec
	StorageRequestsTotal   *prometheus.CounterVec

	// Business metrics
	SubmissionsTotal  *prometheus.CounterVec
	AssetUploadsTotal *prometheus.CounterVec
	OrphanAssetsTotal prometheus.Counter
	ProductsTotal     prometheus.Gauge
	EmployeesTotal    prometheus.Gauge

	waitsMu   sync.Mutex
	lastWaits poolWaits

	logger *zap.Logger
}

// New creates and registers all metrics with the default registry
func New(logger *zap.Logger) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, logger)
}

// NewWithRegistry creates and registers all metrics with a custom registry
func NewWithRegistry(registerer prometheus.Registerer, logger *zap.Logger) *Metrics {
	factory := promauto.With(registerer)

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),

		DBConnectionsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_open",
			Help:      "Current number of open database connections",
		}),
		DBConnectionsInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_in_use",
			Help:      "Current number of in-use database connections",
		}),
		DBConnectionsIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_idle",
			Help:      "Current number of idle database connections",
		}),
		DBConnectionsMax: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_max",
			Help:      "Maximum number of open database connections configured",
		}),
		DBConnectionWaitTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_connection_wait_total",
			Help:      "Total number of times waited for a database connection",
		}),
		DBConnectionWaitDuration: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_connection_wait_duration_seconds_total",
			Help:      "Total duration waited for database connections in seconds",
		}),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation", "table"},
		),
		DBQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_query_errors_total",
				Help:      "Total number of database query errors",
			},
			[]string{"operation", "table"},
		),

		StorageRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "storage_request_duration_seconds",
				Help:      "Object storage request duration in seconds",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		StorageRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_requests_total",
				Help:      "Total number of object storage requests",
			},
			[]string{"operation", "result"},
		),

		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total number of form submissions by form and final state",
			},
			[]string{"form", "outcome"},
		),
		AssetUploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "asset_uploads_total",
				Help:      "Total number of asset uploads by status",
			},
			[]string{"status"},
		),
		OrphanAssetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_assets_recorded_total",
			Help:      "Total number of uploaded assets left without a record",
		}),
		ProductsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "products_total",
			Help:      "Total number of products",
		}),
		EmployeesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "employees_total",
			Help:      "Total number of employees",
		}),

		logger: logger,
	}
}

// safeExecute wraps metric operations with panic recovery
func (m *Metrics) safeExecute(operation string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Panic in metrics operation",
				zap.String("operation", operation),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
