package metrics

import (
	"clearance-refresher/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the metrics collector and the ops HTTP server
var Module = fx.Options(
	fx.Provide(NewCollector),
	fx.Provide(func(c *Collector) domain.MetricsCollector { return c }),
	fx.Provide(NewServer),
)

type Collector struct {
	logger               *zap.Logger
	cyclesTotal          *prometheus.CounterVec
	cycleDuration        prometheus.Histogram
	cycleStatus          prometheus.Gauge
	lastSuccessTimestamp prometheus.Gauge
	solverRequests       *prometheus.CounterVec
	publishRequests      *prometheus.CounterVec
	solverSessions       *prometheus.CounterVec
	activeSessions       prometheus.Gauge
}

func NewCollector(logger *zap.Logger) *Collector {
	return &Collector{
		logger: logger,
		cyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clearance_cycles_total",
				Help: "Total number of refresh cycles performed",
			},
			[]string{"status"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "clearance_cycle_duration_seconds",
				Help:    "Duration of refresh cycles",
				Buckets: prometheus.DefBuckets,
			},
		),
		cycleStatus: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "clearance_cycle_status",
				Help: "Latest cycle status (1 for success, 0 for failure)",
			},
		),
		lastSuccessTimestamp: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "clearance_last_success_timestamp_seconds",
				Help: "Unix timestamp of the last successful refresh",
			},
		),
		solverRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clearance_solver_requests_total",
				Help: "Total number of solver commands sent",
			},
			[]string{"backend", "outcome"},
		),
		publishRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clearance_publish_requests_total",
				Help: "Total number of publish attempts",
			},
			[]string{"outcome"},
		),
		solverSessions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clearance_solver_sessions_total",
				Help: "Total number of solver session lifecycle events",
			},
			[]string{"event"},
		),
		activeSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "clearance_solver_sessions_active",
				Help: "Number of solver sessions currently open",
			},
		),
	}
}

func (c *Collector) RecordCycle(result domain.CycleResult) {
	c.cyclesTotal.WithLabelValues(string(result.Cycle.Status)).Inc()
	c.cycleDuration.Observe(result.Duration.Seconds())

	status := 0.0
	if result.Cycle.Status == domain.CycleSuccess {
		status = 1.0
		c.lastSuccessTimestamp.Set(float64(result.Completed.Unix()))
	}
	c.cycleStatus.Set(status)
}

func (c *Collector) RecordSolverRequest(backend string, outcome string) {
	c.solverRequests.WithLabelValues(backend, outcome).Inc()
}

func (c *Collector) RecordPublish(outcome string) {
	c.publishRequests.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordSessionCreate() {
	c.solverSessions.WithLabelValues("create").Inc()
	c.activeSessions.Inc()
}

func (c *Collector) RecordSessionDestroy() {
	c.solverSessions.WithLabelValues("destroy").Inc()
	c.activeSessions.Dec()
}
