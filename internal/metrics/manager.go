package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "coachtimer"
	subsystem = "interval"
)

type Manager struct {
	// counters
	CounterSessionsStarted  prometheus.Counter
	CounterSessionsStopped  prometheus.Counter
	CounterRoundsCompleted  prometheus.Counter
	CounterTransitions      *prometheus.CounterVec
	CounterReconfigurations prometheus.Counter

	// gauges
	GaugeRunningSessions prometheus.Gauge

	// histograms
	HistSessionDuration prometheus.Histogram
}

// NewUnregisteredManager returns a manager backed by a private registry,
// for callers that do not expose metrics.
func NewUnregisteredManager() *Manager {
	return NewManager(prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(reg), reg
}

func NewManager(reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterSessionsStarted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_started_total",
		Help:      "The total number of started timer sessions",
	})
	counterSessionsStopped := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_stopped_total",
		Help:      "The total number of stopped timer sessions",
	})
	counterRoundsCompleted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rounds_completed_total",
		Help:      "The total number of completed work/rest rounds",
	})
	counterTransitions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "phase_transitions_total",
		Help:      "The total number of phase boundaries crossed",
	}, []string{"transition"})
	counterReconfigurations := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reconfigurations_total",
		Help:      "The total number of live interval changes",
	})

	gaugeRunningSessions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "running_sessions",
		Help:      "Number of sessions whose clock is ticking",
	})

	histSessionDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				30, 60, 120, 300, 600, 900,
				1200, 1800, 2700, 3600, 5400,
			},
			Name: "session_duration_seconds",
			Help: "Wall clock duration of a session from start to stop",
		},
	)

	return &Manager{
		CounterSessionsStarted:  counterSessionsStarted,
		CounterSessionsStopped:  counterSessionsStopped,
		CounterRoundsCompleted:  counterRoundsCompleted,
		CounterTransitions:      counterTransitions,
		CounterReconfigurations: counterReconfigurations,
		GaugeRunningSessions:    gaugeRunningSessions,
		HistSessionDuration:     histSessionDuration,
	}
}
