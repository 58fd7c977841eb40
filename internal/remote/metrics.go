package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/llehouerou/wavestream/internal/playback"
)

var statuses = []playback.Status{
	playback.StatusIdle,
	playback.StatusLoading,
	playback.StatusPlaying,
	playback.StatusPaused,
	playback.StatusEnded,
	playback.StatusError,
}

// Metrics are the engine counters exported on /metrics.
type Metrics struct {
	loads    prometheus.Counter
	failures *prometheus.CounterVec
	status   *prometheus.GaugeVec
	clients  prometheus.Gauge
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{
		loads: f.NewCounter(prometheus.CounterOpts{
			Namespace: "wavestream",
			Name:      "loads_total",
			Help:      "Track loads started by the playback engine.",
		}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wavestream",
			Name:      "failures_total",
			Help:      "Playback failures by kind.",
		}, []string{"kind"}),
		status: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "wavestream",
			Name:      "status",
			Help:      "1 for the current session status, 0 otherwise.",
		}, []string{"status"}),
		clients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "wavestream",
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}),
	}
	m.setStatus(playback.StatusIdle)
	return m
}

func (m *Metrics) setStatus(current playback.Status) {
	for _, s := range statuses {
		v := 0.0
		if s == current {
			v = 1
		}
		m.status.WithLabelValues(s.String()).Set(v)
	}
}

func (m *Metrics) observeState(e playback.StateChange) {
	if e.Current == playback.StatusLoading && e.Previous != playback.StatusLoading {
		m.loads.Inc()
	}
	m.setStatus(e.Current)
}

func (m *Metrics) observeError(e playback.ErrorEvent) {
	kind := "unknown"
	if e.Err != nil {
		kind = e.Err.Kind.String()
	}
	m.failures.WithLabelValues(kind).Inc()
}
