package simulation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oxygene76/orrery/pkg/orrery/control"
)

// Metrics collects frame loop statistics
type Metrics struct {
	framesTotal  prometheus.Counter
	tickDuration prometheus.Histogram
	sinkErrors   *prometheus.CounterVec
	phase        prometheus.Gauge
	orbitTime    prometheus.Gauge
}

// NewMetrics creates and registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orrery",
			Name:      "frames_total",
			Help:      "Total number of frames computed",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orrery",
			Name:      "frame_duration_seconds",
			Help:      "Time spent ticking, computing and publishing a frame",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orrery",
			Name:      "sink_errors_total",
			Help:      "Frames a sink failed to accept",
		}, []string{"sink"}),
		phase: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orrery",
			Name:      "startup_phase",
			Help:      "Current startup phase (0 loading .. 4 finished)",
		}),
		orbitTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orrery",
			Name:      "orbit_time_seconds",
			Help:      "Accumulated orbit clock",
		}),
	}

	reg.MustRegister(m.framesTotal, m.tickDuration, m.sinkErrors, m.phase, m.orbitTime)
	return m
}

// RecordFrame records one completed frame
func (m *Metrics) RecordFrame(d time.Duration, phase control.Phase, orbitTime float64) {
	if m == nil {
		return
	}
	m.framesTotal.Inc()
	m.tickDuration.Observe(d.Seconds())
	m.phase.Set(float64(phase))
	m.orbitTime.Set(orbitTime)
}

// RecordSinkError counts a failed delivery
func (m *Metrics) RecordSinkError(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}
