package simulation

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"

	"github.com/oxygene76/orrery/internal/types"
	"github.com/oxygene76/orrery/pkg/orrery/control"
)

// FrameSink receives every frame the runner produces
type FrameSink interface {
	OnFrame(ctx context.Context, frame types.FrameMessage) error
	Close() error
}

// MinInterval is the shortest tick interval a Runner uses
const MinInterval = time.Millisecond

// Runner drives a Simulation from a ticker and fans frames out to sinks
type Runner struct {
	sim      *Simulation
	interval time.Duration
	sinks    []FrameSink
	metrics  *Metrics
	logger   log.Logger
}

// NewRunner creates a runner ticking at rate Hz
func NewRunner(sim *Simulation, rate float64, logger log.Logger, metrics *Metrics, sinks ...FrameSink) *Runner {
	if rate <= 0 {
		rate = 60
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval < MinInterval {
		interval = MinInterval
	}
	return &Runner{
		sim:      sim,
		interval: interval,
		sinks:    sinks,
		metrics:  metrics,
		logger:   logger,
	}
}

// AddSink registers another sink; call before Run
func (r *Runner) AddSink(s FrameSink) {
	r.sinks = append(r.sinks, s)
}

// Run ticks until ctx is cancelled, then closes every sink
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("frame loop started", "interval", r.interval.String(), "sinks", len(r.sinks))
	lastPhase := r.sim.State().Phase

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("frame loop stopped")
			return r.Close()
		case <-ticker.C:
			phase := r.StepOnce(ctx)
			if phase != lastPhase {
				r.logger.Info("startup phase changed", "from", lastPhase.String(), "to", phase.String())
				lastPhase = phase
			}
		}
	}
}

// StepOnce advances the simulation by the elapsed wall time, computes a
// frame and delivers it. Sink failures are logged and counted, never fatal.
func (r *Runner) StepOnce(ctx context.Context) control.Phase {
	start := time.Now()

	r.sim.Step()
	msg := r.sim.Message()

	for _, s := range r.sinks {
		if err := s.OnFrame(ctx, msg); err != nil {
			name := fmt.Sprintf("%T", s)
			r.logger.Error("frame sink failed", "sink", name, "seq", msg.Sequence, "err", err)
			r.metrics.RecordSinkError(name)
		}
	}

	phase := r.sim.State().Phase
	r.metrics.RecordFrame(time.Since(start), phase, msg.OrbitTime)
	return phase
}

// Close closes every sink and returns the first error. Run calls it when
// its context is done; call it directly only if Run never starts.
func (r *Runner) Close() error {
	var first error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
