package stream

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/oxygene76/orrery/internal/types"
	"github.com/oxygene76/orrery/pkg/orrery/simulation"
)

// Throttled forwards at most perSecond frames to the wrapped sink and
// silently drops the rest
type Throttled struct {
	sink    simulation.FrameSink
	limiter *rate.Limiter
}

// NewThrottled wraps sink. perSecond <= 0 forwards every frame.
func NewThrottled(sink simulation.FrameSink, perSecond float64) *Throttled {
	return &Throttled{sink: sink, limiter: newLimiter(perSecond)}
}

// OnFrame forwards frame if the limiter allows it
func (t *Throttled) OnFrame(ctx context.Context, frame types.FrameMessage) error {
	if !t.limiter.Allow() {
		return nil
	}
	return t.sink.OnFrame(ctx, frame)
}

// Close closes the wrapped sink
func (t *Throttled) Close() error {
	return t.sink.Close()
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}
