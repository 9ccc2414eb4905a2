package clocktest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oxygene76/orrery/pkg/orrery/clock"
)

var _ clock.TimeProvider = (*Clock)(nil)

func TestRunLandsOnTotal(t *testing.T) {
	t.Parallel()

	start := time.Unix(50, 0)
	c := New(start)
	ticks := 0
	c.Run(2500*time.Millisecond, time.Second, func() { ticks++ })

	require.Equal(t, 3, ticks)
	require.Equal(t, start.Add(2500*time.Millisecond), c.Now())

	c.Set(start)
	require.Equal(t, start, c.Now())
}
