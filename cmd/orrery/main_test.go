package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/orrery/internal/types"

	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	"github.com/oxygene76/orrery/pkg/orrery/control"
	"github.com/oxygene76/orrery/pkg/utils"
)

func TestNewSimulationFromConfig(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.Control.InitialSpeed = -2
	cfg.Control.InitialScale = 7
	cfg.Startup.Skip = true

	sim, err := newSimulation(cfg)
	require.NoError(t, err)
	st := sim.State()
	require.Equal(t, -2.0, st.Speed)
	require.Equal(t, 5.0, st.Scale)
	require.Equal(t, control.PhaseFinished, st.Phase)

	cfg.Startup.Skip = false
	sim, err = newSimulation(cfg)
	require.NoError(t, err)
	sim.Tick(0)
	require.Equal(t, control.PhaseWelcome, sim.State().Phase, "built-in catalog is ready at once")
}

func TestNewSimulationMissingCatalog(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := newSimulation(cfg)
	require.Error(t, err)
}

func TestRenderBodiesAndSummary(t *testing.T) {
	cat := catalog.Default()
	out := renderBodies(cat)
	require.Contains(t, out, "Neptune")
	require.Contains(t, out, "retrograde")
	require.Len(t, strings.Split(out, "\n"), 10)

	sim, err := newSimulation(utils.DefaultConfig())
	require.NoError(t, err)
	sim.SkipStartup()
	radii := make(map[string][]float64)
	for i := 0; i < 10; i++ {
		sim.Tick(0.5)
		collectRadii(radii, sim.Message())
	}
	require.Len(t, radii["earth"], 10)
	for _, r := range radii["earth"] {
		require.InDelta(t, radii["earth"][0], r, 1e-9, "circular orbit")
	}
	require.Contains(t, renderSummary(cat, radii, sim.Clock().OrbitTime), "Earth")
}

func serveConfig(t *testing.T) *utils.Config {
	t.Helper()
	cfg := utils.DefaultConfig()
	cfg.Startup.Skip = true
	cfg.Runner.TickRate = 200
	cfg.Output.FramesPath = filepath.Join(t.TempDir(), "frames.jsonl")
	return cfg
}

// requireCompleteFrameLog checks that every recorded line is a whole frame
// and that sequence numbers have no gaps
func requireCompleteFrameLog(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.True(t, bytes.HasSuffix(data, []byte("\n")), "last line is terminated")

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for i, line := range lines {
		var msg types.FrameMessage
		require.NoError(t, json.Unmarshal([]byte(line), &msg), "line %d", i+1)
		require.Equal(t, uint64(i+1), msg.Sequence)
	}
	return len(lines)
}

func TestRunServeFlushesFramesOnShutdown(t *testing.T) {
	cfg := serveConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, runServe(ctx, cfg, "127.0.0.1:0", log.NewNopLogger()))

	require.Greater(t, requireCompleteFrameLog(t, cfg.Output.FramesPath), 5)
}

func TestRunServeStopsFrameLoopWhenServerFails(t *testing.T) {
	cfg := serveConfig(t)

	done := make(chan error, 1)
	go func() { done <- runServe(context.Background(), cfg, "127.0.0.1:-1", log.NewNopLogger()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after the listener failed")
	}
	data, err := os.ReadFile(cfg.Output.FramesPath)
	require.NoError(t, err)
	if len(data) > 0 {
		requireCompleteFrameLog(t, cfg.Output.FramesPath)
	}
}
