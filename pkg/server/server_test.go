package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/orrery/internal/types"
	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	"github.com/oxygene76/orrery/pkg/astronomy/kinematics"
	"github.com/oxygene76/orrery/pkg/orrery/control"
	"github.com/oxygene76/orrery/pkg/orrery/simulation"
)

func newTestServer(t *testing.T) (*Server, *simulation.Simulation) {
	t.Helper()
	sim := simulation.New(catalog.Default(), kinematics.DefaultParams(), control.DefaultLimits())
	reg := prometheus.NewRegistry()
	simulation.NewMetrics(reg)
	return New(sim, nil, reg, nil), sim
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) types.ControlSnapshot {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var st types.ControlSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func TestBodiesAndFrame(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := do(t, s, "GET", "/api/v1/bodies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var bodies []types.BodyInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bodies))
	require.Len(t, bodies, 9)
	require.Equal(t, "sun", bodies[0].ID)

	rec = do(t, s, "GET", "/api/v1/frame", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var frame types.FrameMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frame))
	require.Len(t, frame.Bodies, 9)
	require.Equal(t, "loading", frame.Control.Phase)
}

func TestControlRoutes(t *testing.T) {
	t.Parallel()
	s, sim := newTestServer(t)

	require.True(t, decodeState(t, do(t, s, "POST", "/api/v1/control/pause", "")).Paused)
	require.Equal(t, -2.5, decodeState(t, do(t, s, "POST", "/api/v1/control/speed", `{"value":-2.5}`)).Speed)
	require.Equal(t, 0.5, decodeState(t, do(t, s, "POST", "/api/v1/control/scale", `{"value":0.1}`)).Scale)
	require.False(t, decodeState(t, do(t, s, "POST", "/api/v1/control/skybox", "")).Skybox)
	require.Equal(t, "welcome", decodeState(t, do(t, s, "POST", "/api/v1/control/startup/advance", "")).Phase)

	require.Equal(t, "jupiter", decodeState(t, do(t, s, "POST", "/api/v1/control/select/jupiter", "")).Selected)
	require.Empty(t, decodeState(t, do(t, s, "POST", "/api/v1/control/select/jupiter", "")).Selected, "second select toggles off")
	decodeState(t, do(t, s, "POST", "/api/v1/control/select/mars", ""))
	require.Empty(t, decodeState(t, do(t, s, "DELETE", "/api/v1/control/select", "")).Selected)

	rec := do(t, s, "PUT", "/api/v1/control/anchor", `{"x":1,"y":0,"z":-2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1.0, sim.Anchor().X)
	require.Equal(t, -2.0, sim.Anchor().Z)

	st := decodeState(t, do(t, s, "GET", "/api/v1/state", ""))
	require.True(t, st.Paused)
	require.Equal(t, -2.5, st.Speed)
}

func TestControlErrors(t *testing.T) {
	t.Parallel()
	s, sim := newTestServer(t)

	require.Equal(t, http.StatusNotFound, do(t, s, "POST", "/api/v1/control/select/pluto", "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/api/v1/control/speed", `{"speed":2}`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/api/v1/control/scale", `nope`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, s, "PUT", "/api/v1/control/anchor", `{"x":1}`).Code)
	require.Equal(t, http.StatusMethodNotAllowed, do(t, s, "GET", "/api/v1/control/pause", "").Code)

	require.Equal(t, 1.0, sim.State().Speed)
	require.False(t, sim.State().HasSelection())
}

func TestHealthMetricsAndCORS(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := do(t, s, "GET", "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, s, "OPTIONS", "/api/v1/control/speed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")

	rec = do(t, s, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "orrery_startup_phase")
}

func TestAllowedOrigins(t *testing.T) {
	t.Parallel()
	sim := simulation.New(catalog.Default(), kinematics.DefaultParams(), control.DefaultLimits())
	s := New(sim, nil, nil, nil, WithAllowedOrigins("https://orrery.example"))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://orrery.example")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, "https://orrery.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	require.Equal(t, http.StatusNotFound, do(t, s, "GET", "/metrics", "").Code, "no gatherer, no metrics route")
}
