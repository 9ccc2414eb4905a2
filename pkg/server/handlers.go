package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	astromath "github.com/oxygene76/orrery/pkg/astronomy/math"
	"github.com/oxygene76/orrery/pkg/orrery/simulation"
)

type valueRequest struct {
	Value *float64 `json:"value"`
}

type anchorRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

func (s *Server) handleBodies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sim.BodyInfos())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sim.Current())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w)
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	s.sim.TogglePause()
	s.writeState(w)
}

func (s *Server) handleSetSpeed(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.sim.SetSpeed(v)
	s.writeState(w)
}

func (s *Server) handleSetScale(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.sim.SetScale(v)
	s.writeState(w)
}

func (s *Server) handleToggleSkybox(w http.ResponseWriter, r *http.Request) {
	s.sim.ToggleSkybox()
	s.writeState(w)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := catalog.BodyID(mux.Vars(r)["id"])
	if !s.sim.Catalog().Contains(id) {
		http.Error(w, fmt.Sprintf("Body %q not found", id), http.StatusNotFound)
		return
	}
	s.sim.SelectBody(id)
	s.writeState(w)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.sim.ClearSelection()
	s.writeState(w)
}

func (s *Server) handleAdvanceStartup(w http.ResponseWriter, r *http.Request) {
	s.sim.AdvanceStartup()
	s.writeState(w)
}

func (s *Server) handleSetAnchor(w http.ResponseWriter, r *http.Request) {
	var req anchorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.X == nil || req.Y == nil || req.Z == nil {
		http.Error(w, "x, y and z are required", http.StatusBadRequest)
		return
	}

	v := astromath.Vector3{X: *req.X, Y: *req.Y, Z: *req.Z}
	if !v.IsFinite() {
		http.Error(w, "Anchor must be finite", http.StatusBadRequest)
		return
	}
	s.sim.SetAnchor(v)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"anchor": map[string]float64{"x": v.X, "y": v.Y, "z": v.Z},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"phase":  s.sim.State().Phase.String(),
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) writeState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, simulation.ControlSnapshot(s.sim.State()))
}

func decodeValue(w http.ResponseWriter, r *http.Request) (float64, bool) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return 0, false
	}
	return *req.Value, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
