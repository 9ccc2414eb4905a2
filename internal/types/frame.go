package types

import "time"

// Vec3 is the wire form of a vector
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat is the wire form of a rotation quaternion
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BodyPose is one body's transform in a published frame.
// Position, Orientation and Scale are local to the center pivot for orbiting
// bodies; World carries the composed world-space position.
type BodyPose struct {
	ID          string  `json:"id"`
	Position    Vec3    `json:"position"`
	Orientation Quat    `json:"orientation"`
	Scale       float64 `json:"scale"`
	World       Vec3    `json:"world"`
	WorldScale  float64 `json:"world_scale"`
	Swell       float64 `json:"swell"`
	SpinDegrees float64 `json:"spin_degrees"`
}

// ControlSnapshot mirrors the control state for clients
type ControlSnapshot struct {
	Paused   bool    `json:"paused"`
	Speed    float64 `json:"speed"`
	Scale    float64 `json:"scale"`
	Selected string  `json:"selected,omitempty"`
	Phase    string  `json:"phase"`
	Skybox   bool    `json:"skybox"`
	Reveal   float64 `json:"reveal"`
}

// FrameMessage is a full simulation frame as written to sinks
type FrameMessage struct {
	Session   string          `json:"session"`
	Sequence  uint64          `json:"seq"`
	OrbitTime float64         `json:"orbit_time"`
	SpinTime  float64         `json:"spin_time"`
	Control   ControlSnapshot `json:"control"`
	Bodies    []BodyPose      `json:"bodies"`
	Timestamp time.Time       `json:"timestamp"`
}

// BodyInfo describes a catalog entry for clients
type BodyInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Radius        float64 `json:"radius"`
	OrbitDistance float64 `json:"orbit_distance"`
	OrbitSpeed    float64 `json:"orbit_speed"`
	RotationSpeed float64 `json:"rotation_speed"`
	AxialTilt     float64 `json:"axial_tilt"`
	Color         string  `json:"color"`
	Description   string  `json:"description"`
	OrbitPeriod   float64 `json:"orbit_period,omitempty"` // orbit seconds per revolution at speed 1
	SpinPeriod    float64 `json:"spin_period,omitempty"`  // seconds per self-rotation
	Center        bool    `json:"center,omitempty"`
}

// Control command names accepted on the control channel
const (
	CommandTogglePause    = "toggle_pause"
	CommandSetSpeed       = "set_speed"
	CommandSetScale       = "set_scale"
	CommandToggleSkybox   = "toggle_skybox"
	CommandSelect         = "select"
	CommandClearSelection = "clear_selection"
	CommandAdvanceStartup = "advance_startup"
	CommandSetAnchor      = "set_anchor"
)

// ControlCommand is a user action delivered over a message channel
type ControlCommand struct {
	Command string  `json:"command"`
	Value   float64 `json:"value,omitempty"`
	BodyID  string  `json:"body_id,omitempty"`
	Anchor  *Vec3   `json:"anchor,omitempty"`
}
