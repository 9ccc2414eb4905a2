package catalog

// BodyID identifies a body within a catalog
type BodyID string

// Body holds the static motion parameters of a celestial body.
// Color and Description are presentation data and never read by the
// kinematics.
type Body struct {
	ID            BodyID  `yaml:"id"`
	Name          string  `yaml:"name"`
	Radius        float64 `yaml:"radius"`         // relative size
	OrbitDistance float64 `yaml:"orbit_distance"` // relative distance from the center
	OrbitSpeed    float64 `yaml:"orbit_speed"`    // signed; negative is retrograde
	RotationSpeed float64 `yaml:"rotation_speed"` // signed, degrees per second
	AxialTilt     float64 `yaml:"axial_tilt"`     // degrees
	Color         string  `yaml:"color"`
	Description   string  `yaml:"description"`
}

// Retrograde reports whether the body revolves against the usual direction
func (b Body) Retrograde() bool {
	return b.OrbitSpeed < 0
}
