package catalog

import (
	"fmt"
	"math"
	"os"

	errorsmod "cosmossdk.io/errors"
	"gopkg.in/yaml.v3"

	"github.com/oxygene76/orrery/internal/types"
)

// Catalog is an immutable, ordered set of bodies with one center body.
// The center is always first.
type Catalog struct {
	bodies []Body
	index  map[BodyID]int
}

// New validates and builds a catalog
func New(center Body, planets ...Body) (*Catalog, error) {
	if center.OrbitDistance != 0 {
		return nil, errorsmod.Wrapf(types.ErrInvalidCatalog, "center body %q must have orbit distance 0", center.ID)
	}

	c := &Catalog{
		bodies: make([]Body, 0, len(planets)+1),
		index:  make(map[BodyID]int, len(planets)+1),
	}
	for _, b := range append([]Body{center}, planets...) {
		if err := validateBody(b); err != nil {
			return nil, err
		}
		if _, dup := c.index[b.ID]; dup {
			return nil, errorsmod.Wrapf(types.ErrInvalidCatalog, "duplicate body id %q", b.ID)
		}
		c.index[b.ID] = len(c.bodies)
		c.bodies = append(c.bodies, b)
	}
	return c, nil
}

func validateBody(b Body) error {
	if b.ID == "" {
		return errorsmod.Wrapf(types.ErrInvalidCatalog, "body %q has empty id", b.Name)
	}
	for name, v := range map[string]float64{
		"radius":         b.Radius,
		"orbit_distance": b.OrbitDistance,
		"orbit_speed":    b.OrbitSpeed,
		"rotation_speed": b.RotationSpeed,
		"axial_tilt":     b.AxialTilt,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errorsmod.Wrapf(types.ErrInvalidCatalog, "body %q: %s is not finite", b.ID, name)
		}
	}
	if b.Radius < 0 {
		return errorsmod.Wrapf(types.ErrInvalidCatalog, "body %q: negative radius", b.ID)
	}
	if b.OrbitDistance < 0 {
		return errorsmod.Wrapf(types.ErrInvalidCatalog, "body %q: negative orbit distance", b.ID)
	}
	return nil
}

// Bodies returns the bodies in catalog order, center first
func (c *Catalog) Bodies() []Body {
	out := make([]Body, len(c.bodies))
	copy(out, c.bodies)
	return out
}

// Planets returns every body except the center
func (c *Catalog) Planets() []Body {
	out := make([]Body, len(c.bodies)-1)
	copy(out, c.bodies[1:])
	return out
}

// Center returns the center body
func (c *Catalog) Center() Body {
	return c.bodies[0]
}

// IsCenter reports whether id names the center body
func (c *Catalog) IsCenter(id BodyID) bool {
	return c.bodies[0].ID == id
}

// Lookup finds a body by id
func (c *Catalog) Lookup(id BodyID) (Body, bool) {
	i, ok := c.index[id]
	if !ok {
		return Body{}, false
	}
	return c.bodies[i], true
}

// Contains reports whether id is in the catalog
func (c *Catalog) Contains(id BodyID) bool {
	_, ok := c.index[id]
	return ok
}

// At returns the body at position i in catalog order
func (c *Catalog) At(i int) (Body, bool) {
	if i < 0 || i >= len(c.bodies) {
		return Body{}, false
	}
	return c.bodies[i], true
}

// Len returns the number of bodies including the center
func (c *Catalog) Len() int {
	return len(c.bodies)
}

// catalogFile is the YAML layout of a catalog file
type catalogFile struct {
	Center Body   `yaml:"center"`
	Bodies []Body `yaml:"bodies"`
}

// Parse reads a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidCatalog, "parse: %v", err)
	}
	return New(f.Center, f.Bodies...)
}

// LoadFile reads a YAML catalog from disk
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal encodes the catalog in the format Parse accepts
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(catalogFile{Center: c.Center(), Bodies: c.Planets()})
}
