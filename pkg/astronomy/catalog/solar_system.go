package catalog

// Body ids of the default solar system
const (
	Sun     BodyID = "sun"
	Mercury BodyID = "mercury"
	Venus   BodyID = "venus"
	Earth   BodyID = "earth"
	Mars    BodyID = "mars"
	Jupiter BodyID = "jupiter"
	Saturn  BodyID = "saturn"
	Uranus  BodyID = "uranus"
	Neptune BodyID = "neptune"
)

var defaultCatalog = mustNew(
	Body{ID: Sun, Name: "Sun", Radius: 1.0, RotationSpeed: 2.0, Color: "#FFD700",
		Description: "The star at the center of our solar system."},
	Body{ID: Mercury, Name: "Mercury", Radius: 0.1, OrbitDistance: 1.5, OrbitSpeed: 4.0, RotationSpeed: 5.0,
		Color: "#808080", Description: "The smallest planet."},
	Body{ID: Venus, Name: "Venus", Radius: 0.2, OrbitDistance: 2.0, OrbitSpeed: 3.0, RotationSpeed: -15.0,
		Color: "#FFC107", Description: "Spinning backwards."},
	Body{ID: Earth, Name: "Earth", Radius: 0.2, OrbitDistance: 2.8, OrbitSpeed: 2.5, RotationSpeed: 20.0,
		Color: "#0000FF", Description: "Our home."},
	Body{ID: Mars, Name: "Mars", Radius: 0.15, OrbitDistance: 3.5, OrbitSpeed: 2.0, RotationSpeed: 19.0,
		Color: "#FF0000", Description: "The red planet."},
	Body{ID: Jupiter, Name: "Jupiter", Radius: 0.6, OrbitDistance: 5.5, OrbitSpeed: 1.0, RotationSpeed: 45.0,
		Color: "#DEB887", Description: "Gas giant."},
	Body{ID: Saturn, Name: "Saturn", Radius: 0.5, OrbitDistance: 7.5, OrbitSpeed: 0.8, RotationSpeed: 40.0,
		Color: "#F4A460", Description: "Has rings."},
	Body{ID: Uranus, Name: "Uranus", Radius: 0.4, OrbitDistance: 9.5, OrbitSpeed: 0.6, RotationSpeed: -30.0,
		AxialTilt: 97.8, Color: "#ADD8E6", Description: "Ice giant, rolling on its side."},
	Body{ID: Neptune, Name: "Neptune", Radius: 0.4, OrbitDistance: 11.0, OrbitSpeed: 0.5, RotationSpeed: 35.0,
		Color: "#0000FF", Description: "Windy."},
)

// Default returns the built-in solar system: the Sun and eight planets
func Default() *Catalog {
	return defaultCatalog
}

func mustNew(center Body, planets ...Body) *Catalog {
	c, err := New(center, planets...)
	if err != nil {
		panic(err)
	}
	return c
}
