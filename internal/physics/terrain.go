package physics

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Material classifies the surface under a point of the course.
type Material int

const (
	MaterialDefault Material = iota
	MaterialGreen
	MaterialFairway
	MaterialRough
	MaterialBunker
	MaterialCartPath
	MaterialWater
)

var materialNames = map[Material]string{
	MaterialDefault:  "default",
	MaterialGreen:    "green",
	MaterialFairway:  "fairway",
	MaterialRough:    "rough",
	MaterialBunker:   "bunker",
	MaterialCartPath: "cart_path",
	MaterialWater:    "water",
}

func (m Material) String() string {
	if name, ok := materialNames[m]; ok {
		return name
	}
	return "default"
}

// ParseMaterial maps a material name to its Material. Both "cart_path" and
// "cartPath" are accepted.
func ParseMaterial(name string) (Material, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "cartpath" {
		key = "cart_path"
	}
	for m, n := range materialNames {
		if n == key {
			return m, nil
		}
	}
	return MaterialDefault, fmt.Errorf("unknown material %q", name)
}

func (m Material) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Material) UnmarshalText(text []byte) error {
	parsed, err := ParseMaterial(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Terrain is the landscape the ball collides with. Implementations must be
// synchronous and must not retain the ball.
type Terrain interface {
	HeightAt(x, z float64) float64
	// NormalAt returns the unit surface normal, pointing up.
	NormalAt(x, z float64) mgl64.Vec3
	MaterialAt(x, z float64) Material
	// IntersectSweptPath casts a ray from origin along the unit direction and
	// reports the first surface point within maxDistance.
	IntersectSweptPath(origin, direction mgl64.Vec3, maxDistance float64) (point, normal mgl64.Vec3, ok bool)
}

// surfaceFactors are the per-material coefficients used by the bounce and
// rolling models. Friction values are decelerations in m/s².
type surfaceFactors struct {
	energyLoss       float64
	spinFactor       float64
	baseFriction     float64
	rollingFriction  float64 // multiplied by speed
	lowSpeedFriction float64
}

func factorsFor(m Material) surfaceFactors {
	switch m {
	case MaterialGreen:
		return surfaceFactors{energyLoss: 0.50, spinFactor: 1.2, baseFriction: 0.45, rollingFriction: 0.08, lowSpeedFriction: 1.5}
	case MaterialFairway:
		return surfaceFactors{energyLoss: 0.55, spinFactor: 1.0, baseFriction: 0.8, rollingFriction: 0.2, lowSpeedFriction: 2.0}
	case MaterialRough:
		return surfaceFactors{energyLoss: 0.70, spinFactor: 0.6, baseFriction: 2.2, rollingFriction: 0.35, lowSpeedFriction: 3.0}
	case MaterialBunker:
		return surfaceFactors{energyLoss: 0.88, spinFactor: 0.3, baseFriction: 5.5, rollingFriction: 0.6, lowSpeedFriction: 6.0}
	case MaterialCartPath:
		return surfaceFactors{energyLoss: 0.25, spinFactor: 0.8, baseFriction: 0.3, rollingFriction: 0.05, lowSpeedFriction: 1.0}
	case MaterialWater:
		return surfaceFactors{energyLoss: 0.85, spinFactor: 0.2, baseFriction: 4.0, rollingFriction: 0.5, lowSpeedFriction: 5.0}
	case MaterialDefault:
		return surfaceFactors{energyLoss: 0.55, spinFactor: 1.0, baseFriction: 1.0, rollingFriction: 0.2, lowSpeedFriction: 2.0}
	default:
		return surfaceFactors{energyLoss: 0.55, spinFactor: 1.0, baseFriction: 1.0, rollingFriction: 0.2, lowSpeedFriction: 2.0}
	}
}

// surfaceSample is one terrain query at a horizontal point.
type surfaceSample struct {
	height   float64
	normal   mgl64.Vec3
	material Material
}
