package terrain

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/playmatatu/fairway/internal/physics"
)

// Plane is a level surface of one material, used by the built-in flat range.
type Plane struct {
	Height   float64
	Material physics.Material
}

func (p Plane) HeightAt(x, z float64) float64 {
	return p.Height
}

func (p Plane) NormalAt(x, z float64) mgl64.Vec3 {
	return mgl64.Vec3{0, 1, 0}
}

func (p Plane) MaterialAt(x, z float64) physics.Material {
	return p.Material
}

// IntersectSweptPath solves the ray/plane intersection. Rays starting below
// the plane or moving away from it never hit.
func (p Plane) IntersectSweptPath(origin, direction mgl64.Vec3, maxDistance float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	if direction.Y() >= 0 || origin.Y() < p.Height {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	t := (p.Height - origin.Y()) / direction.Y()
	if t < 0 || t > maxDistance {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return origin.Add(direction.Mul(t)), mgl64.Vec3{0, 1, 0}, true
}
