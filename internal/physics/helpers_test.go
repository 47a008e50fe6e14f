package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const frame = 1.0 / 60

// funcTerrain builds a terrain from a height and a material function. Normals
// come from central differences and swept queries march the ray in small
// steps, which is enough for the shapes used in these tests.
type funcTerrain struct {
	height   func(x, z float64) float64
	material func(x, z float64) Material
}

func (t funcTerrain) HeightAt(x, z float64) float64 {
	return t.height(x, z)
}

func (t funcTerrain) NormalAt(x, z float64) mgl64.Vec3 {
	const e = 0.01
	dx := t.height(x+e, z) - t.height(x-e, z)
	dz := t.height(x, z+e) - t.height(x, z-e)
	return mgl64.Vec3{-dx, 2 * e, -dz}.Normalize()
}

func (t funcTerrain) MaterialAt(x, z float64) Material {
	if t.material == nil {
		return MaterialFairway
	}
	return t.material(x, z)
}

func (t funcTerrain) IntersectSweptPath(origin, direction mgl64.Vec3, maxDistance float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	const step = 0.01
	below := func(d float64) bool {
		p := origin.Add(direction.Mul(d))
		h := t.height(p.X(), p.Z())
		return !math.IsNaN(h) && p.Y() <= h
	}
	if below(0) {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	prev := 0.0
	for d := step; d < maxDistance+step; d += step {
		if d > maxDistance {
			d = maxDistance
		}
		if below(d) {
			lo, hi := prev, d
			for i := 0; i < 20; i++ {
				mid := (lo + hi) / 2
				if below(mid) {
					hi = mid
				} else {
					lo = mid
				}
			}
			p := origin.Add(direction.Mul(hi))
			p[1] = t.height(p.X(), p.Z())
			return p, t.NormalAt(p.X(), p.Z()), true
		}
		prev = d
	}
	return mgl64.Vec3{}, mgl64.Vec3{}, false
}

func flatTerrain(m Material) funcTerrain {
	return funcTerrain{
		height:   func(x, z float64) float64 { return 0 },
		material: func(x, z float64) Material { return m },
	}
}

// recorder counts listener calls and keeps the impact speeds in order.
type recorder struct {
	hits         int
	impacts      []float64
	stops        int
	hazards      int
	outOfBounds  int
	lastHazardAt mgl64.Vec3
}

func (r *recorder) OnHit(power float64) { r.hits++ }

func (r *recorder) OnImpact(speed float64, normal mgl64.Vec3) {
	r.impacts = append(r.impacts, speed)
}

func (r *recorder) OnStopped() { r.stops++ }

func (r *recorder) OnHazardEntry(position mgl64.Vec3) {
	r.hazards++
	r.lastHazardAt = position
}

func (r *recorder) OnOutOfBounds(position mgl64.Vec3) { r.outOfBounds++ }

// runUntilRest updates the ball until it rests or maxFrames pass, calling
// check after every frame. It returns the number of frames run.
func runUntilRest(b *Ball, maxFrames int, check func(frame int)) int {
	for i := 1; i <= maxFrames; i++ {
		b.Update(frame)
		if check != nil {
			check(i)
		}
		if b.State().IsResting {
			return i
		}
	}
	return maxFrames
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
