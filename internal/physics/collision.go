package physics

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

// contact is a resolved touch between the ball and the terrain.
type contact struct {
	position mgl64.Vec3 // ball centre at contact
	normal   mgl64.Vec3
	material Material
}

// sample queries the terrain at (x, z). Non-finite answers are replaced by
// the last valid height and an upward normal so that NaN never reaches the
// ball state.
func (b *Ball) sample(x, z float64) surfaceSample {
	h := b.terrain.HeightAt(x, z)
	if finite(h) {
		b.lastValidHeight = h
	} else {
		if !b.warnedHeight {
			log.Printf("[PHYSICS] non-finite terrain height at (%.2f, %.2f); using last valid height %.3f", x, z, b.lastValidHeight)
			b.warnedHeight = true
		}
		h = b.lastValidHeight
	}

	return surfaceSample{
		height:   h,
		normal:   b.sanitizeNormal(b.terrain.NormalAt(x, z), x, z),
		material: b.terrain.MaterialAt(x, z),
	}
}

func (b *Ball) sanitizeNormal(n mgl64.Vec3, x, z float64) mgl64.Vec3 {
	l := n.Len()
	if !finiteVec(n) || !finite(l) || l < 1e-9 {
		if !b.warnedNormal {
			log.Printf("[PHYSICS] degenerate terrain normal at (%.2f, %.2f); using up vector", x, z)
			b.warnedNormal = true
		}
		return up
	}
	n = n.Mul(1 / l)
	if n.Y() < 0 {
		n = n.Mul(-1)
	}
	return n
}

// restHeight is the centre height of a ball sitting on the surface sample.
func (b *Ball) restHeight(s surfaceSample) float64 {
	return s.height + b.params.Radius + b.params.Clearance
}

// correctEmbedding lifts a ball found inside the terrain back onto it and
// removes any velocity pointing into the surface. It acts as a zero-duration
// contact and reports whether a correction happened.
func (b *Ball) correctEmbedding() bool {
	pos := b.state.Position
	s := b.sample(pos.X(), pos.Z())
	if pos.Y()-b.params.Radius >= s.height-b.params.ContactEpsilon {
		return false
	}

	b.state.Position = mgl64.Vec3{pos.X(), b.restHeight(s), pos.Z()}
	if vn := b.state.Velocity.Dot(s.normal); vn < 0 {
		b.state.Velocity = b.state.Velocity.Sub(s.normal.Mul(vn))
	}
	return true
}

// findContact tests the path from -> candidate against the terrain. The swept
// query is extended by the radius so that the leading edge of the ball is
// covered; a direct height check at the candidate catches anything the ray
// misses.
func (b *Ball) findContact(from, candidate mgl64.Vec3) (contact, bool) {
	r := b.params.Radius
	delta := candidate.Sub(from)
	dist := delta.Len()

	if dist > 1e-9 {
		dir := delta.Mul(1 / dist)
		if point, n, ok := b.terrain.IntersectSweptPath(from, dir, dist+r); ok && finiteVec(point) {
			n = b.sanitizeNormal(n, point.X(), point.Z())
			pos := point.Add(n.Mul(r + b.params.Clearance))
			s := b.sample(pos.X(), pos.Z())
			if pos.Y() < b.restHeight(s) {
				pos[1] = b.restHeight(s)
			}
			return contact{position: pos, normal: n, material: b.terrain.MaterialAt(point.X(), point.Z())}, true
		}
	}

	s := b.sample(candidate.X(), candidate.Z())
	if candidate.Y()-r < s.height {
		return contact{
			position: mgl64.Vec3{candidate.X(), b.restHeight(s), candidate.Z()},
			normal:   s.normal,
			material: s.material,
		}, true
	}
	return contact{}, false
}

// resolveAirborne moves a flying ball to its candidate position or, when the
// path meets the terrain, to the contact point and classifies the impact.
func (b *Ball) resolveAirborne(candidate mgl64.Vec3) {
	c, ok := b.findContact(b.state.Position, candidate)
	if !ok {
		b.state.Position = candidate
		return
	}
	b.state.Position = c.position
	b.handleContact(c)
}

// handleContact picks between a skim, a soft landing and a full bounce.
func (b *Ball) handleContact(c contact) {
	p := &b.params
	v := b.state.Velocity
	n := c.normal
	vn := v.Dot(n)
	if vn >= 0 {
		return
	}

	speed := v.Len()
	angle := impactAngle(v, n)
	level := n.Y() > p.FlatNormalY

	switch {
	case angle < p.SkimAngle && level:
		b.skim(v, n, vn, speed)

	case level && -vn < p.LowBounceNormalSpeed && speed < p.BounceWorthySpeed:
		b.state.Velocity = v.Sub(n.Mul(vn))
		b.land()

	default:
		out := b.bounce(n, c.material)
		if outN := out.Dot(n); outN < p.MinBounceSpeed {
			b.state.Velocity = out.Sub(n.Mul(outN))
			b.land()
			return
		}
		b.state.Velocity = out
	}
}

// skim handles a shallow impact on level ground: a reduced rebound and a
// small tangential loss instead of a full bounce.
func (b *Ball) skim(v, n mgl64.Vec3, vn, speed float64) {
	p := &b.params
	tangent := v.Sub(n.Mul(vn)).Mul(1 - p.SkimFriction)
	rebound := -vn * p.SkimRebound
	out := tangent.Add(n.Mul(rebound))

	b.listener.OnImpact(speed, n)
	if out.Len() < p.RollTransitionSpeed || rebound < p.MinBounceSpeed {
		b.state.Velocity = tangent
		b.land()
		return
	}
	b.state.Velocity = out
}

// land switches the ball to grounded rolling.
func (b *Ball) land() {
	b.state.IsAirborne = false
	b.state.Velocity[1] = 0
	b.state.StationaryFrames = 0
}

// resolveGrounded keeps a rolling ball on the terrain, letting it take off
// again when the ground falls away beneath it.
func (b *Ball) resolveGrounded(candidate mgl64.Vec3, prevHeading mgl64.Vec3, hasHeading bool, dt float64) {
	from := b.state.Position
	if v, ok := b.leavesGround(from, candidate); ok {
		b.state.Velocity = v
		b.state.IsAirborne = true
		b.state.StationaryFrames = 0
		b.state.Position = from.Add(v.Mul(dt))
		return
	}
	b.roll(candidate, prevHeading, hasHeading, dt)
}
