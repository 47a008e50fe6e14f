package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// rollVelocity applies one grounded step of slope acceleration and material
// friction to the horizontal velocity v. prevHeading is the heading at the
// start of the step, used to keep slow balls from snapping to a new
// direction. variation is a value in [-1, 1] scaled by FrictionJitter.
func rollVelocity(v mgl64.Vec3, prevHeading mgl64.Vec3, hasHeading bool, s surfaceSample, p *Params, dt, variation float64) mgl64.Vec3 {
	v = horizontal(v)
	f := factorsFor(s.material)
	speed := v.Len()

	n := s.normal
	sinSlope := math.Sqrt(math.Max(0, 1-n.Y()*n.Y()))
	slopeAcc := p.Gravity * sinSlope * p.SlopeFactor
	holding := speed < p.StopSpeed && slopeAcc <= f.baseFriction+f.lowSpeedFriction
	if downhill, ok := horizontalDir(n); ok && !holding {
		acc := downhill.Mul(slopeAcc)
		if heading, ok := horizontalDir(v); ok {
			if c := heading.Dot(downhill); c < 0 {
				acc = acc.Add(heading.Mul(c * p.UphillDrag * slopeAcc))
			}
		}
		v = v.Add(acc.Mul(dt))
	}

	speed = v.Len()
	if speed == 0 {
		return mgl64.Vec3{}
	}

	decel := f.baseFriction + f.rollingFriction*speed
	if speed < p.LowSpeedThreshold {
		ramp := 1 - speed/p.LowSpeedThreshold
		decel += f.lowSpeedFriction * ramp * ramp
	}
	decel *= 1 + variation*p.FrictionJitter

	newSpeed := math.Max(0, speed-decel*dt)
	if newSpeed == 0 {
		return mgl64.Vec3{}
	}

	dir := v.Mul(1 / speed)
	if hasHeading && newSpeed < p.SlidingSpeed {
		blended := prevHeading.Mul(1 - p.InertiaBlend).Add(dir.Mul(p.InertiaBlend))
		if l := blended.Len(); l > 1e-9 {
			dir = blended.Mul(1 / l)
		}
	}
	return dir.Mul(newSpeed)
}

// roll moves a grounded ball to the candidate point, keeps it on the surface
// and applies the rolling model. The vertical velocity gained during
// integration is dropped; rollVelocity supplies all slope acceleration.
func (b *Ball) roll(candidate mgl64.Vec3, prevHeading mgl64.Vec3, hasHeading bool, dt float64) {
	s := b.sample(candidate.X(), candidate.Z())
	v := horizontal(b.state.Velocity)

	b.state.Velocity = rollVelocity(v, prevHeading, hasHeading, s, &b.params, dt, b.variation())
	b.state.Position = mgl64.Vec3{candidate.X(), s.height + b.params.Radius + b.params.Clearance, candidate.Z()}
}

// leavesGround reports whether the terrain falls away under a rolling ball
// faster than the tangent plane at its previous contact, as over a crest.
// It returns the velocity the ball leaves the ground with.
func (b *Ball) leavesGround(from, candidate mgl64.Vec3) (mgl64.Vec3, bool) {
	p := &b.params
	v := b.state.Velocity
	if horizontal(v).Len() <= p.CrestLaunchSpeed {
		return v, false
	}

	prev := b.sample(from.X(), from.Z())
	n := prev.normal
	if n.Y() < 1e-3 {
		return v, false
	}
	dx := candidate.X() - from.X()
	dz := candidate.Z() - from.Z()
	planeHeight := prev.height - (n.X()*dx+n.Z()*dz)/n.Y()

	next := b.sample(candidate.X(), candidate.Z())
	if next.height >= planeHeight-p.CrestGap {
		return v, false
	}

	v[1] = -(n.X()*v.X() + n.Z()*v.Z()) / n.Y()
	return v, true
}
