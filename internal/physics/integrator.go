package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// integrate advances velocity by one sub-step of gravity and spin forces and
// returns it together with the candidate position the ball would reach if
// nothing were in the way.
func integrate(pos, vel mgl64.Vec3, verticalSpin, horizontalSpin float64, grounded bool, p *Params, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	vel = vel.Add(mgl64.Vec3{0, -p.Gravity * dt, 0})
	vel = vel.Add(spinAcceleration(vel, verticalSpin, horizontalSpin, grounded, p).Mul(dt))
	vel = clampLength(vel, p.MaxSpeed)
	return vel, pos.Add(vel.Mul(dt))
}

// spinAcceleration converts spin into acceleration. Backspin (negative)
// lifts and slows the ball along its heading, topspin does the opposite.
// Side spin pushes along the right-hand perpendicular of the heading.
func spinAcceleration(vel mgl64.Vec3, verticalSpin, horizontalSpin float64, grounded bool, p *Params) mgl64.Vec3 {
	if grounded && math.Abs(verticalSpin) < p.SpinEpsilon && math.Abs(horizontalSpin) < p.SpinEpsilon {
		return mgl64.Vec3{}
	}

	acc := mgl64.Vec3{0, -verticalSpin*p.SpinLiftFactor + math.Abs(horizontalSpin)*p.SideSpinLiftFactor, 0}
	if heading, ok := horizontalDir(vel); ok {
		right := mgl64.Vec3{-heading.Z(), 0, heading.X()}
		acc = acc.Add(heading.Mul(verticalSpin * p.SpinForwardFactor))
		acc = acc.Add(right.Mul(horizontalSpin * p.SideSpinCurveFactor))
	}

	if grounded {
		acc = acc.Mul(p.GroundSpinForceScale)
		acc[1] = 0
	}
	return acc
}

// decaySpin applies the per-tick geometric spin decay, scaled so the decay
// rate does not depend on the frame rate.
func decaySpin(spin float64, decayPer60 float64, dt float64) float64 {
	spin *= math.Pow(decayPer60, dt*60)
	if math.Abs(spin) < 1e-3 {
		return 0
	}
	return spin
}
