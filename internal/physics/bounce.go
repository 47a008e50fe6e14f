package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// bounceResult is the outcome of one standard bounce.
type bounceResult struct {
	velocity       mgl64.Vec3
	verticalSpin   float64
	horizontalSpin float64
	restitution    float64
}

// restitutionFor returns the effective restitution for an impact. variation
// is a value in [-1, 1] scaled by RestitutionJitter.
func restitutionFor(speed float64, n mgl64.Vec3, f surfaceFactors, p *Params, variation float64) float64 {
	loss := f.energyLoss
	loss += math.Min(speed/p.SpeedLossReference, 1) * p.SpeedLossScale
	loss += (1 - n.Y()) * p.SlopeLossScale

	e := math.Max(p.RestitutionFloor, 1-loss)
	e *= 1 + variation*p.RestitutionJitter
	return clamp(e, p.RestitutionFloor, 1)
}

// computeBounce reflects the incoming velocity v off a surface with unit
// normal n. Shallow impacts keep more of their glancing motion than a mirror
// reflection would.
func computeBounce(v, n mgl64.Vec3, m Material, verticalSpin, horizontalSpin float64, p *Params, variation float64) bounceResult {
	f := factorsFor(m)
	speed := v.Len()
	angle := impactAngle(v, n)
	e := restitutionFor(speed, n, f, p, variation)

	vn := v.Dot(n)
	var out mgl64.Vec3
	if angle < p.ReflectAngle {
		out = v.Sub(n.Mul(p.GlancingReflectScale * vn))
	} else {
		out = v.Sub(n.Mul(2 * vn))
	}

	out = out.Mul(e)
	if speed < p.SlowImpactSpeed {
		out = out.Mul(p.SlowImpactPenalty)
	}

	vs, hs := impactSpin(v, n, f, verticalSpin, horizontalSpin, p)
	return bounceResult{
		velocity:       out,
		verticalSpin:   vs,
		horizontalSpin: hs,
		restitution:    e,
	}
}

// impactSpin recomputes spin after contact. Running into the face of a slope
// generates backspin, landing on a slope falling away generates topspin; both
// scale with horizontal speed and the material spin factor.
func impactSpin(v, n mgl64.Vec3, f surfaceFactors, verticalSpin, horizontalSpin float64, p *Params) (float64, float64) {
	hSpeed := horizontal(v).Len()
	approach := approachAngle(v, n)

	var generated float64
	switch {
	case approach > 90:
		generated = -hSpeed * f.spinFactor * p.ImpactSpinFactor
	case approach < p.GlancingSpinAngle:
		generated = hSpeed * f.spinFactor * p.ImpactSpinFactor
	}

	vs := clamp(generated+verticalSpin*p.SpinRetention, -p.MaxSpin, p.MaxSpin)
	hs := clamp(horizontalSpin*p.SpinRetention, -p.MaxSpin, p.MaxSpin)
	return vs, hs
}

// bounce applies a standard bounce to the ball and notifies the listener.
func (b *Ball) bounce(n mgl64.Vec3, m Material) mgl64.Vec3 {
	v := b.state.Velocity
	res := computeBounce(v, n, m, b.state.VerticalSpin, b.state.HorizontalSpin, &b.params, b.variation())
	b.state.VerticalSpin = res.verticalSpin
	b.state.HorizontalSpin = res.horizontalSpin
	b.listener.OnImpact(v.Len(), n)
	return res.velocity
}
