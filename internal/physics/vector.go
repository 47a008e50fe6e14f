package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var up = mgl64.Vec3{0, 1, 0}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

// horizontal drops the vertical component.
func horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// horizontalDir returns the unit horizontal direction of v, or false when v
// has no meaningful horizontal extent.
func horizontalDir(v mgl64.Vec3) (mgl64.Vec3, bool) {
	h := horizontal(v)
	l := h.Len()
	if l < 1e-9 || !finite(l) {
		return mgl64.Vec3{}, false
	}
	return h.Mul(1 / l), true
}

// clampLength limits the magnitude of v to max.
func clampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// impactAngle is the angle in degrees between the incoming direction and the
// surface plane: 0 grazes, 90 hits head on.
func impactAngle(v, n mgl64.Vec3) float64 {
	speed := v.Len()
	if speed == 0 {
		return 0
	}
	s := clamp(-v.Dot(n)/speed, -1, 1)
	return mgl64.RadToDeg(math.Asin(s))
}

// approachAngle is the angle in degrees between the horizontal heading and the
// horizontal downhill direction of the surface. Above 90 the ball runs into
// the face of a slope; below it the ball lands running away downhill. Level
// surfaces and vertical drops report 90.
func approachAngle(v, n mgl64.Vec3) float64 {
	heading, ok := horizontalDir(v)
	if !ok {
		return 90
	}
	downhill := horizontal(n)
	if downhill.Len() < 0.02 {
		return 90
	}
	downhill = downhill.Normalize()
	return mgl64.RadToDeg(math.Acos(clamp(heading.Dot(downhill), -1, 1)))
}
