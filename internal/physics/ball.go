package physics

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Ball owns the simulation state of one struck ball over a terrain.
//
// A Ball is not safe for concurrent use: Hit, Update and Reset must be called
// from a single goroutine, and Hit only between Update calls.
type Ball struct {
	params   Params
	terrain  Terrain
	listener Listener
	rng      *rand.Rand

	state   BallState
	strokes int

	lastValidHeight float64
	warnedHeight    bool
	warnedNormal    bool
}

// NewBall creates a ball resting on the tee. A nil listener is replaced by
// NopListener.
func NewBall(terrain Terrain, params Params, listener Listener) *Ball {
	if listener == nil {
		listener = NopListener{}
	}
	if params.MaxSubsteps < 1 {
		params.MaxSubsteps = 1
	}

	b := &Ball{
		params:   params,
		terrain:  terrain,
		listener: listener,
		rng:      rand.New(rand.NewSource(params.Seed)),
	}
	b.state.LastSafePosition = params.Tee
	b.Reset(nil)
	return b
}

// Params returns the tuning the ball was built with.
func (b *Ball) Params() Params {
	return b.params
}

// State returns a copy of the full simulation state.
func (b *Ball) State() BallState {
	return b.state
}

// Snapshot returns the read-only view consumed by presentation layers.
func (b *Ball) Snapshot() Snapshot {
	return Snapshot{
		Position:       b.state.Position,
		Velocity:       b.state.Velocity,
		VerticalSpin:   b.state.VerticalSpin,
		HorizontalSpin: b.state.HorizontalSpin,
		IsAirborne:     b.state.IsAirborne,
		IsResting:      b.state.IsResting,
		IsInHazard:     b.state.IsInHazard,
		Strokes:        b.strokes,
	}
}

// Hit launches a resting ball. power is 0-100, direction is the horizontal
// aim, loftDegrees the launch angle and sideSpin in -1..1 (positive curves
// right). It returns false and changes nothing when the ball is not resting
// or the input is unusable.
func (b *Ball) Hit(power float64, direction mgl64.Vec3, loftDegrees, sideSpin float64) bool {
	if !b.state.IsResting {
		return false
	}
	if !finite(power) || !finite(loftDegrees) || !finite(sideSpin) || !finiteVec(direction) {
		return false
	}
	heading, ok := horizontalDir(direction)
	if !ok {
		return false
	}

	p := &b.params
	power = clamp(power, 0, 100)
	sideSpin = clamp(sideSpin, -1, 1)

	speed := power / 100 * p.MaxLaunchSpeed
	loft := mgl64.DegToRad(loftDegrees)
	launch := heading.Mul(math.Cos(loft)).Add(up.Mul(math.Sin(loft))).Mul(speed)

	vs := -clamp(loftDegrees*power*p.LoftSpinFactor, -p.MaxSpin, p.MaxSpin)
	vs = clamp(vs*(1+b.variation()*p.LoftJitter), -p.MaxSpin, p.MaxSpin)
	hs := clamp(sideSpin*power*p.SideSpinFactor, -p.MaxSpin, p.MaxSpin)
	hs = clamp(hs*(1+b.variation()*p.SideJitter), -p.MaxSpin, p.MaxSpin)

	b.state.Velocity = clampLength(launch, p.MaxSpeed)
	b.state.VerticalSpin = vs
	b.state.HorizontalSpin = hs
	b.state.IsAirborne = true
	b.state.IsResting = false
	b.state.IsInHazard = false
	b.state.StationaryFrames = 0
	b.state.Position = b.state.Position.Add(mgl64.Vec3{0, p.HitNudge, 0})
	b.state.PreviousPosition = b.state.Position
	b.strokes++

	b.listener.OnHit(power)
	return true
}

// Update advances the simulation by dt seconds. A resting ball only has its
// bounds and hazard state checked.
func (b *Ball) Update(dt float64) {
	if b.state.IsResting {
		b.checkBoundsAndHazards()
		return
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	if dt > b.params.MaxDeltaTime {
		dt = b.params.MaxDeltaTime
	}

	n := b.substeps()
	h := dt / float64(n)
	for i := 0; i < n && !b.state.IsResting; i++ {
		b.step(h)
	}

	if !b.state.IsResting {
		decay := b.params.AirSpinDecay
		if !b.state.IsAirborne {
			decay = b.params.GroundSpinDecay
		}
		b.state.VerticalSpin = decaySpin(b.state.VerticalSpin, decay, dt)
		b.state.HorizontalSpin = decaySpin(b.state.HorizontalSpin, decay, dt)
	}
	b.checkBoundsAndHazards()
}

// Reset puts the ball at rest at position, or on the tee when position is
// nil. Velocity, spin and all flags are cleared. The last safe position is
// updated unless the new position is itself in a hazard or out of bounds.
func (b *Ball) Reset(position *mgl64.Vec3) {
	target := b.params.Tee
	if position != nil && finiteVec(*position) {
		target = *position
	}
	b.placeAt(target)
	if !b.isHazardPoint(b.state.Position) && b.params.Bounds.Contains(b.state.Position) {
		b.state.LastSafePosition = b.state.Position
	}
	b.warnedHeight = false
	b.warnedNormal = false
}

// placeAt puts the ball at rest at target, lifted above the terrain if it
// would otherwise be embedded.
func (b *Ball) placeAt(target mgl64.Vec3) {
	s := b.sample(target.X(), target.Z())
	if target.Y()-b.params.Radius < s.height {
		target[1] = b.restHeight(s)
	}
	b.state.Position = target
	b.state.PreviousPosition = target
	b.state.Velocity = mgl64.Vec3{}
	b.state.VerticalSpin = 0
	b.state.HorizontalSpin = 0
	b.state.IsAirborne = false
	b.state.IsResting = true
	b.state.IsInHazard = false
	b.state.StationaryFrames = 0
}

// substeps picks how many sub-steps the next update needs. Fast balls get
// more so the swept test stays short.
func (b *Ball) substeps() int {
	speed := b.state.Velocity.Len()
	if speed <= b.params.TunnelingSpeed {
		return 1
	}
	n := int(math.Ceil(speed / b.params.SubstepSpeed))
	if n < 1 {
		n = 1
	}
	if n > b.params.MaxSubsteps {
		n = b.params.MaxSubsteps
	}
	return n
}

// step runs one sub-step: integrate, collide, roll, check for rest.
func (b *Ball) step(dt float64) {
	b.correctEmbedding()

	prevHeading, hasHeading := horizontalDir(b.state.Velocity)
	b.state.PreviousPosition = b.state.Position
	grounded := !b.state.IsAirborne

	vel, candidate := integrate(b.state.Position, b.state.Velocity, b.state.VerticalSpin, b.state.HorizontalSpin, grounded, &b.params, dt)
	if !finiteVec(vel) || !finiteVec(candidate) {
		vel = mgl64.Vec3{}
		candidate = b.state.Position
	}
	b.state.Velocity = vel

	if grounded {
		b.resolveGrounded(candidate, prevHeading, hasHeading, dt)
	} else {
		b.resolveAirborne(candidate)
	}

	b.correctEmbedding()
	b.detectRest()
}

// variation returns a uniform value in [-1, 1) from the ball's own source.
func (b *Ball) variation() float64 {
	return b.rng.Float64()*2 - 1
}
