package physics

import "github.com/go-gl/mathgl/mgl64"

// detectRest counts consecutive grounded sub-steps below StopSpeed and
// freezes the ball once the count passes RestFrames.
func (b *Ball) detectRest() {
	if b.state.IsAirborne || b.state.IsResting {
		b.state.StationaryFrames = 0
		return
	}

	if b.state.Velocity.Len() >= b.params.StopSpeed {
		b.state.StationaryFrames = 0
		return
	}

	b.state.StationaryFrames++
	if b.state.StationaryFrames > b.params.RestFrames {
		b.settle()
	}
}

// settle zeroes all motion, snaps the ball onto the surface and marks it
// resting.
func (b *Ball) settle() {
	pos := b.state.Position
	s := b.sample(pos.X(), pos.Z())
	b.state.Position = mgl64.Vec3{pos.X(), b.restHeight(s), pos.Z()}
	b.state.PreviousPosition = b.state.Position
	b.state.Velocity = mgl64.Vec3{}
	b.state.VerticalSpin = 0
	b.state.HorizontalSpin = 0
	b.state.IsResting = true
	b.state.IsAirborne = false
	b.state.StationaryFrames = 0
	if !b.isHazardPoint(b.state.Position) && b.params.Bounds.Contains(b.state.Position) {
		b.state.LastSafePosition = b.state.Position
	}
	b.listener.OnStopped()
}
