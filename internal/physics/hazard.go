package physics

import "github.com/go-gl/mathgl/mgl64"

// isHazardPoint reports whether a ball centred at pos is in the water: its
// centre is at or below the water level, or it sits on water-tagged ground
// within WaterTolerance of the surface.
func (b *Ball) isHazardPoint(pos mgl64.Vec3) bool {
	p := &b.params
	if pos.Y() <= p.WaterLevel {
		return true
	}
	return b.terrain.MaterialAt(pos.X(), pos.Z()) == MaterialWater &&
		pos.Y()-p.Radius <= p.WaterLevel+p.WaterTolerance
}

// checkBoundsAndHazards returns the ball to its last safe position when it
// has left the playable area or entered water.
func (b *Ball) checkBoundsAndHazards() {
	pos := b.state.Position
	if !b.params.Bounds.Contains(pos) {
		b.listener.OnOutOfBounds(pos)
		b.recover()
		return
	}
	if !b.state.IsInHazard && b.isHazardPoint(pos) {
		b.HandleHazardEntry()
	}
}

// HandleHazardEntry flags the ball as in a hazard, damps its motion and puts
// it back on its last safe position. It does nothing when the ball is
// already flagged. The flag stays set until the next Hit or Reset.
func (b *Ball) HandleHazardEntry() {
	if b.state.IsInHazard {
		return
	}
	b.state.IsInHazard = true
	b.state.Velocity = b.state.Velocity.Mul(b.params.HazardDamping)
	b.listener.OnHazardEntry(b.state.Position)
	b.recover()
}

// recover places the ball at its last safe position, falling back to the tee
// if that position is itself unusable.
func (b *Ball) recover() {
	target := b.state.LastSafePosition
	if !finiteVec(target) || !b.params.Bounds.Contains(target) {
		target = b.params.Tee
	}
	inHazard := b.state.IsInHazard
	b.placeAt(target)
	b.state.IsInHazard = inHazard
}
