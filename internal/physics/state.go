package physics

import "github.com/go-gl/mathgl/mgl64"

// BallState is the persistent simulation state of the ball.
type BallState struct {
	Position         mgl64.Vec3
	PreviousPosition mgl64.Vec3
	Velocity         mgl64.Vec3
	VerticalSpin     float64 // negative is backspin
	HorizontalSpin   float64 // positive curves right
	IsAirborne       bool
	IsResting        bool
	IsInHazard       bool
	StationaryFrames int
	LastSafePosition mgl64.Vec3
}

// Snapshot is a read-only copy of the ball for presentation and persistence.
type Snapshot struct {
	Position       mgl64.Vec3 `json:"position" msgpack:"position"`
	Velocity       mgl64.Vec3 `json:"velocity" msgpack:"velocity"`
	VerticalSpin   float64    `json:"vertical_spin" msgpack:"vertical_spin"`
	HorizontalSpin float64    `json:"horizontal_spin" msgpack:"horizontal_spin"`
	IsAirborne     bool       `json:"is_airborne" msgpack:"is_airborne"`
	IsResting      bool       `json:"is_resting" msgpack:"is_resting"`
	IsInHazard     bool       `json:"is_in_hazard" msgpack:"is_in_hazard"`
	Strokes        int        `json:"strokes" msgpack:"strokes"`
}

// Listener receives ball notifications. Calls happen synchronously from
// Hit, Update, Reset and HandleHazardEntry.
type Listener interface {
	OnHit(power float64)
	OnImpact(speed float64, normal mgl64.Vec3)
	OnStopped()
	OnHazardEntry(position mgl64.Vec3)
	OnOutOfBounds(position mgl64.Vec3)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) OnHit(float64) {}
func (NopListener) OnImpact(float64, mgl64.Vec3) {}
func (NopListener) OnStopped() {}
func (NopListener) OnHazardEntry(mgl64.Vec3) {}
func (NopListener) OnOutOfBounds(mgl64.Vec3) {}
