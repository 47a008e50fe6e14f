package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/playmatatu/fairway/internal/physics"
)

// ShotInput is what the player asked for.
type ShotInput struct {
	Power       float64 `json:"power"`
	DirectionX  float64 `json:"direction_x"`
	DirectionZ  float64 `json:"direction_z"`
	LoftDegrees float64 `json:"loft_degrees"`
	SideSpin    float64 `json:"side_spin"`
}

// Direction is the horizontal aim as a vector.
func (in ShotInput) Direction() mgl64.Vec3 {
	return mgl64.Vec3{in.DirectionX, 0, in.DirectionZ}
}

// ShotSummary describes a finished (or in-flight) shot.
type ShotSummary struct {
	Number        int        `json:"number" msgpack:"number"`
	Input         ShotInput  `json:"input" msgpack:"input"`
	Start         mgl64.Vec3 `json:"start" msgpack:"start"`
	End           mgl64.Vec3 `json:"end" msgpack:"end"`
	Carry         float64    `json:"carry" msgpack:"carry"`
	TotalDistance float64    `json:"total_distance" msgpack:"total_distance"`
	Apex          float64    `json:"apex" msgpack:"apex"`
	Bounces       int        `json:"bounces" msgpack:"bounces"`
	Hazard        bool       `json:"hazard" msgpack:"hazard"`
	OutOfBounds   bool       `json:"out_of_bounds" msgpack:"out_of_bounds"`
	FinalMaterial string     `json:"final_material" msgpack:"final_material"`
}

// ShotTracker listens to one ball and builds the summary of the shot in
// progress. It also queues the ball notifications as session events.
type ShotTracker struct {
	ball    *physics.Ball
	terrain physics.Terrain

	pending *ShotInput
	number  int
	current *ShotSummary
	landed  bool
	events  []Event
}

// NewShotTracker returns a tracker for balls rolling over terrain. Call
// Attach once the ball exists.
func NewShotTracker(terrain physics.Terrain) *ShotTracker {
	return &ShotTracker{terrain: terrain}
}

// Attach binds the tracker to the ball it listens to.
func (t *ShotTracker) Attach(ball *physics.Ball) {
	t.ball = ball
}

// Arm records the input of the next hit. The shot starts when the ball
// reports OnHit.
func (t *ShotTracker) Arm(number int, input ShotInput) {
	t.pending = &input
	t.number = number
}

// Disarm drops an input whose hit was rejected.
func (t *ShotTracker) Disarm() {
	t.pending = nil
}

// Abandon drops the shot in progress and any pending input, as when the ball
// is reset mid-flight. It returns the number of the dropped shot, or 0.
func (t *ShotTracker) Abandon() int {
	n := 0
	if t.current != nil {
		n = t.current.Number
	}
	t.current = nil
	t.pending = nil
	t.landed = false
	return n
}

// Active reports whether a shot is in progress.
func (t *ShotTracker) Active() bool {
	return t.current != nil
}

func (t *ShotTracker) position() mgl64.Vec3 {
	if t.ball == nil {
		return mgl64.Vec3{}
	}
	return t.ball.State().Position
}

func (t *ShotTracker) OnHit(power float64) {
	input := ShotInput{Power: power}
	if t.pending != nil {
		input = *t.pending
	}
	start := t.position()
	t.current = &ShotSummary{Number: t.number, Input: input, Start: start, End: start}
	t.landed = false
	t.pending = nil
	t.events = append(t.events, Event{Type: EventHit, Data: map[string]interface{}{
		"shot":  t.number,
		"power": power,
	}})
}

func (t *ShotTracker) OnImpact(speed float64, normal mgl64.Vec3) {
	pos := t.position()
	if t.current != nil {
		t.current.Bounces++
		if !t.landed {
			t.current.Carry = horizontalDistance(t.current.Start, pos)
			t.landed = true
		}
	}
	t.events = append(t.events, Event{Type: EventImpact, Data: map[string]interface{}{
		"speed":    speed,
		"normal":   normal,
		"position": pos,
	}})
}

func (t *ShotTracker) OnStopped() {
	pos := t.position()
	if t.current != nil && !t.current.Hazard && !t.current.OutOfBounds {
		t.current.End = pos
	}
	t.events = append(t.events, Event{Type: EventStopped, Data: map[string]interface{}{"position": pos}})
}

func (t *ShotTracker) OnHazardEntry(position mgl64.Vec3) {
	if t.current != nil {
		t.current.Hazard = true
		t.current.End = position
	}
	t.events = append(t.events, Event{Type: EventHazard, Data: map[string]interface{}{"position": position}})
}

func (t *ShotTracker) OnOutOfBounds(position mgl64.Vec3) {
	if t.current != nil {
		t.current.OutOfBounds = true
		t.current.End = position
	}
	t.events = append(t.events, Event{Type: EventOutOfBounds, Data: map[string]interface{}{"position": position}})
}

// Observe updates the apex after a simulation tick.
func (t *ShotTracker) Observe() {
	if t.current == nil {
		return
	}
	if h := t.position().Y() - t.current.Start.Y(); h > t.current.Apex {
		t.current.Apex = h
	}
}

// Finish closes the shot once the ball is at rest again. It returns nil when
// no shot is in progress or the ball is still moving.
func (t *ShotTracker) Finish() *ShotSummary {
	if t.current == nil || t.ball == nil || !t.ball.State().IsResting {
		return nil
	}
	shot := t.current
	t.current = nil

	if !shot.Hazard && !shot.OutOfBounds {
		shot.End = t.position()
	}
	shot.TotalDistance = horizontalDistance(shot.Start, shot.End)
	if !t.landed {
		shot.Carry = shot.TotalDistance
	}
	if t.terrain != nil {
		shot.FinalMaterial = t.terrain.MaterialAt(shot.End.X(), shot.End.Z()).String()
	}
	return shot
}

// Drain returns and clears the queued events.
func (t *ShotTracker) Drain() []Event {
	if len(t.events) == 0 {
		return nil
	}
	out := t.events
	t.events = nil
	return out
}

func horizontalDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(b.X()-a.X(), b.Z()-a.Z())
}
