package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/playmatatu/fairway/internal/physics"
	"github.com/playmatatu/fairway/internal/terrain"
)

func setupTracked(ground physics.Terrain, params physics.Params) (*physics.Ball, *ShotTracker) {
	tracker := NewShotTracker(ground)
	ball := physics.NewBall(ground, params, tracker)
	tracker.Attach(ball)
	return ball, tracker
}

// playOut steps the ball until the tracker finishes the shot.
func playOut(t *testing.T, ball *physics.Ball, tracker *ShotTracker) *ShotSummary {
	t.Helper()
	for i := 0; i < 60*180; i++ {
		ball.Update(1.0 / 60)
		tracker.Observe()
		if shot := tracker.Finish(); shot != nil {
			return shot
		}
	}
	t.Fatal("shot never finished")
	return nil
}

func TestTrackerIdleWithoutShot(t *testing.T) {
	_, tracker := setupTracked(terrain.Plane{Material: physics.MaterialFairway}, physics.DefaultParams())
	if tracker.Active() {
		t.Error("tracker active before any hit")
	}
	if tracker.Finish() != nil {
		t.Error("Finish returned a shot before any hit")
	}
	if events := tracker.Drain(); events != nil {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestTrackerSummarisesShot(t *testing.T) {
	ball, tracker := setupTracked(terrain.Plane{Material: physics.MaterialRough}, physics.DefaultParams())

	input := ShotInput{Power: 30, DirectionX: 1, DirectionZ: 0, LoftDegrees: 25}
	tracker.Arm(3, input)
	if !ball.Hit(input.Power, input.Direction(), input.LoftDegrees, input.SideSpin) {
		t.Fatal("hit rejected")
	}
	if !tracker.Active() {
		t.Fatal("tracker not active after hit")
	}

	shot := playOut(t, ball, tracker)
	if shot.Number != 3 || shot.Input != input {
		t.Errorf("shot number/input = %d/%+v", shot.Number, shot.Input)
	}
	if shot.Carry <= 0 || shot.TotalDistance <= 0 {
		t.Errorf("carry=%.2f total=%.2f", shot.Carry, shot.TotalDistance)
	}
	if shot.End.X() <= 0 {
		t.Errorf("ball should travel toward +x, end=%v", shot.End)
	}
	if shot.FinalMaterial != "rough" {
		t.Errorf("final material = %q, want rough", shot.FinalMaterial)
	}
	if tracker.Active() {
		t.Error("tracker still active after Finish")
	}

	events := tracker.Drain()
	if len(events) < 3 || events[0].Type != EventHit || events[len(events)-1].Type != EventStopped {
		t.Errorf("events = %+v", events)
	}
	if tracker.Drain() != nil {
		t.Error("Drain should clear the queue")
	}
}

func TestTrackerDisarmDropsInput(t *testing.T) {
	ball, tracker := setupTracked(terrain.Plane{Material: physics.MaterialFairway}, physics.DefaultParams())

	tracker.Arm(1, ShotInput{Power: 99, LoftDegrees: 45})
	tracker.Disarm()
	ball.Hit(20, mgl64.Vec3{0, 0, -1}, 10, 0)

	shot := playOut(t, ball, tracker)
	if shot.Input.Power != 20 || shot.Input.LoftDegrees != 0 {
		t.Errorf("input = %+v, want only the power the ball reported", shot.Input)
	}
}

func TestTrackerMarksHazardShot(t *testing.T) {
	// Water beyond x=15, lower than the tee.
	hm := waterRange(t)
	params := physics.DefaultParams()
	params.WaterLevel = -1
	ball, tracker := setupTracked(hm, params)

	tracker.Arm(1, ShotInput{Power: 40, DirectionX: 1, LoftDegrees: 20})
	ball.Hit(40, mgl64.Vec3{1, 0, 0}, 20, 0)

	shot := playOut(t, ball, tracker)
	if !shot.Hazard {
		t.Fatal("shot into the water should be marked as hazard")
	}
	if shot.End.X() < 15 {
		t.Errorf("hazard shot should end where it entered the water, end=%v", shot.End)
	}
	state := ball.State()
	if state.Position.X() > 15 {
		t.Errorf("ball should be recovered to dry ground, at %v", state.Position)
	}
}

// waterRange is 15 m of fairway at height 0 followed by water at -1, running
// along +x.
func waterRange(t *testing.T) *terrain.Heightmap {
	t.Helper()
	const cols, rows = 81, 5
	heights := make([]float64, cols*rows)
	materials := make([]physics.Material, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if c > 15 {
				heights[i] = -1
				materials[i] = physics.MaterialWater
			} else {
				materials[i] = physics.MaterialFairway
			}
		}
	}
	hm, err := terrain.NewHeightmap(cols, rows, 1, 0, -2, heights, materials, physics.MaterialFairway)
	if err != nil {
		t.Fatalf("NewHeightmap: %v", err)
	}
	return hm
}
