package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/playmatatu/fairway/internal/game"
	"github.com/playmatatu/fairway/internal/physics"
	"github.com/playmatatu/fairway/internal/terrain"
)

type result struct {
	Course  string             `json:"course"`
	Frames  int                `json:"frames"`
	Seconds float64            `json:"seconds"`
	Shot    *game.ShotSummary  `json:"shot"`
	Final   physics.Snapshot   `json:"final"`
	Events  map[string]int     `json:"events"`
	Trace   []physics.Snapshot `json:"trace,omitempty"`
}

func main() {
	var in game.ShotInput
	course := flag.String("course", "", "course document (JSON heightmap); empty uses a flat fairway")
	flag.Float64Var(&in.Power, "power", 60, "shot power 0-100")
	flag.Float64Var(&in.DirectionX, "dir-x", 0, "aim X component")
	flag.Float64Var(&in.DirectionZ, "dir-z", -1, "aim Z component")
	flag.Float64Var(&in.LoftDegrees, "loft", 15, "launch angle in degrees")
	flag.Float64Var(&in.SideSpin, "side", 0, "side spin -1..1, positive curves right")
	dt := flag.Float64("dt", 1.0/60, "time step in seconds")
	seed := flag.Int64("seed", 1, "random seed for bounce and friction variation")
	maxSeconds := flag.Float64("max-seconds", 120, "give up after this much simulated time")
	traceEvery := flag.Int("trace", 0, "record the ball every N frames (0 = off)")
	flag.Parse()

	params := physics.DefaultParams()
	params.Seed = *seed

	var ground physics.Terrain = terrain.Plane{Material: physics.MaterialFairway}
	name := "Flat Range"
	if *course != "" {
		f, err := os.Open(*course)
		if err != nil {
			log.Fatalf("Failed to open course: %v", err)
		}
		doc, err := terrain.Decode(f)
		f.Close()
		if err != nil {
			log.Fatalf("Invalid course document: %v", err)
		}
		hm, err := doc.Heightmap()
		if err != nil {
			log.Fatalf("Invalid heightmap: %v", err)
		}
		ground, params, name = hm, doc.Apply(params), doc.Name
	}

	tracker := game.NewShotTracker(ground)
	ball := physics.NewBall(ground, params, tracker)
	tracker.Attach(ball)

	tracker.Arm(1, in)
	if !ball.Hit(in.Power, in.Direction(), in.LoftDegrees, in.SideSpin) {
		log.Fatalf("Shot rejected: %+v", in)
	}

	out := result{Course: name, Events: map[string]int{}}
	maxFrames := int(*maxSeconds / *dt)
	for out.Frames < maxFrames && out.Shot == nil {
		ball.Update(*dt)
		tracker.Observe()
		out.Frames++
		if *traceEvery > 0 && out.Frames%*traceEvery == 0 {
			out.Trace = append(out.Trace, ball.Snapshot())
		}
		for _, e := range tracker.Drain() {
			out.Events[e.Type]++
		}
		out.Shot = tracker.Finish()
	}
	out.Seconds = float64(out.Frames) * *dt
	out.Final = ball.Snapshot()

	if out.Shot == nil {
		log.Printf("Ball still moving after %.0fs", *maxSeconds)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
}
