// Package main runs one reachability-based planning cycle in a simulated
// scene: a rover, a goal, and a random polygonal obstacle. It prints the
// decision and drives the rover along the resulting trajectory.
package main

import (
	"context"
	"flag"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/reachnav/reachplan/agent"
	"github.com/reachnav/reachplan/frs"
	"github.com/reachnav/reachplan/obstacle"
	"github.com/reachnav/reachplan/planner"
	"github.com/reachnav/reachplan/spatial"
)

var logger = golog.NewDevelopmentLogger("reachplan")

func main() {
	frsPath := flag.String("frs", "", "path to an FRS library JSON file (default: built-in analytic library)")
	speed := flag.Float64("speed", 0.5, "initial speed in m/s")
	goalX := flag.Float64("goal-x", 1.2, "goal x in world frame")
	goalY := flag.Float64("goal-y", 0.2, "goal y in world frame")
	seed := flag.Int64("seed", 1, "random seed for the obstacle")
	flag.Parse()

	if err := run(context.Background(), *frsPath, *speed, r3.Vector{X: *goalX, Y: *goalY}, *seed); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, frsPath string, speed float64, goal r3.Vector, seed int64) error {
	var lib *frs.Library
	var err error
	if frsPath != "" {
		lib, err = frs.ReadModels(frsPath)
	} else {
		lib, err = frs.BuiltinLibrary()
	}
	if err != nil {
		return err
	}

	rover, err := agent.NewRover(spatial.NewPose(0, 0, 0), 0.2, 2.0, logger)
	if err != nil {
		return err
	}

	//nolint: gosec
	rng := rand.New(rand.NewSource(seed))
	obs := obstacle.Random(6, r3.Vector{X: goal.X / 2, Y: -goal.Y}, 0.3, rng)

	p, err := planner.New(lib, planner.Config{}, logger)
	if err != nil {
		return err
	}
	dec, err := p.Plan(ctx, planner.Request{
		Pose:       rover.Pose(),
		Speed:      speed,
		Goal:       goal,
		Obstacles:  []obstacle.Polygon{obs},
		BufferDist: rover.FootprintRadius(),
		MaxDecel:   rover.MaxDecel(),
	})
	if err != nil {
		return err
	}

	switch dec.Status {
	case planner.StatusSolved:
		logger.Infow("trajectory found", "k", dec.K, "cost", dec.Cost, "duration", dec.Traj.Duration())
	default:
		logger.Infow("no safe trajectory, braking", "reason", dec.Reason)
	}

	if err := rover.Execute(ctx, dec.Traj); err != nil {
		return err
	}
	logger.Infow("done", "pose", rover.Pose().Point, "heading", rover.Pose().Heading, "speed", rover.Speed())
	return nil
}
