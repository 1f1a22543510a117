// Package agent provides a minimal unicycle rover that the planner can drive:
// it exposes the state, footprint, and deceleration limit planning needs, and
// executes materialized trajectories by stepping its state along them.
package agent

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/reachnav/reachplan/spatial"
	"github.com/reachnav/reachplan/trajectory"
)

// Rover is a simulated differential-drive robot with a disc footprint.
type Rover struct {
	logger golog.Logger

	pose      spatial.Pose
	speed     float64
	footprint float64
	maxDecel  float64
}

// NewRover creates a rover at the given pose.
func NewRover(pose spatial.Pose, footprintRadius, maxDecel float64, logger golog.Logger) (*Rover, error) {
	if footprintRadius <= 0 {
		return nil, errors.Errorf("nonpositive footprint radius %f", footprintRadius)
	}
	if maxDecel <= 0 {
		return nil, errors.Errorf("nonpositive max deceleration %f", maxDecel)
	}
	return &Rover{
		logger:    logger,
		pose:      pose,
		footprint: footprintRadius,
		maxDecel:  maxDecel,
	}, nil
}

// Pose returns the rover's current pose.
func (r *Rover) Pose() spatial.Pose {
	return r.pose
}

// Speed returns the rover's current speed.
func (r *Rover) Speed() float64 {
	return r.speed
}

// FootprintRadius returns the disc footprint radius, which the planner uses
// as the obstacle buffer distance.
func (r *Rover) FootprintRadius() float64 {
	return r.footprint
}

// MaxDecel returns the braking deceleration limit.
func (r *Rover) MaxDecel() float64 {
	return r.maxDecel
}

// Execute steps the rover's state along a materialized trajectory. The
// simulation is instantaneous; each sample's pose and commanded speed become
// the rover's state in turn. Execution stops early if the context is
// cancelled.
func (r *Rover) Execute(ctx context.Context, tr *trajectory.Trajectory) error {
	if tr == nil || len(tr.T) == 0 {
		return errors.New("cannot execute an empty trajectory")
	}
	for i := range tr.T {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.pose = tr.Poses[i]
		r.speed = tr.V[i]
	}
	r.logger.Debugw("trajectory executed",
		"duration", tr.Duration(),
		"final", r.pose.Point,
		"speed", r.speed,
	)
	return nil
}
