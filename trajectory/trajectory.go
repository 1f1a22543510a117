// Package trajectory materializes accepted trajectory parameters into timed,
// executable command profiles, and provides the unconditional braking
// fallback used when no safe parameter exists.
package trajectory

import (
	"math"

	"github.com/reachnav/reachplan/frs"
	"github.com/reachnav/reachplan/spatial"
)

const (
	// defaultDiffT is the sample period of materialized trajectories.
	defaultDiffT = 0.01
	// defaultMaxDecel guards the fallback against a missing or nonsensical
	// deceleration limit; braking must never fail to decelerate.
	defaultMaxDecel = 1.0
)

// Trajectory is a timed sequence of commanded speed and yaw rate together
// with the pose reached by integrating those commands from the start pose.
// All slices share a length.
type Trajectory struct {
	T     []float64
	V     []float64
	W     []float64
	Poses []spatial.Pose
}

// Duration returns the time span of the trajectory.
func (tr *Trajectory) Duration() float64 {
	if len(tr.T) == 0 {
		return 0
	}
	return tr.T[len(tr.T)-1]
}

// Final returns the last pose of the trajectory.
func (tr *Trajectory) Final() spatial.Pose {
	if len(tr.Poses) == 0 {
		return spatial.Pose{}
	}
	return tr.Poses[len(tr.Poses)-1]
}

func (tr *Trajectory) append(t, v, w float64, pose spatial.Pose) {
	tr.T = append(tr.T, t)
	tr.V = append(tr.V, v)
	tr.W = append(tr.W, w)
	tr.Poses = append(tr.Poses, pose)
}

// step advances a unicycle pose by one sample period under (v, w).
func step(pose spatial.Pose, v, w, dt float64) spatial.Pose {
	heading := pose.Heading + w*dt
	next := spatial.NewPose(
		pose.Point.X+v*math.Cos(pose.Heading)*dt,
		pose.Point.Y+v*math.Sin(pose.Heading)*dt,
		heading,
	)
	return next
}

// Materialize turns an accepted parameter vector into the full commanded
// trajectory: hold the parameter's desired speed and yaw rate over the
// replan horizon t_plan, then brake to a stop at maxDecel with yaw rate
// scaled down proportionally to speed.
func Materialize(m *frs.Model, k []float64, start spatial.Pose, maxDecel float64) *Trajectory {
	if maxDecel <= 0 {
		maxDecel = defaultMaxDecel
	}
	vDes := m.VDes.Eval(k)
	wDes := m.WDes.Eval(k)
	if vDes < 0 {
		vDes = 0
	}

	tr := &Trajectory{}
	pose := start
	t := 0.
	for ; t < m.TPlan; t += defaultDiffT {
		tr.append(t, vDes, wDes, pose)
		pose = step(pose, vDes, wDes, defaultDiffT)
	}
	appendBrake(tr, pose, t, vDes, wDes, maxDecel)
	return tr
}

// Brake returns the braking-only fallback: decelerate from the current speed
// straight to zero with no turning. It always produces a valid trajectory
// with strictly decreasing speed ending at rest.
func Brake(start spatial.Pose, v0, maxDecel float64) *Trajectory {
	if maxDecel <= 0 {
		maxDecel = defaultMaxDecel
	}
	tr := &Trajectory{}
	if v0 <= 0 {
		tr.append(0, 0, 0, start)
		return tr
	}
	appendBrake(tr, start, 0, v0, 0, maxDecel)
	return tr
}

// appendBrake extends a trajectory with a linear speed ramp from v down to a
// full stop at time t0 + v/maxDecel. The yaw rate w shrinks with the speed so
// the commanded curvature stays constant through the stop.
func appendBrake(tr *Trajectory, pose spatial.Pose, t0, v, w, maxDecel float64) {
	tStop := v / maxDecel
	for dt := 0.; dt < tStop; dt += defaultDiffT {
		vt := v * (1 - dt/tStop)
		wt := 0.
		if v > 0 {
			wt = w * vt / v
		}
		tr.append(t0+dt, vt, wt, pose)
		pose = step(pose, vt, wt, defaultDiffT)
	}
	tr.append(t0+tStop, 0, 0, pose)
}
