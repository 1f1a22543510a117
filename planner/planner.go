package planner

import (
	"context"
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/reachnav/reachplan/frs"
	"github.com/reachnav/reachplan/obstacle"
	"github.com/reachnav/reachplan/spatial"
	"github.com/reachnav/reachplan/trajectory"
)

// defaultPointSpacing is the world-frame arc-length spacing of obstacle
// boundary samples when the config does not set one.
const defaultPointSpacing = 0.1

// Status tags a planning decision.
type Status int

const (
	// StatusSolved means the optimizer confirmed a feasible local optimum
	// and the decision carries its parameters and trajectory.
	StatusSolved Status = iota + 1
	// StatusNoSolution means no safe forward trajectory parameter was found
	// within the evaluation cap; the decision carries the braking fallback.
	StatusNoSolution
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusNoSolution:
		return "no-solution"
	default:
		return "unknown"
	}
}

// Decision is the tagged outcome of one planning cycle. Traj is always
// non-nil: the optimal trajectory when solved, the braking fallback when not.
type Decision struct {
	Status Status
	K      []float64
	Cost   float64
	Traj   *trajectory.Trajectory
	// Reason records why no solution was produced; empty when solved.
	Reason string
}

// Config holds the planner's tunables.
type Config struct {
	// PointSpacing is the target arc-length spacing, in world units,
	// between obstacle boundary samples.
	PointSpacing float64
	// MaxEval caps solver evaluations per cycle; 0 uses the default.
	MaxEval int
	// FeasTol is the constraint-satisfaction tolerance for accepting a
	// solver result; 0 uses the default.
	FeasTol float64
}

// Request describes one planning cycle.
type Request struct {
	// Pose and Speed are the robot's current state.
	Pose  spatial.Pose
	Speed float64
	// Goal is the target position in world frame.
	Goal r3.Vector
	// Obstacles are world-frame polygons to stay clear of.
	Obstacles []obstacle.Polygon
	// BufferDist is the footprint-derived obstacle buffer distance.
	BufferDist float64
	// MaxDecel is the robot's maximum deceleration, used for braking
	// profiles.
	MaxDecel float64
}

// Planner runs single-step reachability-based trajectory optimization
// against an FRS library.
type Planner struct {
	lib    *frs.Library
	cfg    Config
	logger golog.Logger
}

// New creates a planner over the given FRS library.
func New(lib *frs.Library, cfg Config, logger golog.Logger) (*Planner, error) {
	if lib == nil {
		return nil, errors.New("planner needs an FRS library")
	}
	if cfg.PointSpacing <= 0 {
		cfg.PointSpacing = defaultPointSpacing
	}
	return &Planner{lib: lib, cfg: cfg, logger: logger}, nil
}

// Plan executes one full cycle: select the FRS bracket for the current
// speed, discretize the obstacles into constraints, solve for the best safe
// parameters, and materialize the resulting trajectory. Configuration errors
// (speed outside every bracket) return an error with no decision. Optimizer
// infeasibility or non-convergence never returns an error: the decision comes
// back tagged StatusNoSolution with the braking fallback attached.
func (p *Planner) Plan(ctx context.Context, req Request) (*Decision, error) {
	model, err := p.lib.ForSpeed(req.Speed)
	if err != nil {
		return nil, err
	}
	p.logger.Debugw("planning cycle", "model", model.Name, "v0", req.Speed, "obstacles", len(req.Obstacles))

	var cons []Constraint
	for _, obs := range req.Obstacles {
		_, _, local := obstacle.SamplePoints(obs, req.BufferDist, p.cfg.PointSpacing, req.Pose, model)
		cons = append(cons, BuildConstraints(model, local)...)
	}

	lower, upper, ok := p.paramBounds(model, req.Speed)
	if !ok {
		p.logger.Warnw("empty speed window, braking", "v0", req.Speed, "deltaV", model.DeltaV)
		return p.fallback(req, "speed window is empty"), nil
	}

	goalFRS := spatial.ToFRS(req.Goal, req.Pose, model.DistanceScale, model.Offset)
	cost := NewCost(model, goalFRS)

	k, cval, err := solve(ctx, cost, cons, lower, upper, p.cfg.MaxEval, p.cfg.FeasTol)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		p.logger.Debugw("no feasible trajectory, braking", "reason", err)
		return p.fallback(req, err.Error()), nil
	}

	p.logger.Debugw("trajectory found", "k", k, "cost", cval)
	return &Decision{
		Status: StatusSolved,
		K:      k,
		Cost:   cval,
		Traj:   trajectory.Materialize(model, k, req.Pose, req.MaxDecel),
	}, nil
}

// paramBounds builds the box bounds on (k1, k2). The yaw-rate parameter is
// always [-1, 1]; the speed parameter is the image of
// [v0-deltaV, v0+deltaV] intersected with VRange under the model's
// speed-to-parameter map.
// ok is false when that intersection is empty. A zero-width (single point)
// bound is legal and passed through.
func (p *Planner) paramBounds(model *frs.Model, v0 float64) (lower, upper []float64, ok bool) {
	vLo := math.Max(v0-model.DeltaV, model.VRange[0])
	vHi := math.Min(v0+model.DeltaV, model.VRange[1])
	if vLo > vHi {
		return nil, nil, false
	}
	kLo := math.Max(model.SpeedToParam(vLo), -1)
	kHi := math.Min(model.SpeedToParam(vHi), 1)
	return []float64{-1, kLo}, []float64{1, kHi}, true
}

func (p *Planner) fallback(req Request, reason string) *Decision {
	return &Decision{
		Status: StatusNoSolution,
		Traj:   trajectory.Brake(req.Pose, req.Speed, req.MaxDecel),
		Reason: reason,
	}
}
