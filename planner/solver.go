package planner

import (
	"context"

	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/reachnav/reachplan/frs"
)

var errNoSolve = errors.New("optimizer found no feasible trajectory parameters")

const (
	// defaultMaxEval caps objective/constraint evaluations per solve so a
	// non-converging problem still returns control to the caller.
	defaultMaxEval = 2000
	solverEpsilon  = 1e-8
	// constraintTol is the tolerance handed to nlopt per inequality
	// constraint; feasTol below is the stricter post-hoc acceptance check.
	constraintTol  = 1e-8
	defaultFeasTol = 1e-6
)

type solveReturn struct {
	k    []float64
	cost float64
	err  error
}

// solve runs one bounded SLSQP solve of the cost over the parameter box
// subject to every obstacle constraint. It returns the accepted parameter
// vector and its cost, or an error wrapping errNoSolve for every outcome in
// which no feasible local optimum was confirmed. The solution is re-verified
// against all constraints before being accepted: a solver exit that reports
// success with an infeasible point is still a no-solve.
func solve(
	ctx context.Context,
	cost *Cost,
	cons []Constraint,
	lower, upper []float64,
	maxEval int,
	feasTol float64,
) ([]float64, float64, error) {
	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(frs.ParamDim))
	if err != nil {
		return nil, 0, errors.Wrap(err, "nlopt creation error")
	}
	defer opt.Destroy()

	if maxEval < 1 {
		maxEval = defaultMaxEval
	}
	if feasTol <= 0 {
		feasTol = defaultFeasTol
	}

	err = multierr.Combine(
		opt.SetLowerBounds(lower),
		opt.SetUpperBounds(upper),
		opt.SetFtolRel(solverEpsilon),
		opt.SetXtolRel(solverEpsilon),
		opt.SetMaxEval(maxEval),
		opt.SetMinObjective(func(x, gradient []float64) float64 {
			return cost.Eval(x, gradient)
		}),
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "nlopt setup error")
	}

	// nlopt wants fc(x) <= 0, our convention is g(k) >= 0 safe, so each
	// registered constraint is -g with a negated gradient.
	for i := range cons {
		con := &cons[i]
		err = opt.AddInequalityConstraint(func(x, gradient []float64) float64 {
			v := con.Eval(x, gradient)
			for j := range gradient {
				gradient[j] = -gradient[j]
			}
			return -v
		}, constraintTol)
		if err != nil {
			return nil, 0, errors.Wrap(err, "nlopt constraint registration error")
		}
	}

	// Seed at the box midpoint, the zero vector under the rescaled
	// parameter convention.
	seed := make([]float64, frs.ParamDim)
	for i := range seed {
		seed[i] = (lower[i] + upper[i]) / 2
	}

	solveChan := make(chan *solveReturn, 1)
	goutils.PanicCapturingGo(func() {
		k, c, optErr := opt.Optimize(seed)
		solveChan <- &solveReturn{k, c, optErr}
	})

	var result *solveReturn
	select {
	case <-ctx.Done():
		err = multierr.Combine(ctx.Err(), opt.ForceStop())
		<-solveChan
		return nil, 0, err
	case result = <-solveChan:
	}

	if result.err != nil {
		return nil, 0, errors.Wrapf(errNoSolve, "nlopt: %s", result.err)
	}
	if len(result.k) != frs.ParamDim {
		return nil, 0, errors.Wrap(errNoSolve, "nlopt returned a malformed solution")
	}
	for i, ki := range result.k {
		if ki < lower[i]-feasTol || ki > upper[i]+feasTol {
			return nil, 0, errors.Wrapf(errNoSolve, "solution outside bounds at parameter %d", i)
		}
	}
	for i := range cons {
		if g := cons[i].Eval(result.k, nil); g < -feasTol {
			return nil, 0, errors.Wrapf(errNoSolve, "solution violates constraint %d by %f", i, -g)
		}
	}
	return result.k, result.cost, nil
}
