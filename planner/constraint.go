// Package planner implements the single-cycle reachability-based trajectory
// optimization: obstacle constraint construction from an FRS model, a smooth
// distance-to-goal cost, a bounded nonlinear solve over the trajectory
// parameters, and materialization of the result or the braking fallback.
package planner

import (
	"github.com/golang/geo/r3"

	"github.com/reachnav/reachplan/frs"
	"github.com/reachnav/reachplan/polynomial"
)

// Constraint is one obstacle sample point's safety constraint over the
// trajectory parameters.
//
// Sign convention (fixed for the whole pipeline): the constraint value is
// g(k) = 1 - w(z, k). g >= 0 means parameter k keeps the robot clear of the
// sample point; g < 0 means k could reach it and is forbidden. The nlopt
// driver flips this into nlopt's fc(x) <= 0 form.
type Constraint struct {
	P    polynomial.Poly
	Grad [frs.ParamDim]polynomial.Poly
}

// Eval returns the constraint value and writes the analytic gradient into
// grad when it is non-nil.
func (c *Constraint) Eval(k, grad []float64) float64 {
	if grad != nil {
		for i := range grad {
			grad[i] = c.Grad[i].Eval(k)
		}
	}
	return c.P.Eval(k)
}

// BuildConstraints substitutes each FRS-frame sample point into the model's
// reachability polynomial, yielding one constraint per point in point order.
// A substitution that collapses to the zero polynomial stays in the set; it
// evaluates to the constant g = 1, a trivially satisfied constraint, and
// keeps constraint/gradient pairing aligned with the sample points.
func BuildConstraints(m *frs.Model, points []r3.Vector) []Constraint {
	one := polynomial.Constant(frs.ParamDim, 1)
	out := make([]Constraint, 0, len(points))
	for _, z := range points {
		wk := m.W.AtState([]float64{z.X, z.Y})
		g := one.Sub(wk)
		c := Constraint{P: g}
		for i := 0; i < frs.ParamDim; i++ {
			c.Grad[i] = g.Diff(i)
		}
		out = append(out, c)
	}
	return out
}
