package planner

import (
	"github.com/golang/geo/r3"

	"github.com/reachnav/reachplan/frs"
	"github.com/reachnav/reachplan/polynomial"
)

// Cost scores trajectory parameters by the squared FRS-frame distance between
// the model's predicted final position and the goal. Squared distance rather
// than distance keeps the gradient defined at the goal itself, so the
// solver's quasi-Newton steps stay well-posed everywhere in the box.
type Cost struct {
	goal   r3.Vector
	x, y   polynomial.Poly
	dx, dy [frs.ParamDim]polynomial.Poly
}

// NewCost builds the cost for a goal already expressed in the FRS frame.
func NewCost(m *frs.Model, goal r3.Vector) *Cost {
	c := &Cost{goal: goal, x: m.XDes, y: m.YDes}
	for i := 0; i < frs.ParamDim; i++ {
		c.dx[i] = m.XDes.Diff(i)
		c.dy[i] = m.YDes.Diff(i)
	}
	return c
}

// Eval returns the cost at k and writes the analytic gradient into grad when
// it is non-nil. The gradient is the chain rule through the position
// mappings: d/dk_i = 2(x(k)-gx)*dx_i + 2(y(k)-gy)*dy_i.
func (c *Cost) Eval(k, grad []float64) float64 {
	ex := c.x.Eval(k) - c.goal.X
	ey := c.y.Eval(k) - c.goal.Y
	if grad != nil {
		for i := range grad {
			grad[i] = 2*ex*c.dx[i].Eval(k) + 2*ey*c.dy[i].Eval(k)
		}
	}
	return ex*ex + ey*ey
}
