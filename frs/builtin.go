package frs

import (
	"github.com/golang/geo/r3"

	"github.com/reachnav/reachplan/polynomial"
)

// Constants of the built-in analytic model. The reachable set for a fixed k
// is modeled as a disc of normalized radius builtinReach around the predicted
// final position, which makes every downstream sign and gradient property
// checkable in closed form.
const (
	builtinReach  = 0.15
	builtinMaxYaw = 1.0 // rad/s at k1 = 1
	builtinDeltaV = 0.25
	builtinTPlan  = 0.5
	builtinXBase  = 0.4 // normalized forward distance at k2 = 0
	builtinXSpan  = 0.2 // additional forward distance at k2 = 1
	builtinYSpan  = 0.4 // normalized lateral offset at k1 = 1
)

// BuiltinLibrary returns a two-bracket analytic FRS library. It stands in for
// offline-computed reachability data in the demo binary and in tests; the
// polynomial structure (degree, variable grouping, w >= 1 convention) matches
// what a real FRS export carries.
func BuiltinLibrary() (*Library, error) {
	low, err := builtinModel("builtin-low", [2]float64{0, 0.75}, 2.0)
	if err != nil {
		return nil, err
	}
	high, err := builtinModel("builtin-high", [2]float64{0.5, 1.5}, 3.0)
	if err != nil {
		return nil, err
	}
	return NewLibrary(low, high)
}

func builtinModel(name string, vRange [2]float64, distanceScale float64) (*Model, error) {
	dim := StateDim + ParamDim
	z1 := polynomial.Variable(dim, 0)
	z2 := polynomial.Variable(dim, 1)
	k1 := polynomial.Variable(dim, 2)
	k2 := polynomial.Variable(dim, 3)

	// Predicted final position: x(k) = xBase + xSpan*k2, y(k) = ySpan*k1.
	xk := polynomial.Constant(dim, builtinXBase).Add(k2.Scale(builtinXSpan))
	yk := k1.Scale(builtinYSpan)

	// w = 2 - (|z - p(k)|^2) / reach^2, so w >= 1 iff |z - p(k)| <= reach.
	dx := z1.Sub(xk)
	dy := z2.Sub(yk)
	w := polynomial.Constant(dim, 2).Sub(
		dx.Mul(dx).Add(dy.Mul(dy)).Scale(1 / (builtinReach * builtinReach)))

	xDes := polynomial.Constant(ParamDim, builtinXBase).
		Add(polynomial.Variable(ParamDim, 1).Scale(builtinXSpan))
	yDes := polynomial.Variable(ParamDim, 0).Scale(builtinYSpan)
	wDes := polynomial.Variable(ParamDim, 0).Scale(builtinMaxYaw)
	vDes := polynomial.Constant(ParamDim, (vRange[0]+vRange[1])/2).
		Add(polynomial.Variable(ParamDim, 1).Scale((vRange[1] - vRange[0]) / 2))

	return NewModel(name, w, vRange, builtinDeltaV, builtinTPlan, distanceScale,
		r3.Vector{}, xDes, yDes, wDes, vDes)
}
