// Package frs represents precomputed Forward Reachable Set models for a
// mobile base. A model holds the reachability polynomial w(z, k) over
// normalized state variables z and trajectory parameters k, together with the
// scalar bounds and frame constants needed to plan against it. Models are
// immutable once constructed; one is selected per planning cycle by initial
// speed bracket.
package frs

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/reachnav/reachplan/polynomial"
)

// StateDim and ParamDim fix the variable groups of every FRS polynomial:
// normalized (x, y) state and (yaw-rate, speed) trajectory parameters.
const (
	StateDim = 2
	ParamDim = 2
)

// ErrSpeedOutOfRange is returned when a requested initial speed is outside
// every supported speed bracket. This is a configuration error: the planning
// cycle cannot produce any result, not even a fallback.
var ErrSpeedOutOfRange = errors.New("initial speed outside all supported FRS speed brackets")

// Model is one precomputed FRS bracket.
//
// Sign convention, pinned here once for the whole pipeline: w(z, k) >= 1
// exactly when the normalized state z is reachable under parameter k. The
// obstacle constraint used downstream is therefore g(k) = 1 - w(z, k), with
// g >= 0 safe and g < 0 forbidden.
type Model struct {
	Name string

	// W is the reachability polynomial, decomposed for fast per-point
	// substitution.
	W polynomial.TwoGroup

	// VRange is the [min, max] initial speed bracket this model covers.
	VRange [2]float64
	// DeltaV bounds how far commanded speed may deviate from the current
	// speed within one plan.
	DeltaV float64
	// TPlan is the time-to-replan horizon.
	TPlan float64

	// DistanceScale and Offset map robot-local coordinates into the
	// normalized FRS frame.
	DistanceScale float64
	Offset        r3.Vector

	// XDes and YDes give the predicted final position in the FRS frame as
	// polynomials in k.
	XDes, YDes polynomial.Poly
	// WDes and VDes map k to the commanded yaw rate and speed.
	WDes, VDes polynomial.Poly
}

// NewModel validates the pieces of a bracket and assembles an immutable
// model. w must be a polynomial in StateDim+ParamDim variables (state first);
// the four mapping polynomials must be in ParamDim variables.
func NewModel(
	name string,
	w polynomial.Poly,
	vRange [2]float64,
	deltaV, tPlan, distanceScale float64,
	offset r3.Vector,
	xDes, yDes, wDes, vDes polynomial.Poly,
) (*Model, error) {
	if vRange[0] > vRange[1] || vRange[0] < 0 {
		return nil, errors.Errorf("model %q: invalid speed range [%f, %f]", name, vRange[0], vRange[1])
	}
	if deltaV < 0 {
		return nil, errors.Errorf("model %q: negative delta_v %f", name, deltaV)
	}
	if tPlan <= 0 {
		return nil, errors.Errorf("model %q: nonpositive t_plan %f", name, tPlan)
	}
	if distanceScale <= 0 {
		return nil, errors.Errorf("model %q: nonpositive distance scale %f", name, distanceScale)
	}
	for _, kp := range []polynomial.Poly{xDes, yDes, wDes, vDes} {
		if kp.Dim != ParamDim {
			return nil, errors.Errorf("model %q: parameter mapping has %d variables, want %d", name, kp.Dim, ParamDim)
		}
	}
	tg, err := polynomial.Decompose(w, StateDim, ParamDim)
	if err != nil {
		return nil, errors.Wrapf(err, "model %q: reachability polynomial", name)
	}
	return &Model{
		Name:          name,
		W:             tg,
		VRange:        vRange,
		DeltaV:        deltaV,
		TPlan:         tPlan,
		DistanceScale: distanceScale,
		Offset:        offset,
		XDes:          xDes,
		YDes:          yDes,
		WDes:          wDes,
		VDes:          vDes,
	}, nil
}

// SpeedToParam maps a commanded speed onto the normalized speed parameter
// k2 in [-1, 1], affinely over VRange. A zero-width bracket maps to zero.
func (m *Model) SpeedToParam(v float64) float64 {
	width := m.VRange[1] - m.VRange[0]
	if width == 0 {
		return 0
	}
	return 2*(v-m.VRange[0])/width - 1
}

// ParamToSpeed is the inverse of SpeedToParam.
func (m *Model) ParamToSpeed(k2 float64) float64 {
	return m.VRange[0] + (k2+1)/2*(m.VRange[1]-m.VRange[0])
}

// Library is an ordered set of models covering adjacent speed brackets.
type Library struct {
	models []*Model
}

// NewLibrary assembles a library from one or more models, ordered by bracket
// lower bound.
func NewLibrary(models ...*Model) (*Library, error) {
	if len(models) == 0 {
		return nil, errors.New("FRS library needs at least one model")
	}
	ordered := make([]*Model, len(models))
	copy(ordered, models)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].VRange[0] < ordered[j-1].VRange[0]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return &Library{models: ordered}, nil
}

// Models returns the library contents in bracket order.
func (l *Library) Models() []*Model {
	return l.models
}

// ForSpeed selects the bracket covering initial speed v0. When brackets
// overlap the lowest covering bracket wins, deterministically.
func (l *Library) ForSpeed(v0 float64) (*Model, error) {
	for _, m := range l.models {
		if v0 >= m.VRange[0] && v0 <= m.VRange[1] {
			return m, nil
		}
	}
	return nil, errors.Wrapf(ErrSpeedOutOfRange, "v0 = %f", v0)
}
