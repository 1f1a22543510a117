package frs

import (
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/reachnav/reachplan/polynomial"
)

func TestBuiltinLibraryBrackets(t *testing.T) {
	lib, err := BuiltinLibrary()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(lib.Models()), test.ShouldEqual, 2)

	m, err := lib.ForSpeed(0.25)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name, test.ShouldEqual, "builtin-low")

	// Overlapping region picks the lower bracket deterministically.
	m, err = lib.ForSpeed(0.6)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name, test.ShouldEqual, "builtin-low")

	// Upper edge of the supported range is still covered.
	m, err = lib.ForSpeed(1.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name, test.ShouldEqual, "builtin-high")

	_, err = lib.ForSpeed(2.0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrSpeedOutOfRange), test.ShouldBeTrue)
	_, err = lib.ForSpeed(-0.1)
	test.That(t, errors.Is(err, ErrSpeedOutOfRange), test.ShouldBeTrue)
}

func TestBuiltinReachabilityConvention(t *testing.T) {
	lib, err := BuiltinLibrary()
	test.That(t, err, test.ShouldBeNil)
	m := lib.Models()[0]

	// At the predicted final position for k, w must be at its maximum of 2.
	k := []float64{0.3, -0.5}
	z := []float64{m.XDes.Eval(k), m.YDes.Eval(k)}
	wk := m.W.AtState(z)
	test.That(t, wk.Eval(k), test.ShouldAlmostEqual, 2, 1e-9)

	// Exactly one reach radius away, w == 1; farther out, w < 1.
	zEdge := []float64{z[0] + builtinReach, z[1]}
	test.That(t, m.W.AtState(zEdge).Eval(k), test.ShouldAlmostEqual, 1, 1e-9)
	zFar := []float64{z[0] + 3*builtinReach, z[1]}
	test.That(t, m.W.AtState(zFar).Eval(k), test.ShouldBeLessThan, 1)
}

func TestSpeedParamMapping(t *testing.T) {
	lib, err := BuiltinLibrary()
	test.That(t, err, test.ShouldBeNil)
	m := lib.Models()[1] // VRange [0.5, 1.5]

	test.That(t, m.SpeedToParam(0.5), test.ShouldAlmostEqual, -1)
	test.That(t, m.SpeedToParam(1.5), test.ShouldAlmostEqual, 1)
	test.That(t, m.ParamToSpeed(0), test.ShouldAlmostEqual, 1.0)

	// VDes agrees with the affine parameter-to-speed map.
	for _, k2 := range []float64{-1, -0.25, 0, 0.7, 1} {
		test.That(t, m.VDes.Eval([]float64{0, k2}), test.ShouldAlmostEqual, m.ParamToSpeed(k2), 1e-12)
	}
}

func TestSpeedToParamZeroWidthBracket(t *testing.T) {
	w := polynomial.Constant(StateDim+ParamDim, 2)
	kp := polynomial.Zero(ParamDim)
	m, err := NewModel("point", w, [2]float64{1, 1}, 0, 0.5, 1, r3.Vector{}, kp, kp, kp, kp)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.SpeedToParam(1), test.ShouldAlmostEqual, 0)
}

func TestNewModelValidation(t *testing.T) {
	w := polynomial.Constant(StateDim+ParamDim, 1)
	kp := polynomial.Zero(ParamDim)
	bad := polynomial.Zero(3)

	_, err := NewModel("m", w, [2]float64{1, 0.5}, 0.1, 0.5, 1, r3.Vector{}, kp, kp, kp, kp)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewModel("m", w, [2]float64{0, 1}, 0.1, 0, 1, r3.Vector{}, kp, kp, kp, kp)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewModel("m", w, [2]float64{0, 1}, 0.1, 0.5, 0, r3.Vector{}, kp, kp, kp, kp)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewModel("m", w, [2]float64{0, 1}, 0.1, 0.5, 1, r3.Vector{}, bad, kp, kp, kp)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewModel("m", polynomial.Zero(3), [2]float64{0, 1}, 0.1, 0.5, 1, r3.Vector{}, kp, kp, kp, kp)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadModels(t *testing.T) {
	lib, err := ReadModels("testdata/library.json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(lib.Models()), test.ShouldEqual, 1)
	m := lib.Models()[0]
	test.That(t, m.Name, test.ShouldEqual, "deg2-slow")
	test.That(t, m.TPlan, test.ShouldAlmostEqual, 0.5)
	test.That(t, m.DistanceScale, test.ShouldAlmostEqual, 2.0)

	// Spot-check the decoded polynomial at the origin.
	wk := m.W.AtState([]float64{0, 0})
	test.That(t, wk.Eval([]float64{0, 0}), test.ShouldAlmostEqual, 2)
}

func TestDecodeModelsRejectsBadShape(t *testing.T) {
	doc := `{"models":[{"name":"x","v_range":[0],"t_plan":0.5,"distance_scale":1}]}`
	_, err := DecodeModels(strings.NewReader(doc))
	test.That(t, err, test.ShouldNotBeNil)

	doc = `{"models":[{"name":"x","v_range":[0,1],"t_plan":0.5,"distance_scale":1,
		"w":[{"coeff":1,"exps":[1,2]}]}]}`
	_, err = DecodeModels(strings.NewReader(doc))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = DecodeModels(strings.NewReader("{"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEmptyLibrary(t *testing.T) {
	_, err := NewLibrary()
	test.That(t, err, test.ShouldNotBeNil)
}
