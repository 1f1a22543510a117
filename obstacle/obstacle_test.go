package obstacle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/stat"

	"github.com/reachnav/reachplan/frs"
	"github.com/reachnav/reachplan/spatial"
)

func square(side float64) Polygon {
	h := side / 2
	return Polygon{
		{X: -h, Y: -h},
		{X: h, Y: -h},
		{X: h, Y: h},
		{X: -h, Y: h},
	}
}

func TestPerimeterArea(t *testing.T) {
	sq := square(2)
	test.That(t, sq.Perimeter(), test.ShouldAlmostEqual, 8)
	test.That(t, sq.Area(), test.ShouldAlmostEqual, 4)
}

func TestContains(t *testing.T) {
	sq := square(2)
	test.That(t, sq.Contains(r3.Vector{X: 0, Y: 0}), test.ShouldBeTrue)
	test.That(t, sq.Contains(r3.Vector{X: 0.9, Y: -0.9}), test.ShouldBeTrue)
	test.That(t, sq.Contains(r3.Vector{X: 1.5, Y: 0}), test.ShouldBeFalse)
	test.That(t, sq.Contains(r3.Vector{X: 0, Y: -3}), test.ShouldBeFalse)
}

func TestDiscretizeSpacing(t *testing.T) {
	for _, spacing := range []float64{0.05, 0.13, 0.5} {
		pts := Discretize(square(2), spacing)

		// Closed loop.
		test.That(t, pts[0].X, test.ShouldAlmostEqual, pts[len(pts)-1].X)
		test.That(t, pts[0].Y, test.ShouldAlmostEqual, pts[len(pts)-1].Y)

		gaps := make([]float64, 0, len(pts)-1)
		for i := 1; i < len(pts); i++ {
			gaps = append(gaps, pts[i].Sub(pts[i-1]).Norm())
		}
		mean := stat.Mean(gaps, nil)
		test.That(t, mean, test.ShouldBeLessThanOrEqualTo, spacing+1e-9)
		test.That(t, mean, test.ShouldBeGreaterThan, spacing/2)
	}
}

func TestDiscretizeRandomPolygons(t *testing.T) {
	//nolint: gosec
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 10; i++ {
		poly := Random(5+rng.Intn(6), r3.Vector{X: 1, Y: -2}, 2, rng)
		pts := Discretize(poly, 0.1)
		test.That(t, len(pts), test.ShouldBeGreaterThan, 3)
		test.That(t, pts[0].Sub(pts[len(pts)-1]).Norm(), test.ShouldAlmostEqual, 0)
	}
}

func TestDiscretizeDegenerate(t *testing.T) {
	test.That(t, Discretize(nil, 0.1), test.ShouldBeNil)

	single := Polygon{{X: 2, Y: 3}}
	pts := Discretize(single, 0.1)
	test.That(t, len(pts), test.ShouldEqual, 2)
	test.That(t, pts[0].X, test.ShouldAlmostEqual, 2)

	// All vertices coincident: zero perimeter, still a closed two-point loop.
	collapsed := Polygon{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}
	pts = Discretize(collapsed, 0.1)
	test.That(t, len(pts), test.ShouldEqual, 2)
}

func TestBufferContainsOriginal(t *testing.T) {
	//nolint: gosec
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 5; i++ {
		poly := Random(6, r3.Vector{}, 1.5, rng)
		buffered := Buffer(poly, 0.3)
		test.That(t, len(buffered), test.ShouldBeGreaterThanOrEqualTo, 3)
		test.That(t, buffered.Area(), test.ShouldBeGreaterThan, poly.Area())
		// Every original vertex is interior to the buffered polygon.
		for _, v := range poly {
			test.That(t, buffered.Contains(v), test.ShouldBeTrue)
		}
	}
}

func TestBufferGrowsByDistance(t *testing.T) {
	buffered := Buffer(square(2), 0.5)
	// The buffered square contains points dist outward of each face.
	for _, pt := range []r3.Vector{
		{X: 1.4, Y: 0},
		{X: -1.4, Y: 0},
		{X: 0, Y: 1.4},
		{X: 0, Y: -1.4},
	} {
		test.That(t, buffered.Contains(pt), test.ShouldBeTrue)
	}
	test.That(t, buffered.Contains(r3.Vector{X: 2.1, Y: 0}), test.ShouldBeFalse)
}

func TestBufferZeroDistance(t *testing.T) {
	sq := square(2)
	buffered := Buffer(sq, 0)
	test.That(t, len(buffered), test.ShouldEqual, len(sq))
	test.That(t, buffered.Area(), test.ShouldAlmostEqual, sq.Area())
}

func TestSamplePoints(t *testing.T) {
	lib, err := frs.BuiltinLibrary()
	test.That(t, err, test.ShouldBeNil)
	model := lib.Models()[0]
	pose := spatial.NewPose(1, 0, math.Pi/2)

	buffered, world, local := SamplePoints(square(1), 0.25, 0.1, pose, model)
	test.That(t, len(world), test.ShouldEqual, len(local))
	test.That(t, len(world), test.ShouldBeGreaterThan, 4)
	test.That(t, buffered.Area(), test.ShouldBeGreaterThan, 1)

	// The frame mapping used per point matches spatial.ToFRS.
	for i := range world {
		want := spatial.ToFRS(world[i], pose, model.DistanceScale, model.Offset)
		test.That(t, local[i].X, test.ShouldAlmostEqual, want.X)
		test.That(t, local[i].Y, test.ShouldAlmostEqual, want.Y)
	}
}

// An obstacle entirely outside the reachable range still yields its full
// sample set, with no culling.
func TestSamplePointsNoCulling(t *testing.T) {
	lib, err := frs.BuiltinLibrary()
	test.That(t, err, test.ShouldBeNil)
	model := lib.Models()[0]
	pose := spatial.NewPose(0, 0, 0)

	far := Polygon{
		{X: 100, Y: 100},
		{X: 101, Y: 100},
		{X: 101, Y: 101},
		{X: 100, Y: 101},
	}
	_, world, local := SamplePoints(far, 0.1, 0.1, pose, model)
	test.That(t, len(local), test.ShouldEqual, len(world))
	test.That(t, len(local), test.ShouldBeGreaterThan, 4)
	for _, z := range local {
		test.That(t, z.Norm(), test.ShouldBeGreaterThan, 10)
	}
}
