package obstacle

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"github.com/reachnav/reachplan/frs"
	"github.com/reachnav/reachplan/spatial"
)

// Discretize samples the polygon boundary at approximately uniform
// arc-length spacing. The requested spacing is a target: the sample count is
// ceil(perimeter/spacing), so the actual spacing never exceeds the target and
// is the same between every consecutive pair. The first point is repeated as
// the last, closing the loop.
func Discretize(p Polygon, spacing float64) []r3.Vector {
	if len(p) == 0 {
		return nil
	}
	if len(p) == 1 || spacing <= 0 {
		return []r3.Vector{p[0], p[0]}
	}

	lengths := make([]float64, len(p))
	for i, v := range p {
		lengths[i] = p[(i+1)%len(p)].Sub(v).Norm()
	}
	cum := make([]float64, len(p))
	floats.CumSum(cum, lengths)
	perimeter := cum[len(cum)-1]
	if perimeter == 0 {
		return []r3.Vector{p[0], p[0]}
	}

	n := int(math.Ceil(perimeter / spacing))
	if n < 1 {
		n = 1
	}
	step := perimeter / float64(n)

	out := make([]r3.Vector, 0, n+1)
	edge := 0
	for i := 0; i < n; i++ {
		d := float64(i) * step
		for d >= cum[edge] && edge < len(p)-1 {
			edge++
		}
		start := cum[edge] - lengths[edge]
		a := p[edge]
		b := p[(edge+1)%len(p)]
		t := 0.
		if lengths[edge] > 0 {
			t = (d - start) / lengths[edge]
		}
		out = append(out, a.Add(b.Sub(a).Mul(t)))
	}
	out = append(out, out[0])
	return out
}

// SamplePoints runs the full obstacle pipeline for one planning cycle:
// buffer the polygon outward by bufferDist, discretize the buffered boundary
// at the target spacing, and map the samples into the FRS-normalized frame of
// the given model and robot pose. Points outside the reachable coordinate
// range are kept; culling would trade safety for optimism.
func SamplePoints(
	p Polygon,
	bufferDist, spacing float64,
	pose spatial.Pose,
	model *frs.Model,
) (Polygon, []r3.Vector, []r3.Vector) {
	buffered := Buffer(p, bufferDist)
	world := Discretize(buffered, spacing)
	local := make([]r3.Vector, len(world))
	for i, pt := range world {
		local[i] = spatial.ToFRS(pt, pose, model.DistanceScale, model.Offset)
	}
	return buffered, world, local
}
