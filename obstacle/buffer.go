package obstacle

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/golang/geo/r3"
)

const degenerateEdge = 1e-12

// Buffer expands the polygon outward by dist on every side. The expansion is
// the union of the polygon with a rectangle swept along each edge and a
// square at each vertex, so it contains the Minkowski sum of the polygon with
// an axis-aligned square of half-width dist; self-intersections at concave
// turns are resolved by the polygon union. The result is conservative (never
// smaller than a true dist-buffer).
func Buffer(p Polygon, dist float64) Polygon {
	if dist <= 0 || len(p) < 3 {
		out := make(Polygon, len(p))
		copy(out, p)
		return out
	}

	acc := polyclip.Polygon{toContour(p)}
	for i, a := range p {
		b := p[(i+1)%len(p)]
		edge := b.Sub(a)
		length := edge.Norm()
		if length > degenerateEdge {
			// Rectangle covering the edge thickened by dist on both sides.
			n := r3.Vector{X: -edge.Y / length, Y: edge.X / length}.Mul(dist)
			quad := polyclip.Contour{
				toPoint(a.Add(n)),
				toPoint(b.Add(n)),
				toPoint(b.Sub(n)),
				toPoint(a.Sub(n)),
			}
			acc = acc.Construct(polyclip.UNION, polyclip.Polygon{quad})
		}
		square := polyclip.Contour{
			{X: a.X - dist, Y: a.Y - dist},
			{X: a.X + dist, Y: a.Y - dist},
			{X: a.X + dist, Y: a.Y + dist},
			{X: a.X - dist, Y: a.Y + dist},
		}
		acc = acc.Construct(polyclip.UNION, polyclip.Polygon{square})
	}

	return outerContour(acc)
}

func toContour(p Polygon) polyclip.Contour {
	c := make(polyclip.Contour, len(p))
	for i, v := range p {
		c[i] = toPoint(v)
	}
	return c
}

func toPoint(v r3.Vector) polyclip.Point {
	return polyclip.Point{X: v.X, Y: v.Y}
}

// outerContour picks the largest-area contour of a clipped polygon. The
// union of overlapping convex pieces yields one outer boundary; any interior
// contours are holes fully inside the buffered region and carry no boundary
// the planner needs to sample.
func outerContour(clip polyclip.Polygon) Polygon {
	best := -1
	bestArea := math.Inf(-1)
	for i, c := range clip {
		poly := fromContour(c)
		if a := poly.Area(); a > bestArea {
			bestArea = a
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return fromContour(clip[best])
}

func fromContour(c polyclip.Contour) Polygon {
	out := make(Polygon, len(c))
	for i, pt := range c {
		out[i] = r3.Vector{X: pt.X, Y: pt.Y}
	}
	return out
}
