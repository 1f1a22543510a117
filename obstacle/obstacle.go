// Package obstacle provides 2D polygonal obstacles and the geometry the
// planner needs from them: conservative outward buffering and approximately
// uniform boundary discretization.
package obstacle

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// Polygon is an ordered sequence of vertices forming a simple closed polygon.
// The closing edge from the last vertex back to the first is implicit.
type Polygon []r3.Vector

// Perimeter returns the total boundary length.
func (p Polygon) Perimeter() float64 {
	total := 0.
	for i, v := range p {
		next := p[(i+1)%len(p)]
		total += next.Sub(v).Norm()
	}
	return total
}

// Area returns the unsigned polygon area (shoelace formula).
func (p Polygon) Area() float64 {
	return math.Abs(p.signedArea())
}

func (p Polygon) signedArea() float64 {
	a := 0.
	for i, v := range p {
		next := p[(i+1)%len(p)]
		a += v.X*next.Y - next.X*v.Y
	}
	return a / 2
}

// Contains reports whether the point lies strictly inside the polygon, by
// even-odd ray casting.
func (p Polygon) Contains(pt r3.Vector) bool {
	inside := false
	for i, v := range p {
		w := p[(i+1)%len(p)]
		if (v.Y > pt.Y) != (w.Y > pt.Y) {
			x := v.X + (pt.Y-v.Y)/(w.Y-v.Y)*(w.X-v.X)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Random builds a random simple polygon with n vertices scattered around
// center at up to the given radius, by sorting random angles. Used to
// generate test scenes; not part of the planning core.
func Random(n int, center r3.Vector, radius float64, rng *rand.Rand) Polygon {
	if n < 3 {
		n = 3
	}
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	for i := 1; i < n; i++ {
		for j := i; j > 0 && angles[j] < angles[j-1]; j-- {
			angles[j], angles[j-1] = angles[j-1], angles[j]
		}
	}
	out := make(Polygon, n)
	for i, ang := range angles {
		r := radius * (0.3 + 0.7*rng.Float64())
		out[i] = r3.Vector{X: center.X + r*math.Cos(ang), Y: center.Y + r*math.Sin(ang)}
	}
	return out
}
