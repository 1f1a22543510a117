// Package polynomial implements sparse multivariate polynomials as explicit
// lists of (coefficient, exponent-vector) terms. Evaluation, differentiation,
// and state-variable substitution are all closed-form operations on the term
// list, so the cost of one evaluation is bounded by the term count and there
// is no dynamic symbolic-algebra machinery involved.
package polynomial

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Term is one monomial: Coeff * prod_i x_i^Exps[i].
type Term struct {
	Coeff float64 `json:"coeff"`
	Exps  []int   `json:"exps"`
}

// Poly is a polynomial in Dim variables. Terms are kept normalized: like
// exponent vectors merged, near-zero coefficients dropped, graded
// lexicographic order. A Poly with no terms is the zero polynomial.
type Poly struct {
	Dim   int
	Terms []Term
}

const coeffEps = 1e-15

// Zero returns the zero polynomial in dim variables.
func Zero(dim int) Poly {
	return Poly{Dim: dim}
}

// Constant returns the constant polynomial c in dim variables.
func Constant(dim int, c float64) Poly {
	return FromTerm(dim, c)
}

// Variable returns the polynomial x_i in dim variables.
func Variable(dim, i int) Poly {
	exps := make([]int, dim)
	exps[i] = 1
	p := Poly{Dim: dim, Terms: []Term{{Coeff: 1, Exps: exps}}}
	return p
}

// FromTerm builds a single-term polynomial. Omitted exponents are zero.
func FromTerm(dim int, coeff float64, exps ...int) Poly {
	full := make([]int, dim)
	copy(full, exps)
	return normalize(Poly{Dim: dim, Terms: []Term{{Coeff: coeff, Exps: full}}})
}

// FromTerms validates and normalizes a term list into a polynomial. Every
// exponent vector must have length dim and nonnegative entries.
func FromTerms(dim int, terms []Term) (Poly, error) {
	cp := make([]Term, 0, len(terms))
	for i, term := range terms {
		if len(term.Exps) != dim {
			return Poly{}, errors.Errorf("term %d: exponent vector has length %d, want %d", i, len(term.Exps), dim)
		}
		for _, e := range term.Exps {
			if e < 0 {
				return Poly{}, errors.Errorf("term %d: negative exponent %d", i, e)
			}
		}
		exps := make([]int, dim)
		copy(exps, term.Exps)
		cp = append(cp, Term{Coeff: term.Coeff, Exps: exps})
	}
	return normalize(Poly{Dim: dim, Terms: cp}), nil
}

// IsZero reports whether p is identically zero.
func (p Poly) IsZero() bool {
	return len(p.Terms) == 0
}

// Eval evaluates p at x. len(x) must equal p.Dim.
func (p Poly) Eval(x []float64) float64 {
	total := 0.
	for _, term := range p.Terms {
		v := term.Coeff
		for i, e := range term.Exps {
			v *= ipow(x[i], e)
		}
		total += v
	}
	return total
}

// Diff returns the exact partial derivative of p with respect to variable i.
func (p Poly) Diff(i int) Poly {
	out := make([]Term, 0, len(p.Terms))
	for _, term := range p.Terms {
		if term.Exps[i] == 0 {
			continue
		}
		exps := make([]int, p.Dim)
		copy(exps, term.Exps)
		exps[i]--
		out = append(out, Term{Coeff: term.Coeff * float64(term.Exps[i]), Exps: exps})
	}
	return normalize(Poly{Dim: p.Dim, Terms: out})
}

// Add returns p + q. The two polynomials must share a dimensionality.
func (p Poly) Add(q Poly) Poly {
	terms := make([]Term, 0, len(p.Terms)+len(q.Terms))
	terms = append(terms, p.Terms...)
	terms = append(terms, q.Terms...)
	return normalize(Poly{Dim: p.Dim, Terms: terms})
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly {
	return p.Add(q.Scale(-1))
}

// Scale returns c * p.
func (p Poly) Scale(c float64) Poly {
	out := make([]Term, 0, len(p.Terms))
	for _, term := range p.Terms {
		exps := make([]int, p.Dim)
		copy(exps, term.Exps)
		out = append(out, Term{Coeff: c * term.Coeff, Exps: exps})
	}
	return normalize(Poly{Dim: p.Dim, Terms: out})
}

// Mul returns the product p * q.
func (p Poly) Mul(q Poly) Poly {
	out := make([]Term, 0, len(p.Terms)*len(q.Terms))
	for _, a := range p.Terms {
		for _, b := range q.Terms {
			exps := make([]int, p.Dim)
			for i := range exps {
				exps[i] = a.Exps[i] + b.Exps[i]
			}
			out = append(out, Term{Coeff: a.Coeff * b.Coeff, Exps: exps})
		}
	}
	return normalize(Poly{Dim: p.Dim, Terms: out})
}

// normalize merges like terms, drops vanishing coefficients, and sorts terms
// in graded lexicographic order so equal polynomials have equal term lists.
func normalize(p Poly) Poly {
	sort.Slice(p.Terms, func(i, j int) bool {
		return expLess(p.Terms[i].Exps, p.Terms[j].Exps)
	})
	out := p.Terms[:0]
	for _, term := range p.Terms {
		if len(out) > 0 && expEqual(out[len(out)-1].Exps, term.Exps) {
			out[len(out)-1].Coeff += term.Coeff
			continue
		}
		out = append(out, term)
	}
	kept := make([]Term, 0, len(out))
	for _, term := range out {
		if math.Abs(term.Coeff) > coeffEps {
			kept = append(kept, term)
		}
	}
	p.Terms = kept
	return p
}

func expLess(a, b []int) bool {
	da, db := 0, 0
	for _, e := range a {
		da += e
	}
	for _, e := range b {
		db += e
	}
	if da != db {
		return da < db
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func expEqual(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ipow computes x^e for small nonnegative integer e by repeated
// multiplication, which is cheaper and more predictable than math.Pow for the
// low degrees FRS polynomials use.
func ipow(x float64, e int) float64 {
	v := 1.
	for ; e > 0; e-- {
		v *= x
	}
	return v
}
