package polynomial

import "github.com/pkg/errors"

// TwoGroup is a polynomial whose variables are partitioned into two groups:
// the first StateDim variables are state variables (the FRS's normalized x
// and y), the remaining ParamDim are trajectory parameters. Decompose groups
// terms by their state-exponent pattern, so substituting a numeric state
// sample touches each state factor exactly once instead of re-expanding the
// whole polynomial per evaluation.
type TwoGroup struct {
	StateDim int
	ParamDim int
	groups   []stateGroup
}

// stateGroup is the parameter-variable polynomial multiplying one distinct
// state-exponent pattern.
type stateGroup struct {
	stateExps []int
	param     Poly
}

// Decompose splits a polynomial in stateDim+paramDim variables (state
// variables first) into its state-grouped form.
func Decompose(p Poly, stateDim, paramDim int) (TwoGroup, error) {
	if p.Dim != stateDim+paramDim {
		return TwoGroup{}, errors.Errorf("polynomial has %d variables, want %d state + %d param", p.Dim, stateDim, paramDim)
	}
	tg := TwoGroup{StateDim: stateDim, ParamDim: paramDim}
	for _, term := range p.Terms {
		sExps := term.Exps[:stateDim]
		kTerm := Term{Coeff: term.Coeff, Exps: term.Exps[stateDim:]}
		idx := -1
		for i, g := range tg.groups {
			if expEqual(g.stateExps, sExps) {
				idx = i
				break
			}
		}
		if idx < 0 {
			exps := make([]int, stateDim)
			copy(exps, sExps)
			tg.groups = append(tg.groups, stateGroup{stateExps: exps, param: Zero(paramDim)})
			idx = len(tg.groups) - 1
		}
		kp, err := FromTerms(paramDim, []Term{kTerm})
		if err != nil {
			return TwoGroup{}, err
		}
		tg.groups[idx].param = tg.groups[idx].param.Add(kp)
	}
	return tg, nil
}

// AtState substitutes the state sample z, returning a polynomial purely in
// the parameter variables. A result with no terms (all contributions
// cancelled) is a legal degenerate outcome, not an error.
func (tg TwoGroup) AtState(z []float64) Poly {
	out := Zero(tg.ParamDim)
	for _, g := range tg.groups {
		factor := 1.
		for i, e := range g.stateExps {
			factor *= ipow(z[i], e)
		}
		if factor == 0 {
			continue
		}
		out = out.Add(g.param.Scale(factor))
	}
	return out
}

// Full recombines the decomposition into a single polynomial over all
// stateDim+paramDim variables.
func (tg TwoGroup) Full() Poly {
	dim := tg.StateDim + tg.ParamDim
	out := Zero(dim)
	for _, g := range tg.groups {
		for _, kt := range g.param.Terms {
			exps := make([]int, dim)
			copy(exps, g.stateExps)
			copy(exps[tg.StateDim:], kt.Exps)
			out = out.Add(Poly{Dim: dim, Terms: []Term{{Coeff: kt.Coeff, Exps: exps}}})
		}
	}
	return out
}
