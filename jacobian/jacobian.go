// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jacobian synthesizes the Jacobian ∂(dxdt_i)/∂x_j required by
// implicit steppers (spec.md §4.7). The original C++ implementation ships
// this provider as an empty stub (SBMLSystemJacobi); spec.md §9 REDESIGN
// FLAGS calls for it to be built symbolically, via mops.Differentiate over
// each reaction's rate law with respect to each species, the same way
// msolid/state.go backs its tangent operators with a dense [][]float64.
package jacobian

import (
	"github.com/cpmech/gosl/la"
	"github.com/gosbml/sbmlsim/mast"
	"github.com/gosbml/sbmlsim/modelview"
	"github.com/gosbml/sbmlsim/mops"
	"github.com/gosbml/sbmlsim/rateeval"
)

// Provider assembles a dense Jacobian for a ModelView by differentiating
// each reaction's rate law with respect to each species name, simplifying
// each derivative, and summing contributions with the reaction's stoichiometric sign exactly as
// system.Builder.Compute does for dxdt itself.
type Provider struct {
	MV   *modelview.ModelView
	Eval *rateeval.Evaluator

	// derivatives[r][j] is d(rate of reaction r)/d(species j), simplified.
	derivatives [][]*mast.Node
}

// NewProvider differentiates every reaction's rate law with respect to
// every species once, up front, and simplifies each result — the one-time
// symbolic cost that makes the per-step Jacobian evaluation cheap.
func NewProvider(mv *modelview.ModelView, eval *rateeval.Evaluator) (*Provider, error) {
	p := &Provider{MV: mv, Eval: eval}
	p.derivatives = make([][]*mast.Node, len(mv.Reactions))
	for ri, r := range mv.Reactions {
		row := make([]*mast.Node, len(mv.Species))
		for sj, sp := range mv.Species {
			d, err := mops.Differentiate(r.Math, sp.ID)
			if err != nil {
				return nil, err
			}
			row[sj] = mops.Simplify(d)
		}
		p.derivatives[ri] = row
	}
	return p, nil
}

// Evaluate fills J (which must already be allocated nspecies x nspecies,
// e.g. via la.MatAlloc) with the Jacobian at state, applying the same
// boundary/constant zeroing policy system.Builder.Compute applies to dxdt
// itself (a constant species' row is identically zero, since its dxdt is
// forced to zero regardless of state).
func (p *Provider) Evaluate(state []float64, t float64, J [][]float64) error {
	for i := range J {
		for j := range J[i] {
			J[i][j] = 0.0
		}
	}
	p.Eval.Time = t
	for ri, r := range p.MV.Reactions {
		for sj := range p.MV.Species {
			deriv := p.derivatives[ri][sj]
			if deriv.IsNumber() && deriv.Value == 0.0 {
				continue
			}
			dvalue, err := p.Eval.Evaluate(deriv, state, ri)
			if err != nil {
				return err
			}
			if dvalue == 0.0 {
				continue
			}
			for _, reactant := range r.Reactants {
				idx, ok := p.MV.SpeciesIndex(reactant.SpeciesID)
				if !ok {
					continue
				}
				J[idx][sj] -= dvalue * reactant.Stoichiometry
			}
			for _, product := range r.Products {
				idx, ok := p.MV.SpeciesIndex(product.SpeciesID)
				if !ok {
					continue
				}
				J[idx][sj] += dvalue * product.Stoichiometry
			}
		}
	}
	for i, sp := range p.MV.Species {
		if sp.BoundaryCondition || sp.Constant {
			for j := range J[i] {
				J[i][j] = 0.0
			}
		}
	}
	return nil
}

// NewMatrix allocates an nspecies x nspecies dense matrix via gosl/la,
// matching msolid/state.go's la.MatAlloc usage for tangent-operator storage.
func NewMatrix(mv *modelview.ModelView) [][]float64 {
	n := len(mv.Species)
	return la.MatAlloc(n, n)
}
