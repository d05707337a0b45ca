// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package system assembles dxdt from a ModelView's reactions and
// stoichiometries, and applies the boundary/constant-species policy,
// initial assignments, assignment rules and discrete events (spec.md §4.5).
// It mirrors the original's SBMLSystem, split so that RateEvaluator stays a
// pure function of (ast, state, reaction) and SystemBuilder owns only the
// assembly/mutation policy layered on top of it.
package system

import (
	"github.com/gosbml/sbmlsim/modelview"
	"github.com/gosbml/sbmlsim/rateeval"
	"github.com/gosbml/sbmlsim/sbml"
)

// Builder computes dxdt and applies events/assignments/rules for one
// ModelView. It borrows the ModelView immutably and mutates only the
// RunState (event latches, compartment/parameter bindings) and the caller's
// state vector — never the ModelView itself.
type Builder struct {
	MV  *modelview.ModelView
	RS  *modelview.RunState
	Eval *rateeval.Evaluator
}

// New returns a Builder over mv, mutating rs, evaluating with eval.
func New(mv *modelview.ModelView, rs *modelview.RunState, eval *rateeval.Evaluator) *Builder {
	return &Builder{MV: mv, RS: rs, Eval: eval}
}

// Compute fills dxdt (which must already be length len(mv.Species)) from the
// current reaction rates at state, then zeroes every boundary/constant
// species' derivative (spec.md §4.5 steps 1-5).
func (b *Builder) Compute(state, dxdt []float64, t float64) error {
	b.Eval.Time = t
	for i := range dxdt {
		dxdt[i] = 0.0
	}

	for ri, r := range b.MV.Reactions {
		rate, err := b.Eval.Evaluate(r.Math, state, ri)
		if err != nil {
			return err
		}
		for _, reactant := range r.Reactants {
			idx, ok := b.MV.SpeciesIndex(reactant.SpeciesID)
			if !ok {
				continue
			}
			dxdt[idx] -= rate * reactant.Stoichiometry
		}
		for _, product := range r.Products {
			idx, ok := b.MV.SpeciesIndex(product.SpeciesID)
			if !ok {
				continue
			}
			dxdt[idx] += rate * product.Stoichiometry
		}
	}

	for i, sp := range b.MV.Species {
		if sp.BoundaryCondition || sp.Constant {
			dxdt[i] = 0.0
		}
	}
	return nil
}

// ApplyInitialAssignments evaluates every InitialAssignment against state
// (with no reaction in scope) and overwrites the bound species, compartment
// or global parameter, in model order. Called once, before the first
// integration step (spec.md §4.5).
func (b *Builder) ApplyInitialAssignments(state []float64) error {
	for _, ia := range b.MV.InitialAssignments {
		value, err := b.Eval.Evaluate(ia.Math, state, rateeval.NoReaction)
		if err != nil {
			return err
		}
		b.bindSymbol(ia.Symbol, value, state)
	}
	return nil
}

// ApplyAssignmentRules re-evaluates every AssignmentRule and writes the
// result into its bound species/compartment/parameter. Conservatively
// callable before every observer sample and at the start of every internal
// step (spec.md §4.5).
func (b *Builder) ApplyAssignmentRules(state []float64) error {
	for _, rule := range b.MV.AssignmentRules {
		value, err := b.Eval.Evaluate(rule.Math, state, rateeval.NoReaction)
		if err != nil {
			return err
		}
		b.bindSymbol(rule.Symbol, value, state)
	}
	return nil
}

func (b *Builder) bindSymbol(symbol string, value float64, state []float64) {
	if i, ok := b.MV.SpeciesIndex(symbol); ok {
		state[i] = value
		return
	}
	if i, ok := b.MV.CompartmentIndex(symbol); ok {
		b.RS.CompartmentSizes[i] = value
		return
	}
	for i, p := range b.MV.Parameters {
		if p.Scope == sbml.Global && p.ID == symbol {
			b.RS.ParameterValues[i] = value
			return
		}
	}
}

// HandleEvents evaluates every event's trigger against state and, on a
// rising edge (trigger true, latch previously false), applies its
// assignments (species only — spec.md §4.5 explicitly excludes compartment
// and parameter targets here) and sets the latch. On a false trigger the
// latch resets. Events are processed in ModelView order (spec.md §4.5).
func (b *Builder) HandleEvents(state []float64) error {
	for i, ev := range b.MV.Events {
		fired, err := b.Eval.EvaluateTrigger(ev.Trigger, state)
		if err != nil {
			return err
		}
		if fired && !b.RS.TriggerState(i) {
			for _, assignment := range ev.Assignments {
				idx, ok := b.MV.SpeciesIndex(assignment.Variable)
				if !ok {
					continue
				}
				value, err := b.Eval.Evaluate(assignment.Math, state, rateeval.NoReaction)
				if err != nil {
					return err
				}
				state[idx] = value
			}
			b.RS.SetTriggerState(i, true)
		} else if !fired {
			b.RS.SetTriggerState(i, false)
		}
	}
	return nil
}

