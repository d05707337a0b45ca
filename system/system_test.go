// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package system

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gosbml/sbmlsim/mast"
	"github.com/gosbml/sbmlsim/modelview"
	"github.com/gosbml/sbmlsim/rateeval"
	"github.com/gosbml/sbmlsim/sbml"
)

// buildReversibleBinding returns the A + B <-> C equilibrium model used by
// spec.md's reversible-binding scenario (Keq = kf/kr = 2).
func buildReversibleBinding(tst *testing.T) (*modelview.ModelView, *Builder) {
	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "c", Size: 1, Constant: true}},
		Species: []sbml.Species{
			{ID: "A", CompartmentID: "c", InitialAmount: 1.0, HasOnlySubstanceUnits: true},
			{ID: "B", CompartmentID: "c", InitialAmount: 1.0, HasOnlySubstanceUnits: true},
			{ID: "C", CompartmentID: "c", InitialAmount: 0.0, HasOnlySubstanceUnits: true},
		},
		Parameters: []sbml.Parameter{
			{ID: "kf", Value: 2.0, Scope: sbml.Local, ReactionID: "bind"},
			{ID: "kr", Value: 1.0, Scope: sbml.Local, ReactionID: "bind"},
		},
		Reactions: []sbml.Reaction{
			{
				ID:        "bind",
				Reactants: []sbml.SpeciesReference{{SpeciesID: "A", Stoichiometry: 1}, {SpeciesID: "B", Stoichiometry: 1}},
				Products:  []sbml.SpeciesReference{{SpeciesID: "C", Stoichiometry: 1}},
				Math: mast.NewBinary(mast.Minus,
					mast.NewBinary(mast.Times, mast.NewName("kf"), mast.NewBinary(mast.Times, mast.NewName("A"), mast.NewName("B"))),
					mast.NewBinary(mast.Times, mast.NewName("kr"), mast.NewName("C")),
				),
			},
		},
	}
	mv, err := modelview.Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	rs := modelview.NewRunState(mv)
	eval := rateeval.New(mv, rs, true)
	return mv, New(mv, rs, eval)
}

func Test_computeMassAction01(tst *testing.T) {

	chk.PrintTitle("computeMassAction01")

	mv, b := buildReversibleBinding(tst)
	state := mv.InitialState()
	dxdt := make([]float64, len(state))
	if err := b.Compute(state, dxdt, 0.0); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	// rate = kf*A*B - kr*C = 2*1*1 - 1*0 = 2
	chk.Vector(tst, "dxdt", 1e-12, dxdt, []float64{-2.0, -2.0, 2.0})
}

func Test_computeAtEquilibrium01(tst *testing.T) {

	chk.PrintTitle("computeAtEquilibrium01")

	// at Keq = kf/kr = 2, with values chosen so kf*A*B = kr*C
	mv, b := buildReversibleBinding(tst)
	// choose A=B=1, C=2 => rate = 2*1*1 - 1*2 = 0
	state := []float64{1.0, 1.0, 2.0}
	dxdt := make([]float64, len(state))
	if err := b.Compute(state, dxdt, 0.0); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "dxdt at equilibrium", 1e-12, dxdt, []float64{0, 0, 0})
}

func Test_boundarySpeciesDxdtIsZero01(tst *testing.T) {

	chk.PrintTitle("boundarySpeciesDxdtIsZero01")

	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "c", Size: 1, Constant: true}},
		Species: []sbml.Species{
			{ID: "A", CompartmentID: "c", InitialAmount: 5.0, BoundaryCondition: true, HasOnlySubstanceUnits: true},
			{ID: "B", CompartmentID: "c", InitialAmount: 0.0, HasOnlySubstanceUnits: true},
		},
		Reactions: []sbml.Reaction{
			{
				ID:        "consume",
				Reactants: []sbml.SpeciesReference{{SpeciesID: "A", Stoichiometry: 1}},
				Products:  []sbml.SpeciesReference{{SpeciesID: "B", Stoichiometry: 1}},
				Math:      mast.NewBinary(mast.Times, mast.NewReal(1.0), mast.NewName("A")),
			},
		},
	}
	mv, err := modelview.Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	rs := modelview.NewRunState(mv)
	eval := rateeval.New(mv, rs, true)
	b := New(mv, rs, eval)

	state := mv.InitialState()
	dxdt := make([]float64, len(state))
	if err := b.Compute(state, dxdt, 0.0); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Scalar(tst, "boundary species A dxdt forced to 0", 1e-15, dxdt[0], 0.0)
	chk.Scalar(tst, "B still receives the reaction's product flux", 1e-15, dxdt[1], 5.0)
}

func Test_handleEventsRisingEdgeFiresOnce01(tst *testing.T) {

	chk.PrintTitle("handleEventsRisingEdgeFiresOnce01")

	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "c", Size: 1, Constant: true}},
		Species:      []sbml.Species{{ID: "A", CompartmentID: "c", InitialAmount: 0.0}},
		Events: []sbml.Event{
			{
				ID:      "e1",
				Trigger: mast.NewBinary(mast.RelGE, mast.NewName("A"), mast.NewReal(1.0)),
				Assignments: []sbml.EventAssignment{
					{Variable: "A", Math: mast.NewReal(0.0)},
				},
			},
		},
	}
	mv, err := modelview.Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	rs := modelview.NewRunState(mv)
	eval := rateeval.New(mv, rs, true)
	b := New(mv, rs, eval)

	state := []float64{2.0}
	if err := b.HandleEvents(state); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Scalar(tst, "event resets A to 0 on rising edge", 1e-15, state[0], 0.0)

	// trigger is now false (A=0 is not >= 1); latch resets; a second call
	// with A still below threshold must not refire.
	if err := b.HandleEvents(state); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Scalar(tst, "event does not refire while trigger is false", 1e-15, state[0], 0.0)
}
