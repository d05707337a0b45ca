// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modelview

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gosbml/sbmlsim/mast"
	"github.com/gosbml/sbmlsim/sbml"
)

func Test_buildIndexesAndInitialState01(tst *testing.T) {

	chk.PrintTitle("buildIndexesAndInitialState01")

	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "cell", Size: 1.0, Constant: true}},
		Species: []sbml.Species{
			{ID: "A", CompartmentID: "cell", InitialAmount: 1.0, HasOnlySubstanceUnits: true},
			{ID: "B", CompartmentID: "cell", InitialConcentration: 2.0, HasInitialConcentration: true},
		},
	}
	mv, err := Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	ia, ok := mv.SpeciesIndex("A")
	if !ok || ia != 0 {
		tst.Fatalf("expected A at index 0, got %d ok=%v", ia, ok)
	}
	ib, ok := mv.SpeciesIndex("B")
	if !ok || ib != 1 {
		tst.Fatalf("expected B at index 1, got %d ok=%v", ib, ok)
	}

	state := mv.InitialState()
	chk.Vector(tst, "initial state", 1e-15, state, []float64{1.0, 2.0})

	if mv.Species[ia].DivideByCompartmentSize {
		tst.Errorf("A has HasOnlySubstanceUnits=true, should not be divided by compartment size")
	}
	if !mv.Species[ib].DivideByCompartmentSize {
		tst.Errorf("B has HasOnlySubstanceUnits=false, should be divided by compartment size")
	}
}

func Test_buildConvertsInitialConcentrationByCompartmentSize01(tst *testing.T) {

	chk.PrintTitle("buildConvertsInitialConcentrationByCompartmentSize01")

	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "cell", Size: 2.0, Constant: true}},
		Species: []sbml.Species{
			{ID: "B", CompartmentID: "cell", InitialConcentration: 3.0, HasInitialConcentration: true},
		},
	}
	mv, err := Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	state := mv.InitialState()
	chk.Vector(tst, "initial amount = concentration * size", 1e-15, state, []float64{6.0})
}

func Test_buildRejectsRateRule01(tst *testing.T) {

	chk.PrintTitle("buildRejectsRateRule01")

	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "cell", Size: 1.0, Constant: true}},
		Species:      []sbml.Species{{ID: "A", CompartmentID: "cell", InitialAmount: 1.0}},
		Rules:        []sbml.Rule{{Kind: sbml.RateRuleKind, Symbol: "A", Math: mast.NewReal(1)}},
	}
	_, err := Build(model)
	ur, ok := err.(*UnsupportedRule)
	if !ok {
		tst.Fatalf("expected *UnsupportedRule, got %v", err)
	}
	if ur.Symbol != "A" || ur.Kind != sbml.RateRuleKind {
		tst.Errorf("unexpected UnsupportedRule contents: %+v", ur)
	}
}

func Test_buildAcceptsAssignmentRule01(tst *testing.T) {

	chk.PrintTitle("buildAcceptsAssignmentRule01")

	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "cell", Size: 1.0, Constant: true}},
		Species:      []sbml.Species{{ID: "A", CompartmentID: "cell", InitialAmount: 1.0}},
		Rules:        []sbml.Rule{{Kind: sbml.AssignmentRuleKind, Symbol: "A", Math: mast.NewReal(5)}},
	}
	mv, err := Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.IntAssert(len(mv.AssignmentRules), 1)
}

func Test_reactionMathIsReducedToBinary01(tst *testing.T) {

	chk.PrintTitle("reactionMathIsReducedToBinary01")

	nary := &mast.Node{Tag: mast.Plus, Children: []*mast.Node{mast.NewReal(1), mast.NewReal(2), mast.NewReal(3)}}
	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "cell", Size: 1.0, Constant: true}},
		Species:      []sbml.Species{{ID: "A", CompartmentID: "cell", InitialAmount: 1.0}},
		Reactions:    []sbml.Reaction{{ID: "r1", Math: nary}},
	}
	mv, err := Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if len(mv.Reactions[0].Math.Children) != 2 {
		tst.Fatalf("expected reaction math reduced to a binary tree, got %d children", len(mv.Reactions[0].Math.Children))
	}
	// the input n-ary node must not have been mutated in place, since Build
	// clones before reducing.
	if len(nary.Children) != 3 {
		tst.Errorf("Build must not mutate the caller's input AST")
	}
}
