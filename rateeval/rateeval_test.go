// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rateeval

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gosbml/sbmlsim/mast"
	"github.com/gosbml/sbmlsim/modelview"
	"github.com/gosbml/sbmlsim/sbml"
)

// buildDecayModel returns a one-species, one-reaction, one-local-parameter
// model: dA/dt = -k*A, A(0) = 1, k = 0.5 (spec.md scenario 1).
func buildDecayModel(tst *testing.T) (*modelview.ModelView, *modelview.RunState) {
	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "c", Size: 1, Constant: true}},
		Species: []sbml.Species{
			{ID: "A", CompartmentID: "c", InitialAmount: 1.0, HasOnlySubstanceUnits: true},
		},
		Parameters: []sbml.Parameter{
			{ID: "k", Value: 0.5, Scope: sbml.Local, ReactionID: "decay"},
			{ID: "k", Value: 999.0, Scope: sbml.Global},
		},
		Reactions: []sbml.Reaction{
			{
				ID:        "decay",
				Reactants: []sbml.SpeciesReference{{SpeciesID: "A", Stoichiometry: 1}},
				Math:      mast.NewBinary(mast.Times, mast.NewName("k"), mast.NewName("A")),
			},
		},
	}
	mv, err := modelview.Build(model)
	if err != nil {
		tst.Fatalf("unexpected Build error: %v", err)
	}
	return mv, modelview.NewRunState(mv)
}

func Test_evaluateLocalParameterShadowsGlobal01(tst *testing.T) {

	chk.PrintTitle("evaluateLocalParameterShadowsGlobal01")

	mv, rs := buildDecayModel(tst)
	eval := New(mv, rs, true)
	ri, ok := mv.ReactionIndexByID("decay")
	if !ok {
		tst.Fatalf("reaction not found")
	}
	v, err := eval.Evaluate(mv.Reactions[ri].Math, []float64{2.0}, ri)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Scalar(tst, "k(local)*A", 1e-15, v, 1.0) // 0.5 * 2.0, not 999*2.0
}

func Test_evaluateParameterOutsideReactionScopeIsUnresolved01(tst *testing.T) {

	chk.PrintTitle("evaluateParameterOutsideReactionScopeIsUnresolved01")

	mv, rs := buildDecayModel(tst)
	eval := New(mv, rs, true)

	_, err := eval.Evaluate(mast.NewName("k"), []float64{2.0}, NoReaction)
	if _, ok := err.(*UndefinedSymbol); !ok {
		tst.Fatalf("expected UndefinedSymbol outside reaction scope in strict mode, got %v", err)
	}

	eval.StrictNames = false
	v, err := eval.Evaluate(mast.NewName("k"), []float64{2.0}, NoReaction)
	if err != nil {
		tst.Fatalf("unexpected error in lenient mode: %v", err)
	}
	chk.Scalar(tst, "lenient unresolved name", 1e-15, v, 0.0)
}

func Test_evaluateDivideByCompartmentSize01(tst *testing.T) {

	chk.PrintTitle("evaluateDivideByCompartmentSize01")

	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "c", Size: 2.0, Constant: true}},
		Species: []sbml.Species{
			{ID: "A", CompartmentID: "c", InitialAmount: 10.0, HasOnlySubstanceUnits: false},
		},
	}
	mv, err := modelview.Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	rs := modelview.NewRunState(mv)
	eval := New(mv, rs, true)

	v, err := eval.Evaluate(mast.NewName("A"), []float64{10.0}, NoReaction)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Scalar(tst, "A as concentration = amount/size", 1e-15, v, 5.0)
}

func Test_evaluateTrigger01(tst *testing.T) {

	chk.PrintTitle("evaluateTrigger01")

	mv, rs := buildDecayModel(tst)
	eval := New(mv, rs, true)

	trigger := mast.NewBinary(mast.RelLT, mast.NewName("A"), mast.NewReal(1.5))
	fired, err := eval.EvaluateTrigger(trigger, []float64{1.0})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		tst.Errorf("expected A(1.0) < 1.5 to be true")
	}

	fired, err = eval.EvaluateTrigger(trigger, []float64{2.0})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if fired {
		tst.Errorf("expected A(2.0) < 1.5 to be false")
	}
}

func Test_evaluateFunctionCall01(tst *testing.T) {

	chk.PrintTitle("evaluateFunctionCall01")

	model := &sbml.Model{
		Compartments: []sbml.Compartment{{ID: "c", Size: 1, Constant: true}},
		Species:      []sbml.Species{{ID: "A", CompartmentID: "c", InitialAmount: 3.0, HasOnlySubstanceUnits: true}},
		FunctionDefinitions: []sbml.FunctionDefinition{
			{
				Name:       "double",
				Parameters: []string{"x"},
				Body:       mast.NewBinary(mast.Times, mast.NewReal(2.0), mast.NewName("x")),
			},
		},
	}
	mv, err := modelview.Build(model)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	rs := modelview.NewRunState(mv)
	eval := New(mv, rs, true)

	call := &mast.Node{Tag: mast.FuncCall, Name: "double", Children: []*mast.Node{mast.NewName("A")}}
	v, err := eval.Evaluate(call, []float64{3.0}, NoReaction)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Scalar(tst, "double(A)", 1e-15, v, 6.0)
}
