// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modelview builds an immutable snapshot of an sbml.Model — species,
// compartments, parameters, reactions, function definitions, events, initial
// assignments and assignment rules — indexed once for O(1) name resolution.
//
// A ModelView owns every AST it contains. It is built once and never
// mutated; per-run mutable state (event trigger latches, compartment/
// parameter rebinding from initial assignments and rules) lives in a
// separate RunState so a single ModelView can back multiple concurrent
// simulations (spec.md §5, §9 REDESIGN FLAGS).
package modelview

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/gosbml/sbmlsim/mast"
	"github.com/gosbml/sbmlsim/sbml"
)

// UnsupportedRule is returned by Build when the model carries a RateRule or
// AlgebraicRule (spec.md §6: "only AssignmentRule is recognized").
type UnsupportedRule struct {
	Symbol string
	Kind   sbml.RuleKind
}

func (e *UnsupportedRule) Error() string {
	return fmt.Sprintf("modelview: unsupported rule kind %v for symbol %q", e.Kind, e.Symbol)
}

// Species is the immutable view of an sbml.Species, with its compartment
// resolved to an index.
type Species struct {
	ID                    string
	CompartmentIndex      int
	BoundaryCondition     bool
	Constant              bool
	HasOnlySubstanceUnits bool
	// DivideByCompartmentSize is true when the species is stored in the
	// state vector as an amount but must be read back as a concentration
	// (spec.md §4.4 resolution rule 1).
	DivideByCompartmentSize bool
	InitialValue            float64
}

// Compartment is the mutable-size companion to sbml.Compartment; Size is
// read by RateEvaluator and may be overwritten by initial assignments and
// assignment rules during a run (via RunState), never by ModelView itself.
type Compartment struct {
	ID       string
	Size     float64
	Constant bool
}

// Parameter mirrors sbml.Parameter after scope resolution.
type Parameter struct {
	ID         string
	Value      float64
	Scope      sbml.ParameterScope
	ReactionID string
}

// Reaction is a reaction with its kinetic law pre-reduced to binary form.
type Reaction struct {
	ID        string
	Reactants []sbml.SpeciesReference
	Products  []sbml.SpeciesReference
	Math      *mast.Node
}

// FunctionDefinition mirrors sbml.FunctionDefinition.
type FunctionDefinition struct {
	Name       string
	Parameters []string
	Body       *mast.Node
}

// Event mirrors sbml.Event; its mutable triggerState lives in RunState, not
// here.
type Event struct {
	ID          string
	Trigger     *mast.Node
	Assignments []sbml.EventAssignment
}

// InitialAssignment mirrors sbml.InitialAssignment.
type InitialAssignment struct {
	Symbol string
	Math   *mast.Node
}

// AssignmentRule mirrors the one sbml.Rule kind this system evaluates.
type AssignmentRule struct {
	Symbol string
	Math   *mast.Node
}

// ModelView is the immutable, indexed snapshot consumed by RateEvaluator and
// SystemBuilder. Once built it is safe to share across goroutines, as no
// method mutates it.
type ModelView struct {
	Species             []Species
	Compartments        []Compartment
	Parameters          []Parameter
	Reactions           []Reaction
	FunctionDefinitions []FunctionDefinition
	Events              []Event
	InitialAssignments  []InitialAssignment
	AssignmentRules     []AssignmentRule

	speciesIndex     map[string]int
	compartmentIndex map[string]int
	reactionIndex    map[string]int
}

// Build constructs a ModelView from a parsed sbml.Model. It panics (via
// gosl/chk, mirroring gofem's fem.go input-validation panics) only on
// structural inconsistency — a species referencing an unknown compartment —
// since that indicates a malformed input graph rather than a recoverable
// runtime condition. It returns UnsupportedRule for RateRule/AlgebraicRule
// entries, which is a normal, expected-to-occur error condition (spec.md
// §6/§7).
func Build(model *sbml.Model) (*ModelView, error) {
	mv := &ModelView{
		compartmentIndex: make(map[string]int, len(model.Compartments)),
		speciesIndex:     make(map[string]int, len(model.Species)),
		reactionIndex:    make(map[string]int, len(model.Reactions)),
	}

	mv.Compartments = make([]Compartment, len(model.Compartments))
	for i, c := range model.Compartments {
		mv.Compartments[i] = Compartment{ID: c.ID, Size: c.Size, Constant: c.Constant}
		mv.compartmentIndex[c.ID] = i
	}

	mv.Species = make([]Species, len(model.Species))
	for i, s := range model.Species {
		ci, ok := mv.compartmentIndex[s.CompartmentID]
		if !ok {
			chk.Panic("modelview: species %q references unknown compartment %q", s.ID, s.CompartmentID)
		}
		initial := s.InitialAmount
		divide := false
		if s.HasInitialConcentration {
			// state is always stored as amount; a species declared by
			// initial concentration is converted at construction time.
			initial = s.InitialConcentration * mv.Compartments[ci].Size
		}
		if !s.HasOnlySubstanceUnits {
			divide = true
		}
		mv.Species[i] = Species{
			ID:                      s.ID,
			CompartmentIndex:        ci,
			BoundaryCondition:       s.BoundaryCondition,
			Constant:                s.Constant,
			HasOnlySubstanceUnits:   s.HasOnlySubstanceUnits,
			DivideByCompartmentSize: divide,
			InitialValue:            initial,
		}
		mv.speciesIndex[s.ID] = i
	}

	mv.Parameters = make([]Parameter, len(model.Parameters))
	for i, p := range model.Parameters {
		mv.Parameters[i] = Parameter{ID: p.ID, Value: p.Value, Scope: p.Scope, ReactionID: p.ReactionID}
	}

	mv.Reactions = make([]Reaction, len(model.Reactions))
	for i, r := range model.Reactions {
		mv.Reactions[i] = Reaction{
			ID:        r.ID,
			Reactants: r.Reactants,
			Products:  r.Products,
			Math:      mast.ReduceToBinary(mast.Clone(r.Math)),
		}
		mv.reactionIndex[r.ID] = i
	}

	mv.FunctionDefinitions = make([]FunctionDefinition, len(model.FunctionDefinitions))
	for i, f := range model.FunctionDefinitions {
		mv.FunctionDefinitions[i] = FunctionDefinition{Name: f.Name, Parameters: f.Parameters, Body: mast.Clone(f.Body)}
	}

	mv.Events = make([]Event, len(model.Events))
	for i, e := range model.Events {
		assignments := make([]sbml.EventAssignment, len(e.Assignments))
		for j, a := range e.Assignments {
			assignments[j] = sbml.EventAssignment{Variable: a.Variable, Math: mast.Clone(a.Math)}
		}
		mv.Events[i] = Event{ID: e.ID, Trigger: mast.Clone(e.Trigger), Assignments: assignments}
	}

	mv.InitialAssignments = make([]InitialAssignment, len(model.InitialAssignments))
	for i, ia := range model.InitialAssignments {
		mv.InitialAssignments[i] = InitialAssignment{Symbol: ia.Symbol, Math: mast.Clone(ia.Math)}
	}

	for _, rule := range model.Rules {
		if rule.Kind != sbml.AssignmentRuleKind {
			return nil, &UnsupportedRule{Symbol: rule.Symbol, Kind: rule.Kind}
		}
		mv.AssignmentRules = append(mv.AssignmentRules, AssignmentRule{Symbol: rule.Symbol, Math: mast.Clone(rule.Math)})
	}

	return mv, nil
}

// SpeciesIndex returns the state-vector index of the species with id, and
// whether it was found.
func (mv *ModelView) SpeciesIndex(id string) (int, bool) {
	i, ok := mv.speciesIndex[id]
	return i, ok
}

// CompartmentIndex returns the index of the compartment with id, and
// whether it was found.
func (mv *ModelView) CompartmentIndex(id string) (int, bool) {
	i, ok := mv.compartmentIndex[id]
	return i, ok
}

// ReactionIndexByID returns the index of the reaction with id, and whether
// it was found.
func (mv *ModelView) ReactionIndexByID(id string) (int, bool) {
	i, ok := mv.reactionIndex[id]
	return i, ok
}

// InitialState returns a freshly allocated state vector populated with each
// species' initial amount/concentration, positionally indexed exactly as
// mv.Species (spec.md §3 State vector invariant).
func (mv *ModelView) InitialState() []float64 {
	state := make([]float64, len(mv.Species))
	for i, s := range mv.Species {
		state[i] = s.InitialValue
	}
	return state
}

// FunctionByName returns the FunctionDefinition named name, and whether one
// was found.
func (mv *ModelView) FunctionByName(name string) (*FunctionDefinition, bool) {
	for i := range mv.FunctionDefinitions {
		if mv.FunctionDefinitions[i].Name == name {
			return &mv.FunctionDefinitions[i], true
		}
	}
	return nil, false
}
