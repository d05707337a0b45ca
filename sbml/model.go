// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sbml holds plain value types for the subset of an SBML document
// this system consumes. Parsing SBML/XML into these types is an external
// collaborator's responsibility (out of scope, see spec.md §1/§6); this
// package only defines the object-graph shape a parser populates and
// modelview.Build consumes. The json tags exist for cmd/sbmlsim's own
// loader, which accepts a JSON-serialized Document as a pragmatic stand-in
// for a full SBML/XML front end, the same way inp/sim.go loads its json-
// tagged simulation input.
package sbml

import "github.com/gosbml/sbmlsim/mast"

// Document is the root of a parsed SBML document.
type Document struct {
	Level   uint  `json:"level"`
	Version uint  `json:"version"`
	Model   Model `json:"model"`
}

// Model is the consumed subset of an SBML <model> element.
type Model struct {
	Species             []Species            `json:"species"`
	Compartments         []Compartment        `json:"compartments"`
	Parameters           []Parameter          `json:"parameters"`
	Reactions            []Reaction           `json:"reactions"`
	FunctionDefinitions  []FunctionDefinition `json:"functionDefinitions"`
	Events               []Event              `json:"events"`
	InitialAssignments   []InitialAssignment  `json:"initialAssignments"`
	Rules                []Rule               `json:"rules"`
}

// Species is the consumed subset of an SBML <species> element.
type Species struct {
	ID                      string  `json:"id"`
	CompartmentID           string  `json:"compartmentId"`
	InitialAmount           float64 `json:"initialAmount,omitempty"`
	InitialConcentration    float64 `json:"initialConcentration,omitempty"`
	HasInitialConcentration bool    `json:"hasInitialConcentration,omitempty"`
	BoundaryCondition       bool    `json:"boundaryCondition,omitempty"`
	Constant                bool    `json:"constant,omitempty"`
	HasOnlySubstanceUnits   bool    `json:"hasOnlySubstanceUnits,omitempty"`
}

// Compartment is the consumed subset of an SBML <compartment> element.
type Compartment struct {
	ID       string  `json:"id"`
	Size     float64 `json:"size"`
	Constant bool    `json:"constant,omitempty"`
}

// ParameterScope distinguishes global parameters from parameters local to a
// reaction's kinetic law.
type ParameterScope int

const (
	// Global parameters are visible to every reaction's rate law.
	Global ParameterScope = iota
	// Local parameters are visible only within their owning reaction's
	// rate law evaluation.
	Local
)

// Parameter is the consumed subset of an SBML <parameter> element, tagged
// with its scope. ReactionID is meaningful only when Scope == Local.
type Parameter struct {
	ID         string         `json:"id"`
	Value      float64        `json:"value"`
	Scope      ParameterScope `json:"scope"`
	ReactionID string         `json:"reactionId,omitempty"`
}

// SpeciesReference is a (speciesId, stoichiometry) pair, as used by both
// reactants and products of a Reaction.
type SpeciesReference struct {
	SpeciesID     string  `json:"speciesId"`
	Stoichiometry float64 `json:"stoichiometry"`
}

// Reaction is the consumed subset of an SBML <reaction> element. Math is the
// kinetic law AST; it is pre-normalized to binary form by modelview.Build.
type Reaction struct {
	ID        string             `json:"id"`
	Reactants []SpeciesReference `json:"reactants"`
	Products  []SpeciesReference `json:"products"`
	Math      *mast.Node         `json:"math"`
}

// FunctionDefinition is the consumed subset of an SBML <functionDefinition>.
type FunctionDefinition struct {
	Name       string     `json:"name"`
	Parameters []string   `json:"parameters"`
	Body       *mast.Node `json:"body"`
}

// EventAssignment is one (variableId, valueAST) pair of an Event.
type EventAssignment struct {
	Variable string     `json:"variable"`
	Math     *mast.Node `json:"math"`
}

// Event is the consumed subset of an SBML <event> element.
type Event struct {
	ID          string            `json:"id"`
	Trigger     *mast.Node        `json:"trigger"`
	Assignments []EventAssignment `json:"assignments"`
}

// InitialAssignment is the consumed subset of an SBML <initialAssignment>.
type InitialAssignment struct {
	Symbol string     `json:"symbol"`
	Math   *mast.Node `json:"math"`
}

// RuleKind distinguishes the SBML rule subtypes this system recognizes.
type RuleKind int

const (
	// AssignmentRuleKind is the only rule kind this system evaluates.
	AssignmentRuleKind RuleKind = iota
	// RateRuleKind and AlgebraicRuleKind are recognized only so that
	// modelview.Build can reject them with UnsupportedRule.
	RateRuleKind
	AlgebraicRuleKind
)

// Rule is the consumed subset of an SBML rule element (any of
// AssignmentRule, RateRule or AlgebraicRule — see modelview.Build).
type Rule struct {
	Kind   RuleKind   `json:"kind"`
	Symbol string     `json:"symbol"`
	Math   *mast.Node `json:"math"`
}
