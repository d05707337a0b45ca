// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rateeval evaluates mast ASTs — kinetic laws, event triggers,
// initial-assignment and assignment-rule math — in the context of a
// modelview.ModelView, a modelview.RunState and the current state vector.
package rateeval

import (
	"fmt"
	"math"

	"github.com/gosbml/sbmlsim/mast"
	"github.com/gosbml/sbmlsim/modelview"
	"github.com/gosbml/sbmlsim/sbml"
)

// NoReaction is passed as reactionIndex when evaluating math that is not
// scoped to any particular reaction (initial assignments, event
// assignments, assignment rules, triggers) — local parameters never
// resolve in that context (spec.md §4.4 resolution rule 3).
const NoReaction = -1

// UnsupportedASTNode is returned when Evaluate encounters a node tag it
// does not implement (spec.md §7).
type UnsupportedASTNode struct{ Tag mast.Tag }

func (e *UnsupportedASTNode) Error() string {
	return fmt.Sprintf("rateeval: unsupported AST node tag %v", e.Tag)
}

// UnsupportedRelational is returned when a trigger evaluation encounters a
// relational node type it does not implement.
type UnsupportedRelational struct{ Tag mast.Tag }

func (e *UnsupportedRelational) Error() string {
	return fmt.Sprintf("rateeval: unsupported relational node tag %v", e.Tag)
}

// UndefinedSymbol is returned, only in strict mode, when a Name cannot be
// resolved against species, compartments or parameters (spec.md §9 Open
// Questions). In lenient mode (the default) unresolved names evaluate to
// 0.0, matching the original implementation.
type UndefinedSymbol struct{ Name string }

func (e *UndefinedSymbol) Error() string {
	return fmt.Sprintf("rateeval: undefined symbol %q", e.Name)
}

// UnknownFunction is returned when a FuncCall names a function that has no
// matching FunctionDefinition in the ModelView.
type UnknownFunction struct{ Name string }

func (e *UnknownFunction) Error() string {
	return fmt.Sprintf("rateeval: unknown function %q", e.Name)
}

// Evaluator evaluates AST expressions against a fixed ModelView and
// RunState. It is a stateless closure over its inputs: the same Evaluator
// can be reused across every reaction and every time step of a run.
type Evaluator struct {
	MV          *modelview.ModelView
	RS          *modelview.RunState
	StrictNames bool
	// Time is the current simulation time, substituted for NameTime leaves.
	// The integrator driver updates it before every dxdt evaluation.
	Time float64
}

// New returns an Evaluator over mv and rs. strict selects the undefined-name
// policy (spec.md §9): false reproduces the original's lenient
// evaluate-to-zero behavior, true returns UndefinedSymbol instead.
func New(mv *modelview.ModelView, rs *modelview.RunState, strict bool) *Evaluator {
	return &Evaluator{MV: mv, RS: rs, StrictNames: strict}
}

// Evaluate computes the numeric value of ast in the context of state and
// reactionIndex (or NoReaction).
func (e *Evaluator) Evaluate(ast *mast.Node, state []float64, reactionIndex int) (float64, error) {
	switch ast.Tag {
	case mast.Real, mast.Integer:
		return ast.Value, nil

	case mast.ConstantE:
		return math.E, nil

	case mast.NameTime:
		return e.Time, nil

	case mast.Name:
		return e.evaluateName(ast.Name, state, reactionIndex)

	case mast.Plus, mast.Minus, mast.Times, mast.Divide:
		left, err := e.Evaluate(ast.Left(), state, reactionIndex)
		if err != nil {
			return 0, err
		}
		right, err := e.Evaluate(ast.Right(), state, reactionIndex)
		if err != nil {
			return 0, err
		}
		switch ast.Tag {
		case mast.Plus:
			return left + right, nil
		case mast.Minus:
			return left - right, nil
		case mast.Times:
			return left * right, nil
		default:
			return left / right, nil
		}

	case mast.Power, mast.FuncPower:
		left, err := e.Evaluate(ast.Left(), state, reactionIndex)
		if err != nil {
			return 0, err
		}
		right, err := e.Evaluate(ast.Right(), state, reactionIndex)
		if err != nil {
			return 0, err
		}
		return math.Pow(left, right), nil

	case mast.Ln:
		v, err := e.Evaluate(ast.Left(), state, reactionIndex)
		if err != nil {
			return 0, err
		}
		return math.Log(v), nil

	case mast.Sin, mast.Cos, mast.Tan, mast.Sinh, mast.Cosh, mast.Tanh, mast.Sec, mast.Root:
		v, err := e.Evaluate(ast.Left(), state, reactionIndex)
		if err != nil {
			return 0, err
		}
		return evaluateUnaryFunction(ast.Tag, v), nil

	case mast.FuncCall:
		return e.evaluateFunctionCall(ast, state, reactionIndex)

	case mast.RelLT, mast.RelGT, mast.RelLE, mast.RelGE, mast.RelEQ, mast.RelNEQ:
		truth, err := e.EvaluateTrigger(ast, state)
		if err != nil {
			return 0, err
		}
		if truth {
			return 1.0, nil
		}
		return 0.0, nil

	default:
		return 0, &UnsupportedASTNode{Tag: ast.Tag}
	}
}

func evaluateUnaryFunction(tag mast.Tag, v float64) float64 {
	switch tag {
	case mast.Sin:
		return math.Sin(v)
	case mast.Cos:
		return math.Cos(v)
	case mast.Tan:
		return math.Tan(v)
	case mast.Sinh:
		return math.Sinh(v)
	case mast.Cosh:
		return math.Cosh(v)
	case mast.Tanh:
		return math.Tanh(v)
	case mast.Sec:
		return 1.0 / math.Cos(v)
	case mast.Root:
		return math.Sqrt(v)
	default:
		return math.NaN()
	}
}

// evaluateName implements spec.md §4.4's four-step Name resolution order.
func (e *Evaluator) evaluateName(name string, state []float64, reactionIndex int) (float64, error) {
	// 1. species
	if i, ok := e.MV.SpeciesIndex(name); ok {
		sp := &e.MV.Species[i]
		if sp.DivideByCompartmentSize {
			return state[i] / e.RS.CompartmentSizes[sp.CompartmentIndex], nil
		}
		return state[i], nil
	}

	// 2. compartment
	if i, ok := e.MV.CompartmentIndex(name); ok {
		return e.RS.CompartmentSizes[i], nil
	}

	// 3. parameter (local then global) — only resolved within a reaction's
	// rate-law scope; outside of one (initial assignments, triggers, event
	// and rule math) a bare parameter name falls through to step 4, exactly
	// as the original evaluateNameNode does.
	if reactionIndex != NoReaction {
		reactionID := e.MV.Reactions[reactionIndex].ID
		for i, p := range e.MV.Parameters {
			if p.Scope == sbml.Local && p.ID == name && p.ReactionID == reactionID {
				return e.RS.ParameterValues[i], nil
			}
		}
		for i, p := range e.MV.Parameters {
			if p.Scope == sbml.Global && p.ID == name {
				return e.RS.ParameterValues[i], nil
			}
		}
	}

	// 4. unresolved
	if e.StrictNames {
		return 0, &UndefinedSymbol{Name: name}
	}
	return 0.0, nil
}

func (e *Evaluator) evaluateFunctionCall(call *mast.Node, state []float64, reactionIndex int) (float64, error) {
	fn, ok := e.MV.FunctionByName(call.Name)
	if !ok {
		return 0, &UnknownFunction{Name: call.Name}
	}
	body := mast.Clone(fn.Body)
	for i, formal := range fn.Parameters {
		if i >= len(call.Children) {
			break
		}
		if body.Tag == mast.Name && body.Name == formal {
			body = mast.Clone(call.Children[i])
			continue
		}
		substitute(body, formal, call.Children[i])
	}
	return e.Evaluate(body, state, reactionIndex)
}

// substitute replaces every Name(formal) occurrence below n with a fresh
// copy of actual, in place (a root that is itself Name(formal) is replaced
// by evaluateFunctionCall). The substituted copy is owned solely by the deep
// copy performed in evaluateFunctionCall and is discarded when that call
// returns (spec.md §5 resource discipline).
func substitute(n *mast.Node, formal string, actual *mast.Node) {
	if n == nil {
		return
	}
	for i, c := range n.Children {
		if c.Tag == mast.Name && c.Name == formal {
			n.Children[i] = mast.Clone(actual)
		} else {
			substitute(c, formal, actual)
		}
	}
}

// EvaluateTrigger evaluates a relational node (an event trigger) to a
// boolean. spec.md §4.5 only requires "<"; this implementation also
// supports the other five relational tags mast already carries, since
// mast's Tag enum is exhaustive and rejecting five of six accepted node
// types at evaluation time is a worse surface than the obvious semantics.
func (e *Evaluator) EvaluateTrigger(trigger *mast.Node, state []float64) (bool, error) {
	left, err := e.Evaluate(trigger.Left(), state, NoReaction)
	if err != nil {
		return false, err
	}
	right, err := e.Evaluate(trigger.Right(), state, NoReaction)
	if err != nil {
		return false, err
	}
	switch trigger.Tag {
	case mast.RelLT:
		return left < right, nil
	case mast.RelGT:
		return left > right, nil
	case mast.RelLE:
		return left <= right, nil
	case mast.RelGE:
		return left >= right, nil
	case mast.RelEQ:
		return left == right, nil
	case mast.RelNEQ:
		return left != right, nil
	default:
		return false, &UnsupportedRelational{Tag: trigger.Tag}
	}
}

