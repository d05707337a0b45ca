// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mops implements symbolic differentiation and simplification over
// mast AST trees, plus a small factorial helper. The rate-law evaluator
// does not call Factorial.
package mops

import (
	"fmt"

	"github.com/gosbml/sbmlsim/mast"
)

// Error is returned when differentiation encounters a node type it does
// not implement.
type Error struct {
	Op  string
	Tag mast.Tag
}

func (e *Error) Error() string {
	return fmt.Sprintf("mops: %s: unsupported node tag %v", e.Op, e.Tag)
}

// Differentiate returns d(ast)/d(target) as a new AST, re-normalized to
// binary form. It never mutates ast.
//
// If target does not occur as a Name anywhere in ast, the result is
// immediately Integer(0) — both an optimization and a safeguard against the
// generic Power rule emitting spurious ln(u) terms for expressions with no
// symbolic exponent.
func Differentiate(ast *mast.Node, target string) (*mast.Node, error) {
	if !mast.ContainsName(ast, target) {
		return mast.NewInteger(0), nil
	}
	n, err := differentiate(ast, target)
	if err != nil {
		return nil, err
	}
	return mast.ReduceToBinary(n), nil
}

func differentiate(n *mast.Node, target string) (*mast.Node, error) {
	switch n.Tag {
	case mast.Real, mast.Integer, mast.NameTime, mast.ConstantE:
		return mast.NewInteger(0), nil

	case mast.Name:
		if n.Name == target {
			return mast.NewInteger(1), nil
		}
		return mast.NewInteger(0), nil

	case mast.Plus, mast.Minus:
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		dv, err := differentiate(n.Right(), target)
		if err != nil {
			return nil, err
		}
		return mast.NewBinary(n.Tag, du, dv), nil

	case mast.Times:
		// d{u*v}/dx = du/dx*v + u*dv/dx
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		dv, err := differentiate(n.Right(), target)
		if err != nil {
			return nil, err
		}
		left := mast.NewBinary(mast.Times, du, mast.Clone(n.Right()))
		right := mast.NewBinary(mast.Times, mast.Clone(n.Left()), dv)
		return mast.NewBinary(mast.Plus, left, right), nil

	case mast.Divide:
		// d{u/v}/dx = du/dx / v                    if target not in v
		//           = (du/dx*v - u*dv/dx) / v^2     otherwise
		if !mast.ContainsName(n.Right(), target) {
			du, err := differentiate(n.Left(), target)
			if err != nil {
				return nil, err
			}
			return mast.NewBinary(mast.Divide, du, mast.Clone(n.Right())), nil
		}
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		dv, err := differentiate(n.Right(), target)
		if err != nil {
			return nil, err
		}
		ll := mast.NewBinary(mast.Times, du, mast.Clone(n.Right()))
		lr := mast.NewBinary(mast.Times, mast.Clone(n.Left()), dv)
		numerator := mast.NewBinary(mast.Minus, ll, lr)
		denominator := mast.NewBinary(mast.Power, mast.Clone(n.Right()), mast.NewInteger(2))
		return mast.NewBinary(mast.Divide, numerator, denominator), nil

	case mast.Power, mast.FuncPower:
		// d{u^v}/dx = v*u^(v-1)*du/dx + u^v*ln(u)*dv/dx
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		dv, err := differentiate(n.Right(), target)
		if err != nil {
			return nil, err
		}
		vMinus1 := mast.NewBinary(mast.Minus, mast.Clone(n.Right()), mast.NewInteger(1))
		uPowVMinus1 := mast.NewBinary(mast.Power, mast.Clone(n.Left()), vMinus1)
		vTimesPow := mast.NewBinary(mast.Times, mast.Clone(n.Right()), uPowVMinus1)
		left := mast.NewBinary(mast.Times, vTimesPow, du)

		uPowV := mast.NewBinary(mast.Power, mast.Clone(n.Left()), mast.Clone(n.Right()))
		lnU := mast.NewUnary(mast.Ln, mast.Clone(n.Left()))
		lnTimesDv := mast.NewBinary(mast.Times, lnU, dv)
		right := mast.NewBinary(mast.Times, uPowV, lnTimesDv)

		return mast.NewBinary(mast.Plus, left, right), nil

	case mast.Root:
		// d{sqrt(u)}/dx = du/dx * 0.5 * u^(-0.5)
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		uPow := mast.NewBinary(mast.FuncPower, mast.Clone(n.Left()), mast.NewReal(-0.5))
		half := mast.NewBinary(mast.Times, mast.NewReal(0.5), uPow)
		return mast.NewBinary(mast.Times, du, half), nil

	case mast.Sin:
		// d{sin(u)}/dx = du/dx * cos(u)
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		return mast.NewBinary(mast.Times, du, mast.NewUnary(mast.Cos, mast.Clone(n.Left()))), nil

	case mast.Cos:
		// d{cos(u)}/dx = -1 * du/dx * sin(u)
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		negDu := mast.NewBinary(mast.Times, mast.NewInteger(-1), du)
		return mast.NewBinary(mast.Times, negDu, mast.NewUnary(mast.Sin, mast.Clone(n.Left()))), nil

	case mast.Tan:
		// d{tan(u)}/dx = du/dx * sec(u)^2
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		sec2 := mast.NewBinary(mast.Power, mast.NewUnary(mast.Sec, mast.Clone(n.Left())), mast.NewInteger(2))
		return mast.NewBinary(mast.Times, du, sec2), nil

	case mast.Sinh:
		// d{sinh(u)}/dx = du/dx * cosh(u)
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		return mast.NewBinary(mast.Times, du, mast.NewUnary(mast.Cosh, mast.Clone(n.Left()))), nil

	case mast.Cosh:
		// d{cosh(u)}/dx = du/dx * sinh(u)
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		return mast.NewBinary(mast.Times, du, mast.NewUnary(mast.Sinh, mast.Clone(n.Left()))), nil

	case mast.Tanh:
		// d{tanh(u)}/dx = du/dx / cosh(u)^2
		du, err := differentiate(n.Left(), target)
		if err != nil {
			return nil, err
		}
		cosh2 := mast.NewBinary(mast.Power, mast.NewUnary(mast.Cosh, mast.Clone(n.Left())), mast.NewInteger(2))
		return mast.NewBinary(mast.Divide, du, cosh2), nil

	default:
		return nil, &Error{Op: "differentiate", Tag: n.Tag}
	}
}
