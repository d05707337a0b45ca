// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mops

import "github.com/gosbml/sbmlsim/mast"

// Simplify rewrites ast by post-order application of algebraic identities
// and constant folding. It never fails: node shapes it does not recognize
// are returned as an independent copy, unchanged. Repeated application
// reaches a fixed point.
func Simplify(ast *mast.Node) *mast.Node {
	if ast == nil {
		return nil
	}

	if ast.Tag == mast.Ln {
		if ast.Left().Tag == mast.ConstantE {
			return mast.NewInteger(1)
		}
		return mast.Clone(ast)
	}

	if !ast.IsOperator() && ast.Tag != mast.Power && ast.Tag != mast.FuncPower {
		return mast.Clone(ast)
	}

	left := Simplify(ast.Left())
	right := Simplify(ast.Right())

	switch ast.Tag {
	case mast.Plus:
		if simplified, ok := simplifyPlus(left, right); ok {
			return simplified
		}
	case mast.Minus:
		if simplified, ok := simplifyMinus(left, right); ok {
			return simplified
		}
	case mast.Times:
		if simplified, ok := simplifyTimes(left, right); ok {
			return simplified
		}
	case mast.Divide:
		if simplified, ok := simplifyDivide(left, right); ok {
			return simplified
		}
	case mast.Power, mast.FuncPower:
		if simplified, ok := simplifyPower(ast.Tag, left, right); ok {
			return simplified
		}
	}

	return mast.NewBinary(ast.Tag, left, right)
}

func simplifyPlus(left, right *mast.Node) (*mast.Node, bool) {
	if left.IsNumber() {
		if left.Value == 0.0 {
			return right, true
		}
		if right.IsNumber() {
			return mast.NewReal(left.Value + right.Value), true
		}
		if right.Tag != mast.Plus {
			// 3 + x => x + 3
			return mast.NewBinary(mast.Plus, right, left), true
		}
	}
	if right.IsNumber() && right.Value == 0.0 {
		return left, true
	}
	// merge "(u + k1) + k2" => "u + (k1+k2)"
	if left.Tag == mast.Plus && left.Right().IsNumber() && right.IsNumber() {
		merged := Simplify(mast.NewBinary(mast.Plus, right, left.Right()))
		return mast.NewBinary(mast.Plus, left.Left(), merged), true
	}
	if right.Tag == mast.Plus && right.Right().IsNumber() && left.IsNumber() {
		merged := Simplify(mast.NewBinary(mast.Plus, left, right.Right()))
		return mast.NewBinary(mast.Plus, right.Left(), merged), true
	}
	return nil, false
}

func simplifyMinus(left, right *mast.Node) (*mast.Node, bool) {
	if right.IsNumber() {
		if right.Value == 0.0 {
			return left, true
		}
		if left.IsNumber() {
			return mast.NewReal(left.Value - right.Value), true
		}
	}
	return nil, false
}

func simplifyTimes(left, right *mast.Node) (*mast.Node, bool) {
	if left.IsNumber() {
		switch left.Value {
		case 0.0:
			return mast.NewInteger(0), true
		case 1.0:
			return right, true
		}
		if right.IsNumber() {
			return mast.NewReal(left.Value * right.Value), true
		}
	}
	if right.IsNumber() {
		switch right.Value {
		case 0.0:
			return mast.NewInteger(0), true
		case 1.0:
			return left, true
		}
		if left.Tag != mast.Times {
			// x * 2 => 2 * x
			return mast.NewBinary(mast.Times, right, left), true
		}
	}
	// merge "(k1 * u) * k2" => "(k1*k2) * u"
	if left.Tag == mast.Times && left.Left().IsNumber() && right.IsNumber() {
		merged := Simplify(mast.NewBinary(mast.Times, left.Left(), right))
		return mast.NewBinary(mast.Times, merged, left.Right()), true
	}
	if right.Tag == mast.Times && right.Left().IsNumber() && left.IsNumber() {
		merged := Simplify(mast.NewBinary(mast.Times, right.Left(), left))
		return mast.NewBinary(mast.Times, merged, right.Right()), true
	}
	return nil, false
}

func simplifyDivide(left, right *mast.Node) (*mast.Node, bool) {
	if left.IsNumber() {
		if left.Value == 0.0 {
			return mast.NewInteger(0), true
		}
		if right.IsNumber() {
			return mast.NewReal(left.Value / right.Value), true
		}
	}
	if right.IsNumber() && right.Value == 1.0 {
		return left, true
	}
	return nil, false
}

func simplifyPower(tag mast.Tag, left, right *mast.Node) (*mast.Node, bool) {
	if right.IsNumber() {
		switch right.Value {
		case 0.0:
			return mast.NewInteger(1), true
		case 1.0:
			return left, true
		}
	}
	if left.Tag == mast.Power || left.Tag == mast.FuncPower {
		// pow(pow(x, a), b) => pow(x, a*b)
		exponent := Simplify(mast.NewBinary(mast.Times, left.Right(), right))
		return Simplify(mast.NewBinary(mast.Power, left.Left(), exponent)), true
	}
	if tag == mast.FuncPower {
		return mast.NewBinary(mast.Power, left, right), true
	}
	return nil, false
}
