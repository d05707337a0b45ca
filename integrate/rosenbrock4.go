// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"fmt"

	"github.com/cpmech/gosl/la"
)

// Rosenbrock4 is a 4-stage, order-4, L-stable linearly-implicit Rosenbrock
// method (the classical Shampine-form "Ros4" tableau) with an embedded
// 3rd-order error estimate. It is the implicit stepper spec.md §4.6
// requires, and the one stepper that actually exercises the Jacobian
// provider built in package jacobian (spec.md §4.7).
//
// Each stage solves one linear system with the same matrix
// A = (1/(gamma*h))·I - J. Each of the four solves repeats a plain Gaussian
// elimination with partial pivoting on a fresh copy of A (the exact
// linear-solve entry point of gosl/la's sparse/dense solvers is not
// inspectable from the vendored pack — see DESIGN.md); no factorization is
// reused across stages.
// The Jacobian is treated as time-independent within a step: the scheme's
// ∂f/∂t terms are omitted and stages 2-4 are all evaluated at t+h, so the
// stated order holds only for kinetic laws that do not reference NameTime.
type Rosenbrock4 struct {
	JacFunc func(y []float64, t float64, J [][]float64) error

	n int
}

func (s *Rosenbrock4) Adaptive() bool { return true }
func (s *Rosenbrock4) Order() int     { return 4 }

const (
	ros4Gam = 0.5
	ros4A21 = 2.0
	ros4A31 = 48.0 / 25.0
	ros4A32 = 6.0 / 25.0
	ros4C21 = -8.0
	ros4C31 = 372.0 / 25.0
	ros4C32 = 12.0 / 5.0
	ros4C41 = -112.0 / 125.0
	ros4C42 = -54.0 / 125.0
	ros4C43 = -2.0 / 5.0
	ros4B1  = 19.0 / 9.0
	ros4B2  = 1.0 / 2.0
	ros4B3  = 25.0 / 108.0
	ros4B4  = 125.0 / 108.0
	ros4E1  = 17.0 / 54.0
	ros4E2  = 7.0 / 36.0
	ros4E3  = 0.0
	ros4E4  = 125.0 / 108.0
)

// Step implements the 4-stage Rosenbrock scheme. JacFunc must be set before
// calling Step.
func (s *Rosenbrock4) Step(f DxdtFunc, t, h float64, y, yNext, errEst []float64) error {
	n := len(y)
	s.n = n

	if s.JacFunc == nil {
		return fmt.Errorf("integrate: Rosenbrock4 requires a Jacobian provider")
	}

	J := la.MatAlloc(n, n)
	if err := s.JacFunc(y, t, J); err != nil {
		return err
	}

	A := la.MatAlloc(n, n)
	invGamH := 1.0 / (ros4Gam * h)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			A[i][j] = -J[i][j]
		}
		A[i][i] += invGamH
	}

	fy := make([]float64, n)
	if err := f(y, t, fy); err != nil {
		return err
	}

	g1, err := solveLinear(A, fy)
	if err != nil {
		return err
	}

	ytmp := make([]float64, n)
	for i := 0; i < n; i++ {
		ytmp[i] = y[i] + ros4A21*g1[i]
	}
	rhs2 := make([]float64, n)
	if err := f(ytmp, t+h, rhs2); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		rhs2[i] += ros4C21 * g1[i] / h
	}
	g2, err := solveLinear(A, rhs2)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		ytmp[i] = y[i] + ros4A31*g1[i] + ros4A32*g2[i]
	}
	rhs3 := make([]float64, n)
	if err := f(ytmp, t+h, rhs3); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		rhs3[i] += (ros4C31*g1[i] + ros4C32*g2[i]) / h
	}
	g3, err := solveLinear(A, rhs3)
	if err != nil {
		return err
	}

	rhs4 := make([]float64, n)
	if err := f(ytmp, t+h, rhs4); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		rhs4[i] += (ros4C41*g1[i] + ros4C42*g2[i] + ros4C43*g3[i]) / h
	}
	g4, err := solveLinear(A, rhs4)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		yNext[i] = y[i] + ros4B1*g1[i] + ros4B2*g2[i] + ros4B3*g3[i] + ros4B4*g4[i]
		errEst[i] = ros4E1*g1[i] + ros4E2*g2[i] + ros4E3*g3[i] + ros4E4*g4[i]
	}
	return nil
}

// solveLinear solves A x = b by Gaussian elimination with partial pivoting.
// Neither A nor b is modified; elimination works on copies.
func solveLinear(A [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	M := la.MatAlloc(n, n)
	la.MatCopy(M, 1, A)
	x := make([]float64, n)
	copy(x, b)

	for col := 0; col < n; col++ {
		pivot := col
		best := M[col][col]
		if best < 0 {
			best = -best
		}
		for row := col + 1; row < n; row++ {
			v := M[row][col]
			if v < 0 {
				v = -v
			}
			if v > best {
				best = v
				pivot = row
			}
		}
		if best == 0 {
			return nil, fmt.Errorf("integrate: singular Jacobian matrix in Rosenbrock4 step")
		}
		if pivot != col {
			M[col], M[pivot] = M[pivot], M[col]
			x[col], x[pivot] = x[pivot], x[col]
		}
		for row := col + 1; row < n; row++ {
			factor := M[row][col] / M[col][col]
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				M[row][k] -= factor * M[col][k]
			}
			x[row] -= factor * x[col]
		}
	}

	for row := n - 1; row >= 0; row-- {
		sum := x[row]
		for k := row + 1; k < n; k++ {
			sum -= M[row][k] * x[k]
		}
		x[row] = sum / M[row][row]
	}
	return x, nil
}
