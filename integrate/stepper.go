// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integrate drives the ODE system assembled by system.Builder
// forward in time. It implements four selectable-at-build-time steppers
// (spec.md §4.6) behind a common Stepper interface, plus the Driver that
// wraps any of them in a fixed-output-grid loop with per-internal-step event
// detection. Internal steps are shortened so that one ends exactly on each
// output grid point; states between steps are not interpolated.
package integrate

// DxdtFunc computes dxdt at (state, t), writing into dxdt. It is the Go
// analogue of the original's SBMLSystem::operator()/boost::odeint system
// functor, and of fem/geost.go's ode.Cb_fcn callback shape
// (func(f []float64, x float64, y []float64, args...) error) — adapted here
// to the explicit two-argument form this system's callers need.
type DxdtFunc func(state []float64, t float64, dxdt []float64) error

// Stepper advances a state vector by one internal step of (approximately)
// size h. Adaptive steppers fill errEst (sized like y) with the local error
// estimate of the attempted step (spec.md §4.6's weighted RMS norm is
// computed by the Driver, not the Stepper, so the same norm logic applies
// uniformly regardless of which embedded pair is in use). Non-adaptive
// steppers (RK4) report Adaptive() == false and zero errEst when it is
// non-nil; the Driver then accepts every step unconditionally.
type Stepper interface {
	// Step advances y (length n) by h, writing the new state into yNext and,
	// for embedded/adaptive methods, the embedded error estimate into
	// errEst (both pre-allocated by the caller, length n). t is the time at
	// the start of the step.
	Step(f DxdtFunc, t, h float64, y, yNext, errEst []float64) error
	// Adaptive reports whether errEst is meaningful (embedded pair) or
	// should be ignored (fixed-step methods).
	Adaptive() bool
	// Order is the order of the solution this stepper advances (used by the
	// Driver to scale its PI step-control exponents).
	Order() int
}
