// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

// RK4 is the classical fixed-step, 4-stage, 4th-order Runge-Kutta method —
// the alternative stepper spec.md §4.6 requires to be selectable at build
// time. It carries no error estimate; Driver treats every step as accepted
// when this stepper is selected.
type RK4 struct {
	n          int
	k1, k2, k3, k4, tmp []float64
}

func (s *RK4) Adaptive() bool { return false }
func (s *RK4) Order() int     { return 4 }

func (s *RK4) ensure(n int) {
	if s.n == n {
		return
	}
	s.n = n
	s.k1 = make([]float64, n)
	s.k2 = make([]float64, n)
	s.k3 = make([]float64, n)
	s.k4 = make([]float64, n)
	s.tmp = make([]float64, n)
}

func (s *RK4) Step(f DxdtFunc, t, h float64, y, yNext, errEst []float64) error {
	n := len(y)
	s.ensure(n)

	if err := f(y, t, s.k1); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		s.tmp[i] = y[i] + 0.5*h*s.k1[i]
	}
	if err := f(s.tmp, t+0.5*h, s.k2); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		s.tmp[i] = y[i] + 0.5*h*s.k2[i]
	}
	if err := f(s.tmp, t+0.5*h, s.k3); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		s.tmp[i] = y[i] + h*s.k3[i]
	}
	if err := f(s.tmp, t+h, s.k4); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		yNext[i] = y[i] + (h/6.0)*(s.k1[i]+2*s.k2[i]+2*s.k3[i]+s.k4[i])
		if errEst != nil {
			errEst[i] = 0
		}
	}
	return nil
}
