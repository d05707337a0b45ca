// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

// Dopri5 is the Dormand-Prince 5(4) embedded Runge-Kutta pair: seven
// stages (the seventh reused as the first stage of the next step, the
// "FSAL" property — not exploited here for simplicity, grounded on
// spec.md §2's naming it the default stepper) giving a 5th-order solution
// and an embedded 4th-order estimate for step-size control.
type Dopri5 struct {
	n int // number of state components, set on first use
	k [7][]float64
}

var dopri5C = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}

var dopri5A = [7][6]float64{
	{},
	{1.0 / 5},
	{3.0 / 40, 9.0 / 40},
	{44.0 / 45, -56.0 / 15, 32.0 / 9},
	{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
	{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
	{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
}

// dopri5B5 are the 5th-order solution weights (identical to the 7th row of
// A, since Dopri5 is FSAL).
var dopri5B5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}

// dopri5B4 are the embedded 4th-order solution weights, used only to form
// the error estimate B5-B4.
var dopri5B4 = [7]float64{
	5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40,
}

func (s *Dopri5) Adaptive() bool { return true }
func (s *Dopri5) Order() int     { return 5 }

func (s *Dopri5) ensure(n int) {
	if s.n == n {
		return
	}
	s.n = n
	for i := range s.k {
		s.k[i] = make([]float64, n)
	}
}

func (s *Dopri5) Step(f DxdtFunc, t, h float64, y, yNext, errEst []float64) error {
	n := len(y)
	s.ensure(n)
	tmp := make([]float64, n)

	for stage := 0; stage < 7; stage++ {
		for i := 0; i < n; i++ {
			sum := y[i]
			for j := 0; j < stage; j++ {
				sum += h * dopri5A[stage][j] * s.k[j][i]
			}
			tmp[i] = sum
		}
		if err := f(tmp, t+dopri5C[stage]*h, s.k[stage]); err != nil {
			return err
		}
	}

	for i := 0; i < n; i++ {
		sol5, sol4 := y[i], y[i]
		for stage := 0; stage < 7; stage++ {
			sol5 += h * dopri5B5[stage] * s.k[stage][i]
			sol4 += h * dopri5B4[stage] * s.k[stage][i]
		}
		yNext[i] = sol5
		errEst[i] = sol5 - sol4
	}
	return nil
}
