// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

// Fehlberg78 is the 13-stage Runge-Kutta-Fehlberg 7(8) embedded pair
// (Fehlberg, 1968), the second alternative stepper spec.md §4.6 requires
// to be selectable at build time. The 7th-order solution is propagated;
// stages 12 and 13 exist only to form the embedded error estimate against
// the 8th-order solution.
type Fehlberg78 struct {
	n int
	k [13][]float64
}

func (s *Fehlberg78) Adaptive() bool { return true }
func (s *Fehlberg78) Order() int     { return 7 }

var f78C = [13]float64{
	0, 2.0 / 27, 1.0 / 9, 1.0 / 6, 5.0 / 12, 1.0 / 2, 5.0 / 6, 1.0 / 6,
	2.0 / 3, 1.0 / 3, 1, 0, 1,
}

var f78A = [13][12]float64{
	{},
	{2.0 / 27},
	{1.0 / 36, 1.0 / 12},
	{1.0 / 24, 0, 1.0 / 8},
	{5.0 / 12, 0, -25.0 / 16, 25.0 / 16},
	{1.0 / 20, 0, 0, 1.0 / 4, 1.0 / 5},
	{-25.0 / 108, 0, 0, 125.0 / 108, -65.0 / 27, 125.0 / 54},
	{31.0 / 300, 0, 0, 0, 61.0 / 225, -2.0 / 9, 13.0 / 900},
	{2, 0, 0, -53.0 / 6, 704.0 / 45, -107.0 / 9, 67.0 / 90, 3},
	{-91.0 / 108, 0, 0, 23.0 / 108, -976.0 / 135, 311.0 / 54, -19.0 / 60, 17.0 / 6, -1.0 / 12},
	{2383.0 / 4100, 0, 0, -341.0 / 164, 4496.0 / 1025, -301.0 / 82, 2133.0 / 4100, 45.0 / 82, 45.0 / 164, 18.0 / 41},
	{3.0 / 205, 0, 0, 0, 0, -6.0 / 41, -3.0 / 205, -3.0 / 41, 3.0 / 41, 6.0 / 41, 0},
	{-1777.0 / 4100, 0, 0, -341.0 / 164, 4496.0 / 1025, -289.0 / 82, 2193.0 / 4100, 51.0 / 82, 33.0 / 164, 12.0 / 41, 0, 1},
}

// f78B are the propagated (7th-order) solution weights.
var f78B = [13]float64{
	41.0 / 840, 0, 0, 0, 0, 34.0 / 105, 9.0 / 35, 9.0 / 35, 9.0 / 280, 9.0 / 280, 41.0 / 840, 0, 0,
}

func (s *Fehlberg78) ensure(n int) {
	if s.n == n {
		return
	}
	s.n = n
	for i := range s.k {
		s.k[i] = make([]float64, n)
	}
}

func (s *Fehlberg78) Step(f DxdtFunc, t, h float64, y, yNext, errEst []float64) error {
	n := len(y)
	s.ensure(n)
	tmp := make([]float64, n)

	for stage := 0; stage < 13; stage++ {
		for i := 0; i < n; i++ {
			sum := y[i]
			for j := 0; j < stage; j++ {
				sum += h * f78A[stage][j] * s.k[j][i]
			}
			tmp[i] = sum
		}
		if err := f(tmp, t+f78C[stage]*h, s.k[stage]); err != nil {
			return err
		}
	}

	for i := 0; i < n; i++ {
		sol := y[i]
		for stage := 0; stage < 13; stage++ {
			sol += h * f78B[stage] * s.k[stage][i]
		}
		yNext[i] = sol
		// embedded error estimate, classic Fehlberg78 difference form:
		// err = h * (41/840) * (k1 + k11 - k12 - k13)
		errEst[i] = h * (41.0 / 840) * (s.k[0][i] + s.k[10][i] - s.k[11][i] - s.k[12][i])
	}
	return nil
}
