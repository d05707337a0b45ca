// Copyright 2026. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mops

// factorialTable holds 0! through 19!; larger values are accumulated
// iteratively from there instead of extending the table (mirrors
// MathUtil.cpp's FACTORIAL_TABLE cutoff).
var factorialTable = [20]float64{
	1, 1, 2, 6, 24, 120, 720, 5040, 40320, 362880, 3628800, 39916800,
	479001600, 6227020800, 87178291200, 1307674368000, 20922789888000,
	355687428096000, 6402373705728000, 121645100408832000,
}

// Factorial returns n! as a float64, exact for n <= 19 and accumulated by
// iterative multiplication above that.
func Factorial(n uint64) float64 {
	if n < uint64(len(factorialTable)) {
		return factorialTable[n]
	}
	result := factorialTable[len(factorialTable)-1]
	for i := uint64(len(factorialTable)); i <= n; i++ {
		result *= float64(i)
	}
	return result
}
