// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Population statistics over the finite entries of a Dense matrix.
//   - NaN and ±Inf cells are skipped; an all-non-finite matrix has no mean.
//
// Determinism: fixed row-major traversal.

package matrix

import "math"

const (
	opFiniteMean = "FiniteMean"
	opFiniteStd  = "FiniteStd"
)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// FiniteCount returns the number of finite entries.
func FiniteCount(m *Dense) (int, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf("FiniteCount", err)
	}
	n := 0
	for _, v := range m.data {
		if finite(v) {
			n++
		}
	}

	return n, nil
}

// FiniteMean returns Σv/n over finite entries.
// Errors: ErrNilMatrix, ErrNoFiniteValues.
// Complexity: O(r*c).
func FiniteMean(m *Dense) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opFiniteMean, err)
	}
	var sum float64
	n := 0
	for _, v := range m.data {
		if finite(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, matrixErrorf(opFiniteMean, ErrNoFiniteValues)
	}

	return sum / float64(n), nil
}

// FiniteStd returns the population standard deviation √(Σ(v − mean)²/n)
// over finite entries.
// Errors: ErrNilMatrix, ErrNoFiniteValues.
// Complexity: O(r*c), two passes.
func FiniteStd(m *Dense) (float64, error) {
	mean, err := FiniteMean(m)
	if err != nil {
		return 0, matrixErrorf(opFiniteStd, err)
	}
	var ss float64
	n := 0
	for _, v := range m.data {
		if finite(v) {
			d := v - mean
			ss += d * d
			n++
		}
	}

	return math.Sqrt(ss / float64(n)), nil
}
