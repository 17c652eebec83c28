// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Discrete operators on a uniform grid stored as Dense.
//
// Contracts:
//   - The input is never mutated; results are fresh matrices of equal shape.
//   - Border cells and cells with a non-finite neighbourhood are NaN.

package matrix

import "math"

// Laplacian4 returns the four-neighbour Laplacian of m (unit spacing).
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Laplacian4(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("Laplacian4", err)
	}
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			k := i*m.c + j
			if i == 0 || j == 0 || i == m.r-1 || j == m.c-1 {
				out.data[k] = math.NaN()
				continue
			}
			v := m.data[k-m.c] + m.data[k+m.c] + m.data[k-1] + m.data[k+1] - 4*m.data[k]
			if !finite(v) {
				v = math.NaN()
			}
			out.data[k] = v
		}
	}

	return out, nil
}
