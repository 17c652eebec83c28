// SPDX-License-Identifier: MIT
// Package: matrix
//
// Dense is a row-major matrix of float64 values, storing elements in a flat
// slice for cache friendliness.
//
// Complexity quicksheet:
//   - NewDense/NewFilled/Clone: O(r*c); At/Set: O(1); Row: O(c).

package matrix

import (
	"fmt"
	"strings"
)

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Errors: ErrInvalidDimensions when rows or cols ≤ 0.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrInvalidDimensions)
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewFilled creates an r×c Dense matrix with every entry set to v.
// Errors: ErrInvalidDimensions.
func NewFilled(rows, cols int, v float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = v
	}

	return m, nil
}

// Rows returns the number of rows in the matrix.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if m == nil {
		return 0, denseErrorf(method, row, col, ErrNilMatrix)
	}
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) ([]float64, error) {
	idx, err := m.indexOf("Row", i, 0)
	if err != nil {
		return nil, err
	}

	return append([]float64(nil), m.data[idx:idx+m.c]...), nil
}

// SetRow overwrites row i with vals (len(vals) must equal Cols).
func (m *Dense) SetRow(i int, vals []float64) error {
	idx, err := m.indexOf("SetRow", i, 0)
	if err != nil {
		return err
	}
	if len(vals) != m.c {
		return denseErrorf("SetRow", i, len(vals), ErrDimensionMismatch)
	}
	copy(m.data[idx:idx+m.c], vals)

	return nil
}

// Clone returns a deep copy of the Dense matrix.
func (m *Dense) Clone() *Dense {
	return &Dense{r: m.r, c: m.c, data: append([]float64(nil), m.data...)}
}

// String renders one bracketed row per line.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString("[")
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
