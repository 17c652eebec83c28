// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
//
// Every message is prefixed with "matrix: ..." for easy grepping. Callers
// match with errors.Is; context is added with fmt.Errorf("ctx: %w", ErrX).

package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/Row) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNilMatrix indicates that a nil *Dense (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrDimensionMismatch indicates incompatible shapes between operands.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNoFiniteValues is returned by statistics when no entry is finite.
	ErrNoFiniteValues = errors.New("matrix: no finite values")
)
