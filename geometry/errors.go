// SPDX-License-Identifier: MIT
// Package geometry: sentinel errors.
//
// Construction failures are reported through ErrInvalidGeometry (wrapped
// with the violated invariant) or one of the narrower sentinels below.

package geometry

import "errors"

var (
	// ErrInvalidGeometry indicates a category invariant was violated at
	// construction time (wrong dimension, wrong Picard rank, wrong H^n).
	ErrInvalidGeometry = errors.New("geometry: invalid geometry")

	// ErrUnknownCategory indicates an unsupported category tag.
	ErrUnknownCategory = errors.New("geometry: unknown category")

	// ErrAsymmetricForm indicates two permutations of the same key tuple
	// were given different intersection numbers.
	ErrAsymmetricForm = errors.New("geometry: intersection form is not symmetric")

	// ErrEmptyForm indicates an intersection table with no entries.
	ErrEmptyForm = errors.New("geometry: empty intersection form")

	// ErrUnknownSymbol indicates a key or expression references a symbol
	// outside the basis.
	ErrUnknownSymbol = errors.New("geometry: symbol not in basis")

	// ErrNotAmple indicates the polarization fails the ampleness check.
	ErrNotAmple = errors.New("geometry: polarization is not ample")

	// ErrNotDivisor indicates an expression is not a linear combination of basis symbols.
	ErrNotDivisor = errors.New("geometry: not a divisor class")

	// ErrNotIntegral indicates a divisor class with non-integer coordinates
	// where a lattice point was required.
	ErrNotIntegral = errors.New("geometry: divisor class is not integral")
)
