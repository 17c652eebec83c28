// SPDX-License-Identifier: MIT
// Package derived: sentinel errors.

package derived

import "errors"

var (
	// ErrConstruction indicates invalid constructor input (bad rank, non-divisor c₁, …).
	ErrConstruction = errors.New("derived: invalid construction")

	// ErrNegativeMultiplicity indicates a coproduct multiplicity below zero.
	ErrNegativeMultiplicity = errors.New("derived: negative multiplicity")

	// ErrEmptyTwist indicates a spherical-twist sequence with fewer than two line bundles.
	ErrEmptyTwist = errors.New("derived: twist needs at least two line bundles")

	// ErrContextMismatch indicates objects from different geometry contexts were combined.
	ErrContextMismatch = errors.New("derived: geometry context mismatch")

	// ErrNotDominated indicates a coproduct subtraction whose operand is not
	// componentwise dominated.
	ErrNotDominated = errors.New("derived: subtrahend not dominated")

	// ErrCannotTwist indicates ApplySphericalTwist met a variant it cannot twist.
	ErrCannotTwist = errors.New("derived: object cannot be twisted")

	// ErrLengthMismatch indicates parallel coproduct vectors of different lengths.
	ErrLengthMismatch = errors.New("derived: parallel vectors differ in length")

	// ErrIndex indicates a triangle index outside 0..2.
	ErrIndex = errors.New("derived: triangle index out of range")

	// ErrUnsupported indicates an Euler-characteristic pairing that has no
	// numerical formula for the category.
	ErrUnsupported = errors.New("derived: unsupported pairing")
)
