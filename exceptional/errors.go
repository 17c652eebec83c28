// SPDX-License-Identifier: MIT
// Package exceptional: sentinel errors.

package exceptional

import "errors"

var (
	// ErrOutOfRange indicates an x outside the sampled interval of a curve,
	// or an empty label interval (lo > hi).
	ErrOutOfRange = errors.New("exceptional: x outside curve range")

	// ErrBadDepth indicates a dyadic depth outside [0, MaxDepth].
	ErrBadDepth = errors.New("exceptional: dyadic depth out of range")

	// ErrCategory indicates a geometry other than the projective plane.
	ErrCategory = errors.New("exceptional: curve is defined for the projective plane only")
)
