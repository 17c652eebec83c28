// SPDX-License-Identifier: MIT
// Package sampling: sentinel errors.

package sampling

import "errors"

var (
	// ErrBadGrid indicates an invalid grid (steps < 2, empty or inverted range,
	// non-positive volume on K3, x outside the boundary curve on P2).
	ErrBadGrid = errors.New("sampling: invalid grid")

	// ErrCategory indicates a geometry category without a sampling rule,
	// or a boundary curve handed to a non-plane sampler.
	ErrCategory = errors.New("sampling: unsupported category")

	// ErrEmptySurface indicates a surface without any finite value to analyse.
	ErrEmptySurface = errors.New("sampling: surface has no finite values")

	// ErrBadThreshold indicates a negative or non-finite discontinuity multiple.
	ErrBadThreshold = errors.New("sampling: threshold must be finite and ≥ 0")
)
