// SPDX-License-Identifier: MIT
// Package slope: sentinel errors.

package slope

import "errors"

var (
	// ErrUnsupportedObject indicates an object outside the abelian category of sheaves.
	ErrUnsupportedObject = errors.New("slope: unsupported object")

	// ErrMismatchedRing indicates a class from a different Chern ring than the context.
	ErrMismatchedRing = errors.New("slope: class does not belong to the context ring")

	// ErrNonPositiveVolume indicates ω ≤ 0 for a tilted slope.
	ErrNonPositiveVolume = errors.New("slope: volume must be positive")
)
