// SPDX-License-Identifier: MIT
// Package store: sentinel errors.

package store

import "errors"

var (
	// ErrRunNotFound indicates no run has the requested id.
	ErrRunNotFound = errors.New("store: run not found")

	// ErrNilSurface indicates SaveSurface was given nil.
	ErrNilSurface = errors.New("store: nil surface")

	// ErrCorruptRun indicates stored samples that do not cover the run's grid.
	ErrCorruptRun = errors.New("store: corrupt run")
)
