// SPDX-License-Identifier: MIT
// Package stability: sentinel and structured errors.

package stability

import (
	"errors"
	"fmt"
)

var (
	// ErrHarderNarasimhan indicates an HN walk whose triangles intertwine irreconcilably.
	ErrHarderNarasimhan = errors.New("stability: Harder–Narasimhan filtration cannot be determined")

	// ErrUnstable indicates a phase query on an object that is not semistable.
	ErrUnstable = errors.New("stability: object is not semistable")

	// ErrParameterShape indicates parameters that do not fit the category.
	ErrParameterShape = errors.New("stability: parameters do not fit the category")

	// ErrCategory indicates a constructor used with the wrong category.
	ErrCategory = errors.New("stability: unsupported category for this constructor")

	// ErrNonPositiveScale indicates scaling a filtration by m ≤ 0.
	ErrNonPositiveScale = errors.New("stability: filtration scale must be positive")

	// ErrEmptyFiltration indicates collapsing the filtration of the zero object.
	ErrEmptyFiltration = errors.New("stability: empty filtration")

	// ErrUnsupportedObject indicates an object variant with no HN rule or phase.
	ErrUnsupportedObject = errors.New("stability: unsupported object")
)

// HNError carries the stability parameters and the offending object.
type HNError struct {
	Params []float64
	Object string
	Reason string
}

func (e *HNError) Error() string {
	return fmt.Sprintf("stability: HN filtration of %s at %v: %s", e.Object, e.Params, e.Reason)
}

// Is matches ErrHarderNarasimhan.
func (e *HNError) Is(target error) bool { return target == ErrHarderNarasimhan }

// UnstableError reports the phases of an unstable object's HN factors.
type UnstableError struct {
	Object string
	Phases []float64
}

func (e *UnstableError) Error() string {
	return fmt.Sprintf("stability: %s is unstable with factor phases %v", e.Object, e.Phases)
}

// Is matches ErrUnstable.
func (e *UnstableError) Is(target error) bool { return target == ErrUnstable }
