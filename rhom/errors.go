// SPDX-License-Identifier: MIT
// Package rhom: sentinel and structured errors.
//
// Structured errors implement Is so callers keep branching with errors.Is
// against the sentinels, and errors.As when they need the attached data.

package rhom

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResolution indicates a long exact sequence the engine refuses to resolve.
	ErrResolution = errors.New("rhom: long exact sequence cannot be resolved")

	// ErrK3Effectiveness indicates a K3 base case whose divisor is neither
	// effective nor anti-effective.
	ErrK3Effectiveness = errors.New("rhom: divisor is neither effective nor anti-effective")

	// ErrUnsupportedPair indicates a pair of variants with no RHom rule.
	ErrUnsupportedPair = errors.New("rhom: unsupported object pair")

	// ErrContextMismatch indicates arguments over different geometry contexts.
	ErrContextMismatch = errors.New("rhom: geometry context mismatch")
)

// ResolutionError reports a refused long-exact-sequence step.
type ResolutionError struct {
	Degree  int      // key j at which the rule failed
	Reason  string   // violated constraint
	Excerpt []string // rows j+1, j, j−1 as "j: u v w"
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("rhom: cannot resolve at degree %d: %s [%s]",
		e.Degree, e.Reason, strings.Join(e.Excerpt, "; "))
}

// Is matches ErrResolution.
func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

// EffectivenessError reports the offending K3 divisor class.
type EffectivenessError struct {
	Divisor string
	Reason  string
}

func (e *EffectivenessError) Error() string {
	return fmt.Sprintf("rhom: K3 base case for D = %s: %s", e.Divisor, e.Reason)
}

// Is matches ErrK3Effectiveness.
func (e *EffectivenessError) Is(target error) bool { return target == ErrK3Effectiveness }
