// SPDX-License-Identifier: MIT

// Package slope - classical and tilted slopes.
//
// Contracts:
//   - Classes must live in the context ring (ErrMismatchedRing otherwise).
//     A class carries its ring (basis, dimension) but no intersection form;
//     degrees are always read with the form of the given context.
//   - deg(c) = ∫ c₁·H^{n−1} with H the context polarization.
//
// Complexity: O(t) in the number of terms of the class.

package slope

import (
	"fmt"
	"math"
	"math/big"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
)

// rankDegree extracts (ch₀, ∫ch₁·H^{n−1}).
func rankDegree(ctx *geometry.Context, ch *chern.Poly) (*big.Rat, *big.Rat, error) {
	if !ch.Ring().Same(ctx.Ring()) {
		return nil, nil, fmt.Errorf("%s: %w", ch, ErrMismatchedRing)
	}
	deg, err := ctx.Degree(ch.Degree(1))
	if err != nil {
		return nil, nil, err
	}

	return ch.Scalar(), deg, nil
}

// Slope returns μ = deg/r, or +Inf for rank-0 classes.
func Slope(ctx *geometry.Context, ch *chern.Poly) (float64, error) {
	r, deg, err := rankDegree(ctx, ch)
	if err != nil {
		return 0, err
	}
	if r.Sign() == 0 {
		return math.Inf(1), nil
	}

	return chern.RatFloat(new(big.Rat).Quo(deg, r)), nil
}

// Phase returns arg(−deg + i·r)/π normalized to (0, 2]; rank-0 classes map to 1.
func Phase(ctx *geometry.Context, ch *chern.Poly) (float64, error) {
	r, deg, err := rankDegree(ctx, ch)
	if err != nil {
		return 0, err
	}
	if r.Sign() == 0 {
		return 1, nil
	}

	return Normalize(math.Atan2(chern.RatFloat(r), -chern.RatFloat(deg)) / math.Pi), nil
}

// Normalize maps a phase into (0, 2].
func Normalize(phi float64) float64 {
	phi = math.Mod(phi, 2)
	if phi <= 0 {
		phi += 2
	}

	return phi
}

// TiltedSlope returns μ_{B,ω} = ∫(c₁ − rB)·ωH^{n−1} / r, or +Inf for rank 0.
// b must be a degree-one class of the context ring.
//
// Errors: ErrMismatchedRing, ErrNonPositiveVolume.
func TiltedSlope(ctx *geometry.Context, ch, b *chern.Poly, omega float64) (float64, error) {
	if omega <= 0 {
		return 0, fmt.Errorf("TiltedSlope(ω=%g): %w", omega, ErrNonPositiveVolume)
	}
	if !b.Ring().Same(ctx.Ring()) {
		return 0, fmt.Errorf("TiltedSlope: B = %s: %w", b, ErrMismatchedRing)
	}
	r, deg, err := rankDegree(ctx, ch)
	if err != nil {
		return 0, err
	}
	if r.Sign() == 0 {
		return math.Inf(1), nil
	}
	degB, err := ctx.Degree(b.Degree(1))
	if err != nil {
		return 0, err
	}
	num := new(big.Rat).Sub(deg, new(big.Rat).Mul(r, degB))

	return omega * chern.RatFloat(num) / chern.RatFloat(r), nil
}

// InTorsionPart reports whether the class lies in T_{B,ω} (μ_{B,ω} > 0).
func InTorsionPart(ctx *geometry.Context, ch, b *chern.Poly, omega float64) (bool, error) {
	mu, err := TiltedSlope(ctx, ch, b, omega)
	if err != nil {
		return false, err
	}

	return mu > 0, nil
}
