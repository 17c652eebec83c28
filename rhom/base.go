// SPDX-License-Identifier: MIT

// Package rhom - closed-form line bundle → line bundle dimensions.
//
// With δ = deg L₂ − deg L₁ (P1, P2) or D = D₂ − D₁ (K3):
//
//	P1:  δ=0 {0:1,−2:1}; δ=1 {0:2}; δ=−1 {−2:2}; δ≥2 {0:δ+1,−1:δ−1};
//	     δ≤−2 {−1:−δ−1,−2:−δ+1}
//	P2:  δ=0 {0:1,−3:1}; 0<δ<3 {0:C(δ+2,2)}; δ≥3 {0:C(δ+2,2),−1:C(δ−1,2)};
//	     −3<δ<0 {−3:C(−δ+2,2)}; δ≤−3 {−2:C(−δ−1,2),−3:C(−δ+2,2)}
//	K3:  D=0 {0:1,−2:1}; D effective {0:χ}; −D effective {−2:χ}; χ = 2 + ½D²
//
// The tables are those of the local Calabi–Yau completions, so Serre
// duality with shift CalabiYauDimension holds on every category.

package rhom

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/geometry"
)

// binom2 returns C(n, 2) for n ≥ 0.
func binom2(n int) int {
	if n < 2 {
		return 0
	}

	return n * (n - 1) / 2
}

// compact drops zero entries.
func compact(d derived.Dims) derived.Dims {
	for k, v := range d {
		if v == 0 {
			delete(d, k)
		}
	}

	return d
}

// LineBundleDims returns RHom(a, b) for two line bundles over the same context.
//
// Errors:
//   - ErrContextMismatch.
//   - *EffectivenessError (ErrK3Effectiveness) for K3 classes without a recipe.
func LineBundleDims(a, b *derived.LineBundle) (derived.Dims, error) {
	ctx := a.Context()
	if !ctx.Equal(b.Context()) {
		return nil, fmt.Errorf("LineBundleDims(%s, %s): %w", a, b, ErrContextMismatch)
	}
	diff, err := b.Divisor().Sub(a.Divisor())
	if err != nil {
		return nil, err
	}

	switch cat := ctx.Category(); {
	case cat.IsProjectiveLine(), cat.IsProjectivePlane():
		deg, err := ctx.Degree(diff)
		if err != nil {
			return nil, err
		}
		if !deg.IsInt() || !deg.Num().IsInt64() {
			return nil, fmt.Errorf("LineBundleDims(%s, %s): non-integral degree %s: %w",
				a, b, deg.RatString(), ErrUnsupportedPair)
		}
		delta := int(deg.Num().Int64())
		if cat.IsProjectiveLine() {
			return lineDims(delta), nil
		}
		return planeDims(delta), nil
	case cat == geometry.K3:
		return k3Dims(ctx, diff)
	}

	return nil, fmt.Errorf("LineBundleDims on %s: %w", ctx.Category(), ErrUnsupportedPair)
}

func lineDims(delta int) derived.Dims {
	switch {
	case delta == 0:
		return derived.Dims{0: 1, -2: 1}
	case delta == 1:
		return derived.Dims{0: 2}
	case delta == -1:
		return derived.Dims{-2: 2}
	case delta >= 2:
		return derived.Dims{0: delta + 1, -1: delta - 1}
	}

	return derived.Dims{-1: -delta - 1, -2: -delta + 1}
}

func planeDims(delta int) derived.Dims {
	switch {
	case delta == 0:
		return derived.Dims{0: 1, -3: 1}
	case delta > 0 && delta < 3:
		return derived.Dims{0: binom2(delta + 2)}
	case delta >= 3:
		return compact(derived.Dims{0: binom2(delta + 2), -1: binom2(delta - 1)})
	case delta < 0 && delta > -3:
		return derived.Dims{-3: binom2(-delta + 2)}
	}

	return compact(derived.Dims{-2: binom2(-delta - 1), -3: binom2(-delta + 2)})
}

func k3Dims(ctx *geometry.Context, div *chern.Poly) (derived.Dims, error) {
	if div.IsZero() {
		return derived.Dims{0: 1, -2: 1}, nil
	}
	label := div.String()
	sq, err := ctx.Square(div)
	if err != nil {
		return nil, err
	}
	chi := new(big.Rat).Mul(sq, big.NewRat(1, 2))
	chi.Add(chi, big.NewRat(2, 1))
	if !chi.IsInt() || chi.Sign() < 0 {
		return nil, &EffectivenessError{Divisor: label, Reason: "χ = " + chi.RatString() + " is not a dimension"}
	}
	n := int(chi.Num().Int64())
	switch {
	case ctx.IsEffective(div):
		return compact(derived.Dims{0: n}), nil
	case ctx.IsEffective(div.Neg()):
		return compact(derived.Dims{-2: n}), nil
	}

	return nil, &EffectivenessError{Divisor: label, Reason: "neither D nor −D is effective"}
}
