// SPDX-License-Identifier: MIT

// Package slope - μ-HN factors inside Coh(X).
//
// Line bundles on Picard rank one are μ-stable. On higher Picard rank every
// effective sub-class 0 < E < D (coordinate-wise) is a candidate subsheaf
// 𝒪(E) ⊂ 𝒪(D) when Riemann–Roch predicts a map, i.e. 2 + ½(D − E)² > 0.
// The maximal-slope candidate with μ(E) > μ(D) splits the bundle into
// (𝒪(E), D − E); the filtration has depth at most two.
//
// TorsionSplit sorts the μ-HN factors into the torsion pair (T_{B,ω}, F_{B,ω})
// that defines the tilted heart.
//
// Complexity: ∏ᵢ (dᵢ + 1) candidates for coordinates dᵢ of D.

package slope

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/geometry"
)

// Factor is one μ-semistable HN factor.
type Factor struct {
	Object derived.Object
	Slope  float64
	Phase  float64
}

func factorOf(o derived.Object) (Factor, error) {
	ch := o.ChernCharacter()
	mu, err := Slope(o.Context(), ch)
	if err != nil {
		return Factor{}, err
	}
	phi, err := Phase(o.Context(), ch)
	if err != nil {
		return Factor{}, err
	}

	return Factor{Object: o, Slope: mu, Phase: phi}, nil
}

// SubClasses returns every non-zero class E with 0 ≤ Eᵢ ≤ Dᵢ and E ≠ D,
// in lexicographic coordinate order. D must have integral coordinates;
// a D with a negative coordinate has no sub-classes.
func SubClasses(ctx *geometry.Context, d *chern.Poly) ([]*chern.Poly, error) {
	top, err := ctx.IntCoordinates(d)
	if err != nil {
		return nil, err
	}
	for _, c := range top {
		if c < 0 {
			return nil, nil
		}
	}

	var out []*chern.Poly
	cur := make([]int64, len(top))
	for {
		// advance the odometer
		i := len(cur) - 1
		for i >= 0 && cur[i] == top[i] {
			cur[i] = 0
			i--
		}
		if i < 0 {
			break
		}
		cur[i]++
		if equalCoords(cur, top) {
			continue
		}
		e, err := ctx.DivisorFromCoords(cur...)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, nil
}

func equalCoords(a, b []int64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// HarderNarasimhan returns the μ-HN factors of a line bundle or sheaf,
// sorted by decreasing slope.
//
// Errors: ErrUnsupportedObject for every other variant.
func HarderNarasimhan(o derived.Object) ([]Factor, error) {
	switch v := o.(type) {
	case *derived.Sheaf:
		f, err := factorOf(v)
		if err != nil {
			return nil, err
		}
		return []Factor{f}, nil
	case *derived.LineBundle:
		return lineBundleHN(v)
	}

	return nil, fmt.Errorf("slope.HarderNarasimhan(%s): %s: %w", o, o.Kind(), ErrUnsupportedObject)
}

func lineBundleHN(l *derived.LineBundle) ([]Factor, error) {
	whole, err := factorOf(l)
	if err != nil {
		return nil, err
	}
	ctx := l.Context()
	if ctx.PicardRank() == 1 {
		return []Factor{whole}, nil
	}

	d := l.Divisor()
	subs, err := SubClasses(ctx, d)
	if err != nil {
		return nil, err
	}
	var best *derived.LineBundle
	bestMu := whole.Slope
	for _, e := range subs {
		q, err := d.Sub(e)
		if err != nil {
			return nil, err
		}
		sq, err := ctx.Square(q)
		if err != nil {
			return nil, err
		}
		chi := new(big.Rat).Add(big.NewRat(2, 1), new(big.Rat).Mul(sq, big.NewRat(1, 2)))
		if chi.Sign() <= 0 {
			continue
		}
		sub, err := derived.NewLineBundle(ctx, e)
		if err != nil {
			return nil, err
		}
		mu, err := Slope(ctx, sub.ChernCharacter())
		if err != nil {
			return nil, err
		}
		if mu > bestMu {
			best, bestMu = sub, mu
		}
	}
	if best == nil {
		return []Factor{whole}, nil
	}

	head, err := factorOf(best)
	if err != nil {
		return nil, err
	}
	qch, err := l.ChernCharacter().Sub(best.ChernCharacter())
	if err != nil {
		return nil, err
	}
	quot, err := derived.NewNumerical(ctx, qch)
	if err != nil {
		return nil, err
	}
	tail, err := factorOf(quot)
	if err != nil {
		return nil, err
	}

	return []Factor{head, tail}, nil
}

// TorsionSplit returns the μ-HN factors of o lying in T_{B,ω} (μ_{B,ω} > 0)
// and those lying in F_{B,ω}, each in HN order. The object sits in T when
// free is empty and in F when tors is empty.
//
// Errors: those of HarderNarasimhan and InTorsionPart.
func TorsionSplit(o derived.Object, b *chern.Poly, omega float64) (tors, free []Factor, err error) {
	hn, err := HarderNarasimhan(o)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range hn {
		in, err := InTorsionPart(o.Context(), f.Object.ChernCharacter(), b, omega)
		if err != nil {
			return nil, nil, err
		}
		if in {
			tors = append(tors, f)
		} else {
			free = append(free, f)
		}
	}

	return tors, free, nil
}
