// SPDX-License-Identifier: MIT

// Package derived - Euler characteristic χ(A, B) = ∑ⱼ (-1)ʲ dim Extʲ(A, B).
//
// Purpose:
//   - Give the numerical shadow of RHom without chasing long exact sequences.
//   - Compute Chern characters of spherical twists: ch(Tw_L X) = ch(X) − χ(L, X)·ch(L).
//
// Rules:
//   - Line bundles: local P1 → 2; local P2 → 3δ with δ = deg L₂ − deg L₁;
//     K3 → 2 + ½(D₂ − D₁)².
//   - K3, any objects: χ = −⟨v(A), v(B)⟩ with Mukai vector v = (r, c₁, ch₂ + r).
//   - Coproducts are additive with sign (-1)^shift; twists recurse through
//     their defining triangle in either argument.

package derived

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
)

var eulerMemo = struct {
	mu sync.Mutex
	m  map[string]*big.Rat
}{m: make(map[string]*big.Rat)}

// EulerCharacteristic returns χ(a, b).
//
// Errors:
//   - ErrContextMismatch for objects over different contexts.
//   - ErrUnsupported for sheaves or numerical objects outside K3.
func EulerCharacteristic(a, b Object) (*big.Rat, error) {
	if !a.Context().Equal(b.Context()) {
		return nil, fmt.Errorf("EulerCharacteristic(%s, %s): %w", a, b, ErrContextMismatch)
	}
	key := a.Key() + "||" + b.Key()
	eulerMemo.mu.Lock()
	if v, ok := eulerMemo.m[key]; ok {
		eulerMemo.mu.Unlock()
		return new(big.Rat).Set(v), nil
	}
	eulerMemo.mu.Unlock()

	v, err := euler(a, b)
	if err != nil {
		return nil, err
	}
	eulerMemo.mu.Lock()
	eulerMemo.m[key] = v
	eulerMemo.mu.Unlock()

	return new(big.Rat).Set(v), nil
}

func euler(a, b Object) (*big.Rat, error) {
	ctx := a.Context()
	if a.Kind() == KindZero || b.Kind() == KindZero {
		return new(big.Rat), nil
	}
	if ctx.Category() == geometry.K3 {
		return mukaiEuler(ctx, a.ChernCharacter(), b.ChernCharacter())
	}
	if g, ok := a.(*GradedCoproduct); ok {
		return sumOver(g, func(o Object) (*big.Rat, error) { return EulerCharacteristic(o, b) })
	}
	if g, ok := b.(*GradedCoproduct); ok {
		return sumOver(g, func(o Object) (*big.Rat, error) { return EulerCharacteristic(a, o) })
	}
	if t, ok := a.(*SphericalTwist); ok {
		// χ(Tw, B) = χ(inner, B) − χ(L, inner)·χ(L, B)
		return twistEuler(t, func(o Object) (*big.Rat, error) { return EulerCharacteristic(o, b) })
	}
	if t, ok := b.(*SphericalTwist); ok {
		return twistEuler(t, func(o Object) (*big.Rat, error) { return EulerCharacteristic(a, o) })
	}
	la, okA := a.(*LineBundle)
	lb, okB := b.(*LineBundle)
	if !okA || !okB {
		return nil, fmt.Errorf("EulerCharacteristic(%s, %s) on %s: %w", a, b, ctx.Category(), ErrUnsupported)
	}
	delta, err := lb.divisor.Sub(la.divisor)
	if err != nil {
		return nil, err
	}
	switch {
	case ctx.Category().IsProjectiveLine():
		return big.NewRat(2, 1), nil
	case ctx.Category().IsProjectivePlane():
		deg, err := ctx.Degree(delta)
		if err != nil {
			return nil, err
		}
		return new(big.Rat).Mul(deg, big.NewRat(3, 1)), nil
	}

	return nil, fmt.Errorf("EulerCharacteristic on %s: %w", ctx.Category(), ErrUnsupported)
}

func sumOver(g *GradedCoproduct, f func(Object) (*big.Rat, error)) (*big.Rat, error) {
	sum := new(big.Rat)
	for _, s := range g.summands {
		v, err := f(s.Object)
		if err != nil {
			return nil, err
		}
		v.Mul(v, big.NewRat(int64(s.Multiplicity), 1))
		if s.Shift%2 != 0 {
			v.Neg(v)
		}
		sum.Add(sum, v)
	}

	return sum, nil
}

func twistEuler(t *SphericalTwist, f func(Object) (*big.Rat, error)) (*big.Rat, error) {
	outer := t.Outer()
	viaInner, err := f(t.inner)
	if err != nil {
		return nil, err
	}
	coupling, err := EulerCharacteristic(outer, t.inner)
	if err != nil {
		return nil, err
	}
	viaOuter, err := f(outer)
	if err != nil {
		return nil, err
	}

	return viaInner.Sub(viaInner, coupling.Mul(coupling, viaOuter)), nil
}

// MukaiVector returns (r, c₁, ch₂ + r) of a character on a surface,
// with c₁ as a degree-one polynomial and the last entry as ∫ of the degree-two part.
func MukaiVector(ctx *geometry.Context, ch *chern.Poly) (r *big.Rat, c1 *chern.Poly, s *big.Rat, err error) {
	r = ch.Scalar()
	c1 = ch.Degree(1)
	s, err = ctx.DivisorData().Evaluate(ch.Degree(2))
	if err != nil {
		return nil, nil, nil, err
	}
	s.Add(s, r)

	return r, c1, s, nil
}

// MukaiPairing returns ⟨v, w⟩ = c₁·c₁' − r·s' − r'·s.
func MukaiPairing(ctx *geometry.Context, v, w *chern.Poly) (*big.Rat, error) {
	r1, c1, s1, err := MukaiVector(ctx, v)
	if err != nil {
		return nil, err
	}
	r2, c2, s2, err := MukaiVector(ctx, w)
	if err != nil {
		return nil, err
	}
	cc, err := ctx.DivisorData().Evaluate(c1, c2)
	if err != nil {
		return nil, err
	}
	cc.Sub(cc, new(big.Rat).Mul(r1, s2))
	cc.Sub(cc, new(big.Rat).Mul(r2, s1))

	return cc, nil
}

// mukaiEuler returns χ = −⟨v(a), v(b)⟩ on a K3 surface.
func mukaiEuler(ctx *geometry.Context, a, b *chern.Poly) (*big.Rat, error) {
	p, err := MukaiPairing(ctx, a, b)
	if err != nil {
		return nil, err
	}

	return p.Neg(p), nil
}
