// SPDX-License-Identifier: MIT

// Package stability - Harder–Narasimhan dispatch, phase and mass.
//
// Rules by variant:
//   - Zero: empty filtration.
//   - Numerical: one factor, phase normalized into (0, 2].
//   - Sheaf: one factor on the principal branch.
//   - LineBundle: one factor on Picard rank one; K3 search otherwise.
//   - GradedCoproduct: union of summand filtrations, scaled and shifted.
//   - SphericalTwist, one twist: defining-triangle rules (cone, kernel sheaf,
//     fallback).
//   - SphericalTwist, ≥2 twists: walk of the canonical triangles.
//
// Caching: filtrations are memoized by object key; computation runs outside
// the lock and the first stored result wins.

package stability

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/geometry"
)

// HarderNarasimhan returns the HN filtration of o.
//
// Errors:
//   - ErrUnsupportedObject for objects of another context.
//   - *HNError (ErrHarderNarasimhan) for irreconcilable twist walks.
//   - errors of package rhom raised while building triangles.
func (c *Condition) HarderNarasimhan(o derived.Object) (*Filtration, error) {
	if !c.ctx.Equal(o.Context()) {
		return nil, fmt.Errorf("HarderNarasimhan(%s): %w", o, ErrUnsupportedObject)
	}
	key := o.Key()
	c.mu.Lock()
	if f, ok := c.hn[key]; ok {
		c.mu.Unlock()
		return f, nil
	}
	c.mu.Unlock()

	f, err := c.harderNarasimhan(o)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.hn[key]; ok {
		return prev, nil
	}
	c.hn[key] = f

	return f, nil
}

func (c *Condition) harderNarasimhan(o derived.Object) (*Filtration, error) {
	switch v := o.(type) {
	case *derived.ZeroObject:
		return NewFiltration(), nil
	case *derived.Numerical:
		z, err := c.CentralCharge(v)
		if err != nil {
			return nil, err
		}
		return single(v, normalizedPhase(z)), nil
	case *derived.Sheaf:
		return c.sheafHN(v)
	case *derived.LineBundle:
		if c.ctx.PicardRank() > 1 && c.ctx.Category() == geometry.K3 {
			return c.k3LineBundleHN(v)
		}
		return c.sheafHN(v)
	case *derived.GradedCoproduct:
		return c.coproductHN(v)
	case *derived.SphericalTwist:
		if v.Depth() == 1 {
			return c.singleTwistHN(v)
		}
		return c.twistWalkHN(v)
	}

	return nil, fmt.Errorf("HarderNarasimhan(%s): %s: %w", o, o.Kind(), ErrUnsupportedObject)
}

func (c *Condition) sheafHN(o derived.Object) (*Filtration, error) {
	z, err := c.CentralCharge(o)
	if err != nil {
		return nil, err
	}

	return single(o, principalPhase(z)), nil
}

func (c *Condition) coproductHN(g *derived.GradedCoproduct) (*Filtration, error) {
	out := NewFiltration()
	for _, s := range g.Summands() {
		f, err := c.HarderNarasimhan(s.Object)
		if err != nil {
			return nil, err
		}
		scaled, err := f.Scale(s.Multiplicity)
		if err != nil {
			return nil, err
		}
		out = out.Add(scaled.Shift(s.Shift))
	}

	return out, nil
}

// singleTwistHN inspects the defining triangle A₁ → A₂ → Tw.
func (c *Condition) singleTwistHN(t *derived.SphericalTwist) (*Filtration, error) {
	tri, err := t.DefiningTriangle(c.opts.engine)
	if err != nil {
		return nil, err
	}
	a1 := tri.First().(*derived.GradedCoproduct)
	a2 := tri.Second()

	switch {
	case a1.IsEmpty():
		// RHom(L, X) = 0 so Tw_L X ≅ X
		return c.HarderNarasimhan(a2)
	case a1.Dominates(a2):
		rest, err := a1.Sub(a2)
		if err != nil {
			return nil, err
		}
		return c.HarderNarasimhan(rest.Shift(1))
	case a1.ConcentratedIn(0):
		ch, err := a1.ChernCharacter().Sub(a2.ChernCharacter())
		if err != nil {
			return nil, err
		}
		k, err := kernelSheaf(c.ctx, ch)
		if err != nil {
			return nil, err
		}
		f, err := c.HarderNarasimhan(k)
		if err != nil {
			return nil, err
		}
		return f.Shift(1), nil
	}

	z, err := c.CentralCharge(t)
	if err != nil {
		return nil, err
	}

	return single(t, normalizedPhase(z)), nil
}

// kernelSheaf realizes ch as a sheaf (rank ch₀, c₁ = ch₁, c₂ = ½c₁² − ch₂),
// falling back to a numerical object when ch₀ is not a non-negative integer.
func kernelSheaf(ctx *geometry.Context, ch *chern.Poly) (derived.Object, error) {
	r := ch.Scalar()
	if !r.IsInt() || r.Sign() < 0 || !r.Num().IsInt64() {
		return derived.NewNumerical(ctx, ch)
	}
	c1 := ch.Degree(1)
	sq, err := c1.Mul(c1)
	if err != nil {
		return nil, err
	}
	c2, err := sq.Scale(big.NewRat(1, 2)).Sub(ch.Degree(2))
	if err != nil {
		return nil, err
	}

	return derived.NewSheaf(ctx, r.Num().Int64(), c1, c2)
}

// twistWalkHN walks canonical triangles rotated to (sub, Tw, quot).
func (c *Condition) twistWalkHN(t *derived.SphericalTwist) (*Filtration, error) {
	tris, err := t.CanonicalTriangles(c.opts.engine)
	if err != nil {
		return nil, err
	}

	target := math.NaN()
	for _, tri := range tris {
		rot := tri.RotateLeft()
		sub, quot := rot.First(), rot.Third()
		hs, err := c.HarderNarasimhan(sub)
		if err != nil {
			return nil, err
		}
		hq, err := c.HarderNarasimhan(quot)
		if err != nil {
			return nil, err
		}
		switch {
		case hq.IsEmpty():
			return hs, nil
		case hs.IsEmpty():
			return hq, nil
		case hs.Max() < hq.Min():
			if math.IsNaN(target) {
				target = (hs.Max() + hq.Min()) / 2
			}
			continue
		case hs.Min() > hq.Max():
			return hs.Add(hq), nil
		case hs.IsSemistable(c.opts.tol):
			return c.intertwined(sub, hs, hq)
		}

		return nil, &HNError{
			Params: c.Params(),
			Object: t.String(),
			Reason: fmt.Sprintf("subobject %s is unstable and intertwines with quotient %s", sub, quot),
		}
	}

	z, err := c.CentralCharge(t)
	if err != nil {
		return nil, err
	}

	return single(t, nearestPhase(z, target)), nil
}

// intertwined merges the quotient factors of phase ≥ φ(sub) with sub into a
// numerical factor and keeps the lower quotient factors.
func (c *Condition) intertwined(sub derived.Object, hs, hq *Filtration) (*Filtration, error) {
	phiSub := hs.Max()
	ch := sub.ChernCharacter()
	upper, lower := hq.SplitAt(phiSub)
	for _, f := range upper.factors {
		var err error
		if ch, err = ch.Add(f.Object.ChernCharacter().ScaleInt(int64(f.Multiplicity))); err != nil {
			return nil, err
		}
	}
	merged, err := derived.NewNumerical(c.ctx, ch)
	if err != nil {
		return nil, err
	}
	phi, err := c.synthesizedPhase(ch, phiSub)
	if err != nil {
		return nil, err
	}

	return NewFiltration(append(lower.Factors(), Factor{Object: merged, Multiplicity: 1, Phase: phi})...), nil
}

// synthesizedPhase returns φ(N((−1)ⁿ ch)) + n for the smallest n ≥ 0 reaching floor.
func (c *Condition) synthesizedPhase(ch *chern.Poly, floor float64) (float64, error) {
	z, err := c.ChargeOf(ch)
	if err != nil {
		return 0, err
	}
	for n := 0; ; n++ {
		zn := z
		if n%2 == 1 {
			zn = -z
		}
		if phi := normalizedPhase(zn) + float64(n); phi >= floor {
			return phi, nil
		}
	}
}

// IsSemistable reports whether the HN filtration of o has a single phase.
func (c *Condition) IsSemistable(o derived.Object) (bool, error) {
	f, err := c.HarderNarasimhan(o)
	if err != nil {
		return false, err
	}

	return f.IsSemistable(c.opts.tol), nil
}

// Phase returns the phase of a semistable object.
//
// Errors: *UnstableError (ErrUnstable), ErrUnsupportedObject for zero.
func (c *Condition) Phase(o derived.Object) (float64, error) {
	f, err := c.HarderNarasimhan(o)
	if err != nil {
		return 0, err
	}
	if f.IsEmpty() {
		return 0, fmt.Errorf("Phase(%s): zero object: %w", o, ErrUnsupportedObject)
	}
	if !f.IsSemistable(c.opts.tol) {
		return 0, &UnstableError{Object: o.String(), Phases: f.Phases()}
	}

	return f.Max(), nil
}

// Mass returns ∑ mᵢ·|Z(factorᵢ)| over the HN filtration of o.
func (c *Condition) Mass(o derived.Object) (float64, error) {
	f, err := c.HarderNarasimhan(o)
	if err != nil {
		return 0, err
	}

	return c.FiltrationMass(f)
}

// FiltrationMass returns ∑ mᵢ·|Z(factorᵢ)|.
func (c *Condition) FiltrationMass(f *Filtration) (float64, error) {
	var m float64
	for _, x := range f.factors {
		z, err := c.CentralCharge(x.Object)
		if err != nil {
			return 0, err
		}
		m += float64(x.Multiplicity) * cmplx.Abs(z)
	}

	return m, nil
}
