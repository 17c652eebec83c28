// SPDX-License-Identifier: MIT

// Package stability - destabilizers of K3 line bundles in the tilted heart.
//
// The regime of L = 𝒪(D) comes from its μ-HN factors: L sits in T_{B,ω}
// when every factor has μ_{B,ω} > 0 and in F_{B,ω} when none has. A bundle
// whose factors straddle the torsion pair splits along it first: the T part
// is a subobject in the heart, the F part a quotient one phase below.
// Candidates E are line bundles 𝒪(E) with 0 < E < D and
// sheaves of rank 2…maxRank with c₁ ranging over the same sub-classes (and D)
// and ∫ch₂ stepping down from the Bogomolov bound ½(c₁² − 2r² + 2)/r.
//
//	Regime T:    E ∈ T, φ(E) > φ(L), χ(E, L) > 0; for r ≥ 2 the kernel
//	             of E → L lies in F and v(E) is primitive.
//	Regime F(a): as T with E ∈ F.
//	Regime F(b): E ∈ T with an extension 0 → L → A → E → 0, A ∈ F,
//	             v(E) primitive, χ(E, L) < 0 and φ(E) > φ(L) + 1;
//	             the factor of L is E[−1].
//
// The maximal-phase candidate becomes the first HN factor; the quotient is
// numerical and takes the branch of arg Z nearest to φ(L).

package stability

import (
	"math"
	"math/big"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/slope"
)

// candidate is a destabilizing factor of L: its object, character and phase.
type candidate struct {
	obj   derived.Object
	ch    *chern.Poly
	phase float64
}

// k3LineBundleHN runs the destabilizer search for L.
func (c *Condition) k3LineBundleHN(l *derived.LineBundle) (*Filtration, error) {
	chL := l.ChernCharacter()
	zL, err := c.ChargeOf(chL)
	if err != nil {
		return nil, err
	}
	phiL := principalPhase(zL)
	tors, free, err := slope.TorsionSplit(l, c.b, c.omega)
	if err != nil {
		return nil, err
	}
	if len(tors) > 0 && len(free) > 0 {
		return c.torsionPairHN(append(tors, free...))
	}
	inT := len(free) == 0

	pool, err := c.candidatePool(l)
	if err != nil {
		return nil, err
	}

	var best *candidate
	consider := func(k candidate) {
		if best == nil || k.phase > best.phase {
			kk := k
			best = &kk
		}
	}
	for _, e := range pool {
		chE := e.ChernCharacter()
		inE, err := slope.InTorsionPart(c.ctx, chE, c.b, c.omega)
		if err != nil {
			return nil, err
		}
		zE, err := c.ChargeOf(chE)
		if err != nil {
			return nil, err
		}
		phiE := principalPhase(zE)
		chi, err := derived.EulerCharacteristic(e, l)
		if err != nil {
			return nil, err
		}

		if inT == inE {
			// regime T, or F(a)
			ok, err := c.admitSub(e, l, chE, chL, chi)
			if err != nil {
				return nil, err
			}
			if ok && phiE > phiL {
				consider(candidate{obj: e, ch: chE, phase: phiE})
			}
			continue
		}
		if !inT && inE {
			ok, err := c.admitExtension(e, chE, chL, chi)
			if err != nil {
				return nil, err
			}
			if ok && phiE > phiL+1 {
				consider(candidate{obj: e.Shift(-1), ch: chE.Neg(), phase: phiE - 1})
			}
		}
	}
	if best == nil {
		return single(l, phiL), nil
	}

	qch, err := chL.Sub(best.ch)
	if err != nil {
		return nil, err
	}
	zQ, err := c.ChargeOf(qch)
	if err != nil {
		return nil, err
	}
	phiQ := nearestPhase(zQ, phiL)
	if phiQ >= best.phase {
		return single(l, phiL), nil
	}
	quot, err := derived.NewNumerical(c.ctx, qch)
	if err != nil {
		return nil, err
	}

	return NewFiltration(
		Factor{Object: best.obj, Multiplicity: 1, Phase: best.phase},
		Factor{Object: quot, Multiplicity: 1, Phase: phiQ},
	), nil
}

// torsionPairHN joins the filtrations of μ-HN factors split along the
// torsion pair. Line-bundle factors are searched in turn; the others are
// taken as semistable on the principal branch.
func (c *Condition) torsionPairHN(factors []slope.Factor) (*Filtration, error) {
	out := NewFiltration()
	for _, f := range factors {
		if lb, ok := f.Object.(*derived.LineBundle); ok {
			sub, err := c.HarderNarasimhan(lb)
			if err != nil {
				return nil, err
			}
			out = out.Add(sub)
			continue
		}
		z, err := c.CentralCharge(f.Object)
		if err != nil {
			return nil, err
		}
		out = out.Add(single(f.Object, principalPhase(z)))
	}

	return out, nil
}

// admitSub checks the sub-object conditions shared by regimes T and F(a).
func (c *Condition) admitSub(e derived.Object, l *derived.LineBundle, chE, chL *chern.Poly, chi *big.Rat) (bool, error) {
	if chi.Sign() <= 0 {
		return false, nil
	}
	if _, ok := e.(*derived.LineBundle); ok {
		return true, nil
	}
	kch, err := chE.Sub(chL)
	if err != nil {
		return false, err
	}
	muK, err := slope.TiltedSlope(c.ctx, kch, c.b, c.omega)
	if err != nil {
		return false, err
	}
	if muK > 0 {
		return false, nil
	}

	return c.primitive(chE)
}

// admitExtension checks regime F(b): A = L + E must lie in F.
func (c *Condition) admitExtension(e derived.Object, chE, chL *chern.Poly, chi *big.Rat) (bool, error) {
	if chi.Sign() >= 0 {
		return false, nil
	}
	ach, err := chL.Add(chE)
	if err != nil {
		return false, err
	}
	muA, err := slope.TiltedSlope(c.ctx, ach, c.b, c.omega)
	if err != nil {
		return false, err
	}
	if muA > 0 {
		return false, nil
	}

	return c.primitive(chE)
}

// primitive reports whether the Mukai vector (r, c₁, ch₂ + r) has coprime integral entries.
func (c *Condition) primitive(ch *chern.Poly) (bool, error) {
	r, c1, s, err := derived.MukaiVector(c.ctx, ch)
	if err != nil {
		return false, err
	}
	entries := append(c.ctx.Coordinates(c1), r, s)
	g := new(big.Int)
	for _, x := range entries {
		if !x.IsInt() {
			return false, nil
		}
		g.GCD(nil, nil, g, new(big.Int).Abs(x.Num()))
	}

	return g.Cmp(big.NewInt(1)) == 0, nil
}

// candidatePool enumerates line bundles 𝒪(E), 0 < E < D, and sheaves of
// rank 2…maxRank with c₁ ∈ {E} ∪ {D} below the Bogomolov bound.
func (c *Condition) candidatePool(l *derived.LineBundle) ([]derived.Object, error) {
	d := l.Divisor()
	subs, err := slope.SubClasses(c.ctx, d)
	if err != nil {
		return nil, err
	}
	var pool []derived.Object
	for _, e := range subs {
		lb, err := derived.NewLineBundle(c.ctx, e)
		if err != nil {
			return nil, err
		}
		pool = append(pool, lb)
	}
	if c.opts.maxRank < 2 {
		return pool, nil
	}

	h := c.ctx.Polarization()
	h2, err := h.Pow(2)
	if err != nil {
		return nil, err
	}
	hh, err := c.ctx.Square(h)
	if err != nil {
		return nil, err
	}
	point := h2.Scale(new(big.Rat).Inv(hh)) // ∫point = 1

	firsts := append(append([]*chern.Poly(nil), subs...), d)
	for r := int64(2); r <= int64(c.opts.maxRank); r++ {
		for _, c1 := range firsts {
			sq, err := c.ctx.Square(c1)
			if err != nil {
				return nil, err
			}
			bound := chern.RatFloat(sq)/2/float64(r) - float64(r) + 1/float64(r)
			top := int64(math.Floor(bound))
			for step := 0; step < c.opts.ch2Steps; step++ {
				s := top - int64(step)
				sh, err := c.sheafWith(r, c1, s, point)
				if err != nil {
					return nil, err
				}
				pool = append(pool, sh)
			}
		}
	}

	return pool, nil
}

// sheafWith builds the sheaf of rank r, first Chern class c1 and ∫ch₂ = s.
func (c *Condition) sheafWith(r int64, c1 *chern.Poly, s int64, point *chern.Poly) (*derived.Sheaf, error) {
	sq, err := c1.Mul(c1)
	if err != nil {
		return nil, err
	}
	c2, err := sq.Scale(big.NewRat(1, 2)).Sub(point.ScaleInt(s))
	if err != nil {
		return nil, err
	}

	return derived.NewSheaf(c.ctx, r, c1, c2)
}
