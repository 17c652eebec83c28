// SPDX-License-Identifier: MIT

// Package stability - Condition: parameters, twist character and central charge.
//
// Contracts:
//   - Parameters are validated against the category at construction.
//   - The twist character is built once; ChargeOf is O(t) per class.

package stability

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"strings"
	"sync"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/rhom"
	"github.com/katalvlaran/stabmass/slope"
)

// Condition is a Bridgeland stability condition on a geometry context.
type Condition struct {
	ctx    *geometry.Context
	params []float64
	names  []string
	opts   options

	twist *chern.CPoly // P1, P2 and K3: character integrated against ch
	b     *chern.Poly  // K3 B-field
	omega float64      // K3 volume

	mu sync.Mutex
	hn map[string]*Filtration
}

func newCondition(ctx *geometry.Context, params []float64, names []string, opts []Option) *Condition {
	return &Condition{
		ctx:    ctx,
		params: params,
		names:  names,
		opts:   gatherOptions(opts...),
		hn:     make(map[string]*Filtration),
	}
}

// NewP1 builds the condition Z = ∫ ch·(−1 + wH) on P1 or local P1.
//
// Errors: ErrCategory.
func NewP1(ctx *geometry.Context, w complex128, opts ...Option) (*Condition, error) {
	if !ctx.Category().IsProjectiveLine() {
		return nil, fmt.Errorf("NewP1 on %s: %w", ctx.Category(), ErrCategory)
	}
	c := newCondition(ctx, []float64{real(w), imag(w)}, []string{"re w", "im w"}, opts)
	h := ctx.Polarization().Complex()
	tw, err := ctx.Ring().ComplexScalar(-1).Add(h.Scale(w))
	if err != nil {
		return nil, fmt.Errorf("NewP1: %w", err)
	}
	c.twist = tw

	return c, nil
}

// NewP2 builds the (s, q) condition on P2 or local P2.
//
// Errors: ErrCategory.
func NewP2(ctx *geometry.Context, s, q float64, opts ...Option) (*Condition, error) {
	if !ctx.Category().IsProjectivePlane() {
		return nil, fmt.Errorf("NewP2 on %s: %w", ctx.Category(), ErrCategory)
	}
	c := newCondition(ctx, []float64{s, q}, []string{"s", "q"}, opts)
	h := ctx.Polarization()
	var err error
	if c.opts.sqrt {
		c.twist, err = chern.CExp(h.Complex().Scale(complex(s, q)))
	} else {
		c.twist, err = p2Twist(ctx, h, s, q)
	}
	if err != nil {
		return nil, fmt.Errorf("NewP2: %w", err)
	}

	return c, nil
}

// p2Twist returns −1 + iH + (q − is)H².
func p2Twist(ctx *geometry.Context, h *chern.Poly, s, q float64) (*chern.CPoly, error) {
	h2, err := h.Pow(2)
	if err != nil {
		return nil, err
	}
	tw, err := ctx.Ring().ComplexScalar(-1).Add(h.Complex().Scale(1i))
	if err != nil {
		return nil, err
	}

	return tw.Add(h2.Complex().Scale(complex(q, -s)))
}

// NewK3 builds the condition with B = ∑ bᵢ·Dᵢ (one coordinate per basis
// class) and volume ω on a K3 surface.
//
// Errors: ErrCategory, ErrParameterShape (wrong length, ω ≤ 0, non-finite values).
func NewK3(ctx *geometry.Context, b []float64, omega float64, opts ...Option) (*Condition, error) {
	if ctx.Category() != geometry.K3 {
		return nil, fmt.Errorf("NewK3 on %s: %w", ctx.Category(), ErrCategory)
	}
	if len(b) != ctx.PicardRank() {
		return nil, fmt.Errorf("NewK3: %d B-field coordinates for Picard rank %d: %w",
			len(b), ctx.PicardRank(), ErrParameterShape)
	}
	if !(omega > 0) || math.IsInf(omega, 0) {
		return nil, fmt.Errorf("NewK3: ω = %g: %w", omega, ErrParameterShape)
	}
	coords := make([]*big.Rat, len(b))
	for i, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("NewK3: b[%d] = %g: %w", i, v, ErrParameterShape)
		}
		coords[i] = new(big.Rat).SetFloat64(v)
	}
	bField, err := ctx.Ring().Linear(coords...)
	if err != nil {
		return nil, fmt.Errorf("NewK3: %w", err)
	}

	names := make([]string, 0, len(b)+1)
	for _, s := range ctx.Basis() {
		names = append(names, "b."+s)
	}
	c := newCondition(ctx, append(append([]float64(nil), b...), omega), append(names, "ω"), opts)
	c.b, c.omega = bField, omega

	// exp(−(B + iωH))
	hc := ctx.Polarization().Complex().Scale(complex(0, -omega))
	exponent, err := bField.Complex().Scale(-1).Add(hc)
	if err != nil {
		return nil, fmt.Errorf("NewK3: %w", err)
	}
	if c.twist, err = chern.CExp(exponent); err != nil {
		return nil, fmt.Errorf("NewK3: %w", err)
	}

	return c, nil
}

// New dispatches on the category: P1 takes (re w, im w), P2 takes (s, q),
// K3 takes (b₁, …, b_ρ, ω).
//
// Errors: ErrParameterShape, ErrCategory.
func New(ctx *geometry.Context, params []float64, opts ...Option) (*Condition, error) {
	cat := ctx.Category()
	switch {
	case cat.IsProjectiveLine():
		if len(params) != 2 {
			return nil, fmt.Errorf("New(%s, %d params): %w", cat, len(params), ErrParameterShape)
		}
		return NewP1(ctx, complex(params[0], params[1]), opts...)
	case cat.IsProjectivePlane():
		if len(params) != 2 {
			return nil, fmt.Errorf("New(%s, %d params): %w", cat, len(params), ErrParameterShape)
		}
		return NewP2(ctx, params[0], params[1], opts...)
	case cat == geometry.K3:
		if len(params) != ctx.PicardRank()+1 {
			return nil, fmt.Errorf("New(%s, %d params): %w", cat, len(params), ErrParameterShape)
		}
		return NewK3(ctx, params[:len(params)-1], params[len(params)-1], opts...)
	}

	return nil, fmt.Errorf("New(%s): %w", cat, ErrCategory)
}

// Context returns the geometry context.
func (c *Condition) Context() *geometry.Context { return c.ctx }

// Params returns a copy of the parameter tuple.
func (c *Condition) Params() []float64 { return append([]float64(nil), c.params...) }

// Engine returns the RHom engine used by HN walks.
func (c *Condition) Engine() *rhom.Engine { return c.opts.engine }

// BField returns the K3 B-field (nil on other categories).
func (c *Condition) BField() *chern.Poly {
	if c.b == nil {
		return nil
	}

	return c.b.Clone()
}

// Omega returns the K3 volume (0 on other categories).
func (c *Condition) Omega() float64 { return c.omega }

// String renders "Stab(P2; s=0.5, q=0.9)".
func (c *Condition) String() string {
	parts := make([]string, len(c.params))
	for i, v := range c.params {
		parts[i] = fmt.Sprintf("%s=%g", c.names[i], v)
	}

	return "Stab(" + c.ctx.Category().String() + "; " + strings.Join(parts, ", ") + ")"
}

// ChargeOf returns Z of a raw Chern character.
//
// Errors: ErrUnsupportedObject for a class outside the context ring.
func (c *Condition) ChargeOf(ch *chern.Poly) (complex128, error) {
	if !ch.Ring().Same(c.ctx.Ring()) {
		return 0, fmt.Errorf("ChargeOf(%s): %w", ch, ErrUnsupportedObject)
	}
	z, err := c.ctx.DivisorData().EvaluateComplex(ch, c.twist)
	if err != nil {
		return 0, err
	}
	if c.ctx.Category() == geometry.K3 {
		z = -(z + complex(chern.RatFloat(ch.Scalar()), 0))
	}

	return z, nil
}

// CentralCharge returns Z(o).
func (c *Condition) CentralCharge(o derived.Object) (complex128, error) {
	if !c.ctx.Equal(o.Context()) {
		return 0, fmt.Errorf("CentralCharge(%s): %w", o, ErrUnsupportedObject)
	}

	return c.ChargeOf(o.ChernCharacter())
}

// TiltedSlope returns μ_{B,ω} of o on a K3 condition.
//
// Errors: ErrCategory off K3.
func (c *Condition) TiltedSlope(o derived.Object) (float64, error) {
	if c.b == nil {
		return 0, fmt.Errorf("TiltedSlope on %s: %w", c.ctx.Category(), ErrCategory)
	}

	return slope.TiltedSlope(c.ctx, o.ChernCharacter(), c.b, c.omega)
}

// principalPhase returns arg z / π in (−1, 1].
func principalPhase(z complex128) float64 {
	phi := cmplx.Phase(z) / math.Pi
	if phi <= -1 {
		phi += 2
	}

	return phi
}

// normalizedPhase returns arg z / π in (0, 2].
func normalizedPhase(z complex128) float64 { return slope.Normalize(principalPhase(z)) }

// nearestPhase returns the representative of arg z / π + 2ℤ closest to target.
func nearestPhase(z complex128, target float64) float64 {
	phi := principalPhase(z)

	return phi + 2*math.Round((target-phi)/2)
}
