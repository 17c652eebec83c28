// SPDX-License-Identifier: MIT

// Package geometry - Context: category tag + divisor data + polarization.
//
// Purpose:
//   - Enforce the per-category invariants once, at construction.
//   - Offer divisor-level helpers (coordinates, effectiveness, degree) used by
//     the RHom base cases and the slope engines.
//
// Determinism:
//   - Key() is derived from structural data only; two contexts built from the
//     same inputs are interchangeable as cache keys.

package geometry

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/stabmass/chern"
)

// Context is an immutable geometry context.
type Context struct {
	category     Category
	data         *DivisorData
	polarization *chern.Poly // linear, ample
	key          string
}

// NewContext validates (category, data) and the optional polarization.
//
// Implementation:
//   - Stage 1: check the category tag and its dimension / Picard-rank / H^n rules.
//   - Stage 2: resolve the polarization (default: the first basis symbol).
//   - Stage 3: ampleness: ∫Hⁿ > 0 and, in dimension 2, H·bᵢ > 0 for every basis class.
//
// Errors:
//   - ErrUnknownCategory, ErrInvalidGeometry, ErrNotDivisor, ErrNotAmple.
func NewContext(cat Category, data *DivisorData, opts ...Option) (*Context, error) {
	if _, ok := categoryNames[cat]; !ok {
		return nil, fmt.Errorf("NewContext(%d): %w", int(cat), ErrUnknownCategory)
	}
	if data == nil {
		return nil, fmt.Errorf("NewContext(%s): nil divisor data: %w", cat, ErrInvalidGeometry)
	}
	o := gatherOptions(opts...)

	n := data.Dimension()
	if n != cat.VarietyDimension() {
		return nil, fmt.Errorf("NewContext(%s): dimension %d, want %d: %w",
			cat, n, cat.VarietyDimension(), ErrInvalidGeometry)
	}
	if cat != K3 {
		if data.ring.Rank() != 1 {
			return nil, fmt.Errorf("NewContext(%s): Picard rank %d, want 1: %w",
				cat, data.ring.Rank(), ErrInvalidGeometry)
		}
		m := make(chern.Monomial, 1)
		m[0] = n
		if data.IntersectMonomial(m).Cmp(big.NewRat(1, 1)) != 0 {
			return nil, fmt.Errorf("NewContext(%s): top self-intersection %s, want 1: %w",
				cat, data.IntersectMonomial(m).RatString(), ErrInvalidGeometry)
		}
	}
	if data.ring.Rank() == 0 {
		return nil, fmt.Errorf("NewContext(%s): empty basis: %w", cat, ErrInvalidGeometry)
	}

	expr := o.polarization
	if expr == "" {
		expr = data.ring.Basis()[0]
	}
	ctx := &Context{category: cat, data: data}
	h, err := ctx.Divisor(expr)
	if err != nil {
		return nil, fmt.Errorf("NewContext(%s): polarization: %w", cat, err)
	}
	ctx.polarization = h
	if err = ctx.checkAmple(); err != nil {
		return nil, fmt.Errorf("NewContext(%s): polarization %s: %w", cat, h, err)
	}
	ctx.key = cat.String() + "|" + data.Key() + "|" + h.String()

	return ctx, nil
}

// checkAmple applies the numerical test: positive top power, and positive
// intersection with every basis class on surfaces.
func (c *Context) checkAmple() error {
	hn, err := c.polarization.Pow(c.VarietyDimension())
	if err != nil {
		return err
	}
	top, err := c.data.Evaluate(hn)
	if err != nil {
		return err
	}
	if top.Sign() <= 0 {
		return ErrNotAmple
	}
	if c.VarietyDimension() != 2 {
		return nil
	}
	for _, s := range c.data.ring.Basis() {
		b, _ := c.data.ring.Symbol(s)
		v, err := c.data.Evaluate(c.polarization, b)
		if err != nil {
			return err
		}
		if v.Sign() <= 0 {
			return ErrNotAmple
		}
	}

	return nil
}

// Category returns the category tag.
func (c *Context) Category() Category { return c.category }

// DivisorData returns the intersection data.
func (c *Context) DivisorData() *DivisorData { return c.data }

// Ring returns the Chern ring of the context.
func (c *Context) Ring() *chern.Ring { return c.data.ring }

// VarietyDimension returns n.
func (c *Context) VarietyDimension() int { return c.data.Dimension() }

// PicardRank returns the number of basis classes.
func (c *Context) PicardRank() int { return c.data.ring.Rank() }

// Basis returns a copy of the ordered basis.
func (c *Context) Basis() []string { return c.data.Basis() }

// Polarization returns a copy of the ample class H.
func (c *Context) Polarization() *chern.Poly { return c.polarization.Clone() }

// Key is the structural identity used by every downstream cache.
func (c *Context) Key() string { return c.key }

// String renders a short human description.
func (c *Context) String() string {
	return fmt.Sprintf("%s(basis=%v, H=%s)", c.category, c.data.Basis(), c.polarization)
}

// Equal reports structural equality.
func (c *Context) Equal(o *Context) bool {
	if c == nil || o == nil {
		return c == o
	}

	return c.key == o.key
}

// Divisor parses a linear combination of basis symbols.
// Errors: ErrUnknownSymbol, ErrNotDivisor.
func (c *Context) Divisor(expr string) (*chern.Poly, error) {
	p, err := c.data.ring.Parse(expr)
	if err != nil {
		if isUnknownSymbol(err) {
			return nil, fmt.Errorf("Divisor(%q): %v: %w", expr, err, ErrUnknownSymbol)
		}
		return nil, fmt.Errorf("Divisor(%q): %v: %w", expr, err, ErrNotDivisor)
	}
	if !p.IsHomogeneous(1) {
		return nil, fmt.Errorf("Divisor(%q): %w", expr, ErrNotDivisor)
	}

	return p, nil
}

// DivisorFromCoords builds ∑ coords[i]·bᵢ.
// Errors: ErrNotDivisor when len(coords) != PicardRank().
func (c *Context) DivisorFromCoords(coords ...int64) (*chern.Poly, error) {
	p, err := c.data.ring.LinearInt(coords...)
	if err != nil {
		return nil, fmt.Errorf("DivisorFromCoords(%v): %w", coords, ErrNotDivisor)
	}

	return p, nil
}

// Coordinates returns the basis coordinates of the degree-one part of d.
func (c *Context) Coordinates(d *chern.Poly) []*big.Rat {
	return d.Degree(1).LinearCoefficients()
}

// IntCoordinates returns integral basis coordinates.
// Errors: ErrNotIntegral.
func (c *Context) IntCoordinates(d *chern.Poly) ([]int64, error) {
	cs := c.Coordinates(d)
	out := make([]int64, len(cs))
	for i, r := range cs {
		if !r.IsInt() || !r.Num().IsInt64() {
			return nil, fmt.Errorf("IntCoordinates(%s): %w", d, ErrNotIntegral)
		}
		out[i] = r.Num().Int64()
	}

	return out, nil
}

// IsEffective reports whether d is a non-zero class with every basis
// coordinate non-negative. The basis is taken to consist of effective classes.
func (c *Context) IsEffective(d *chern.Poly) bool {
	nonzero := false
	for _, r := range c.Coordinates(d) {
		if r.Sign() < 0 {
			return false
		}
		if r.Sign() > 0 {
			nonzero = true
		}
	}

	return nonzero
}

// Degree returns ∫ d·H^{n−1}, the degree of d against the polarization.
func (c *Context) Degree(d *chern.Poly) (*big.Rat, error) {
	hp, err := c.polarization.Pow(c.VarietyDimension() - 1)
	if err != nil {
		return nil, err
	}

	return c.data.Evaluate(d.Degree(1), hp)
}

// Square returns ∫ d·d (surfaces) or ∫ d (curves).
func (c *Context) Square(d *chern.Poly) (*big.Rat, error) {
	if c.VarietyDimension() == 1 {
		return c.data.Evaluate(d.Degree(1))
	}

	return c.data.Evaluate(d.Degree(1), d.Degree(1))
}
