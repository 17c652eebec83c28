// SPDX-License-Identifier: MIT

// Package derived - coherent sheaves and interned line bundles.

package derived

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
)

// Sheaf is a coherent sheaf described by (rank, c₁, c₂).
// ch = r + c₁ + (½c₁² − c₂), truncated at the variety dimension.
type Sheaf struct {
	ctx  *geometry.Context
	rank int64
	c1   *chern.Poly
	c2   *chern.Poly
	ch   *chern.Poly
	key  string
}

// NewSheaf validates rank ≥ 0, c₁ linear and c₂ homogeneous of degree 2 (nil means 0).
// Errors: ErrConstruction, ErrContextMismatch.
func NewSheaf(ctx *geometry.Context, rank int64, c1, c2 *chern.Poly) (*Sheaf, error) {
	r := ctx.Ring()
	if rank < 0 {
		return nil, fmt.Errorf("NewSheaf: rank %d: %w", rank, ErrConstruction)
	}
	if c1 == nil {
		c1 = r.Zero()
	}
	if c2 == nil {
		c2 = r.Zero()
	}
	if !c1.Ring().Same(r) || !c2.Ring().Same(r) {
		return nil, fmt.Errorf("NewSheaf: %w", ErrContextMismatch)
	}
	if !c1.IsHomogeneous(1) {
		return nil, fmt.Errorf("NewSheaf: c1 %s is not a divisor: %w", c1, ErrConstruction)
	}
	if !c2.IsHomogeneous(2) {
		return nil, fmt.Errorf("NewSheaf: c2 %s is not a degree-2 class: %w", c2, ErrConstruction)
	}
	sq, err := c1.Mul(c1)
	if err != nil {
		return nil, err
	}
	ch2, err := sq.Scale(big.NewRat(1, 2)).Sub(c2)
	if err != nil {
		return nil, err
	}
	ch, err := r.ScalarInt(rank).Add(c1)
	if err != nil {
		return nil, err
	}
	if ch, err = ch.Add(ch2); err != nil {
		return nil, err
	}
	s := &Sheaf{ctx: ctx, rank: rank, c1: c1.Clone(), c2: c2.Clone(), ch: ch}
	s.key = fmt.Sprintf("sheaf|%s|%d|%s|%s", ctx.Key(), rank, c1, c2)

	return s, nil
}

func (s *Sheaf) Kind() Kind                  { return KindSheaf }
func (s *Sheaf) Context() *geometry.Context  { return s.ctx }
func (s *Sheaf) ChernCharacter() *chern.Poly { return s.ch.Clone() }
func (s *Sheaf) Key() string                 { return s.key }

// Rank returns r.
func (s *Sheaf) Rank() int64 { return s.rank }

// C1 returns a copy of the first Chern class.
func (s *Sheaf) C1() *chern.Poly { return s.c1.Clone() }

// C2 returns a copy of the second Chern class.
func (s *Sheaf) C2() *chern.Poly { return s.c2.Clone() }

// Shift wraps the sheaf in a one-summand coproduct.
func (s *Sheaf) Shift(n int) Object { return shiftWrapped(s, n) }

func (s *Sheaf) String() string {
	return fmt.Sprintf("Sheaf(r=%d, c1=%s, c2=%s)", s.rank, s.c1, s.c2)
}

// LineBundle is 𝒪(D). Interned: equal (D, context) pairs return the same pointer.
type LineBundle struct {
	ctx     *geometry.Context
	divisor *chern.Poly
	ch      *chern.Poly
	key     string
}

// NewLineBundle returns the interned 𝒪(D).
// Errors: ErrConstruction (D not linear), ErrContextMismatch.
func NewLineBundle(ctx *geometry.Context, d *chern.Poly) (*LineBundle, error) {
	if !d.Ring().Same(ctx.Ring()) {
		return nil, fmt.Errorf("NewLineBundle(%s): %w", d, ErrContextMismatch)
	}
	ch, err := chern.Exp(d)
	if err != nil {
		return nil, fmt.Errorf("NewLineBundle(%s): %v: %w", d, err, ErrConstruction)
	}
	key := "O|" + ctx.Key() + "|" + d.String()

	return lineBundles.intern(key, func() *LineBundle {
		return &LineBundle{ctx: ctx, divisor: d.Clone(), ch: ch, key: key}
	}), nil
}

// LineBundleOf parses a divisor expression and returns 𝒪(D).
func LineBundleOf(ctx *geometry.Context, expr string) (*LineBundle, error) {
	d, err := ctx.Divisor(expr)
	if err != nil {
		return nil, fmt.Errorf("LineBundleOf(%q): %w", expr, err)
	}

	return NewLineBundle(ctx, d)
}

// LineBundleFromCoords returns 𝒪(∑ coords[i]·bᵢ).
func LineBundleFromCoords(ctx *geometry.Context, coords ...int64) (*LineBundle, error) {
	d, err := ctx.DivisorFromCoords(coords...)
	if err != nil {
		return nil, err
	}

	return NewLineBundle(ctx, d)
}

func (l *LineBundle) Kind() Kind                  { return KindLineBundle }
func (l *LineBundle) Context() *geometry.Context  { return l.ctx }
func (l *LineBundle) ChernCharacter() *chern.Poly { return l.ch.Clone() }
func (l *LineBundle) Key() string                 { return l.key }

// Divisor returns a copy of D.
func (l *LineBundle) Divisor() *chern.Poly { return l.divisor.Clone() }

// Shift wraps the bundle in a one-summand coproduct.
func (l *LineBundle) Shift(n int) Object { return shiftWrapped(l, n) }

func (l *LineBundle) String() string { return "O(" + l.divisor.String() + ")" }

// AsSheaf views 𝒪(D) as the rank-1 sheaf (1, D, 0).
func (l *LineBundle) AsSheaf() *Sheaf {
	s, err := NewSheaf(l.ctx, 1, l.divisor, nil)
	if err != nil {
		panic(fmt.Sprintf("derived: line bundle %s as sheaf: %v", l, err))
	}

	return s
}

// shiftWrapped returns o itself for n = 0, else the coproduct o[n].
func shiftWrapped(o Object, n int) Object {
	if n == 0 {
		return o
	}
	gc, err := NewGradedCoproduct([]Object{o}, []int{n}, nil)
	if err != nil {
		panic(fmt.Sprintf("derived: shift of %s: %v", o, err))
	}

	return gc
}
