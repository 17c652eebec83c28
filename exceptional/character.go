// SPDX-License-Identifier: MIT

// Package exceptional - Character and the dyadic mutation recurrence.
//
// Contracts:
//   - (p, m) is reduced to lowest terms before lookup, so E_{2p/2^{m+1}} = E_{p/2^m}.
//   - Every character satisfies ½μ² − ch₂/r = ½(1 − 1/r²).
//
// Complexity: O(m) distinct labels per query thanks to memoization.

package exceptional

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
)

// MaxDepth bounds the dyadic level m.
const MaxDepth = 12

// Character is ch(E) = (Rank, Degree·H, Ch2·H²) on the projective plane.
type Character struct {
	Rank   *big.Rat
	Degree *big.Rat
	Ch2    *big.Rat
}

func lineCharacter(d int64) Character {
	return Character{
		Rank:   big.NewRat(1, 1),
		Degree: big.NewRat(d, 1),
		Ch2:    big.NewRat(d*d, 2),
	}
}

// mutate returns 3·a.Rank·b − c.
func mutate(a, b, c Character) Character {
	k := new(big.Rat).Mul(big.NewRat(3, 1), a.Rank)
	f := func(x, y *big.Rat) *big.Rat {
		return new(big.Rat).Sub(new(big.Rat).Mul(k, x), y)
	}

	return Character{Rank: f(b.Rank, c.Rank), Degree: f(b.Degree, c.Degree), Ch2: f(b.Ch2, c.Ch2)}
}

// Slope returns μ = Degree/Rank.
func (c Character) Slope() *big.Rat { return new(big.Rat).Quo(c.Degree, c.Rank) }

// Discriminant returns Δ = ½μ² − Ch2/Rank.
func (c Character) Discriminant() *big.Rat {
	mu := c.Slope()
	half := new(big.Rat).Mul(new(big.Rat).Mul(mu, mu), big.NewRat(1, 2))

	return half.Sub(half, new(big.Rat).Quo(c.Ch2, c.Rank))
}

// Poly lifts c into the Chern ring of a projective-plane context.
//
// Errors: ErrCategory.
func (c Character) Poly(ctx *geometry.Context) (*chern.Poly, error) {
	if !ctx.Category().IsProjectivePlane() {
		return nil, fmt.Errorf("Character.Poly on %s: %w", ctx.Category(), ErrCategory)
	}
	h := ctx.Polarization()
	h2, err := h.Pow(2)
	if err != nil {
		return nil, err
	}
	out, err := ctx.Ring().Scalar(c.Rank).Add(h.Scale(c.Degree))
	if err != nil {
		return nil, err
	}

	return out.Add(h2.Scale(c.Ch2))
}

// String renders "(5, 2, -2)".
func (c Character) String() string {
	return fmt.Sprintf("(%s, %s, %s)", c.Rank.RatString(), c.Degree.RatString(), c.Ch2.RatString())
}

// label is a reduced dyadic p/2^m.
type label struct {
	p int64
	m int
}

func reduce(p int64, m int) label {
	for m > 0 && p%2 == 0 {
		p /= 2
		m--
	}

	return label{p: p, m: m}
}

// enumerator memoizes characters across one curve build.
type enumerator struct {
	memo map[label]Character
}

func newEnumerator() *enumerator { return &enumerator{memo: make(map[label]Character)} }

func (e *enumerator) at(p int64, m int) Character {
	l := reduce(p, m)
	if ch, ok := e.memo[l]; ok {
		return ch
	}
	var ch Character
	switch {
	case l.m == 0:
		ch = lineCharacter(l.p)
	case ((l.p%4)+4)%4 == 1:
		ch = mutate(e.at(l.p-1, l.m), e.at(l.p+1, l.m), e.at(l.p+3, l.m))
	default:
		ch = mutate(e.at(l.p+1, l.m), e.at(l.p-1, l.m), e.at(l.p-3, l.m))
	}
	e.memo[l] = ch

	return ch
}

// ChernCharacter returns ch(E_{p/2^m}).
//
// Errors: ErrBadDepth when m ∉ [0, MaxDepth].
func ChernCharacter(p int64, m int) (Character, error) {
	if m < 0 || m > MaxDepth {
		return Character{}, fmt.Errorf("ChernCharacter(%d, %d): %w", p, m, ErrBadDepth)
	}

	return newEnumerator().at(p, m), nil
}
