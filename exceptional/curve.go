// SPDX-License-Identifier: MIT

// Package exceptional - boundary triples and the interpolated Curve.
//
// Contracts:
//   - Curve points are sorted by X with duplicates removed.
//   - Y interpolates linearly and refuses x outside [XMin, XMax].
//
// Complexity: NewCurve O(n·depth) for n labels; Y and Above O(log n).

package exceptional

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
)

// Point is a point of the (ch₁/ch₀, ch₂/ch₀) plane.
type Point struct {
	X, Y float64
}

// Triple holds the boundary points contributed by one exceptional bundle.
type Triple struct {
	Label     *big.Rat // p/2^m
	Character Character
	Plus      Point
	Left      Point
	Right     Point
}

// halfWidth returns 3/2 − √(9/4 − 1/r²), written to stay accurate for large r.
func halfWidth(r float64) float64 {
	inv := 1 / (r * r)

	return inv / (1.5 + math.Sqrt(2.25-inv))
}

func parabola(x float64) float64 { return x*x/2 - 0.5 }

func tripleOf(p int64, m int, ch Character) Triple {
	r := chern.RatFloat(ch.Rank)
	eps := chern.RatFloat(ch.Slope())
	x := halfWidth(r)

	return Triple{
		Label:     new(big.Rat).SetFrac(big.NewInt(p), new(big.Int).Lsh(big.NewInt(1), uint(m))),
		Character: ch,
		Plus:      Point{X: eps, Y: chern.RatFloat(ch.Ch2) / r},
		Left:      Point{X: eps - x, Y: parabola(eps - x)},
		Right:     Point{X: eps + x, Y: parabola(eps + x)},
	}
}

// TripleAt returns the boundary triple of E_{p/2^m}.
//
// Errors: ErrBadDepth.
func TripleAt(p int64, m int) (Triple, error) {
	ch, err := ChernCharacter(p, m)
	if err != nil {
		return Triple{}, err
	}

	return tripleOf(p, m, ch), nil
}

// Curve is the piecewise-linear boundary through every triple with label in [lo, hi].
type Curve struct {
	depth   int
	triples []Triple
	points  []Point
}

// NewCurve enumerates labels p/2^depth for p ∈ [lo·2^depth, hi·2^depth].
//
// Errors:
//   - ErrCategory off the projective plane (P2 or local P2).
//   - ErrBadDepth for depth ∉ [0, MaxDepth].
//   - ErrOutOfRange when lo > hi.
func NewCurve(ctx *geometry.Context, lo, hi int64, depth int) (*Curve, error) {
	if !ctx.Category().IsProjectivePlane() {
		return nil, fmt.Errorf("NewCurve on %s: %w", ctx.Category(), ErrCategory)
	}
	if depth < 0 || depth > MaxDepth {
		return nil, fmt.Errorf("NewCurve(depth %d): %w", depth, ErrBadDepth)
	}
	if lo > hi {
		return nil, fmt.Errorf("NewCurve([%d, %d]): empty interval: %w", lo, hi, ErrOutOfRange)
	}

	e := newEnumerator()
	scale := int64(1) << uint(depth)
	c := &Curve{depth: depth}
	for p := lo * scale; p <= hi*scale; p++ {
		t := tripleOf(p, depth, e.at(p, depth))
		c.triples = append(c.triples, t)
		c.points = append(c.points, t.Left, t.Plus, t.Right)
	}
	sort.SliceStable(c.points, func(i, j int) bool { return c.points[i].X < c.points[j].X })
	out := c.points[:1]
	for _, pt := range c.points[1:] {
		if pt.X == out[len(out)-1].X {
			continue
		}
		out = append(out, pt)
	}
	c.points = out

	return c, nil
}

// Depth returns the dyadic level of the curve.
func (c *Curve) Depth() int { return c.depth }

// Triples returns a copy of the triples in label order.
func (c *Curve) Triples() []Triple { return append([]Triple(nil), c.triples...) }

// Points returns a copy of the sorted boundary points.
func (c *Curve) Points() []Point { return append([]Point(nil), c.points...) }

// Bounds returns [XMin, XMax].
func (c *Curve) Bounds() (xmin, xmax float64) {
	return c.points[0].X, c.points[len(c.points)-1].X
}

// Y interpolates the boundary height at x.
//
// Errors: ErrOutOfRange outside Bounds.
func (c *Curve) Y(x float64) (float64, error) {
	xmin, xmax := c.Bounds()
	if math.IsNaN(x) || x < xmin || x > xmax {
		return 0, fmt.Errorf("Curve.Y(%g) outside [%g, %g]: %w", x, xmin, xmax, ErrOutOfRange)
	}
	i := sort.Search(len(c.points), func(i int) bool { return c.points[i].X >= x })
	if c.points[i].X == x {
		return c.points[i].Y, nil
	}
	a, b := c.points[i-1], c.points[i]
	t := (x - a.X) / (b.X - a.X)

	return a.Y + t*(b.Y-a.Y), nil
}

// Above reports whether (x, y) lies strictly above the boundary.
//
// Errors: ErrOutOfRange outside Bounds.
func (c *Curve) Above(x, y float64) (bool, error) {
	h, err := c.Y(x)
	if err != nil {
		return false, err
	}

	return y > h, nil
}
