// SPDX-License-Identifier: MIT

// Package chern - Poly: exact truncated polynomial with a memoized degree index.
//
// Purpose:
//   - Hold the Chern character of an object as ∑ c_m·m over monomials m of degree ≤ n.
//   - Answer degree queries (rank = degree 0, c1 = degree 1, ch2 = degree 2) in O(terms of degree k).
//
// Contracts:
//   - Zero coefficients are never stored.
//   - Arithmetic methods never mutate their operands; setters (SetCoeff, SetScalar,
//     SetDegree) mutate the receiver and are not safe for concurrent use with readers.
//
// Complexity quicksheet:
//   - Add/Sub: O(t₁+t₂); Mul: O(t₁·t₂); Degree(k): O(t_k); Coeff: O(r).

package chern

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Poly is an element of a truncated Chern Ring.
type Poly struct {
	ring  *Ring
	terms map[string]Term  // monomial key -> term (non-zero coefficients only)
	order []string         // canonical term order (see Monomial.less)
	byDeg map[int][]string // degree -> keys in canonical order
}

func newPoly(r *Ring) *Poly {
	return &Poly{ring: r, terms: make(map[string]Term), byDeg: make(map[int][]string)}
}

// put overwrites the coefficient of m (removing it when zero). Callers reindex.
func (p *Poly) put(m Monomial, c *big.Rat) {
	k := m.Key()
	if c == nil || c.Sign() == 0 {
		delete(p.terms, k)
		return
	}
	p.terms[k] = Term{Mono: m, Coeff: new(big.Rat).Set(c)}
}

// accumulate adds c to the coefficient of m. Callers reindex.
func (p *Poly) accumulate(m Monomial, c *big.Rat) {
	k := m.Key()
	if t, ok := p.terms[k]; ok {
		sum := new(big.Rat).Add(t.Coeff, c)
		if sum.Sign() == 0 {
			delete(p.terms, k)
			return
		}
		p.terms[k] = Term{Mono: t.Mono, Coeff: sum}
		return
	}
	if c.Sign() != 0 {
		p.terms[k] = Term{Mono: m, Coeff: new(big.Rat).Set(c)}
	}
}

// reindex rebuilds the canonical order and the degree index.
func (p *Poly) reindex() {
	p.order = p.order[:0]
	for k := range p.terms {
		p.order = append(p.order, k)
	}
	sort.Slice(p.order, func(i, j int) bool {
		return p.terms[p.order[i]].Mono.less(p.terms[p.order[j]].Mono)
	})
	p.byDeg = make(map[int][]string)
	for _, k := range p.order {
		d := p.terms[k].Mono.Degree()
		p.byDeg[d] = append(p.byDeg[d], k)
	}
}

// Ring returns the ring p belongs to.
func (p *Poly) Ring() *Ring { return p.ring }

// Dim returns the truncation degree.
func (p *Poly) Dim() int { return p.ring.dim }

// Basis returns a copy of the ordered basis.
func (p *Poly) Basis() []string { return p.ring.Basis() }

// Clone returns an independent deep copy.
func (p *Poly) Clone() *Poly {
	q := newPoly(p.ring)
	for k, t := range p.terms {
		q.terms[k] = Term{Mono: t.Mono.Clone(), Coeff: new(big.Rat).Set(t.Coeff)}
	}
	q.reindex()

	return q
}

// IsZero reports whether p has no terms.
func (p *Poly) IsZero() bool { return len(p.terms) == 0 }

// Terms returns the terms of p in canonical order. Coefficients are copies.
func (p *Poly) Terms() []Term {
	out := make([]Term, 0, len(p.order))
	for _, k := range p.order {
		t := p.terms[k]
		out = append(out, Term{Mono: t.Mono.Clone(), Coeff: new(big.Rat).Set(t.Coeff)})
	}

	return out
}

// TopDegree returns the largest degree carrying a term, or -1 for zero.
func (p *Poly) TopDegree() int {
	if len(p.order) == 0 {
		return -1
	}

	return p.terms[p.order[len(p.order)-1]].Mono.Degree()
}

// Add returns p + q.
// Errors: ErrMismatchedDimension, ErrMismatchedBasis.
func (p *Poly) Add(q *Poly) (*Poly, error) {
	if err := p.ring.compatible(q.ring); err != nil {
		return nil, fmt.Errorf("Poly.Add: %w", err)
	}
	out := p.Clone()
	for _, t := range q.terms {
		out.accumulate(t.Mono.Clone(), t.Coeff)
	}
	out.reindex()

	return out, nil
}

// Sub returns p - q.
// Errors: ErrMismatchedDimension, ErrMismatchedBasis.
func (p *Poly) Sub(q *Poly) (*Poly, error) {
	if err := p.ring.compatible(q.ring); err != nil {
		return nil, fmt.Errorf("Poly.Sub: %w", err)
	}

	return p.Add(q.Neg())
}

// Mul returns the truncated product p·q; monomials above the dimension vanish.
// Errors: ErrMismatchedDimension, ErrMismatchedBasis.
func (p *Poly) Mul(q *Poly) (*Poly, error) {
	if err := p.ring.compatible(q.ring); err != nil {
		return nil, fmt.Errorf("Poly.Mul: %w", err)
	}
	out := newPoly(p.ring)
	for _, a := range p.terms {
		for _, b := range q.terms {
			m := a.Mono.Mul(b.Mono)
			if m.Degree() > p.ring.dim {
				continue
			}
			out.accumulate(m, new(big.Rat).Mul(a.Coeff, b.Coeff))
		}
	}
	out.reindex()

	return out, nil
}

// Pow returns pᵏ for k ≥ 0.
// Errors: ErrNotPolynomial for negative k.
func (p *Poly) Pow(k int) (*Poly, error) {
	if k < 0 {
		return nil, fmt.Errorf("Poly.Pow(%d): %w", k, ErrNotPolynomial)
	}
	out := p.ring.One()
	var err error
	for i := 0; i < k; i++ {
		if out, err = out.Mul(p); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Scale returns c·p.
func (p *Poly) Scale(c *big.Rat) *Poly {
	out := newPoly(p.ring)
	if c.Sign() == 0 {
		return out
	}
	for k, t := range p.terms {
		out.terms[k] = Term{Mono: t.Mono.Clone(), Coeff: new(big.Rat).Mul(t.Coeff, c)}
	}
	out.reindex()

	return out
}

// ScaleInt returns k·p.
func (p *Poly) ScaleInt(k int64) *Poly { return p.Scale(big.NewRat(k, 1)) }

// Neg returns -p.
func (p *Poly) Neg() *Poly { return p.ScaleInt(-1) }

// Equal reports whether p and q share a ring and all coefficients.
func (p *Poly) Equal(q *Poly) bool {
	if p == nil || q == nil {
		return p == q
	}
	if !p.ring.Same(q.ring) || len(p.terms) != len(q.terms) {
		return false
	}
	for k, t := range p.terms {
		u, ok := q.terms[k]
		if !ok || t.Coeff.Cmp(u.Coeff) != 0 {
			return false
		}
	}

	return true
}

// Contains reports whether every term of q occurs in p with the same coefficient.
func (p *Poly) Contains(q *Poly) bool {
	if !p.ring.Same(q.ring) {
		return false
	}
	for k, t := range q.terms {
		u, ok := p.terms[k]
		if !ok || t.Coeff.Cmp(u.Coeff) != 0 {
			return false
		}
	}

	return true
}

// Degree returns the homogeneous degree-k part of p (zero when k is out of range).
func (p *Poly) Degree(k int) *Poly {
	out := newPoly(p.ring)
	for _, key := range p.byDeg[k] {
		t := p.terms[key]
		out.terms[key] = Term{Mono: t.Mono.Clone(), Coeff: new(big.Rat).Set(t.Coeff)}
	}
	out.reindex()

	return out
}

// IsHomogeneous reports whether every term of p has degree k. Zero is homogeneous of every degree.
func (p *Poly) IsHomogeneous(k int) bool {
	return len(p.byDeg[k]) == len(p.terms)
}

// Coeff returns a copy of the coefficient of m (zero when absent or when m
// does not fit the basis).
func (p *Poly) Coeff(m Monomial) *big.Rat {
	if len(m) != len(p.ring.basis) {
		return new(big.Rat)
	}
	if t, ok := p.terms[m.Key()]; ok {
		return new(big.Rat).Set(t.Coeff)
	}

	return new(big.Rat)
}

// Scalar returns the degree-zero coefficient (the rank of a Chern character).
func (p *Poly) Scalar() *big.Rat { return p.Coeff(p.ring.unit()) }

// LinearCoefficients returns the degree-one coefficients in basis order.
func (p *Poly) LinearCoefficients() []*big.Rat {
	out := make([]*big.Rat, len(p.ring.basis))
	for i := range out {
		m := p.ring.unit()
		m[i] = 1
		out[i] = p.Coeff(m)
	}

	return out
}

// SetCoeff overwrites the coefficient of m.
// Errors: ErrMismatchedBasis, ErrNotPolynomial (negative exponent or degree above n).
func (p *Poly) SetCoeff(m Monomial, c *big.Rat) error {
	if len(m) != len(p.ring.basis) {
		return fmt.Errorf("Poly.SetCoeff(%v): %w", m, ErrMismatchedBasis)
	}
	for _, e := range m {
		if e < 0 {
			return fmt.Errorf("Poly.SetCoeff(%v): %w", m, ErrNotPolynomial)
		}
	}
	if m.Degree() > p.ring.dim {
		return fmt.Errorf("Poly.SetCoeff(%v): degree %d above %d: %w",
			m, m.Degree(), p.ring.dim, ErrNotPolynomial)
	}
	p.put(m.Clone(), c)
	p.reindex()

	return nil
}

// SetScalar overwrites the degree-zero coefficient.
func (p *Poly) SetScalar(c *big.Rat) {
	p.put(p.ring.unit(), c)
	p.reindex()
}

// SetDegree replaces the degree-k part of p by q, which must be homogeneous of degree k.
// Errors: ErrMismatchedDimension, ErrMismatchedBasis, ErrNotHomogeneous.
func (p *Poly) SetDegree(k int, q *Poly) error {
	if err := p.ring.compatible(q.ring); err != nil {
		return fmt.Errorf("Poly.SetDegree(%d): %w", k, err)
	}
	if !q.IsHomogeneous(k) {
		return fmt.Errorf("Poly.SetDegree(%d): %w", k, ErrNotHomogeneous)
	}
	for _, key := range p.byDeg[k] {
		delete(p.terms, key)
	}
	for key, t := range q.terms {
		p.terms[key] = Term{Mono: t.Mono.Clone(), Coeff: new(big.Rat).Set(t.Coeff)}
	}
	p.reindex()

	return nil
}

// String renders p in canonical order, e.g. "1 + 2*H + 2*H^2". Zero renders as "0".
// The output round-trips through Parse.
func (p *Poly) String() string {
	if len(p.order) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, k := range p.order {
		t := p.terms[k]
		abs := new(big.Rat).Abs(t.Coeff)
		neg := t.Coeff.Sign() < 0
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		mono := t.Mono.format(p.ring.basis)
		switch {
		case mono == "":
			b.WriteString(ratString(abs))
		case abs.Cmp(big.NewRat(1, 1)) == 0:
			b.WriteString(mono)
		default:
			b.WriteString(ratString(abs) + "*" + mono)
		}
	}

	return b.String()
}

// Key is a stable identity string (ring plus canonical rendering) for caching.
func (p *Poly) Key() string { return p.ring.Key() + ":" + p.String() }

// ratString renders integers without a denominator.
func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}

	return r.String()
}
