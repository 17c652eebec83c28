// SPDX-License-Identifier: MIT

// Package chern - Ring: the (dimension, basis) pair shared by polynomials.
//
// Purpose:
//   - Validate the ordered basis once, then hand out polynomials that agree on it.
//   - Provide the factory surface: Zero, One, Scalar, Symbol, Linear, FromTerms.
//
// Determinism:
//   - Basis order is preserved exactly as supplied; it fixes monomial exponent order.

package chern

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Ring is a truncated polynomial ring ℚ[b₁,…,b_r]/(deg > n).
// A Ring is immutable after construction and safe for concurrent use.
type Ring struct {
	dim   int            // variety dimension n (truncation degree)
	basis []string       // ordered basis symbols
	index map[string]int // symbol -> position in basis
}

// NewRing validates dim ≥ 0 and a duplicate-free, non-empty-name basis.
//
// Errors:
//   - ErrNegativeDimension if dim < 0.
//   - ErrDuplicateSymbol if a symbol repeats.
//   - ErrSyntax if a symbol is empty or contains characters the parser cannot read.
func NewRing(dim int, basis ...string) (*Ring, error) {
	if dim < 0 {
		return nil, fmt.Errorf("NewRing(%d): %w", dim, ErrNegativeDimension)
	}
	idx := make(map[string]int, len(basis))
	for i, s := range basis {
		if !validSymbol(s) {
			return nil, fmt.Errorf("NewRing: symbol %q: %w", s, ErrSyntax)
		}
		if _, dup := idx[s]; dup {
			return nil, fmt.Errorf("NewRing: symbol %q: %w", s, ErrDuplicateSymbol)
		}
		idx[s] = i
	}
	cp := make([]string, len(basis))
	copy(cp, basis)

	return &Ring{dim: dim, basis: cp, index: idx}, nil
}

// validSymbol accepts identifiers: a letter or '_' followed by letters, digits or '_'.
func validSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || isLetter(r):
		case i > 0 && isDigit(r):
		default:
			return false
		}
	}

	return true
}

// Dim returns the truncation degree n.
func (r *Ring) Dim() int { return r.dim }

// Rank returns the number of basis symbols.
func (r *Ring) Rank() int { return len(r.basis) }

// Basis returns a copy of the ordered basis.
func (r *Ring) Basis() []string {
	out := make([]string, len(r.basis))
	copy(out, r.basis)

	return out
}

// Index returns the basis position of sym, or -1.
func (r *Ring) Index(sym string) int {
	if i, ok := r.index[sym]; ok {
		return i
	}

	return -1
}

// Same reports whether r and o describe the same ring (dimension and basis order).
func (r *Ring) Same(o *Ring) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil || r.dim != o.dim || len(r.basis) != len(o.basis) {
		return false
	}
	for i := range r.basis {
		if r.basis[i] != o.basis[i] {
			return false
		}
	}

	return true
}

// compatible returns the first violated precondition between two rings.
func (r *Ring) compatible(o *Ring) error {
	if r.dim != o.dim {
		return ErrMismatchedDimension
	}
	if !r.Same(o) {
		return ErrMismatchedBasis
	}

	return nil
}

// Key is a stable identity string for caching.
func (r *Ring) Key() string {
	return strconv.Itoa(r.dim) + "[" + strings.Join(r.basis, ",") + "]"
}

// Zero returns the zero polynomial of r.
func (r *Ring) Zero() *Poly { return newPoly(r) }

// One returns the constant polynomial 1.
func (r *Ring) One() *Poly { return r.Scalar(big.NewRat(1, 1)) }

// Scalar returns the constant polynomial c.
func (r *Ring) Scalar(c *big.Rat) *Poly {
	p := newPoly(r)
	p.put(r.unit(), c)
	p.reindex()

	return p
}

// ScalarInt returns the constant polynomial k.
func (r *Ring) ScalarInt(k int64) *Poly { return r.Scalar(big.NewRat(k, 1)) }

// Symbol returns the degree-one polynomial for a basis symbol.
// Errors: ErrUnknownSymbol.
func (r *Ring) Symbol(sym string) (*Poly, error) {
	i := r.Index(sym)
	if i < 0 {
		return nil, fmt.Errorf("Ring.Symbol(%q): %w", sym, ErrUnknownSymbol)
	}
	m := r.unit()
	m[i] = 1
	p := newPoly(r)
	p.put(m, big.NewRat(1, 1))
	p.reindex()

	return p, nil
}

// Linear returns ∑ coeffs[i]·bᵢ. len(coeffs) must equal Rank().
// Errors: ErrMismatchedBasis.
func (r *Ring) Linear(coeffs ...*big.Rat) (*Poly, error) {
	if len(coeffs) != len(r.basis) {
		return nil, fmt.Errorf("Ring.Linear: %d coefficients for %d symbols: %w",
			len(coeffs), len(r.basis), ErrMismatchedBasis)
	}
	p := newPoly(r)
	for i, c := range coeffs {
		if c == nil {
			continue
		}
		m := r.unit()
		m[i] = 1
		p.put(m, c)
	}
	p.reindex()

	return p, nil
}

// LinearInt is Linear with integer coefficients.
func (r *Ring) LinearInt(coeffs ...int64) (*Poly, error) {
	rs := make([]*big.Rat, len(coeffs))
	for i, c := range coeffs {
		rs[i] = big.NewRat(c, 1)
	}

	return r.Linear(rs...)
}

// FromTerms assembles a polynomial from explicit terms. Coefficients of
// repeated monomials are summed; monomials above the dimension are dropped.
//
// Errors:
//   - ErrMismatchedBasis if a monomial has the wrong length.
//   - ErrNotPolynomial if an exponent is negative.
func (r *Ring) FromTerms(terms ...Term) (*Poly, error) {
	p := newPoly(r)
	for _, t := range terms {
		if len(t.Mono) != len(r.basis) {
			return nil, fmt.Errorf("Ring.FromTerms: monomial %v: %w", t.Mono, ErrMismatchedBasis)
		}
		for _, e := range t.Mono {
			if e < 0 {
				return nil, fmt.Errorf("Ring.FromTerms: monomial %v: %w", t.Mono, ErrNotPolynomial)
			}
		}
		if t.Coeff == nil || t.Mono.Degree() > r.dim {
			continue
		}
		p.accumulate(t.Mono.Clone(), t.Coeff)
	}
	p.reindex()

	return p, nil
}

// Monomial returns the exponent vector of the product of the given symbols,
// e.g. r.Monomial("H", "H") is H².
// Errors: ErrUnknownSymbol.
func (r *Ring) Monomial(symbols ...string) (Monomial, error) {
	m := r.unit()
	for _, s := range symbols {
		i := r.Index(s)
		if i < 0 {
			return nil, fmt.Errorf("Ring.Monomial(%q): %w", s, ErrUnknownSymbol)
		}
		m[i]++
	}

	return m, nil
}

// unit returns the exponent vector of the constant monomial.
func (r *Ring) unit() Monomial { return make(Monomial, len(r.basis)) }
