// SPDX-License-Identifier: MIT

// Package chern - CPoly: complex-coefficient polynomials.
//
// Purpose:
//   - Represent twist characters such as exp(-(B + iωH)) or -1 + iH + (q - is)H²
//     that are paired against rational Chern characters to produce central charges.
//
// Notes:
//   - Coefficients are complex128; exactness is not needed once a complex
//     stability parameter enters.

package chern

import (
	"fmt"
	"math/big"
	"math/cmplx"
	"sort"
)

// CTerm is a (monomial, complex coefficient) pair.
type CTerm struct {
	Mono  Monomial
	Coeff complex128
}

// CPoly is a truncated polynomial with complex coefficients.
type CPoly struct {
	ring  *Ring
	terms map[string]CTerm
}

func newCPoly(r *Ring) *CPoly { return &CPoly{ring: r, terms: make(map[string]CTerm)} }

func (c *CPoly) accumulate(m Monomial, z complex128) {
	k := m.Key()
	if t, ok := c.terms[k]; ok {
		z += t.Coeff
	}
	if z == 0 {
		delete(c.terms, k)
		return
	}
	c.terms[k] = CTerm{Mono: m, Coeff: z}
}

// Complex lifts a rational polynomial to complex coefficients.
func (p *Poly) Complex() *CPoly {
	out := newCPoly(p.ring)
	for k, t := range p.terms {
		f, _ := t.Coeff.Float64()
		out.terms[k] = CTerm{Mono: t.Mono.Clone(), Coeff: complex(f, 0)}
	}

	return out
}

// ComplexScalar returns the constant z.
func (r *Ring) ComplexScalar(z complex128) *CPoly {
	out := newCPoly(r)
	out.accumulate(r.unit(), z)

	return out
}

// ComplexLinear returns ∑ coeffs[i]·bᵢ.
// Errors: ErrMismatchedBasis if len(coeffs) != Rank().
func (r *Ring) ComplexLinear(coeffs ...complex128) (*CPoly, error) {
	if len(coeffs) != len(r.basis) {
		return nil, fmt.Errorf("Ring.ComplexLinear: %d coefficients for %d symbols: %w",
			len(coeffs), len(r.basis), ErrMismatchedBasis)
	}
	out := newCPoly(r)
	for i, z := range coeffs {
		m := r.unit()
		m[i] = 1
		out.accumulate(m, z)
	}

	return out, nil
}

// ComplexMonomial returns z·m.
// Errors: ErrMismatchedBasis.
func (r *Ring) ComplexMonomial(m Monomial, z complex128) (*CPoly, error) {
	if len(m) != len(r.basis) {
		return nil, fmt.Errorf("Ring.ComplexMonomial(%v): %w", m, ErrMismatchedBasis)
	}
	out := newCPoly(r)
	if m.Degree() <= r.dim {
		out.accumulate(m.Clone(), z)
	}

	return out, nil
}

// Ring returns the ring c belongs to.
func (c *CPoly) Ring() *Ring { return c.ring }

// Add returns c + d.
// Errors: ErrMismatchedDimension, ErrMismatchedBasis.
func (c *CPoly) Add(d *CPoly) (*CPoly, error) {
	if err := c.ring.compatible(d.ring); err != nil {
		return nil, fmt.Errorf("CPoly.Add: %w", err)
	}
	out := newCPoly(c.ring)
	for _, t := range c.terms {
		out.accumulate(t.Mono.Clone(), t.Coeff)
	}
	for _, t := range d.terms {
		out.accumulate(t.Mono.Clone(), t.Coeff)
	}

	return out, nil
}

// Mul returns the truncated product c·d.
// Errors: ErrMismatchedDimension, ErrMismatchedBasis.
func (c *CPoly) Mul(d *CPoly) (*CPoly, error) {
	if err := c.ring.compatible(d.ring); err != nil {
		return nil, fmt.Errorf("CPoly.Mul: %w", err)
	}
	out := newCPoly(c.ring)
	for _, a := range c.terms {
		for _, b := range d.terms {
			m := a.Mono.Mul(b.Mono)
			if m.Degree() > c.ring.dim {
				continue
			}
			out.accumulate(m, a.Coeff*b.Coeff)
		}
	}

	return out, nil
}

// Scale returns z·c.
func (c *CPoly) Scale(z complex128) *CPoly {
	out := newCPoly(c.ring)
	for _, t := range c.terms {
		out.accumulate(t.Mono.Clone(), t.Coeff*z)
	}

	return out
}

// Coeff returns the coefficient of m (zero when absent).
func (c *CPoly) Coeff(m Monomial) complex128 {
	if len(m) != len(c.ring.basis) {
		return 0
	}

	return c.terms[m.Key()].Coeff
}

// Terms returns the terms in canonical monomial order.
func (c *CPoly) Terms() []CTerm {
	out := make([]CTerm, 0, len(c.terms))
	for _, t := range c.terms {
		out = append(out, CTerm{Mono: t.Mono.Clone(), Coeff: t.Coeff})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mono.less(out[j].Mono) })

	return out
}

// CExp returns exp(ℓ) truncated at the ring dimension for a linear complex ℓ.
// Errors: ErrNotLinear.
func CExp(l *CPoly) (*CPoly, error) {
	for _, t := range l.terms {
		if t.Mono.Degree() != 1 {
			return nil, fmt.Errorf("CExp: %w", ErrNotLinear)
		}
	}
	out := l.ring.ComplexScalar(1)
	pow := l.ring.ComplexScalar(1)
	fact := 1.0
	var err error
	for k := 1; k <= l.ring.dim; k++ {
		if pow, err = pow.Mul(l); err != nil {
			return nil, err
		}
		fact *= float64(k)
		if out, err = out.Add(pow.Scale(complex(1/fact, 0))); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// String renders c with %g coefficients, for diagnostics only.
func (c *CPoly) String() string {
	ts := c.Terms()
	if len(ts) == 0 {
		return "0"
	}
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += " + "
		}
		z := t.Coeff
		if imag(z) == 0 {
			s += fmt.Sprintf("%g", real(z))
		} else {
			s += fmt.Sprintf("(%g%+gi)", real(z), imag(z))
		}
		if mono := t.Mono.format(c.ring.basis); mono != "" {
			s += "*" + mono
		}
	}

	return s
}

// Equal reports coefficient-wise equality within tol.
func (c *CPoly) Equal(d *CPoly, tol float64) bool {
	if !c.ring.Same(d.ring) {
		return false
	}
	for k, t := range c.terms {
		if cmplx.Abs(t.Coeff-d.terms[k].Coeff) > tol {
			return false
		}
	}
	for k, t := range d.terms {
		if _, ok := c.terms[k]; !ok && cmplx.Abs(t.Coeff) > tol {
			return false
		}
	}

	return true
}

// RatFloat converts an exact coefficient to float64 (nearest value).
func RatFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}
