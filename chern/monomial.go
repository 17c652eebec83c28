// SPDX-License-Identifier: MIT

package chern

import (
	"math/big"
	"strconv"
	"strings"
)

// Monomial is an exponent vector aligned with a Ring's basis.
type Monomial []int

// Term is a (monomial, coefficient) pair.
type Term struct {
	Mono  Monomial
	Coeff *big.Rat
}

// Degree returns the total degree ∑ eᵢ.
func (m Monomial) Degree() int {
	d := 0
	for _, e := range m {
		d += e
	}

	return d
}

// Clone returns an independent copy.
func (m Monomial) Clone() Monomial {
	out := make(Monomial, len(m))
	copy(out, m)

	return out
}

// Mul returns the exponent-wise sum m·o. Lengths must match.
func (m Monomial) Mul(o Monomial) Monomial {
	out := make(Monomial, len(m))
	for i := range m {
		out[i] = m[i] + o[i]
	}

	return out
}

// Key is the map key for m ("e1,e2,…").
func (m Monomial) Key() string {
	var b strings.Builder
	for i, e := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(e))
	}

	return b.String()
}

// less orders monomials by degree, then by descending exponent vector,
// so that H1² precedes H1·H2 precedes H2².
func (m Monomial) less(o Monomial) bool {
	if dm, do := m.Degree(), o.Degree(); dm != do {
		return dm < do
	}
	for i := range m {
		if m[i] != o[i] {
			return m[i] > o[i]
		}
	}

	return false
}

// format renders m against basis, e.g. "H1^2*H2". The unit monomial renders as "".
func (m Monomial) format(basis []string) string {
	parts := make([]string, 0, len(m))
	for i, e := range m {
		switch {
		case e == 0:
		case e == 1:
			parts = append(parts, basis[i])
		default:
			parts = append(parts, basis[i]+"^"+strconv.Itoa(e))
		}
	}

	return strings.Join(parts, "*")
}
