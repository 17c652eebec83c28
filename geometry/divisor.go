// SPDX-License-Identifier: MIT

// Package geometry - DivisorData: basis plus symmetrized top intersection form.
//
// Purpose:
//   - Store ∫ b_{i₁}⋯b_{iₙ} once per multiset of indices.
//   - Integrate products of Chern polynomials (rational and complex).
//
// Contracts:
//   - Every permutation of a key maps to the same value (checked on construction).
//   - Missing keys integrate to zero.
//
// Complexity quicksheet:
//   - NewDivisorData: O(E·n log n); Evaluate: O(product terms · n log n).

package geometry

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/stabmass/chern"
)

// Intersection is one entry of the top intersection form, e.g.
// {Divisors: ["H","H"], Value: 2} for H·H = 2.
type Intersection struct {
	Divisors []string
	Value    *big.Rat
}

// DivisorData is the Néron–Severi basis with its symmetrized intersection form.
// Immutable after construction.
type DivisorData struct {
	ring *chern.Ring
	form map[string]*big.Rat // sorted index tuple key -> ∫ product
	key  string
}

// NewDivisorData validates and symmetrizes an intersection table.
// The variety dimension n is the common length of every key.
//
// Errors:
//   - ErrEmptyForm when entries is empty.
//   - ErrInvalidGeometry on inconsistent key lengths or an invalid basis.
//   - ErrUnknownSymbol when a key references a symbol outside basis.
//   - ErrAsymmetricForm when permutations disagree.
func NewDivisorData(basis []string, entries ...Intersection) (*DivisorData, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyForm
	}
	n := len(entries[0].Divisors)
	ring, err := chern.NewRing(n, basis...)
	if err != nil {
		return nil, fmt.Errorf("NewDivisorData: %v: %w", err, ErrInvalidGeometry)
	}
	form := make(map[string]*big.Rat, len(entries))
	for _, e := range entries {
		if len(e.Divisors) != n {
			return nil, fmt.Errorf("NewDivisorData: key %v has length %d, want %d: %w",
				e.Divisors, len(e.Divisors), n, ErrInvalidGeometry)
		}
		idx := make([]int, n)
		for i, s := range e.Divisors {
			if idx[i] = ring.Index(s); idx[i] < 0 {
				return nil, fmt.Errorf("NewDivisorData: key %v: %q: %w", e.Divisors, s, ErrUnknownSymbol)
			}
		}
		k := indexKey(idx)
		v := new(big.Rat)
		if e.Value != nil {
			v.Set(e.Value)
		}
		if prev, ok := form[k]; ok && prev.Cmp(v) != 0 {
			return nil, fmt.Errorf("NewDivisorData: key %v: %s vs %s: %w",
				e.Divisors, prev.RatString(), v.RatString(), ErrAsymmetricForm)
		}
		form[k] = v
	}
	dd := &DivisorData{ring: ring, form: form}
	dd.key = dd.buildKey()

	return dd, nil
}

// indexKey sorts a copy of idx and renders it; every permutation yields the same key.
func indexKey(idx []int) string {
	s := make([]int, len(idx))
	copy(s, idx)
	sort.Ints(s)
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, ",")
}

// monomialKey expands an exponent vector into a sorted index tuple key.
func monomialKey(m chern.Monomial) string {
	idx := make([]int, 0, m.Degree())
	for i, e := range m {
		for j := 0; j < e; j++ {
			idx = append(idx, i)
		}
	}

	return indexKey(idx)
}

func (dd *DivisorData) buildKey() string {
	keys := make([]string, 0, len(dd.form))
	for k := range dd.form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(dd.ring.Key())
	for _, k := range keys {
		b.WriteString(";" + k + "=" + dd.form[k].RatString())
	}

	return b.String()
}

// Ring returns the Chern ring (dimension n, basis) this data lives in.
func (dd *DivisorData) Ring() *chern.Ring { return dd.ring }

// Basis returns a copy of the ordered basis.
func (dd *DivisorData) Basis() []string { return dd.ring.Basis() }

// Dimension returns the variety dimension n.
func (dd *DivisorData) Dimension() int { return dd.ring.Dim() }

// Key is the structural identity used for caching.
func (dd *DivisorData) Key() string { return dd.key }

// Intersect returns ∫ of the product of the named symbols (zero when the
// count differs from n or the entry is absent).
// Errors: ErrUnknownSymbol.
func (dd *DivisorData) Intersect(symbols ...string) (*big.Rat, error) {
	m, err := dd.ring.Monomial(symbols...)
	if err != nil {
		return nil, fmt.Errorf("Intersect: %v: %w", symbols, ErrUnknownSymbol)
	}

	return dd.IntersectMonomial(m), nil
}

// IntersectMonomial returns ∫ m for a monomial of degree n, zero otherwise.
func (dd *DivisorData) IntersectMonomial(m chern.Monomial) *big.Rat {
	if len(m) != dd.ring.Rank() || m.Degree() != dd.ring.Dim() {
		return new(big.Rat)
	}
	if v, ok := dd.form[monomialKey(m)]; ok {
		return new(big.Rat).Set(v)
	}

	return new(big.Rat)
}

// Evaluate multiplies the given polynomials (truncating at n), keeps the
// degree-n part and integrates it against the form.
//
// Errors: chern.ErrMismatchedBasis / chern.ErrMismatchedDimension when a
// polynomial does not live in this ring.
func (dd *DivisorData) Evaluate(polys ...*chern.Poly) (*big.Rat, error) {
	prod := dd.ring.One()
	var err error
	for _, p := range polys {
		if prod, err = prod.Mul(p); err != nil {
			return nil, fmt.Errorf("Evaluate: %w", err)
		}
	}
	sum := new(big.Rat)
	for _, t := range prod.Degree(dd.ring.Dim()).Terms() {
		sum.Add(sum, new(big.Rat).Mul(t.Coeff, dd.IntersectMonomial(t.Mono)))
	}

	return sum, nil
}

// EvaluateComplex integrates the top-degree part of ch·tw.
// Errors: chern.ErrMismatchedBasis / chern.ErrMismatchedDimension.
func (dd *DivisorData) EvaluateComplex(ch *chern.Poly, tw *chern.CPoly) (complex128, error) {
	prod, err := ch.Complex().Mul(tw)
	if err != nil {
		return 0, fmt.Errorf("EvaluateComplex: %w", err)
	}
	var z complex128
	for _, t := range prod.Terms() {
		if t.Mono.Degree() != dd.ring.Dim() {
			continue
		}
		z += t.Coeff * complex(chern.RatFloat(dd.IntersectMonomial(t.Mono)), 0)
	}

	return z, nil
}
