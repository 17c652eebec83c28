// SPDX-License-Identifier: MIT

// Package geometry - canned contexts for the supported varieties.

package geometry

import (
	"fmt"
	"math/big"
)

// DefaultSymbol is the basis symbol of the canned Picard-rank-one contexts.
const DefaultSymbol = "H"

// ProjectiveLine returns P1 with basis {H}, ∫H = 1.
func ProjectiveLine() *Context { return mustRankOne(P1, 1, 1) }

// LocalProjectiveLine returns local P1 with basis {H}, ∫H = 1.
func LocalProjectiveLine() *Context { return mustRankOne(LocalP1, 1, 1) }

// ProjectivePlane returns P2 with basis {H}, H·H = 1.
func ProjectivePlane() *Context { return mustRankOne(P2, 2, 1) }

// LocalProjectivePlane returns local P2 with basis {H}, H·H = 1.
func LocalProjectivePlane() *Context { return mustRankOne(LocalP2, 2, 1) }

// K3OfDegree returns a Picard-rank-one K3 surface of degree d, i.e. H·H = 2d.
// Errors: ErrInvalidGeometry when d ≤ 0.
func K3OfDegree(d int64) (*Context, error) {
	if d <= 0 {
		return nil, fmt.Errorf("K3OfDegree(%d): %w", d, ErrInvalidGeometry)
	}

	return rankOne(K3, 2, 2*d)
}

func rankOne(cat Category, n int, self int64) (*Context, error) {
	key := make([]string, n)
	for i := range key {
		key[i] = DefaultSymbol
	}
	dd, err := NewDivisorData([]string{DefaultSymbol}, Intersection{Divisors: key, Value: big.NewRat(self, 1)})
	if err != nil {
		return nil, err
	}

	return NewContext(cat, dd)
}

// mustRankOne builds a canned context from constants that are valid by construction.
func mustRankOne(cat Category, n int, self int64) *Context {
	ctx, err := rankOne(cat, n, self)
	if err != nil {
		panic(fmt.Sprintf("geometry: canned %s context: %v", cat, err))
	}

	return ctx
}
