// SPDX-License-Identifier: MIT

package chern

import (
	"fmt"
	"math/big"
)

// Exp returns exp(ℓ) = ∑_{k=0}^{n} ℓᵏ/k! truncated at the ring dimension.
//
// ℓ must be linear: every term of degree exactly one (zero is allowed and
// yields 1). This is the Chern character of the line bundle 𝒪(ℓ).
//
// Errors:
//   - ErrNotLinear if ℓ carries a constant or higher-degree term.
//
// Complexity: O(n · t²) where t is the number of terms of the running power.
func Exp(l *Poly) (*Poly, error) {
	if !l.IsHomogeneous(1) {
		return nil, fmt.Errorf("Exp(%s): %w", l.String(), ErrNotLinear)
	}
	out := l.ring.One()
	pow := l.ring.One()
	fact := big.NewInt(1)
	var err error
	for k := 1; k <= l.ring.dim; k++ {
		if pow, err = pow.Mul(l); err != nil {
			return nil, err
		}
		fact.Mul(fact, big.NewInt(int64(k)))
		step := pow.Scale(new(big.Rat).SetFrac(big.NewInt(1), fact))
		if out, err = out.Add(step); err != nil {
			return nil, err
		}
	}

	return out, nil
}
