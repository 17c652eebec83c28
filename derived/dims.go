// SPDX-License-Identifier: MIT

package derived

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Dims maps a key j to dim Ext^{-j}(A, B), so that RHom(A, B) ≅ ⊕ⱼ ℂ^{d_j}[j].
// Zero entries are never stored by the methods below.
type Dims map[int]int

// Degrees returns the keys in ascending order.
func (d Dims) Degrees() []int {
	keys := maps.Keys(d)
	slices.Sort(keys)

	return keys
}

// Clone returns an independent copy.
func (d Dims) Clone() Dims {
	out := make(Dims, len(d))
	for k, v := range d {
		if v != 0 {
			out[k] = v
		}
	}

	return out
}

// Shift translates every key by n.
func (d Dims) Shift(n int) Dims {
	out := make(Dims, len(d))
	for k, v := range d {
		if v != 0 {
			out[k+n] = v
		}
	}

	return out
}

// Scale multiplies every value by m (m = 0 yields the empty map).
func (d Dims) Scale(m int) Dims {
	out := make(Dims, len(d))
	if m == 0 {
		return out
	}
	for k, v := range d {
		if v != 0 {
			out[k] = v * m
		}
	}

	return out
}

// Add returns the keywise sum.
func (d Dims) Add(o Dims) Dims {
	out := d.Clone()
	for k, v := range o {
		if s := out[k] + v; s != 0 {
			out[k] = s
		} else {
			delete(out, k)
		}
	}

	return out
}

// Euler returns ∑ⱼ (-1)ʲ d_j.
func (d Dims) Euler() int64 {
	var chi int64
	for k, v := range d {
		if k%2 == 0 {
			chi += int64(v)
		} else {
			chi -= int64(v)
		}
	}

	return chi
}

// Equal compares non-zero entries.
func (d Dims) Equal(o Dims) bool {
	a, b := d.Clone(), o.Clone()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}

	return true
}

// String renders "{-2:1, 0:1}" in ascending key order.
func (d Dims) String() string {
	parts := make([]string, 0, len(d))
	for _, k := range d.Degrees() {
		if d[k] != 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", k, d[k]))
		}
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// RHomer computes graded Ext dimensions. The rhom package supplies the engine;
// SphericalTwist asks it for RHom(L_k, inner) when building its defining triangle.
type RHomer interface {
	RHom(a, b Object) (Dims, error)
}
