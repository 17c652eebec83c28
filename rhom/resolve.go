// SPDX-License-Identifier: MIT

// Package rhom - long exact sequence resolution.
//
// Given the triangle A₁ → A₂ → A₃ and u = RHom(L, A₁), v = RHom(L, A₂),
// Resolve fills w = RHom(L, A₃) by walking keys in descending order with
// lookahead ±1:
//
//	u_k only:    w_{k+1} = u_k + v_{k+1}; refuse if u_{k+1} and v_{k+1} are both set
//	v_k only:    w_k = v_k + u_{k−1};     refuse if u_{k−1} and v_{k−1} are both set
//	both, v ≥ u: w_k = v_k − u_k
//	both, v < u: w_{k+1} = u_k − v_k + v_{k+1}; refuse if u_{k+1} is set
//
// Writes of zero are ignored; a negative value or a write that changes an
// already fixed non-zero w_j is refused.
//
// Complexity: O(K) in the key span K of u ∪ v.

package rhom

import (
	"fmt"

	"github.com/katalvlaran/stabmass/derived"
)

// solver holds the state of one resolution walk.
type solver struct {
	u, v, w derived.Dims
}

// excerpt renders rows k+1, k, k−1.
func (s *solver) excerpt(k int) []string {
	rows := make([]string, 0, 3)
	for j := k + 1; j >= k-1; j-- {
		rows = append(rows, fmt.Sprintf("k=%d: u=%d v=%d w=%d", j, s.u[j], s.v[j], s.w[j]))
	}

	return rows
}

func (s *solver) fail(k int, reason string) error {
	return &ResolutionError{Degree: k, Reason: reason, Excerpt: s.excerpt(k)}
}

// put fixes w_j = val while walking row k.
func (s *solver) put(k, j, val int) error {
	if val == 0 {
		return nil
	}
	if val < 0 {
		return s.fail(k, fmt.Sprintf("negative dimension %d at %d", val, j))
	}
	if old, ok := s.w[j]; ok && old != val {
		return s.fail(k, fmt.Sprintf("overwrite of w=%d by %d at %d", old, val, j))
	}
	s.w[j] = val

	return nil
}

// Resolve returns w given u = RHom(L, A₁) and v = RHom(L, A₂).
//
// Errors: *ResolutionError (ErrResolution).
func Resolve(u, v derived.Dims) (derived.Dims, error) {
	s := &solver{u: u.Clone(), v: v.Clone(), w: derived.Dims{}}
	keys := append(s.u.Degrees(), s.v.Degrees()...)
	if len(keys) == 0 {
		return s.w, nil
	}
	lo, hi := keys[0], keys[0]
	for _, k := range keys {
		lo, hi = min(lo, k), max(hi, k)
	}

	for k := hi + 1; k >= lo-1; k-- {
		uk, vk := s.u[k], s.v[k]
		var err error
		switch {
		case uk != 0 && vk == 0:
			if s.u[k+1] != 0 && s.v[k+1] != 0 {
				return nil, s.fail(k, "four consecutive non-zero rows above")
			}
			err = s.put(k, k+1, uk+s.v[k+1])
		case vk != 0 && uk == 0:
			if s.u[k-1] != 0 && s.v[k-1] != 0 {
				return nil, s.fail(k, "four consecutive non-zero rows below")
			}
			err = s.put(k, k, vk+s.u[k-1])
		case uk != 0 && vk != 0:
			if vk >= uk {
				err = s.put(k, k, vk-uk)
				break
			}
			if s.u[k+1] != 0 {
				return nil, s.fail(k, "kernel would not be surjective")
			}
			err = s.put(k, k+1, uk-vk+s.v[k+1])
		}
		if err != nil {
			return nil, err
		}
	}

	return s.w, nil
}
