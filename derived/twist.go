// SPDX-License-Identifier: MIT

// Package derived - SphericalTwist: iterated twists around line bundles.
//
// Purpose:
//   - Represent [L₀, L₁, …, L_k] = Tw_{L_k} ∘ … ∘ Tw_{L₁}(L₀) for k ≥ 1.
//   - Build the defining triangle RHom(L_k, inner)⊗L_k → inner → self and
//     the canonical triangles (defining triangle plus Tw_{L_k} applied to
//     every canonical triangle of inner).
//
// Caching:
//   - Twists are interned on (context, ordered bundle list).
//   - Each twist memoizes its triangles per RHomer, so an engine injected
//     after another one walked the twist still answers for itself.
//     Computation happens outside the lock and the first stored result wins.
//   - RHomer values are map keys and must be comparable (pointer engines are).
//
// Complexity:
//   - ChernCharacter is computed at construction from Euler characteristics
//     in O(k²) memoized pairings; the triangles cost one RHom call each.

package derived

import (
	"fmt"
	"strings"
	"sync"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
)

// SphericalTwist is an interned composition of spherical twists.
type SphericalTwist struct {
	ctx     *geometry.Context
	bundles []*LineBundle
	inner   Object // L₀ when k = 1, else the twist of bundles[:k]
	ch      *chern.Poly
	key     string

	mu        sync.Mutex
	defining  map[RHomer]*Triangle
	canonical map[RHomer][]*Triangle
}

func twistKey(bundles []*LineBundle) string {
	parts := make([]string, len(bundles))
	for i, b := range bundles {
		parts[i] = b.divisor.String()
	}

	return "tw|" + bundles[0].ctx.Key() + "|" + strings.Join(parts, ";")
}

// NewSphericalTwist returns the interned twist [bundles[0], …, bundles[k]].
//
// Errors:
//   - ErrEmptyTwist when fewer than two bundles are given.
//   - ErrContextMismatch when the bundles disagree on the context.
func NewSphericalTwist(bundles ...*LineBundle) (*SphericalTwist, error) {
	if len(bundles) < 2 {
		return nil, fmt.Errorf("NewSphericalTwist(%d bundles): %w", len(bundles), ErrEmptyTwist)
	}
	ctx := bundles[0].ctx
	for _, b := range bundles[1:] {
		if !ctx.Equal(b.ctx) {
			return nil, fmt.Errorf("NewSphericalTwist: %s: %w", b, ErrContextMismatch)
		}
	}
	key := twistKey(bundles)
	if tw, ok := twists.get(key); ok {
		return tw, nil
	}

	var inner Object = bundles[0]
	if len(bundles) > 2 {
		in, err := NewSphericalTwist(bundles[:len(bundles)-1]...)
		if err != nil {
			return nil, err
		}
		inner = in
	}
	outer := bundles[len(bundles)-1]
	chi, err := EulerCharacteristic(outer, inner)
	if err != nil {
		return nil, fmt.Errorf("NewSphericalTwist: %w", err)
	}
	ch, err := inner.ChernCharacter().Sub(outer.ChernCharacter().Scale(chi))
	if err != nil {
		return nil, fmt.Errorf("NewSphericalTwist: %w", err)
	}
	list := make([]*LineBundle, len(bundles))
	copy(list, bundles)

	return twists.intern(key, func() *SphericalTwist {
		return &SphericalTwist{
			ctx:       ctx,
			bundles:   list,
			inner:     inner,
			ch:        ch,
			key:       key,
			defining:  make(map[RHomer]*Triangle),
			canonical: make(map[RHomer][]*Triangle),
		}
	}), nil
}

func (t *SphericalTwist) Kind() Kind                  { return KindTwist }
func (t *SphericalTwist) Context() *geometry.Context  { return t.ctx }
func (t *SphericalTwist) ChernCharacter() *chern.Poly { return t.ch.Clone() }
func (t *SphericalTwist) Key() string                 { return t.key }

// Shift wraps the twist in a one-summand coproduct.
func (t *SphericalTwist) Shift(n int) Object { return shiftWrapped(t, n) }

// Bundles returns a copy of [L₀, …, L_k].
func (t *SphericalTwist) Bundles() []*LineBundle {
	out := make([]*LineBundle, len(t.bundles))
	copy(out, t.bundles)

	return out
}

// Depth returns the number of twists k.
func (t *SphericalTwist) Depth() int { return len(t.bundles) - 1 }

// Inner returns L₀ (k = 1) or the twist of the first k bundles.
func (t *SphericalTwist) Inner() Object { return t.inner }

// Outer returns L_k.
func (t *SphericalTwist) Outer() *LineBundle { return t.bundles[len(t.bundles)-1] }

// String renders "Tw[O(H), O(3*H)]".
func (t *SphericalTwist) String() string {
	parts := make([]string, len(t.bundles))
	for i, b := range t.bundles {
		parts[i] = b.String()
	}

	return "Tw[" + strings.Join(parts, ", ") + "]"
}

// DefiningTriangle returns A₁ → A₂ → A₃ with A₁ = ⊕ⱼ L_k[j]^{dim RHom(L_k, inner)_j},
// A₂ = inner and A₃ = t. A₁ is always a *GradedCoproduct (empty when RHom vanishes).
func (t *SphericalTwist) DefiningTriangle(h RHomer) (*Triangle, error) {
	t.mu.Lock()
	if tri, ok := t.defining[h]; ok {
		t.mu.Unlock()
		return tri, nil
	}
	t.mu.Unlock()

	outer := t.Outer()
	dims, err := h.RHom(outer, t.inner)
	if err != nil {
		return nil, fmt.Errorf("DefiningTriangle(%s): %w", t, err)
	}
	a1 := emptyCoproduct(t.ctx)
	if degs := dims.Degrees(); len(degs) > 0 {
		objs := make([]Object, len(degs))
		mults := make([]int, len(degs))
		for i, j := range degs {
			objs[i], mults[i] = outer, dims[j]
		}
		if a1, err = NewGradedCoproduct(objs, degs, mults); err != nil {
			return nil, fmt.Errorf("DefiningTriangle(%s): %w", t, err)
		}
	}
	tri, err := NewTriangle(a1, t.inner, t)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.defining[h]; ok {
		return prev, nil
	}
	t.defining[h] = tri

	return tri, nil
}

// CanonicalTriangles returns the defining triangle followed by Tw_{L_k}
// applied to each canonical triangle of the inner twist (none when k = 1).
// The third term of every returned triangle is t itself.
func (t *SphericalTwist) CanonicalTriangles(h RHomer) ([]*Triangle, error) {
	t.mu.Lock()
	if cached, ok := t.canonical[h]; ok {
		out := append([]*Triangle(nil), cached...)
		t.mu.Unlock()
		return out, nil
	}
	t.mu.Unlock()

	def, err := t.DefiningTriangle(h)
	if err != nil {
		return nil, err
	}
	list := []*Triangle{def}
	if in, ok := t.inner.(*SphericalTwist); ok {
		innerTris, err := in.CanonicalTriangles(h)
		if err != nil {
			return nil, err
		}
		for _, it := range innerTris {
			tw, err := ApplySphericalTwistTriangle(it, t.Outer())
			if err != nil {
				return nil, fmt.Errorf("CanonicalTriangles(%s): %w", t, err)
			}
			list = append(list, tw)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.canonical[h]; ok {
		list = prev
	} else {
		t.canonical[h] = list
	}

	return append([]*Triangle(nil), list...), nil
}

// ApplySphericalTwist returns Tw_L(x):
//   - a twist composition gets L appended;
//   - a line bundle X becomes [X, L];
//   - a graded coproduct is twisted slot by slot;
//   - zero stays zero.
//
// Errors: ErrContextMismatch, ErrCannotTwist for every other variant.
func ApplySphericalTwist(x Object, l *LineBundle) (Object, error) {
	if !x.Context().Equal(l.ctx) {
		return nil, fmt.Errorf("ApplySphericalTwist(%s, %s): %w", x, l, ErrContextMismatch)
	}
	switch v := x.(type) {
	case *SphericalTwist:
		return NewSphericalTwist(append(v.Bundles(), l)...)
	case *LineBundle:
		return NewSphericalTwist(v, l)
	case *GradedCoproduct:
		if v.IsEmpty() {
			return v, nil
		}
		slots := v.Summands()
		for i := range slots {
			tw, err := ApplySphericalTwist(slots[i].Object, l)
			if err != nil {
				return nil, err
			}
			slots[i].Object = tw
		}
		return NewCoproductOf(slots...)
	case *ZeroObject:
		return v, nil
	}

	return nil, fmt.Errorf("ApplySphericalTwist(%s): %s: %w", x, x.Kind(), ErrCannotTwist)
}

// ApplySphericalTwistTriangle twists each term of tri by L.
func ApplySphericalTwistTriangle(tri *Triangle, l *LineBundle) (*Triangle, error) {
	var out [3]Object
	for i, o := range tri.objs {
		tw, err := ApplySphericalTwist(o, l)
		if err != nil {
			return nil, err
		}
		out[i] = tw
	}

	return NewTriangle(out[0], out[1], out[2])
}
