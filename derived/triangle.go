// SPDX-License-Identifier: MIT

package derived

import (
	"fmt"

	"github.com/katalvlaran/stabmass/geometry"
)

// Triangle is a distinguished triangle A → B → C → A[1].
type Triangle struct {
	ctx  *geometry.Context
	objs [3]Object
}

// NewTriangle checks the three terms share a context.
// Errors: ErrContextMismatch.
func NewTriangle(a, b, c Object) (*Triangle, error) {
	ctx := a.Context()
	if err := sameContext(ctx, b, c); err != nil {
		return nil, fmt.Errorf("NewTriangle(%s, %s, %s): %w", a, b, c, err)
	}

	return &Triangle{ctx: ctx, objs: [3]Object{a, b, c}}, nil
}

// Context returns the common geometry context.
func (t *Triangle) Context() *geometry.Context { return t.ctx }

// At returns term i (0, 1 or 2).
// Errors: ErrIndex.
func (t *Triangle) At(i int) (Object, error) {
	if i < 0 || i > 2 {
		return nil, fmt.Errorf("Triangle.At(%d): %w", i, ErrIndex)
	}

	return t.objs[i], nil
}

// First, Second and Third return A, B and C.
func (t *Triangle) First() Object  { return t.objs[0] }
func (t *Triangle) Second() Object { return t.objs[1] }
func (t *Triangle) Third() Object  { return t.objs[2] }

// RotateLeft returns (B, C, A[1]).
func (t *Triangle) RotateLeft() *Triangle {
	return &Triangle{ctx: t.ctx, objs: [3]Object{t.objs[1], t.objs[2], t.objs[0].Shift(1)}}
}

// RotateRight returns (C[-1], A, B).
func (t *Triangle) RotateRight() *Triangle {
	return &Triangle{ctx: t.ctx, objs: [3]Object{t.objs[2].Shift(-1), t.objs[0], t.objs[1]}}
}

// Key is the structural identity.
func (t *Triangle) Key() string {
	return "tri(" + t.objs[0].Key() + " -> " + t.objs[1].Key() + " -> " + t.objs[2].Key() + ")"
}

// Equal reports structural equality.
func (t *Triangle) Equal(o *Triangle) bool { return o != nil && t.Key() == o.Key() }

// String renders "A -> B -> C".
func (t *Triangle) String() string {
	return t.objs[0].String() + " -> " + t.objs[1].String() + " -> " + t.objs[2].String()
}

// IsAdditive reports ch(B) = ch(A) + ch(C).
func (t *Triangle) IsAdditive() bool {
	sum, err := t.objs[0].ChernCharacter().Add(t.objs[2].ChernCharacter())
	if err != nil {
		return false
	}

	return sum.Equal(t.objs[1].ChernCharacter())
}
