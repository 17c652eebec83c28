// SPDX-License-Identifier: MIT

// Package derived - Object sum type, Zero and Numerical variants.

package derived

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
)

// Kind enumerates the object variants. Dispatch in rhom and stability
// switches on Kind explicitly.
type Kind int

const (
	KindZero Kind = iota
	KindNumerical
	KindSheaf
	KindLineBundle
	KindCoproduct
	KindTwist
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindZero:
		return "Zero"
	case KindNumerical:
		return "Numerical"
	case KindSheaf:
		return "Sheaf"
	case KindLineBundle:
		return "LineBundle"
	case KindCoproduct:
		return "GradedCoproduct"
	case KindTwist:
		return "SphericalTwist"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Object is an object of the derived category over a geometry context.
// Equality is structural: two objects are equal iff their Keys match.
type Object interface {
	Kind() Kind
	Context() *geometry.Context
	// ChernCharacter returns a copy the caller may mutate.
	ChernCharacter() *chern.Poly
	Shift(n int) Object
	Key() string
	String() string
}

// Equal reports structural equality.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Key() == b.Key()
}

// internTable deduplicates values by structural key.
type internTable[T any] struct {
	mu sync.Mutex
	m  map[string]T
}

func newInternTable[T any]() *internTable[T] { return &internTable[T]{m: make(map[string]T)} }

// intern returns the stored value for key, building and storing it on first use.
func (t *internTable[T]) intern(key string, build func() T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.m[key]; ok {
		return v
	}
	v := build()
	t.m[key] = v

	return v
}

// get returns the stored value for key without building.
func (t *internTable[T]) get(key string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.m[key]

	return v, ok
}

// size reports the number of interned values.
func (t *internTable[T]) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.m)
}

var (
	lineBundles = newInternTable[*LineBundle]()
	coproducts  = newInternTable[*GradedCoproduct]()
	twists      = newInternTable[*SphericalTwist]()
)

// InternStats reports the sizes of the process-wide interning tables
// (line bundles, graded coproducts, spherical twists).
func InternStats() (lineBundleCount, coproductCount, twistCount int) {
	return lineBundles.size(), coproducts.size(), twists.size()
}

// ---------- Zero ----------

// ZeroObject is the zero object. Shifting is inert.
type ZeroObject struct {
	ctx *geometry.Context
}

// NewZero returns the zero object of ctx.
func NewZero(ctx *geometry.Context) *ZeroObject { return &ZeroObject{ctx: ctx} }

func (z *ZeroObject) Kind() Kind                  { return KindZero }
func (z *ZeroObject) Context() *geometry.Context  { return z.ctx }
func (z *ZeroObject) ChernCharacter() *chern.Poly { return z.ctx.Ring().Zero() }
func (z *ZeroObject) Shift(int) Object            { return z }
func (z *ZeroObject) Key() string                 { return "0|" + z.ctx.Key() }
func (z *ZeroObject) String() string              { return "0" }

// ---------- Numerical ----------

// Numerical is an object known only through its Chern character.
type Numerical struct {
	ctx *geometry.Context
	ch  *chern.Poly
}

// NewNumerical wraps ch. The polynomial must live in ctx's ring.
// Errors: ErrContextMismatch.
func NewNumerical(ctx *geometry.Context, ch *chern.Poly) (*Numerical, error) {
	if !ch.Ring().Same(ctx.Ring()) {
		return nil, fmt.Errorf("NewNumerical(%s): %w", ch, ErrContextMismatch)
	}

	return &Numerical{ctx: ctx, ch: ch.Clone()}, nil
}

func (n *Numerical) Kind() Kind                  { return KindNumerical }
func (n *Numerical) Context() *geometry.Context  { return n.ctx }
func (n *Numerical) ChernCharacter() *chern.Poly { return n.ch.Clone() }

// Shift multiplies the character by (-1)^k.
func (n *Numerical) Shift(k int) Object {
	if k%2 == 0 {
		return n
	}

	return &Numerical{ctx: n.ctx, ch: n.ch.Neg()}
}

func (n *Numerical) Key() string    { return "num|" + n.ctx.Key() + "|" + n.ch.String() }
func (n *Numerical) String() string { return "N(" + n.ch.String() + ")" }

// sameContext checks every object shares ctx.
func sameContext(ctx *geometry.Context, objs ...Object) error {
	for _, o := range objs {
		if !ctx.Equal(o.Context()) {
			return ErrContextMismatch
		}
	}

	return nil
}
