// SPDX-License-Identifier: MIT

// Package derived - GradedCoproduct: ⊕ᵢ Oᵢ[sᵢ]^{mᵢ}.
//
// Normalization (on construction):
//   - nested coproducts are flattened (shifts add, multiplicities multiply);
//   - zero objects and zero multiplicities are dropped;
//   - equal (object, shift) slots are merged by summing multiplicities;
//   - slots are sorted by (shift, object key) and the result is interned.
//
// Complexity: O(s log s) in the number of slots.

package derived

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
)

// Summand is one slot Object[Shift]^Multiplicity of a coproduct.
type Summand struct {
	Object       Object
	Shift        int
	Multiplicity int
}

// GradedCoproduct is a normalized, interned direct sum of shifted objects.
type GradedCoproduct struct {
	ctx      *geometry.Context
	summands []Summand
	ch       *chern.Poly
	key      string
}

// NewGradedCoproduct builds ⊕ objs[i][shifts[i]]^{mults[i]}.
// A nil shifts vector means all zeros; a nil mults vector means all ones.
//
// Errors:
//   - ErrConstruction if objs is empty.
//   - ErrLengthMismatch if a non-nil vector differs in length from objs.
//   - ErrNegativeMultiplicity if any mᵢ < 0.
//   - ErrContextMismatch if objects disagree on the geometry context.
func NewGradedCoproduct(objs []Object, shifts, mults []int) (*GradedCoproduct, error) {
	if len(objs) == 0 {
		return nil, fmt.Errorf("NewGradedCoproduct: no objects: %w", ErrConstruction)
	}
	if shifts != nil && len(shifts) != len(objs) {
		return nil, fmt.Errorf("NewGradedCoproduct: %d shifts for %d objects: %w", len(shifts), len(objs), ErrLengthMismatch)
	}
	if mults != nil && len(mults) != len(objs) {
		return nil, fmt.Errorf("NewGradedCoproduct: %d multiplicities for %d objects: %w", len(mults), len(objs), ErrLengthMismatch)
	}
	ctx := objs[0].Context()
	slots := make([]Summand, 0, len(objs))
	for i, o := range objs {
		s, m := 0, 1
		if shifts != nil {
			s = shifts[i]
		}
		if mults != nil {
			m = mults[i]
		}
		if m < 0 {
			return nil, fmt.Errorf("NewGradedCoproduct: multiplicity %d for %s: %w", m, o, ErrNegativeMultiplicity)
		}
		slots = append(slots, Summand{Object: o, Shift: s, Multiplicity: m})
	}

	return fromSummands(ctx, slots)
}

// NewCoproductOf builds a coproduct from explicit summands.
func NewCoproductOf(summands ...Summand) (*GradedCoproduct, error) {
	objs := make([]Object, len(summands))
	shifts := make([]int, len(summands))
	mults := make([]int, len(summands))
	for i, s := range summands {
		objs[i], shifts[i], mults[i] = s.Object, s.Shift, s.Multiplicity
	}

	return NewGradedCoproduct(objs, shifts, mults)
}

// emptyCoproduct returns the interned empty sum of ctx.
func emptyCoproduct(ctx *geometry.Context) *GradedCoproduct {
	gc, _ := fromSummands(ctx, nil)
	return gc
}

// fromSummands normalizes slots and interns the result.
func fromSummands(ctx *geometry.Context, slots []Summand) (*GradedCoproduct, error) {
	merged := make(map[string]*Summand)
	var order []string
	var add func(o Object, s, m int) error
	add = func(o Object, s, m int) error {
		if m == 0 {
			return nil
		}
		if err := sameContext(ctx, o); err != nil {
			return fmt.Errorf("NewGradedCoproduct: %s: %w", o, err)
		}
		switch v := o.(type) {
		case *ZeroObject:
			return nil
		case *GradedCoproduct:
			for _, inner := range v.summands {
				if err := add(inner.Object, inner.Shift+s, inner.Multiplicity*m); err != nil {
					return err
				}
			}
			return nil
		}
		k := fmt.Sprintf("%d#%s", s, o.Key())
		if slot, ok := merged[k]; ok {
			slot.Multiplicity += m
			return nil
		}
		merged[k] = &Summand{Object: o, Shift: s, Multiplicity: m}
		order = append(order, k)

		return nil
	}
	for _, sl := range slots {
		if err := add(sl.Object, sl.Shift, sl.Multiplicity); err != nil {
			return nil, err
		}
	}

	out := make([]Summand, 0, len(order))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Shift != out[j].Shift {
			return out[i].Shift < out[j].Shift
		}
		return out[i].Object.Key() < out[j].Object.Key()
	})

	parts := make([]string, len(out))
	for i, s := range out {
		parts[i] = fmt.Sprintf("%s[%d]^%d", s.Object.Key(), s.Shift, s.Multiplicity)
	}
	key := "sum|" + ctx.Key() + "|" + strings.Join(parts, "+")

	ch := ctx.Ring().Zero()
	for _, s := range out {
		term := s.Object.ChernCharacter().ScaleInt(int64(s.Multiplicity))
		if s.Shift%2 != 0 {
			term = term.Neg()
		}
		var err error
		if ch, err = ch.Add(term); err != nil {
			return nil, fmt.Errorf("NewGradedCoproduct: %w", err)
		}
	}

	return coproducts.intern(key, func() *GradedCoproduct {
		return &GradedCoproduct{ctx: ctx, summands: out, ch: ch, key: key}
	}), nil
}

func (g *GradedCoproduct) Kind() Kind                  { return KindCoproduct }
func (g *GradedCoproduct) Context() *geometry.Context  { return g.ctx }
func (g *GradedCoproduct) ChernCharacter() *chern.Poly { return g.ch.Clone() }
func (g *GradedCoproduct) Key() string                 { return g.key }

// Summands returns a copy of the normalized slots.
func (g *GradedCoproduct) Summands() []Summand {
	out := make([]Summand, len(g.summands))
	copy(out, g.summands)

	return out
}

// Len returns the number of slots.
func (g *GradedCoproduct) Len() int { return len(g.summands) }

// IsEmpty reports the empty sum.
func (g *GradedCoproduct) IsEmpty() bool { return len(g.summands) == 0 }

// Shift adds n to every slot shift.
func (g *GradedCoproduct) Shift(n int) Object {
	if n == 0 {
		return g
	}
	slots := g.Summands()
	for i := range slots {
		slots[i].Shift += n
	}
	out, err := fromSummands(g.ctx, slots)
	if err != nil {
		panic(fmt.Sprintf("derived: shift of %s: %v", g, err))
	}

	return out
}

// ConcentratedIn reports whether every slot sits at shift s (and there is at least one).
func (g *GradedCoproduct) ConcentratedIn(s int) bool {
	if len(g.summands) == 0 {
		return false
	}
	for _, sl := range g.summands {
		if sl.Shift != s {
			return false
		}
	}

	return true
}

// multiplicity returns the multiplicity of slot (o, s).
func (g *GradedCoproduct) multiplicity(o Object, s int) int {
	for _, sl := range g.summands {
		if sl.Shift == s && sl.Object.Key() == o.Key() {
			return sl.Multiplicity
		}
	}

	return 0
}

// slotsOf views any object as coproduct slots (a plain object is o[0]^1).
func slotsOf(o Object) []Summand {
	switch v := o.(type) {
	case *GradedCoproduct:
		return v.summands
	case *ZeroObject:
		return nil
	}

	return []Summand{{Object: o, Shift: 0, Multiplicity: 1}}
}

// Dominates reports whether every slot of o (a coproduct or plain object)
// is present in g with at least the same multiplicity.
func (g *GradedCoproduct) Dominates(o Object) bool {
	if !g.ctx.Equal(o.Context()) {
		return false
	}
	for _, sl := range slotsOf(o) {
		if g.multiplicity(sl.Object, sl.Shift) < sl.Multiplicity {
			return false
		}
	}

	return true
}

// Add returns g ⊕ o.
// Errors: ErrContextMismatch.
func (g *GradedCoproduct) Add(o Object) (*GradedCoproduct, error) {
	if err := sameContext(g.ctx, o); err != nil {
		return nil, fmt.Errorf("GradedCoproduct.Add: %w", err)
	}
	slots := append(g.Summands(), slotsOf(o)...)

	return fromSummands(g.ctx, slots)
}

// Sub removes the slots of o (coproduct or plain object) from g.
// Errors: ErrContextMismatch, ErrNotDominated.
func (g *GradedCoproduct) Sub(o Object) (*GradedCoproduct, error) {
	if err := sameContext(g.ctx, o); err != nil {
		return nil, fmt.Errorf("GradedCoproduct.Sub: %w", err)
	}
	if !g.Dominates(o) {
		return nil, fmt.Errorf("GradedCoproduct.Sub(%s - %s): %w", g, o, ErrNotDominated)
	}
	slots := g.Summands()
	for _, rm := range slotsOf(o) {
		for i := range slots {
			if slots[i].Shift == rm.Shift && slots[i].Object.Key() == rm.Object.Key() {
				slots[i].Multiplicity -= rm.Multiplicity
				break
			}
		}
	}

	return fromSummands(g.ctx, slots)
}

// String renders "O(H)[1]^3 ⊕ O(0)"; the empty sum renders as "0".
func (g *GradedCoproduct) String() string {
	if len(g.summands) == 0 {
		return "0"
	}
	parts := make([]string, len(g.summands))
	for i, s := range g.summands {
		p := s.Object.String()
		if s.Shift != 0 {
			p += fmt.Sprintf("[%d]", s.Shift)
		}
		if s.Multiplicity != 1 {
			p += fmt.Sprintf("^%d", s.Multiplicity)
		}
		parts[i] = p
	}

	return strings.Join(parts, " ⊕ ")
}
