// SPDX-License-Identifier: MIT

// Package stability - Factor and Filtration.
//
// A Filtration is an immutable list of factors sorted by non-increasing
// phase (ties by object key). Factors with the same object, shift and phase
// are merged by adding multiplicities.
//
// Factor.Object is always the shifted object itself; Factor.Shift records
// how far it was shifted since the factor was found, so collapsing a
// filtration never shifts twice.

package stability

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/katalvlaran/stabmass/derived"
)

// phaseEps is the tolerance under which two phases are treated as equal when merging.
const phaseEps = 1e-12

// Factor is one semistable HN factor Object^Multiplicity of phase Phase.
// Shift counts the shifts applied to the factor after it was found.
type Factor struct {
	Object       derived.Object
	Multiplicity int
	Phase        float64
	Shift        int
}

// String renders "O(-2*H)[2]^3 @1.368058".
func (f Factor) String() string {
	s := f.Object.String()
	if f.Multiplicity != 1 {
		s += fmt.Sprintf("^%d", f.Multiplicity)
	}

	return fmt.Sprintf("%s @%.6f", s, f.Phase)
}

// Filtration is a Harder–Narasimhan filtration.
type Filtration struct {
	factors []Factor
}

// NewFiltration normalizes factors (drops m ≤ 0, merges, sorts).
func NewFiltration(factors ...Factor) *Filtration {
	var out []Factor
	for _, f := range factors {
		if f.Multiplicity <= 0 || f.Object.Kind() == derived.KindZero {
			continue
		}
		merged := false
		for i := range out {
			if out[i].Object.Key() == f.Object.Key() && out[i].Shift == f.Shift &&
				math.Abs(out[i].Phase-f.Phase) <= phaseEps {
				out[i].Multiplicity += f.Multiplicity
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if math.Abs(out[i].Phase-out[j].Phase) > phaseEps {
			return out[i].Phase > out[j].Phase
		}
		return out[i].Object.Key() < out[j].Object.Key()
	})

	return &Filtration{factors: out}
}

// single is the one-factor filtration of o at phase phi.
func single(o derived.Object, phi float64) *Filtration {
	return NewFiltration(Factor{Object: o, Multiplicity: 1, Phase: phi})
}

// Factors returns a copy of the factors.
func (f *Filtration) Factors() []Factor { return append([]Factor(nil), f.factors...) }

// Len returns the number of factors.
func (f *Filtration) Len() int { return len(f.factors) }

// IsEmpty reports the filtration of the zero object.
func (f *Filtration) IsEmpty() bool { return len(f.factors) == 0 }

// Max returns φ⁺, the largest phase (NaN when empty).
func (f *Filtration) Max() float64 {
	if len(f.factors) == 0 {
		return math.NaN()
	}

	return f.factors[0].Phase
}

// Min returns φ⁻, the smallest phase (NaN when empty).
func (f *Filtration) Min() float64 {
	if len(f.factors) == 0 {
		return math.NaN()
	}

	return f.factors[len(f.factors)-1].Phase
}

// IsSemistable reports whether all factors share one phase up to tol.
// The empty filtration counts as semistable.
func (f *Filtration) IsSemistable(tol float64) bool {
	if len(f.factors) == 0 {
		return true
	}

	return f.Max()-f.Min() <= tol
}

// Phases lists factor phases in order.
func (f *Filtration) Phases() []float64 {
	out := make([]float64, len(f.factors))
	for i, x := range f.factors {
		out[i] = x.Phase
	}

	return out
}

// Shift applies [n] to every factor: objects shift, phases and shifts add n.
func (f *Filtration) Shift(n int) *Filtration {
	if n == 0 {
		return f
	}
	out := make([]Factor, len(f.factors))
	for i, x := range f.factors {
		out[i] = Factor{
			Object:       x.Object.Shift(n),
			Multiplicity: x.Multiplicity,
			Phase:        x.Phase + float64(n),
			Shift:        x.Shift + n,
		}
	}

	return NewFiltration(out...)
}

// Scale multiplies every multiplicity by m.
// Errors: ErrNonPositiveScale for m ≤ 0.
func (f *Filtration) Scale(m int) (*Filtration, error) {
	if m <= 0 {
		return nil, fmt.Errorf("Filtration.Scale(%d): %w", m, ErrNonPositiveScale)
	}
	out := make([]Factor, len(f.factors))
	for i, x := range f.factors {
		out[i] = x
		out[i].Multiplicity *= m
	}

	return NewFiltration(out...), nil
}

// SplitAt partitions the factors into those of phase ≥ phi and the rest.
// Either side may be empty; both keep the original order.
func (f *Filtration) SplitAt(phi float64) (hi, lo *Filtration) {
	var above, below []Factor
	for _, x := range f.factors {
		if x.Phase >= phi {
			above = append(above, x)
		} else {
			below = append(below, x)
		}
	}

	return &Filtration{factors: above}, &Filtration{factors: below}
}

// ToCoproduct collapses the filtration into ⊕ Objectᵢ^{mᵢ}.
// Objects already carry their shifts, so every slot sits at shift 0.
//
// Errors: ErrEmptyFiltration for the zero object's filtration.
func (f *Filtration) ToCoproduct() (*derived.GradedCoproduct, error) {
	if len(f.factors) == 0 {
		return nil, fmt.Errorf("Filtration.ToCoproduct: %w", ErrEmptyFiltration)
	}
	slots := make([]derived.Summand, len(f.factors))
	for i, x := range f.factors {
		slots[i] = derived.Summand{Object: x.Object, Multiplicity: x.Multiplicity}
	}

	return derived.NewCoproductOf(slots...)
}

// Add returns the union of both factor lists.
func (f *Filtration) Add(o *Filtration) *Filtration {
	return NewFiltration(append(f.Factors(), o.factors...)...)
}

// String renders factors separated by "; " ("0" when empty).
func (f *Filtration) String() string {
	if len(f.factors) == 0 {
		return "0"
	}
	parts := make([]string, len(f.factors))
	for i, x := range f.factors {
		parts[i] = x.String()
	}

	return strings.Join(parts, "; ")
}
