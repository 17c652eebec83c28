// SPDX-License-Identifier: MIT

// Package rhom - Engine: memoized RHom dispatch.
//
// Contracts:
//   - Arguments must share a geometry context.
//   - Results are cached by (a.Key(), b.Key()); callers receive clones.
//   - The cache lock is never held across recursive calls, so an Engine is
//     re-entrant and may be shared by concurrent HN walks.

package rhom

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/stabmass/derived"
)

// Engine computes RHom dimensions and memoizes them.
// It implements derived.RHomer.
type Engine struct {
	mu     sync.RWMutex
	cache  map[string]derived.Dims
	hits   uint64
	misses uint64
}

var _ derived.RHomer = (*Engine)(nil)

// NewEngine returns an engine with an empty cache.
func NewEngine() *Engine {
	return &Engine{cache: make(map[string]derived.Dims)}
}

var (
	sharedOnce sync.Once
	shared     *Engine
)

// Shared returns the process-wide engine.
func Shared() *Engine {
	sharedOnce.Do(func() { shared = NewEngine() })

	return shared
}

// Stats reports cache size, hits and misses.
func (e *Engine) Stats() (size int, hits, misses uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.cache), e.hits, e.misses
}

// Reset drops every memoized result.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]derived.Dims)
	e.hits, e.misses = 0, 0
}

// RHom returns the graded dimensions of RHom(a, b).
//
// Errors:
//   - ErrContextMismatch for objects over different contexts.
//   - ErrUnsupportedPair when no rule covers the variants.
//   - *ResolutionError, *EffectivenessError from the recursion.
func (e *Engine) RHom(a, b derived.Object) (derived.Dims, error) {
	if !a.Context().Equal(b.Context()) {
		return nil, fmt.Errorf("RHom(%s, %s): %w", a, b, ErrContextMismatch)
	}
	key := a.Key() + "→" + b.Key()
	e.mu.Lock()
	if d, ok := e.cache[key]; ok {
		e.hits++
		e.mu.Unlock()
		return d.Clone(), nil
	}
	e.misses++
	e.mu.Unlock()

	d, err := e.dispatch(a, b)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.cache[key] = d
	e.mu.Unlock()

	return d.Clone(), nil
}

func (e *Engine) dispatch(a, b derived.Object) (derived.Dims, error) {
	if a.Kind() == derived.KindZero || b.Kind() == derived.KindZero {
		return derived.Dims{}, nil
	}

	if g, ok := a.(*derived.GradedCoproduct); ok {
		out := derived.Dims{}
		for _, s := range g.Summands() {
			d, err := e.RHom(s.Object, b)
			if err != nil {
				return nil, err
			}
			out = out.Add(d.Shift(-s.Shift).Scale(s.Multiplicity))
		}
		return out, nil
	}
	if g, ok := b.(*derived.GradedCoproduct); ok {
		out := derived.Dims{}
		for _, s := range g.Summands() {
			d, err := e.RHom(a, s.Object)
			if err != nil {
				return nil, err
			}
			out = out.Add(d.Shift(s.Shift).Scale(s.Multiplicity))
		}
		return out, nil
	}

	switch x := a.(type) {
	case *derived.LineBundle:
		switch y := b.(type) {
		case *derived.LineBundle:
			return LineBundleDims(x, y)
		case *derived.SphericalTwist:
			return e.intoTwist(x, y)
		}
	case *derived.SphericalTwist:
		switch y := b.(type) {
		case *derived.LineBundle:
			return e.serre(x, y)
		case *derived.SphericalTwist:
			return e.intoTwist(x, y)
		}
	}

	return nil, fmt.Errorf("RHom(%s, %s): %s → %s: %w", a, b, a.Kind(), b.Kind(), ErrUnsupportedPair)
}

// intoTwist resolves the long exact sequence of the defining triangle of t.
func (e *Engine) intoTwist(a derived.Object, t *derived.SphericalTwist) (derived.Dims, error) {
	tri, err := t.DefiningTriangle(e)
	if err != nil {
		return nil, err
	}
	u, err := e.RHom(a, tri.First())
	if err != nil {
		return nil, err
	}
	v, err := e.RHom(a, tri.Second())
	if err != nil {
		return nil, err
	}
	w, err := Resolve(u, v)
	if err != nil {
		return nil, fmt.Errorf("RHom(%s, %s): %w", a, t, err)
	}

	return w, nil
}

// serre mirrors RHom(b, a) through the Calabi–Yau dimension.
func (e *Engine) serre(a derived.Object, b derived.Object) (derived.Dims, error) {
	d, err := e.RHom(b, a)
	if err != nil {
		return nil, err
	}

	return Mirror(d, a.Context().Category().CalabiYauDimension()), nil
}

// Mirror maps key j to −cy−j.
func Mirror(d derived.Dims, cy int) derived.Dims {
	out := make(derived.Dims, len(d))
	for j, v := range d {
		if v != 0 {
			out[-cy-j] = v
		}
	}

	return out
}
