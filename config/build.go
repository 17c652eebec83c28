// SPDX-License-Identifier: MIT

// Package config - turning a validated job into engine values.
//
// Contracts:
//   - Objects are built in file order; coproduct terms may only name earlier objects.
//   - A zero term multiplicity means 1.

package config

import (
	"fmt"
	"log/slog"
	"math"
	"math/big"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/exceptional"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/sampling"
	"github.com/katalvlaran/stabmass/stability"
)

// Context returns the canned geometry for the category, or one built from
// Basis and Intersections when they are given.
func (c *Config) Context() (*geometry.Context, error) {
	g := c.Geometry
	cat, err := geometry.ParseCategory(g.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrInvalidConfig)
	}

	if len(g.Basis) == 0 {
		switch cat {
		case geometry.P1:
			return geometry.ProjectiveLine(), nil
		case geometry.LocalP1:
			return geometry.LocalProjectiveLine(), nil
		case geometry.P2:
			return geometry.ProjectivePlane(), nil
		case geometry.LocalP2:
			return geometry.LocalProjectivePlane(), nil
		}
		d := g.Degree
		if d == 0 {
			d = 1
		}
		return geometry.K3OfDegree(d)
	}

	entries := make([]geometry.Intersection, 0, len(g.Intersections))
	for _, e := range g.Intersections {
		v, ok := new(big.Rat).SetString(e.Value)
		if !ok {
			return nil, fmt.Errorf("intersection %v: value %q: %w", e.Divisors, e.Value, ErrInvalidConfig)
		}
		entries = append(entries, geometry.Intersection{Divisors: e.Divisors, Value: v})
	}
	dd, err := geometry.NewDivisorData(g.Basis, entries...)
	if err != nil {
		return nil, err
	}
	var opts []geometry.Option
	if g.Polarization != "" {
		opts = append(opts, geometry.WithPolarization(g.Polarization))
	}

	return geometry.NewContext(cat, dd, opts...)
}

// Condition builds the stability condition at Stability.Params.
func (c *Config) Condition(geo *geometry.Context) (*stability.Condition, error) {
	return stability.New(geo, c.Stability.Params, c.conditionOptions()...)
}

func (c *Config) conditionOptions() []stability.Option {
	var opts []stability.Option
	if c.Stability.Sqrt {
		opts = append(opts, stability.WithSqrtParameterization())
	}
	if c.Stability.MaxCandidateRank > 0 {
		opts = append(opts, stability.WithMaxCandidateRank(c.Stability.MaxCandidateRank))
	}
	if c.Stability.MaxCh2Steps > 0 {
		opts = append(opts, stability.WithMaxCh2Steps(c.Stability.MaxCh2Steps))
	}

	return opts
}

// BuildObjects constructs every named object in file order.
func (c *Config) BuildObjects(geo *geometry.Context) (map[string]derived.Object, error) {
	out := make(map[string]derived.Object, len(c.Objects))
	for _, o := range c.Objects {
		obj, err := o.build(geo, out)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", o.Name, err)
		}
		out[o.Name] = obj
	}

	return out, nil
}

// Object builds the objects and returns the one called name.
func (c *Config) Object(geo *geometry.Context, name string) (derived.Object, error) {
	objs, err := c.BuildObjects(geo)
	if err != nil {
		return nil, err
	}
	obj, ok := objs[name]
	if !ok {
		return nil, fmt.Errorf("object %q is not defined: %w", name, ErrInvalidConfig)
	}

	return obj, nil
}

func (o ObjectConfig) build(geo *geometry.Context, earlier map[string]derived.Object) (derived.Object, error) {
	switch o.Kind {
	case KindLineBundle:
		return derived.LineBundleOf(geo, o.Divisor)
	case KindTwist:
		bundles := make([]*derived.LineBundle, len(o.Bundles))
		for i, expr := range o.Bundles {
			l, err := derived.LineBundleOf(geo, expr)
			if err != nil {
				return nil, err
			}
			bundles[i] = l
		}
		return derived.NewSphericalTwist(bundles...)
	case KindCoproduct:
		if len(o.Terms) == 0 {
			return derived.NewZero(geo), nil
		}
		sums := make([]derived.Summand, len(o.Terms))
		for i, t := range o.Terms {
			obj, ok := earlier[t.Object]
			if !ok {
				return nil, fmt.Errorf("term %q: %w", t.Object, ErrInvalidConfig)
			}
			m := t.Multiplicity
			if m == 0 {
				m = 1
			}
			sums[i] = derived.Summand{Object: obj, Shift: t.Shift, Multiplicity: m}
		}
		return derived.NewCoproductOf(sums...)
	case KindNumerical:
		ch, err := geo.Ring().Parse(o.Ch)
		if err != nil {
			return nil, err
		}
		return derived.NewNumerical(geo, ch)
	case KindSheaf:
		c1, err := optionalPoly(geo, o.C1)
		if err != nil {
			return nil, err
		}
		c2, err := optionalPoly(geo, o.C2)
		if err != nil {
			return nil, err
		}
		return derived.NewSheaf(geo, o.Rank, c1, c2)
	}

	return nil, fmt.Errorf("unknown kind %q: %w", o.Kind, ErrInvalidConfig)
}

func optionalPoly(geo *geometry.Context, expr string) (*chern.Poly, error) {
	if expr == "" {
		return nil, nil
	}

	return geo.Ring().Parse(expr)
}

// Sampler builds a sampler from the sampling section.
func (c *Config) Sampler(geo *geometry.Context, logger *slog.Logger) (*sampling.Sampler, error) {
	s := c.Sampling
	opts := []sampling.Option{}
	if logger != nil {
		opts = append(opts, sampling.WithLogger(logger))
	}
	if s.Workers > 0 {
		opts = append(opts, sampling.WithWorkers(s.Workers))
	}
	if s.FailureSentinel != nil {
		opts = append(opts, sampling.WithFailureSentinel(*s.FailureSentinel))
	}
	if len(s.BDirection) > 0 {
		opts = append(opts, sampling.WithBDirection(s.BDirection))
	}
	if c.Stability.Sqrt {
		opts = append(opts, sampling.WithSqrtParameterization())
	}
	if geo.Category().IsProjectivePlane() && s.CurveDepth > 0 && s.CurveDepth != sampling.DefaultCurveDepth {
		lo, hi := int64(math.Floor(s.Grid.XMin))-1, int64(math.Ceil(s.Grid.XMax))+1
		curve, err := exceptional.NewCurve(geo, lo, hi, s.CurveDepth)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sampling.WithBoundary(curve))
	}

	return sampling.NewSampler(geo, opts...), nil
}
