// SPDX-License-Identifier: MIT

// Package sampling - Sampler: grid point ↦ stability condition ↦ mass.
//
// Contracts:
//   - Rows are evaluated concurrently (at most `workers` at a time); each
//     row writes only its own cells.
//   - HN and RHom failures are recorded with the sentinel and logged at
//     debug level; any other error aborts the run.
//   - Context cancellation is observed between points.

package sampling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/exceptional"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/matrix"
	"github.com/katalvlaran/stabmass/rhom"
	"github.com/katalvlaran/stabmass/stability"
)

// Sampler evaluates masses over grids for one geometry context.
type Sampler struct {
	geo  *geometry.Context
	opts options
}

// NewSampler binds a sampler to a geometry context.
func NewSampler(geo *geometry.Context, opts ...Option) *Sampler {
	return &Sampler{geo: geo, opts: gatherOptions(opts...)}
}

// Context returns the geometry context.
func (s *Sampler) Context() *geometry.Context { return s.geo }

// plan is the per-run parameter mapping resolved from grid and options.
type plan struct {
	curve *exceptional.Curve
	bDir  []float64
}

func (s *Sampler) prepare(g Grid) (plan, error) {
	var p plan
	if err := g.Validate(); err != nil {
		return p, err
	}
	cat := s.geo.Category()
	if s.opts.boundary != nil && !cat.IsProjectivePlane() {
		return p, fmt.Errorf("Sample on %s: boundary curve given: %w", cat, ErrCategory)
	}

	switch {
	case cat.IsProjectiveLine():
		return p, nil
	case cat.IsProjectivePlane():
		p.curve = s.opts.boundary
		if p.curve == nil {
			lo, hi := int64(math.Floor(g.XMin))-1, int64(math.Ceil(g.XMax))+1
			c, err := exceptional.NewCurve(s.geo, lo, hi, DefaultCurveDepth)
			if err != nil {
				return p, err
			}
			p.curve = c
		}
		xmin, xmax := p.curve.Bounds()
		if g.XMin < xmin || g.XMax > xmax {
			return p, fmt.Errorf("grid %v outside boundary curve [%g, %g]: %w", g, xmin, xmax, ErrBadGrid)
		}
		return p, nil
	case cat == geometry.K3:
		if !(g.YMin > 0) {
			return p, fmt.Errorf("grid %v: K3 volume must be > 0: %w", g, ErrBadGrid)
		}
		p.bDir = s.opts.bDir
		if p.bDir == nil {
			coords := s.geo.Coordinates(s.geo.Polarization())
			p.bDir = make([]float64, len(coords))
			for i, c := range coords {
				p.bDir[i] = chern.RatFloat(c)
			}
		}
		if len(p.bDir) != s.geo.PicardRank() {
			return p, fmt.Errorf("B direction %v for Picard rank %d: %w", p.bDir, s.geo.PicardRank(), ErrBadGrid)
		}
		return p, nil
	}

	return p, fmt.Errorf("Sample on %s: %w", cat, ErrCategory)
}

// condition builds the stability condition at grid point (x, y).
func (s *Sampler) condition(p plan, x, y float64) (*stability.Condition, error) {
	cat := s.geo.Category()
	switch {
	case cat.IsProjectiveLine():
		return stability.NewP1(s.geo, complex(x, y))
	case cat.IsProjectivePlane():
		if s.opts.sqrt {
			return stability.NewP2(s.geo, x, y, stability.WithSqrtParameterization())
		}
		return stability.NewP2(s.geo, x, y)
	}
	b := make([]float64, len(p.bDir))
	for i, d := range p.bDir {
		b[i] = x * d
	}

	return stability.NewK3(s.geo, b, y)
}

// pointFailure reports errors that mark a single point as failed.
func pointFailure(err error) bool {
	return errors.Is(err, stability.ErrHarderNarasimhan) ||
		errors.Is(err, rhom.ErrResolution) ||
		errors.Is(err, rhom.ErrK3Effectiveness)
}

// rowResult carries one evaluated row.
type rowResult struct {
	mass     []float64
	status   []Status
	failures int
	excluded int
}

func (s *Sampler) row(ctx context.Context, p plan, obj derived.Object, g Grid, i int) (rowResult, error) {
	r := rowResult{mass: make([]float64, g.XSteps), status: make([]Status, g.XSteps)}
	y := g.Y(i)
	for j := 0; j < g.XSteps; j++ {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		x := g.X(j)
		if p.curve != nil {
			above, err := p.curve.Above(x, y)
			if err != nil {
				return r, err
			}
			if !above {
				r.mass[j], r.status[j] = math.NaN(), StatusExcluded
				r.excluded++
				continue
			}
		}
		c, err := s.condition(p, x, y)
		if err != nil {
			return r, err
		}
		m, err := c.Mass(obj)
		switch {
		case err == nil:
			r.mass[j] = m
		case pointFailure(err):
			s.opts.logger.Debug("mass failed",
				slog.Float64("x", x), slog.Float64("y", y),
				slog.String("object", obj.String()), slog.String("error", err.Error()))
			r.mass[j], r.status[j] = s.opts.sentinel, StatusFailed
			r.failures++
		default:
			return r, fmt.Errorf("Sample at (%g, %g): %w", x, y, err)
		}
	}

	return r, nil
}

// Sample evaluates mass(obj) at every grid point.
//
// Errors:
//   - ErrBadGrid, ErrCategory from validation.
//   - errors of package stability other than HN failures.
//   - ctx.Err() on cancellation.
func (s *Sampler) Sample(ctx context.Context, obj derived.Object, g Grid) (*Surface, error) {
	p, err := s.prepare(g)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	rows := make([]rowResult, g.YSteps)
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.workers)
	for i := 0; i < g.YSteps; i++ {
		eg.Go(func() error {
			r, err := s.row(ectx, p, obj, g, i)
			if err != nil {
				return err
			}
			rows[i] = r
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	mass, err := matrix.NewDense(g.YSteps, g.XSteps)
	if err != nil {
		return nil, err
	}
	surf := &Surface{
		Grid:     g,
		Category: s.geo.Category(),
		Object:   obj.String(),
		Mass:     mass,
		status:   make([]Status, 0, g.Size()),
	}
	for i, r := range rows {
		if err = mass.SetRow(i, r.mass); err != nil {
			return nil, err
		}
		surf.status = append(surf.status, r.status...)
		surf.Failures += r.failures
		surf.Excluded += r.excluded
	}

	s.opts.logger.Info("sampled surface",
		slog.String("object", surf.Object),
		slog.String("category", surf.Category.String()),
		slog.String("grid", g.String()),
		slog.Int("failures", surf.Failures),
		slog.Int("excluded", surf.Excluded),
		slog.Duration("elapsed", time.Since(start)))

	return surf, nil
}
