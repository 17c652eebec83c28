// Package sampling evaluates the mass of one derived object over a
// rectangular grid of stability parameters and inspects the resulting
// surface for discontinuities.
//
// 🚀 What does a grid mean per category?
//
//	P1 / local P1: (x, y) ↦ w = x + iy.
//	P2 / local P2: (x, y) ↦ (s, q); points on or below the exceptional
//	  boundary curve (package exceptional) are excluded.
//	K3:            (x, y) ↦ (B = x·b̂, ω = y) with b̂ the B-field direction
//	  (default: the polarization), y > 0.
//
// ✨ Key features:
//   - Grid: validated axis ranges with inclusive sample counts.
//   - Sampler.Sample: row-parallel evaluation (errgroup with a worker
//     limit); HN and RHom failures become a sentinel value (−1 by default)
//     and are counted, never silently dropped.
//   - Laplacian: four-neighbour stencil on the finite part of the surface.
//   - Discontinuities: points with |Δ − mean| > k·σ (population σ).
//   - Walls: discontinuities grouped into 8-connected clusters.
//
// ⚠️ Excluded points are NaN in Surface.Mass; failed points hold the
// sentinel. Both are masked out before the Laplacian.
//
// ⚙️ Usage:
//
//	s := sampling.NewSampler(geometry.LocalProjectivePlane(), sampling.WithWorkers(4))
//	surf, _ := s.Sample(ctx, obj, sampling.Grid{XMin: -1, XMax: 1, XSteps: 21, YMin: 0, YMax: 2, YSteps: 21})
//	pts, _ := sampling.Discontinuities(surf, 3)
package sampling
