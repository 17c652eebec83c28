// Package stabmass computes Bridgeland stability data for derived categories
// of local P1, local P2 and K3 surfaces: central charges, phases,
// Harder–Narasimhan filtrations and masses, and samples masses over
// families of stability conditions.
//
// 🚀 What is stabmass?
//
//	An exact-arithmetic engine with a small set of concrete objects:
//		• Chern polynomials over a divisor basis with rational coefficients
//		• Geometry contexts: intersection forms, polarization, category
//		• Derived objects: line bundles, sheaves, shifted sums, spherical twists
//		• RHom: graded Ext dimensions via closed forms and long exact sequences
//		• Stability: Z, phases, HN filtrations and mass per condition
//		• Sampling: mass surfaces on parameter grids, wall detection
//
// ✨ Why stabmass?
//
//   - Exact where it matters: Chern data and Ext counts never round.
//   - Failures are values: HN and RHom refusals are typed errors, and
//     sampled surfaces record them instead of aborting.
//   - Concurrent sampling with a bounded worker pool.
//
// Packages:
//
//	chern/       — Chern ring polynomials, parser, exp, complex twists
//	geometry/    — divisor data, categories, canned contexts
//	derived/     — object variants, coproducts, twists, triangles, χ
//	rhom/        — RHom engine with caching and Serre duality
//	slope/       — slopes, phases and sheaf HN filtrations
//	stability/   — stability conditions, HN filtrations, mass
//	exceptional/ — exceptional bundles on P2 and the boundary curve
//	matrix/      — dense float grids, statistics, stencils, components
//	sampling/    — mass surfaces, Laplacian, discontinuities, walls
//	config/      — YAML job files
//	store/       — SQLite persistence of sampled surfaces
//	cmd/stabmass — command-line interface
//
// Quick example:
//
//	ctx := geometry.LocalProjectivePlane()
//	c, _ := stability.NewP2(ctx, 0.5, 0.9)
//	o, _ := derived.LineBundleOf(ctx, "-3H")
//	m, _ := c.Mass(o) // |Z(O(-3))| = |−3.6 − 3.5i|
//
//	go install github.com/katalvlaran/stabmass/cmd/stabmass@latest
package stabmass
