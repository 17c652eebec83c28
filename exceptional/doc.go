// Package exceptional enumerates exceptional bundles on the projective plane
// by dyadic label and traces the boundary of the geometric stability region
// for local P2.
//
// 🚀 What is the exceptional curve?
//
//	Every dyadic rational x = p/2^m labels one exceptional bundle E_x.
//	Integers label line bundles 𝒪(d); the other labels come from the
//	mutation recurrence ch(p) = 3·r(p±1)·ch(p∓1) − ch(p∓3) taken at the
//	finest level m. Each E_x of slope ε and rank r contributes three points
//	in the (ch₁/ch₀, ch₂/ch₀) plane:
//
//	  e_plus  = (ε, ch₂/r)
//	  e_left  = (ε − x_r, (ε − x_r)²/2 − ½)
//	  e_right = (ε + x_r, (ε + x_r)²/2 − ½),  x_r = 3/2 − √(9/4 − 1/r²)
//
//	The piecewise-linear curve through all points is the lower edge of the
//	(s, q) parameter plane sampled for local P2.
//
// ✨ Key features:
//   - ChernCharacter: exact (rank, degree, ch₂) of E_{p/2^m} in big.Rat.
//   - TripleAt: the three boundary points of one label.
//   - Curve: sorted points over [lo, hi] at a fixed depth with linear
//     interpolation (Y) and an above-the-curve predicate (Above).
//
// ⚠️ Ranks grow doubly exponentially along some branches (r = 37666 at
// depth 5), so characters stay exact rationals while curve points are
// float64: beyond depth 5 neighbouring points coincide and are merged.
//
// ⚙️ Usage:
//
//	c, _ := exceptional.NewCurve(geometry.LocalProjectivePlane(), -1, 1, 6)
//	ok, _ := c.Above(0.5, 0.9)
package exceptional
