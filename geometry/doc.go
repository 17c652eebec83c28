// Package geometry holds the intersection-theoretic data a stability
// computation reads: the Néron–Severi basis, the symmetrized top
// intersection form, the polarization and the category tag.
//
// 🚀 What is here?
//
//	DivisorData  ↔  (basis b₁…b_r, ∫ b_{i₁}⋯b_{iₙ} ∈ ℚ)
//	Context      ↔  (Category, DivisorData, ample H)
//
// ✨ Key features:
//   - NewDivisorData symmetrizes the form over permutations and rejects
//     conflicting entries (ErrAsymmetricForm).
//   - DivisorData.Evaluate multiplies Chern polynomials and integrates the
//     top-degree part; EvaluateComplex does the same against a complex twist.
//   - NewContext enforces per-category invariants (P1: n=1, H=1; P2: n=2,
//     H²=1; K3: n=2) and checks that the polarization is ample on the basis.
//   - Canned constructors: ProjectiveLine, LocalProjectiveLine,
//     ProjectivePlane, LocalProjectivePlane, K3OfDegree.
//
// ⚙️ Usage:
//
//	ctx, _ := geometry.K3OfDegree(2)  // H·H = 4
//	d, _ := ctx.Divisor("3H")
//	ctx.IsEffective(d)               // true
//	ctx.Degree(d)                    // 12 = ∫ 3H·H
//
// Contexts are immutable and compared structurally via Key, so equal
// contexts share every object cache downstream.
package geometry
