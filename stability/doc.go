// Package stability implements Bridgeland stability conditions on the
// categories of package geometry: central charges, phases, Harder–Narasimhan
// filtrations and the mass function.
//
// 🚀 What is a stability condition here?
//
//	A Condition fixes a geometry context plus real parameters:
//	  - P1 / LocalP1: one complex number w (NewP1);
//	  - P2 / LocalP2: two reals (s, q) (NewP2), optionally with the
//	    square-root parameterization twist exp((s + iq)H);
//	  - K3: a B-field coordinate per basis class and a volume ω > 0 (NewK3).
//
//	The central charge reads only the Chern character:
//	  P1:  Z = ∫ ch·(−1 + wH)
//	  P2:  Z = ∫ ch·(−1 + iH + (q − is)H²)      or ∫ ch·exp((s + iq)H)
//	  K3:  Z = −(∫ ch·exp(−(B + iωH)) + ch₀)
//
// ✨ Key features:
//   - CentralCharge / ChargeOf: Z of objects and raw characters.
//   - HarderNarasimhan: explicit per-variant dispatch (line bundles,
//     sheaves, numerical classes, graded coproducts, spherical twists),
//     memoized per condition by object key.
//   - Phase / IsSemistable: phase queries refuse unstable objects with an
//     *UnstableError.
//   - Mass: ∑ mᵢ·|Z(factorᵢ)| over the HN filtration.
//   - K3 destabilizer search for line bundles on Picard rank ≥ 2 inside the
//     tilted heart A_{B,ω} (torsion regime T and torsion-free regime F).
//
// ⚠️ Phase conventions
//
//	Sheaves use the principal branch (−1, 1]; numerical classes without
//	heart information are normalized into (0, 2]. Shifts add integers, so
//	φ(X[n]) = φ(X) + n and Z(X[n]) = (−1)ⁿ Z(X).
//
// ⚙️ Usage:
//
//	sc, _ := stability.NewP2(ctx, 0.5, 0.9)
//	hn, _ := sc.HarderNarasimhan(obj)
//	m, _ := sc.Mass(obj)
//
// Conditions are safe for concurrent use; RHom work is delegated to an
// *rhom.Engine (rhom.Shared by default, see WithRHomEngine).
package stability
