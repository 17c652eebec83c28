// Package rhom computes graded dimensions of derived homomorphisms
// RHom(A, B) between objects of package derived.
//
// 🚀 Conventions
//
//	The result is a derived.Dims map j ↦ dim Ext^{-j}(A, B), so that
//	RHom(A, B) ≅ ⊕ⱼ ℂ^{d_j}[j]. Zero entries are omitted.
//
// ✨ Dispatch (explicit, per variant):
//   - zero on either side: {}.
//   - graded coproducts: additive, RHom(X[s], Y) = RHom(X, Y)[−s] and
//     RHom(X, Y[s]) = RHom(X, Y)[+s], multiplicities scale values.
//   - line bundle → line bundle: closed forms per category (LineBundleDims).
//   - anything → spherical twist: long exact sequence of the defining
//     triangle, resolved degree by degree (Resolve).
//   - spherical twist → line bundle: Serre duality in the Calabi–Yau
//     dimension d of the category, RHom(A, B)_j = RHom(B, A)_{−d−j}.
//
// ⚠️ Refusals
//
//	Resolve never guesses: four consecutive non-zero rows, a negative
//	solution or a conflicting overwrite return a *ResolutionError carrying
//	the offending degree and a three-row excerpt. A K3 base case whose
//	divisor is neither effective nor anti-effective returns an
//	*EffectivenessError.
//
// ⚙️ Usage:
//
//	e := rhom.NewEngine()
//	d, err := e.RHom(l1, tw)     // derived.Dims
//
// Engines memoize results by the structural keys of both arguments and are
// safe for concurrent use. Shared returns a process-wide engine.
package rhom
