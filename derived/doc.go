// Package derived is a small, closed vocabulary of objects in the bounded
// derived category of a geometry.Context.
//
// 🚀 Variants (explicit sum type, see Kind):
//
//	Zero            0
//	Numerical       an object known only through its Chern character
//	Sheaf           coherent sheaf (rank, c₁, c₂)
//	LineBundle      𝒪(D), interned on (D, context)
//	GradedCoproduct ⊕ᵢ Oᵢ[sᵢ]^{mᵢ}, normalized and interned
//	SphericalTwist  [L₀, L₁, …, L_k] = Tw_{L_k} ∘ … ∘ Tw_{L₁}(L₀), interned
//
// plus the Triangle A → B → C → A[1] and the graded dimension map Dims.
//
// ✨ Key features:
//   - ChernCharacter is additive on triangles: ch(B) = ch(A) + ch(C).
//   - Shift(n) on sheaves and twists wraps the object in a one-summand coproduct;
//     on Numerical it multiplies the character by (-1)ⁿ.
//   - SphericalTwist exposes a cached DefiningTriangle and CanonicalTriangles,
//     computed through an RHomer so this package stays independent of the
//     long-exact-sequence engine.
//   - EulerCharacteristic gives χ(A, B) numerically (no sequence chasing).
//
// ⚙️ Usage:
//
//	ctx, _ := geometry.K3OfDegree(3)
//	l1, _ := derived.LineBundleOf(ctx, "H")
//	l3, _ := derived.LineBundleOf(ctx, "3H")
//	tw, _ := derived.NewSphericalTwist(l1, l3)   // Tw_{𝒪(3H)} 𝒪(H)
//	tri, _ := tw.DefiningTriangle(engine)        // 𝒪(3H)^{⊕14} → 𝒪(H) → tw
//
// Concurrency: interning tables and per-twist caches are mutex-guarded;
// objects are immutable once built and may be shared freely.
package derived
