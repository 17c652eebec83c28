// Package chern implements the truncated graded polynomial ring in which
// Chern characters live.
//
// 🚀 What is a Chern polynomial?
//
//	A polynomial p in an ordered list of basis divisor symbols b₁,…,b_r whose
//	total degree never exceeds the variety dimension n. Products are taken
//	in the truncated ring ℚ[b₁,…,b_r]/(deg > n), so
//
//	  ch(𝒪(D)) = exp(D) = 1 + D + ½D² (+ …) truncated at degree n.
//
// ✨ Key features:
//   - Ring: validated (dimension, basis) pair shared by all polynomials
//   - Poly: exact rational coefficients (math/big), memoized degree index
//   - Parse: symbolic input such as "1 + 3H + 9/2*H^2" or "a*b - 2b^2"
//   - Exp: ∑_{k≤n} ℓᵏ/k! for a linear ℓ
//   - CPoly: complex-coefficient twin used for twist characters exp(B+iωH)
//
// ⚙️ Usage:
//
//	r, _ := chern.NewRing(2, "H")
//	d, _ := r.Parse("2H")
//	ch, _ := chern.Exp(d)     // 1 + 2*H + 2*H^2
//	top := ch.Degree(2)       // 2*H^2
//
// Arithmetic between polynomials requires identical basis and dimension;
// violations return ErrMismatchedBasis or ErrMismatchedDimension.
package chern
