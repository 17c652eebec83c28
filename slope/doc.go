// Package slope implements μ-stability of coherent sheaves against the
// polarization H of a geometry context.
//
// 🚀 What is slope stability?
//
//	For a class with rank r and first Chern class c₁ the slope is
//	μ = ∫c₁·H^{n−1} / r. Torsion classes (r = 0) have slope +∞.
//	A sheaf is μ-semistable when no subsheaf has strictly larger slope.
//
// ✨ Key features:
//   - Slope, Phase: classical slope and its phase arg(−deg + i·r)/π in (0, 2];
//     rank-0 classes sit at phase 1.
//   - TiltedSlope, InTorsionPart: the B-field/volume twisted slope
//     μ_{B,ω} = ∫(c₁ − rB)·ωH / r deciding the torsion pair (T, F) of the
//     tilted heart on a surface.
//   - HarderNarasimhan: μ-HN factors of line bundles (destabilizing
//     effective sub-classes E ≤ D on higher Picard rank) and sheaves.
//
// ⚙️ Usage:
//
//	mu, _ := slope.Slope(ctx, l.ChernCharacter())
//	in, _ := slope.InTorsionPart(ctx, l.ChernCharacter(), b, 2.0)
//	hn, _ := slope.HarderNarasimhan(l)
package slope
