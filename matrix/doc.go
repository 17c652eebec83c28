// Package matrix provides the row-major float64 grid used to hold sampled
// mass surfaces, with NaN-aware statistics and stencil operators.
//
// 🚀 What is here?
//
//	Dense is an r×c matrix stored in one flat slice. Entries may be NaN to
//	mark cells that were excluded or failed; every statistic skips them.
//
// ✨ Key features:
//   - Dense: NewDense, NewFilled, At/Set with bounds checks, Row, Clone.
//   - FiniteMean, FiniteStd, FiniteCount: population statistics over finite
//     entries only.
//   - Laplacian4: the four-neighbour discrete Laplacian
//     Δ(i,j) = m(i−1,j) + m(i+1,j) + m(i,j−1) + m(i,j+1) − 4·m(i,j),
//     NaN on the border and wherever a neighbour is not finite.
//
// ⚠️ Indexers return ErrOutOfRange instead of panicking; nil receivers and
// arguments yield ErrNilMatrix.
//
// ⚙️ Usage:
//
//	m, _ := matrix.NewDense(3, 3)
//	_ = m.Set(1, 1, 2.0)
//	lap, _ := matrix.Laplacian4(m)
//	mean, _ := matrix.FiniteMean(lap)
package matrix
