package chern_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustParse is a test helper failing fast on parse errors.
func mustParse(t *testing.T, r *chern.Ring, expr string) *chern.Poly {
	t.Helper()
	p, err := r.Parse(expr)
	require.NoError(t, err, "parse %q", expr)

	return p
}

// TestNewRing_Validation checks dimension and basis preconditions.
func TestNewRing_Validation(t *testing.T) {
	_, err := chern.NewRing(-1, "H")
	assert.ErrorIs(t, err, chern.ErrNegativeDimension)

	_, err = chern.NewRing(1, "H", "H")
	assert.ErrorIs(t, err, chern.ErrDuplicateSymbol)

	_, err = chern.NewRing(1, "2H")
	assert.ErrorIs(t, err, chern.ErrSyntax)

	r, err := chern.NewRing(2, "H1", "H2")
	require.NoError(t, err)
	assert.Equal(t, []string{"H1", "H2"}, r.Basis())
	assert.Equal(t, 2, r.Dim())
	assert.Equal(t, 1, r.Index("H2"))
	assert.Equal(t, -1, r.Index("X"))
}

// TestPoly_Arithmetic exercises Add/Sub/Mul with truncation.
func TestPoly_Arithmetic(t *testing.T) {
	r, err := chern.NewRing(2, "a", "b")
	require.NoError(t, err)

	sq := mustParse(t, r, "(a+b)^2")
	assert.Equal(t, "a^2 + 2*a*b + b^2", sq.String())

	p := mustParse(t, r, "1 + a")
	q := mustParse(t, r, "1 - a")
	prod, err := p.Mul(q)
	require.NoError(t, err)
	assert.Equal(t, "1 - a^2", prod.String())

	sum, err := p.Add(q)
	require.NoError(t, err)
	assert.Equal(t, "2", sum.String())

	diff, err := p.Sub(p)
	require.NoError(t, err)
	assert.True(t, diff.IsZero())
	assert.Equal(t, "0", diff.String())

	// degree 3 vanishes in a dimension-2 ring
	cube, err := mustParse(t, r, "a").Pow(3)
	require.NoError(t, err)
	assert.True(t, cube.IsZero())
}

// TestPoly_Mismatch ensures arithmetic refuses incompatible rings.
func TestPoly_Mismatch(t *testing.T) {
	rh, _ := chern.NewRing(2, "H")
	rd, _ := chern.NewRing(2, "D")
	r1, _ := chern.NewRing(1, "H")

	_, err := mustParse(t, rh, "H").Add(mustParse(t, rd, "D"))
	assert.ErrorIs(t, err, chern.ErrMismatchedBasis)

	_, err = mustParse(t, rh, "H").Mul(mustParse(t, r1, "H"))
	assert.ErrorIs(t, err, chern.ErrMismatchedDimension)
}

// TestPoly_DegreeQueries covers Degree, Scalar, Coeff, Contains and TopDegree.
func TestPoly_DegreeQueries(t *testing.T) {
	r, _ := chern.NewRing(2, "H")
	p := mustParse(t, r, "1 + 2H + 2H^2")

	assert.Equal(t, "2*H", p.Degree(1).String())
	assert.Equal(t, "2*H^2", p.Degree(2).String())
	assert.True(t, p.Degree(5).IsZero())
	assert.Equal(t, 0, p.Scalar().Cmp(big.NewRat(1, 1)))
	assert.Equal(t, 2, p.TopDegree())

	h2, err := r.Monomial("H", "H")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Coeff(h2).Cmp(big.NewRat(2, 1)))

	assert.True(t, p.Contains(mustParse(t, r, "2H")))
	assert.False(t, p.Contains(mustParse(t, r, "H")))
	assert.True(t, p.IsHomogeneous(2) == false)
	assert.True(t, p.Degree(1).IsHomogeneous(1))
}

// TestPoly_Setters checks in-place coefficient replacement.
func TestPoly_Setters(t *testing.T) {
	r, _ := chern.NewRing(2, "H")
	p := mustParse(t, r, "1 + 2H + 2H^2")

	require.NoError(t, p.SetDegree(2, mustParse(t, r, "3H^2")))
	assert.Equal(t, "1 + 2*H + 3*H^2", p.String())

	assert.ErrorIs(t, p.SetDegree(2, mustParse(t, r, "H")), chern.ErrNotHomogeneous)

	p.SetScalar(big.NewRat(4, 1))
	assert.Equal(t, "4 + 2*H + 3*H^2", p.String())

	h3 := chern.Monomial{3}
	assert.ErrorIs(t, p.SetCoeff(h3, big.NewRat(1, 1)), chern.ErrNotPolynomial)
	assert.ErrorIs(t, p.SetCoeff(chern.Monomial{1, 0}, big.NewRat(1, 1)), chern.ErrMismatchedBasis)

	require.NoError(t, p.SetCoeff(chern.Monomial{1}, new(big.Rat)))
	assert.Equal(t, "4 + 3*H^2", p.String())
}

// TestPoly_EqualKey verifies equality and cache keys.
func TestPoly_EqualKey(t *testing.T) {
	r, _ := chern.NewRing(2, "H")
	a := mustParse(t, r, "H + 1")
	b := mustParse(t, r, "1 + H")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())

	other, _ := chern.NewRing(2, "H")
	assert.True(t, a.Equal(mustParse(t, other, "1+H")), "structurally equal rings compare equal")
	assert.False(t, a.Equal(mustParse(t, r, "1")))
}

// TestExp covers the line-bundle character and its precondition.
func TestExp(t *testing.T) {
	r, _ := chern.NewRing(2, "H")

	ch, err := chern.Exp(mustParse(t, r, "2H"))
	require.NoError(t, err)
	assert.Equal(t, "1 + 2*H + 2*H^2", ch.String())

	ch, err = chern.Exp(mustParse(t, r, "H"))
	require.NoError(t, err)
	assert.Equal(t, "1 + H + 1/2*H^2", ch.String())

	ch, err = chern.Exp(r.Zero())
	require.NoError(t, err)
	assert.Equal(t, "1", ch.String())

	_, err = chern.Exp(mustParse(t, r, "1 + H"))
	assert.ErrorIs(t, err, chern.ErrNotLinear)

	_, err = chern.Exp(mustParse(t, r, "H^2"))
	assert.ErrorIs(t, err, chern.ErrNotLinear)

	r3, _ := chern.NewRing(3, "H")
	ch, err = chern.Exp(mustParse(t, r3, "-3H"))
	require.NoError(t, err)
	assert.Equal(t, "1 - 3*H + 9/2*H^2 - 9/2*H^3", ch.String())
}

// TestLinearHelpers covers Linear and LinearCoefficients.
func TestLinearHelpers(t *testing.T) {
	r, _ := chern.NewRing(2, "a", "b")
	l, err := r.LinearInt(2, -1)
	require.NoError(t, err)
	assert.Equal(t, "2*a - b", l.String())

	cs := l.LinearCoefficients()
	require.Len(t, cs, 2)
	assert.Equal(t, "2", cs[0].RatString())
	assert.Equal(t, "-1", cs[1].RatString())

	_, err = r.LinearInt(1)
	assert.ErrorIs(t, err, chern.ErrMismatchedBasis)
}
